// Package server wires the HTTP surface: routing, CORS, static uploads,
// and the JSON error contract.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/mercato-app/mercato/internal/auth"
	"github.com/mercato-app/mercato/internal/config"
	"github.com/mercato-app/mercato/internal/products"
)

// Server owns the fiber app and its route registrations.
type Server struct {
	app  *fiber.App
	addr string
}

// New builds the HTTP server. Uploaded images are served read-only from
// the upload directory under /static.
func New(cfg *config.Config, auther auth.Authenticator, catalog *products.Service, logger Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "mercato",
		ErrorHandler: renderError(logger),
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowOrigins, ","),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	app.Static("/static", cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	protected := RequireAuth(auther)

	authController := NewAuthController(auther, logger)
	authController.Debug = cfg.Debug
	authController.RegisterRoutes(app.Group("/auth"), protected)

	productsController := NewProductsController(catalog, logger)
	productsController.Debug = cfg.Debug
	productsController.RegisterRoutes(app.Group("/products"), protected)

	return &Server{
		app:  app,
		addr: cfg.HTTPAddr,
	}
}

// App exposes the fiber app, used by tests to drive requests in-process.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving requests until Shutdown is called.
func (s *Server) Listen() error {
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server, letting in-flight requests finish.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
