package server

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"

	"github.com/mercato-app/mercato/internal/auth"
	"github.com/mercato-app/mercato/internal/products"
)

// ProductsController exposes the listing endpoints. Reads are public,
// mutations require a logged-in owner. Payloads arrive as multipart forms
// because creates and updates can carry an image file.
type ProductsController struct {
	Debug   bool
	Logger  Logger
	Catalog *products.Service
}

func NewProductsController(catalog *products.Service, logger Logger) *ProductsController {
	return &ProductsController{
		Logger:  logger,
		Catalog: catalog,
	}
}

// RegisterRoutes mounts the product endpoints under r. protected guards
// the mutating routes.
func (p *ProductsController) RegisterRoutes(r fiber.Router, protected fiber.Handler) {
	r.Post("/", protected, p.Create)
	r.Get("/", p.List)
	r.Get("/:id", p.Get)
	r.Put("/:id", protected, p.Update)
	r.Delete("/:id", protected, p.Delete)
}

func (p *ProductsController) Create(c *fiber.Ctx) error {
	actor, err := CurrentUser(c)
	if err != nil {
		return err
	}

	title := c.FormValue("title")
	if title == "" {
		return goerrors.New("title is required", goerrors.CategoryValidation)
	}

	price, err := parsePrice(c.FormValue("price"))
	if err != nil {
		return err
	}

	header, err := c.FormFile("image")
	if err != nil {
		return products.ErrImageRequired
	}

	file, err := header.Open()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open uploaded image")
	}
	defer file.Close()

	input := products.CreateInput{
		Title:       title,
		Description: c.FormValue("description"),
		Price:       price,
		ImageName:   uploadName(actor.ID, header.Filename),
		Image:       file,
	}

	if p.Debug {
		fmt.Println("======= PRODUCT CREATE ======")
		fmt.Println(print.MaybePrettyJSON(fiber.Map{
			"title": input.Title,
			"price": input.Price,
			"image": header.Filename,
		}))
		fmt.Println("=============================")
	}

	product, err := p.Catalog.Create(c.UserContext(), actor, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(product.Out())
}

func (p *ProductsController) List(c *fiber.Ctx) error {
	records, err := p.Catalog.List(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]products.ProductOut, 0, len(records))
	for _, record := range records {
		out = append(out, record.Out())
	}

	return c.JSON(out)
}

func (p *ProductsController) Get(c *fiber.Ctx) error {
	id, err := parseProductID(c.Params("id"))
	if err != nil {
		return err
	}

	product, err := p.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(product.Out())
}

func (p *ProductsController) Update(c *fiber.Ctx) error {
	actor, err := CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := parseProductID(c.Params("id"))
	if err != nil {
		return err
	}

	input := products.UpdateInput{}

	form, err := c.MultipartForm()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "Invalid request body").
			WithCode(goerrors.CodeBadRequest)
	}

	if values, ok := form.Value["title"]; ok && len(values) > 0 {
		input.Title = auth.Set(values[0])
	}

	if values, ok := form.Value["description"]; ok && len(values) > 0 {
		input.Description = auth.Set(values[0])
	}

	if values, ok := form.Value["price"]; ok && len(values) > 0 {
		price, err := parsePrice(values[0])
		if err != nil {
			return err
		}
		input.Price = auth.Set(price)
	}

	if headers, ok := form.File["image"]; ok && len(headers) > 0 {
		file, err := headers[0].Open()
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open uploaded image")
		}
		defer file.Close()

		input.ImageName = uploadName(actor.ID, headers[0].Filename)
		input.Image = file
	}

	if _, err := p.Catalog.Update(c.UserContext(), actor, id, input); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
	})
}

func (p *ProductsController) Delete(c *fiber.Ctx) error {
	actor, err := CurrentUser(c)
	if err != nil {
		return err
	}

	id, err := parseProductID(c.Params("id"))
	if err != nil {
		return err
	}

	if err := p.Catalog.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// parseProductID treats an unparseable id the same as an unknown one, so
// probing with junk ids learns nothing.
func parseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, products.ErrProductNotFound
	}
	return id, nil
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		return 0, goerrors.New("price must be a non-negative number", goerrors.CategoryValidation)
	}
	return price, nil
}

// uploadName namespaces stored files per uploader and keeps the original
// extension visible.
func uploadName(ownerID uuid.UUID, original string) string {
	return fmt.Sprintf("%s_%s", ownerID.String(), original)
}
