package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"

	"github.com/mercato-app/mercato/internal/auth"
	"github.com/mercato-app/mercato/internal/config"
	"github.com/mercato-app/mercato/internal/database"
	"github.com/mercato-app/mercato/internal/media"
	"github.com/mercato-app/mercato/internal/products"
	"github.com/mercato-app/mercato/internal/server"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("mercato"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	log := lgr.GetLogger("main")

	cfg := config.Load()

	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	auther := auth.NewAuthenticator(repo, cfg).
		WithLogger(lgr.GetLogger("auth"))

	images, err := media.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Error("upload store initialization failed", "error", err)
		os.Exit(1)
	}

	catalog := products.NewService(db, images).
		WithLogger(lgr.GetLogger("products"))

	srv := server.New(cfg, auther, catalog, lgr.GetLogger("http"))

	go func() {
		if err := srv.Listen(); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server listening", "addr", cfg.HTTPAddr)

	WaitExitSignal()

	if err := srv.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
