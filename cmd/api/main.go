package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/OnteruYallaiah21/Getiva-app/internal/auth"
	"github.com/OnteruYallaiah21/Getiva-app/internal/config"
	"github.com/OnteruYallaiah21/Getiva-app/internal/database"
	"github.com/OnteruYallaiah21/Getiva-app/internal/database/migration"
	handlers "github.com/OnteruYallaiah21/Getiva-app/internal/http/handler"
	"github.com/OnteruYallaiah21/Getiva-app/internal/http/middleware"
	"github.com/OnteruYallaiah21/Getiva-app/internal/otel"
	"github.com/OnteruYallaiah21/Getiva-app/internal/repository"
	"github.com/OnteruYallaiah21/Getiva-app/internal/repository/csvfile"
	"github.com/OnteruYallaiah21/Getiva-app/internal/repository/postgres"
	"github.com/OnteruYallaiah21/Getiva-app/internal/service"
	"github.com/OnteruYallaiah21/Getiva-app/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.Local
	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Bind the persistence backend for the lifetime of the process.
	var (
		appRepo     repository.ApplicationRepository
		userRepo    repository.UserRepository
		storePinger handlers.StorePinger
	)
	switch cfg.Store.Backend {
	case "postgres":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		appRepo = postgres.NewApplicationPostgres(db)
		userRepo = postgres.NewUserPostgres(db)
		storePinger = db
	default:
		store, err := csvfile.NewStore(cfg.Store.DataDir)
		if err != nil {
			log.Fatalf("failed to open data dir: %v", err)
		}
		appRepo = csvfile.NewApplicationCSV(store)
		userRepo = csvfile.NewUserCSV(store)
		storePinger = store
	}

	// Bind the upload provider once at startup; local disk is the terminal
	// fallback.
	local, err := storage.NewLocal(cfg.Store.UploadsDir)
	if err != nil {
		log.Fatalf("failed to prepare uploads dir: %v", err)
	}
	provider := storage.Select(ctx, cfg, local)
	uploader := storage.NewUploader(provider, local)

	signer := auth.NewTokenSigner(cfg.Auth.Secret, cfg.Auth.SessionTTL)
	appSvc := service.NewApplicationService(appRepo, uploader, cfg.AllowedExtensions)
	userSvc := service.NewUserService(userRepo, appRepo)

	if err := userSvc.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatalf("failed to seed default admin: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	// Local-fallback uploads are served straight from disk.
	app.Static("/uploads", cfg.Store.UploadsDir)

	handlers.RegisterRoutes(app, storePinger, signer, appSvc, userSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
