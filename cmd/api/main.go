package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mediapi/docs"
	"mediapi/internal/config"
	"mediapi/internal/database"
	"mediapi/internal/database/migration"
	handlers "mediapi/internal/http/handler"
	"mediapi/internal/http/middleware"
	"mediapi/internal/media"
	"mediapi/internal/otel"
	"mediapi/internal/repository/postgres"
	"mediapi/internal/service"
	"mediapi/internal/storage"
)

// @title Media API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Select the blob backend: local disk owns the category layout by default,
	// S3-compatible object storage (MinIO-supported) when configured.
	var store storage.Storage
	switch cfg.Storage.Backend {
	case "s3":
		store, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	default:
		local := storage.NewLocal(cfg.Storage.Root, cfg.Storage.PublicBase)
		if err := local.Initialize(); err != nil {
			log.Fatalf("failed to initialize local storage: %v", err)
		}
		store = local
	}

	// Initialize repository and the ingestion pipeline service
	mediaRepo := postgres.NewMediaPostgres(db)
	mediaSvc := service.NewMediaService(store, mediaRepo, service.Options{
		MaxUploadBytes:   cfg.Pipeline.MaxUploadBytes,
		Transcoder:       media.NewTranscoder(cfg.Pipeline.ImageMaxDimension, float32(cfg.Pipeline.ImageQuality)),
		Thumbnailer:      media.NewThumbnailer(cfg.Pipeline.ThumbnailSize, float32(cfg.Pipeline.ThumbnailQuality)),
		TranscodeWorkers: cfg.Pipeline.TranscodeWorkers,
		TranscodeTimeout: time.Duration(cfg.Pipeline.TranscodeTimeoutSec) * time.Second,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Leave headroom over the payload cap for multipart framing; the
		// pipeline still enforces the exact byte limit per file.
		BodyLimit: int(cfg.Pipeline.MaxUploadBytes) + 1<<20,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, mediaSvc, promMiddleware.ObserveIngest)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
