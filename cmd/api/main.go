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

	"doctransform/docs"
	"doctransform/internal/agent"
	"doctransform/internal/config"
	"doctransform/internal/database"
	"doctransform/internal/database/migration"
	handlers "doctransform/internal/http/handler"
	"doctransform/internal/http/middleware"
	"doctransform/internal/llm"
	"doctransform/internal/otel"
	"doctransform/internal/repository/postgres"
	"doctransform/internal/search"
	"doctransform/internal/service"
	"doctransform/internal/storage"
)

// @title Document Transform API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Tracing first so every later init is covered
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// PostgreSQL connection (pooled via database/sql, instrumented via otelsql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// S3-compatible object storage for templates and rendered outputs
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// LLM and web-search clients driving the agent pipeline. A missing
	// LLM_API_KEY surfaces on the job at transform time; a missing
	// SERPER_API_KEY leaves the research task without web results.
	llmSvc, err := llm.New(cfg.LLM)
	if err != nil {
		log.Fatalf("failed to initialize llm client: %v", err)
	}
	var searchSvc search.Service
	if cfg.Search.APIKey != "" {
		searchSvc, err = search.NewSerper(cfg.Search)
		if err != nil {
			log.Fatalf("failed to initialize search client: %v", err)
		}
	} else {
		log.Print("SERPER_API_KEY is not set, research runs without web search")
	}
	pipeline := agent.NewPipeline(llmSvc, searchSvc)

	// Repositories and services
	templateRepo := postgres.NewTemplatePostgres(db)
	jobRepo := postgres.NewJobPostgres(db)
	templateSvc := service.NewTemplateService(objStore, templateRepo)
	transformSvc := service.NewTransformService(templateSvc, jobRepo, objStore, pipeline)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
		// The transform endpoint blocks for the duration of the pipeline run
		ReadTimeout: 10 * time.Minute,
	})

	// Global middleware: request IDs, JSON request logs, traces, metrics
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to initialize prometheus middleware: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, templateSvc, transformSvc)

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
