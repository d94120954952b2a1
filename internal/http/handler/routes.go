package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"doctransform/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, templates service.TemplateService, transforms service.TransformService) {
	// Single-page UI
	app.Get("/", UIPage())

	// Health endpoints: /health checks DB connectivity, /healthz is liveness only
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Template management
	app.Get("/templates", ListTemplates(templates))
	app.Post("/templates", UploadTemplate(templates))
	app.Get("/templates/:id", GetTemplate(templates))
	app.Delete("/templates/:id", DeleteTemplate(templates))

	// Transform pipeline
	app.Post("/transform", CreateTransform(transforms))
	app.Get("/jobs", ListJobs(transforms))
	app.Get("/jobs/:id", GetJob(transforms))
	app.Get("/jobs/:id/download", DownloadOutput(transforms))
	app.Get("/jobs/:id/link", PresignOutputLink(transforms))
	app.Get("/jobs/:id/preview", PreviewOutput(transforms))
}
