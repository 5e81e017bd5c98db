package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/printshop-service/internal/api/http/handlers"
	"github.com/spec-kit/printshop-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Files     *handlers.FilesHandler
	Clients   *handlers.ClientsHandler
	Dashboard *handlers.DashboardHandler
	Events    *handlers.EventsHandler
	Uploads   *handlers.UploadsHandler
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Post("/upload", cfg.Files.Upload)

	files := app.Group("/files")
	files.Get("/", cfg.Files.List)
	files.Get("/export", cfg.Files.Export)
	files.Patch("/:id", cfg.Files.Update)
	files.Put("/:id", cfg.Files.Update)

	app.Get("/clients", cfg.Clients.Search)
	app.Get("/dashboard/stats", cfg.Dashboard.Stats)
	app.Get("/events", cfg.Events.Stream)
	app.Get("/uploads/:name", cfg.Uploads.Download)
}
