package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"foldertoword/internal/config"
	"foldertoword/internal/service"
)

// Deps carries everything the routes need. DB and Gatherer may be nil.
type Deps struct {
	Mode      config.DeliveryMode
	Converter service.ConversionService
	Documents service.DocumentService
	Metrics   *service.Metrics
	DB        *sql.DB
	Gatherer  prometheus.Gatherer
	Log       zerolog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// The download route exists only in link mode.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/", UploadForm(d.Documents, d.Mode, d.Log))
	app.Post("/", ConvertArchive(d.Converter, d.Documents, d.Mode, d.Metrics, d.Log))

	if d.Mode == config.DeliveryLink {
		app.Get("/download/:id", DownloadDocument(d.Documents, d.Log))
	}
}
