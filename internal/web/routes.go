package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/cardsheet/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	configHandler := handlers.NewConfigHandler(s.config)
	scanHandler := handlers.NewScanHandler(s.config, s.loader)
	previewHandler := handlers.NewPreviewHandler(s.config, s.loader)
	exportHandler := handlers.NewExportHandler(s.config, s.jobManager, s.loader)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Short requests get a deadline; the SSE stream must not.
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(time.Minute))

			r.Get("/config", configHandler.Get)
			r.Post("/scan", scanHandler.Scan)
			r.Get("/preview", previewHandler.Get)

			// Exports (long-running operations)
			r.Post("/exports", exportHandler.Start)
			r.Get("/exports/{jobId}", exportHandler.Status)
			r.Delete("/exports/{jobId}", exportHandler.Cancel)
		})

		r.Get("/exports/{jobId}/events", exportHandler.Events)
	})
}
