package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"devanalytics/internal/config"
	custommw "devanalytics/internal/middleware"
	"devanalytics/internal/services"
)

// Version is the server version reported by the health endpoints. It is
// overridden at build time via ldflags.
var Version = "dev"

// NewRouter builds the full API router with middleware and all handlers
// mounted.
func NewRouter(cfg *config.Config, service *services.DataService, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	metrics := custommw.NewHTTPMetrics(prometheus.DefaultRegisterer)

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))
	r.Use(custommw.StripSlashes)
	r.Use(custommw.Compress(5))
	r.Use(metrics.Handler)

	if cfg.Limits.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(cfg.Limits.RateLimit.RPS, cfg.Limits.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	datasetHandler := NewDatasetHandler(service, logger, cfg.Limits.MaxUploadBytes)
	analysisHandler := NewAnalysisHandler(service, logger)
	healthHandler := NewHealthHandler(Version)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/datasets", datasetHandler.Routes())
		r.Mount("/analysis", analysisHandler.Routes())
	})
	r.Mount("/healthz", healthHandler.Routes())
	r.Handle("/metrics", promhttp.Handler())

	return r
}
