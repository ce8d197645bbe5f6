package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/galerie-com/move/pkg/logger"
)

// NewRouter assembles the HTTP surface: health probes, the metrics
// endpoint and the versioned read API.
func NewRouter(h *Handler, logg *logger.Logger, readiness *Readiness, metricsReg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID(logg))
	r.Use(logging(logg))
	r.Use(recoverer(logg))
	r.Use(corsPolicy())

	r.Get("/health/live", healthLive())
	r.Get("/health/ready", healthReady(readiness, logg))

	if metricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sales", h.ListSales)
		r.Get("/sales/{id}", h.GetSale)
		r.Get("/sales/{id}/holdings", h.GetHoldings)
	})

	return r
}
