package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "snakebite-dashboard/docs"
	"snakebite-dashboard/internal/api/handler"
	"snakebite-dashboard/pkg/router"
)

// RegisterRoutes wires the case endpoints, the health check, swagger UI and,
// when metricsHandler is non-nil, the Prometheus scrape endpoint.
func RegisterRoutes(r *router.Router, h *handler.SnakebiteHandler, metricsHandler http.Handler) {
	r.GET("/api/snakebite", h.GetCases)
	r.POST("/api/snakebite", h.ImportCases)
	// More specific routes first
	r.GET("/api/snakebite/series", h.GetSeries)
	r.GET("/api/snakebite/export", h.ExportCases)
	r.GET("/api/snakebite/chart/*", h.GetChart)

	r.GET("/health", h.Health)
	r.Mount("/swagger/", httpSwagger.WrapHandler)
	if metricsHandler != nil {
		r.Mount("/metrics", metricsHandler)
	}
}

// NewRouter builds a router with every route registered.
func NewRouter(h *handler.SnakebiteHandler, metricsHandler http.Handler) *router.Router {
	r := router.New()
	RegisterRoutes(r, h, metricsHandler)
	return r
}
