package api

import (
	"context"
	"fmt"
	"log"

	"snakebite-dashboard/internal/api/handler"
	"snakebite-dashboard/internal/config"
	"snakebite-dashboard/internal/metrics"
	"snakebite-dashboard/internal/store"
)

// Serve connects to the database, installs the Prometheus backend and serves
// the API on cfg.Addr until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config) error {
	prom, err := metrics.NewPrometheus()
	if err != nil {
		return fmt.Errorf("failed to set up metrics: %w", err)
	}
	metrics.SetBackend(prom)
	defer metrics.SetBackend(nil)

	db, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		// Unreachable is not fatal: the pool, and the table when auto_migrate
		// is set, are built on first use.
		log.Printf("⚠️ Database not reachable at startup: %v", err)
		if db == nil {
			return err
		}
	}
	defer db.Close()

	h := handler.NewSnakebiteHandler(db, handler.Options{
		BatchSize:      cfg.BatchSize,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Production:     cfg.IsProduction(),
	})
	r := NewRouter(h, prom.Handler())

	log.Printf("🌐 Swagger UI at http://localhost%s/swagger/index.html", cfg.Addr)
	return r.Start(ctx, cfg.Addr)
}
