package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"snakebite-dashboard/internal/api"
	"snakebite-dashboard/internal/config"
)

// @title Snakebite Dashboard API
// @version 1.0
// @description Case records, chart series and CSV import/export for the snakebite dashboard.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.Serve(ctx, cfg); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}
