package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/galerie-com/move/internal/adapter/httpapi"
	"github.com/galerie-com/move/internal/adapter/suirpc"
	"github.com/galerie-com/move/internal/usecase/catalog"
	"github.com/galerie-com/move/internal/usecase/holdings"
	"github.com/galerie-com/move/internal/usecase/metadata"
	"github.com/galerie-com/move/internal/usecase/supply"
	"github.com/galerie-com/move/pkg/config"
	"github.com/galerie-com/move/pkg/logger"
	"github.com/galerie-com/move/pkg/metrics"
)

func main() {
	// 1. Load configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "galerie-reconciler",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := context.Background()

	// 2. Initialize the full-node client (all four reader roles)
	node := suirpc.New(cfg.Ledger.RPCURL, cfg.Ledger.RequestTimeout)

	// 3. Initialize services (use cases)
	resolver := metadata.NewResolver(node, node, node, cfg.Contracts.BasePackage)
	resolver.ScanLimit = cfg.Catalog.TxScanLimit

	calculator := supply.NewCalculator(node, node, cfg.Contracts.PurchasedEventType())
	calculator.EventScanLimit = cfg.Catalog.EventScanLimit

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reconcilerMetrics := metrics.NewReconcilerMetrics(registry)

	catalogService := catalog.NewService(
		node, node, node,
		resolver, calculator, reconcilerMetrics,
		cfg.Contracts.SaleStartedEventType(),
		cfg.Contracts.TemplatePackage,
	)
	catalogService.EventLimit = cfg.Catalog.EventScanLimit
	catalogService.FanOut = cfg.Catalog.FanOut

	holdingsAggregator := holdings.NewAggregator(node, node)

	// 4. Start HTTP server
	readiness := &httpapi.Readiness{
		Checks: []httpapi.Check{
			{Name: "ledger", Probe: func(ctx context.Context) error {
				_, err := node.QueryEvents(ctx, cfg.Contracts.SaleStartedEventType(), 1)
				return err
			}},
		},
	}

	handler := httpapi.NewHandler(catalogService, holdingsAggregator, logg)
	router := httpapi.NewRouter(handler, logg, readiness, registry)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(ctx, server, logg, cfg.App.ShutdownTimeout)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(ctx context.Context, server *http.Server, logg *logger.Logger, timeout time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "http server shutdown failed", err)
		return
	}
	logg.Info(ctx, "http server stopped")
}
