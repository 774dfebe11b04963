package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/api"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/config"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create the gateway client
	portalClient := gateway.NewPortalClient(
		cfg.Gateway.BaseURL,
		cfg.Gateway.RequestTimeout,
		cfg.Gateway.RequestsPerSecond,
	)

	// Start the Client Portal gateway if it is not already running. A failure
	// here is not fatal: the user may authenticate later and the health
	// endpoint reports the gateway state.
	launcher := gateway.NewLauncher(cfg.Gateway.Home, portalClient)
	launchCtx, launchCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := launcher.EnsureRunning(launchCtx); err != nil {
		log.Printf("Gateway not ready at startup: %v", err)
	}
	launchCancel()

	// Create services
	positionService := service.NewPositionService()
	performanceService := service.NewPerformanceService()
	performanceCache := service.NewPerformanceCache(cfg.Dashboard.CacheTTL)
	aggregationService := service.NewAggregationService()
	dashboardService := service.NewDashboardService(
		portalClient,
		positionService,
		performanceService,
		performanceCache,
		aggregationService,
		cfg.Dashboard.MaxAccountConcurrency,
	)
	priceService := service.NewPriceService(portalClient)

	// Start the background cache refresh
	refreshService := service.NewRefreshService(dashboardService, cfg.Dashboard.RefreshSchedule)
	if err := refreshService.Start(); err != nil {
		log.Fatalf("Failed to start refresh scheduler: %v", err)
	}

	// Create router
	router := api.NewRouter(portalClient, dashboardService, priceService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	refreshService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
