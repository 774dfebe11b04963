package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/IBKR-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/config"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(gatewayClient gateway.Client, dashboardService *service.DashboardService, priceService *service.PriceService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(gatewayClient)
			r.Get("/health", systemHandler.Health)
			r.Get("/auth", systemHandler.Auth)
		})

		dashboardHandler := handlers.NewDashboardHandler(dashboardService)
		r.Get("/accounts", dashboardHandler.Accounts)
		r.Get("/accounts/{accountId}/performance", dashboardHandler.AccountPerformance)
		r.Get("/dashboard", dashboardHandler.Dashboard)

		pricesHandler := handlers.NewPricesHandler(priceService)
		r.Get("/prices", pricesHandler.Prices)
	})

	return r
}
