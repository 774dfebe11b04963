package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/service"
)

// DashboardHandler handles portfolio dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Accounts returns the list of account IDs visible to the gateway session
func (h *DashboardHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	ids, err := h.dashboardService.ListAccountIDs(r.Context())
	if err != nil {
		log.Printf("Failed to list accounts: %v", err)
		response.RespondError(w, http.StatusBadGateway, "Failed to list accounts", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": ids,
	})
}

// Dashboard returns per-account data plus portfolio-wide aggregates.
// Individual account failures degrade to partial data; the request fails
// only when the account list itself cannot be fetched.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		log.Printf("Failed to build dashboard: %v", err)
		response.RespondError(w, http.StatusBadGateway, "Failed to build dashboard", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dashboard)
}

// AccountPerformance returns the derived daily performance series for one account
func (h *DashboardHandler) AccountPerformance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	points, err := h.dashboardService.AccountPerformance(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidAccountID) {
			response.RespondError(w, http.StatusBadRequest, "Invalid account ID", nil)
			return
		}
		log.Printf("Failed to fetch performance for account %s: %v", accountID, err)
		response.RespondError(w, http.StatusBadGateway, "Failed to fetch performance", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"accountId":   accountID,
		"performance": points,
	})
}
