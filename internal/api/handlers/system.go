package handlers

import (
	"net/http"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	gateway gateway.Client
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(gatewayClient gateway.Client) *SystemHandler {
	return &SystemHandler{
		gateway: gatewayClient,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Gateway       string `json:"gateway"`
	Authenticated bool   `json:"authenticated"`
	Error         string `json:"error,omitempty"`
}

// Health checks the health of the system and gateway connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.gateway.AuthStatus(r.Context())
	if err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unhealthy",
			Gateway: "unreachable",
			Error:   err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Gateway:       "connected",
		Authenticated: status.Connected && status.Authenticated,
	})
}

// AuthStatusResponse represents the authentication poll response.
// The frontend polls this endpoint while the user completes the brokerage
// login in a separate browser window.
type AuthStatusResponse struct {
	Status string `json:"status"`
}

// Auth reports whether the gateway session is authenticated.
// Returns status "success" once the session is connected, "pending" before.
func (h *SystemHandler) Auth(w http.ResponseWriter, r *http.Request) {
	status, err := h.gateway.AuthStatus(r.Context())
	if err != nil || !status.Connected {
		response.RespondJSON(w, http.StatusOK, AuthStatusResponse{Status: "pending"})
		return
	}

	response.RespondJSON(w, http.StatusOK, AuthStatusResponse{Status: "success"})
}
