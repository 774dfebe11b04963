package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/api/handlers"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/testutil"
)

// TestSystemHandler_Health tests the health endpoint.
//
// WHY: Deployment tooling and the frontend both probe this endpoint to
// decide whether the backend can serve data. An unreachable gateway must
// map to 503, not a 200 with misleading content.
func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy when the gateway responds", func(t *testing.T) {
		mock := testutil.NewMockGatewayClient()
		handler := handlers.NewSystemHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		rec := httptest.NewRecorder()
		handler.Health(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var body handlers.HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Status != "healthy" || !body.Authenticated {
			t.Errorf("Response = %+v, want healthy and authenticated", body)
		}
	})

	t.Run("unhealthy when the gateway is unreachable", func(t *testing.T) {
		mock := testutil.NewMockGatewayClient().WithError(errors.New("connection refused"))
		handler := handlers.NewSystemHandler(mock)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		rec := httptest.NewRecorder()
		handler.Health(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected status 503, got %d", rec.Code)
		}

		var body handlers.HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Status != "unhealthy" || body.Gateway != "unreachable" {
			t.Errorf("Response = %+v, want unhealthy/unreachable", body)
		}
	})
}

// TestSystemHandler_Auth tests the authentication polling endpoint.
func TestSystemHandler_Auth(t *testing.T) {
	tests := []struct {
		name       string
		configure  func(*testutil.MockGatewayClient)
		wantStatus string
	}{
		{
			name:       "connected session reports success",
			configure:  func(m *testutil.MockGatewayClient) {},
			wantStatus: "success",
		},
		{
			name: "disconnected session reports pending",
			configure: func(m *testutil.MockGatewayClient) {
				m.WithAuthStatus(gateway.AuthStatus{Connected: false})
			},
			wantStatus: "pending",
		},
		{
			name: "unreachable gateway reports pending",
			configure: func(m *testutil.MockGatewayClient) {
				m.WithError(errors.New("connection refused"))
			},
			wantStatus: "pending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockGatewayClient()
			tt.configure(mock)
			handler := handlers.NewSystemHandler(mock)

			req := httptest.NewRequest(http.MethodGet, "/api/system/auth", nil)
			rec := httptest.NewRecorder()
			handler.Auth(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rec.Code)
			}

			var body handlers.AuthStatusResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", body.Status, tt.wantStatus)
			}
		})
	}
}
