package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/service"
)

// PricesHandler handles market data snapshot HTTP requests
type PricesHandler struct {
	priceService *service.PriceService
}

// NewPricesHandler creates a new PricesHandler
func NewPricesHandler(priceService *service.PriceService) *PricesHandler {
	return &PricesHandler{
		priceService: priceService,
	}
}

// Prices returns price snapshots for a comma-separated list of contract IDs.
// Non-numeric entries are skipped. An empty list yields an empty object.
func (h *PricesHandler) Prices(w http.ResponseWriter, r *http.Request) {
	conids := parseConids(r.URL.Query().Get("conids"))
	if len(conids) == 0 {
		response.RespondJSON(w, http.StatusOK, map[int]interface{}{})
		return
	}

	prices := h.priceService.GetPrices(r.Context(), conids)
	response.RespondJSON(w, http.StatusOK, prices)
}

// parseConids splits a comma-separated conid list, dropping blanks and
// entries that fail to parse as integers.
func parseConids(raw string) []int {
	var conids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		conid, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		conids = append(conids, conid)
	}
	return conids
}
