package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/model"
)

// PriceService fetches and normalizes market data snapshots.
type PriceService struct {
	gateway gateway.Client
}

// NewPriceService creates a new PriceService with the provided gateway client.
func NewPriceService(gatewayClient gateway.Client) *PriceService {
	return &PriceService{
		gateway: gatewayClient,
	}
}

// GetPrices fetches the latest price and daily change for a batch of
// contracts. Contracts the gateway returned nothing for are omitted from
// the result; a gateway failure degrades to an empty map rather than an
// error, matching the rest of the read path.
func (s *PriceService) GetPrices(ctx context.Context, conids []int) map[int]model.PriceSnapshot {
	if len(conids) == 0 {
		return map[int]model.PriceSnapshot{}
	}

	raw, err := s.gateway.GetPriceSnapshots(ctx, conids)
	if err != nil {
		log.Printf("price snapshot fetch failed: %v", err)
		return map[int]model.PriceSnapshot{}
	}

	prices := make(map[int]model.PriceSnapshot, len(raw))
	for _, conid := range conids {
		snapshot, ok := raw[conid]
		if !ok {
			continue
		}

		price, isClose := formatPrice(snapshot.Last)
		prices[conid] = model.PriceSnapshot{
			Price:   price,
			Change:  formatTag(snapshot.Change),
			IsClose: isClose,
		}
	}

	return prices
}

// formatPrice renders the gateway's last-price field. A "C" prefix means
// the market is closed and the value is the prior close; the prefix is
// stripped and reported through the isClose flag instead.
func formatPrice(raw any) (string, bool) {
	value := formatTag(raw)
	if strings.HasPrefix(value, "C") {
		return strings.TrimPrefix(value, "C"), true
	}
	return value, false
}

// formatTag renders a market data tag that may arrive as a string or a
// number, defaulting to "N/A" when absent.
func formatTag(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "N/A"
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
