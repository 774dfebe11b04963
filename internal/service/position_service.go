package service

import (
	"log"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/model"
)

// PositionService normalizes raw gateway positions for one account.
type PositionService struct{}

// NewPositionService creates a new PositionService.
func NewPositionService() *PositionService {
	return &PositionService{}
}

// Normalize converts raw position entries into Position records, recomputing
// the cost basis of every line as quantity * average cost.
//
// The cost basis is never taken verbatim from the gateway because upstream
// may omit or mistype it. When quantity or average cost cannot be parsed the
// record is still emitted with a zero cost basis: a single malformed
// position must not drop the position or abort the batch, so the output
// always has the same length and order as the input.
func (s *PositionService) Normalize(accountID string, raw []gateway.RawPosition) []model.Position {
	positions := make([]model.Position, len(raw))

	for i, entry := range raw {
		quantity, quantityDefaulted := parseAmount(entry.Position)
		averageCost, costDefaulted := parseAmount(entry.AvgCost)

		costBasis := quantity * averageCost
		if quantityDefaulted || costDefaulted {
			costBasis = 0
			log.Printf("account %s: malformed numeric field on conid %d, cost basis defaulted to 0", accountID, entry.Conid)
		}

		positions[i] = model.Position{
			Conid:       entry.Conid,
			Description: entry.ContractDesc,
			Quantity:    quantity,
			AverageCost: averageCost,
			CostBasis:   costBasis,
		}
	}

	return positions
}
