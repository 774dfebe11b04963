package service

import (
	"slices"
	"sort"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/model"
)

// AggregationService merges normalized per-account data into one
// consolidated summary and position list.
type AggregationService struct{}

// NewAggregationService creates a new AggregationService.
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// Aggregate folds every account's summary and positions into consolidated
// totals. The fold is commutative and associative over per-account
// contributions, so the order accounts were fetched in never affects the
// result; accounts are still processed in sorted ID order to keep the
// last-write-wins currency deterministic.
//
// Accounts whose record is nil (a fully failed fetch) are skipped entirely
// rather than summed as zero, so a partial upstream failure degrades the
// totals gracefully instead of corrupting them. Aggregation itself never
// fails: it always returns a (possibly empty) result.
//
// No currency conversion is performed. The summary currency is the one from
// the last account processed; when accounts disagree, CurrencyWarning is set
// because the summed totals are not meaningful across currencies.
func (s *AggregationService) Aggregate(accounts map[string]*model.AccountData) (model.AggregatedSummary, []model.AggregatedPosition) {
	summary := model.AggregatedSummary{Currency: "USD"}

	accountIDs := make([]string, 0, len(accounts))
	for accountID := range accounts {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Strings(accountIDs)

	byConid := make(map[int]*model.AggregatedPosition)
	currencies := make(map[string]struct{})

	for _, accountID := range accountIDs {
		data := accounts[accountID]
		if data == nil {
			continue
		}

		summary.NetLiquidation += data.Summary.NetLiquidation
		summary.RealizedPnl += data.Summary.RealizedPnl
		summary.Cash += data.Summary.Cash
		summary.BuyingPower += data.Summary.BuyingPower
		if data.Summary.Currency != "" {
			summary.Currency = data.Summary.Currency
			currencies[data.Summary.Currency] = struct{}{}
		}

		for _, position := range data.Positions {
			aggregated, ok := byConid[position.Conid]
			if !ok {
				aggregated = &model.AggregatedPosition{
					Conid:             position.Conid,
					Description:       position.Description,
					HoldingsByAccount: make(map[string]float64),
				}
				byConid[position.Conid] = aggregated
			}

			aggregated.TotalQuantity += position.Quantity
			aggregated.TotalCostBasis += position.CostBasis
			aggregated.HoldingsByAccount[accountID] += position.Quantity
		}
	}

	if len(currencies) > 1 {
		summary.CurrencyWarning = "accounts use multiple currencies; totals are summed without conversion"
	}

	positions := make([]model.AggregatedPosition, 0, len(byConid))
	for _, aggregated := range byConid {
		// Average cost is computed once, after all accounts are folded in.
		if aggregated.TotalQuantity != 0 {
			aggregated.AverageCost = aggregated.TotalCostBasis / aggregated.TotalQuantity
		}
		positions = append(positions, *aggregated)
	}

	slices.SortFunc(positions, func(a, b model.AggregatedPosition) int {
		return a.Conid - b.Conid
	})

	return summary, positions
}
