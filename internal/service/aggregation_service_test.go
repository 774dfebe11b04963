package service_test

import (
	"testing"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/model"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/service"
)

// TestAggregationService_Aggregate tests the cross-account consolidation.
//
// WHY: The consolidated view is the primary number users look at. Totals
// must equal the sum of per-account contributions, long and short legs of
// the same contract must net, and a fully failed account must vanish from
// the totals rather than show up as zero balances.
func TestAggregationService_Aggregate(t *testing.T) {
	svc := service.NewAggregationService()

	t.Run("merges the same contract across accounts", func(t *testing.T) {
		// Setup: account A long 10 @ 100, account B short 4 @ 90.
		accounts := map[string]*model.AccountData{
			"A": {
				Summary: model.AccountSummary{NetLiquidation: 1000, Currency: "USD"},
				Positions: []model.Position{
					{Conid: 265598, Description: "AAPL", Quantity: 10, AverageCost: 100, CostBasis: 1000},
				},
			},
			"B": {
				Summary: model.AccountSummary{NetLiquidation: 500, Currency: "USD"},
				Positions: []model.Position{
					{Conid: 265598, Description: "AAPL", Quantity: -4, AverageCost: 90, CostBasis: -360},
				},
			},
		}

		summary, positions := svc.Aggregate(accounts)

		if summary.NetLiquidation != 1500 {
			t.Errorf("NetLiquidation = %v, want 1500", summary.NetLiquidation)
		}
		if len(positions) != 1 {
			t.Fatalf("Expected 1 merged position, got %d", len(positions))
		}

		merged := positions[0]
		if merged.TotalQuantity != 6 {
			t.Errorf("TotalQuantity = %v, want 6", merged.TotalQuantity)
		}
		if merged.TotalCostBasis != 640 {
			t.Errorf("TotalCostBasis = %v, want 640", merged.TotalCostBasis)
		}
		// 640 / 6
		if !almostEqual(merged.AverageCost, 640.0/6.0) {
			t.Errorf("AverageCost = %v, want %v", merged.AverageCost, 640.0/6.0)
		}
		if merged.HoldingsByAccount["A"] != 10 || merged.HoldingsByAccount["B"] != -4 {
			t.Errorf("HoldingsByAccount = %v, want A:10 B:-4", merged.HoldingsByAccount)
		}
	})

	t.Run("per-account holdings sum to the merged quantity", func(t *testing.T) {
		accounts := map[string]*model.AccountData{
			"A": {Positions: []model.Position{{Conid: 1, Quantity: 3, CostBasis: 30}}},
			"B": {Positions: []model.Position{{Conid: 1, Quantity: 7, CostBasis: 70}}},
			"C": {Positions: []model.Position{{Conid: 1, Quantity: -2, CostBasis: -20}}},
		}

		_, positions := svc.Aggregate(accounts)

		if len(positions) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(positions))
		}
		var sum float64
		for _, qty := range positions[0].HoldingsByAccount {
			sum += qty
		}
		if sum != positions[0].TotalQuantity {
			t.Errorf("Holdings sum %v does not match TotalQuantity %v", sum, positions[0].TotalQuantity)
		}
	})

	t.Run("splitting positions across accounts does not change totals", func(t *testing.T) {
		// The same economic holdings, once in a single account and once
		// partitioned over two.
		whole := map[string]*model.AccountData{
			"A": {Positions: []model.Position{
				{Conid: 1, Quantity: 10, CostBasis: 1000},
				{Conid: 2, Quantity: 4, CostBasis: 800},
			}},
		}
		split := map[string]*model.AccountData{
			"A": {Positions: []model.Position{
				{Conid: 1, Quantity: 6, CostBasis: 600},
				{Conid: 2, Quantity: 4, CostBasis: 800},
			}},
			"B": {Positions: []model.Position{
				{Conid: 1, Quantity: 4, CostBasis: 400},
			}},
		}

		_, wholePositions := svc.Aggregate(whole)
		_, splitPositions := svc.Aggregate(split)

		if len(wholePositions) != len(splitPositions) {
			t.Fatalf("Position counts differ: %d vs %d", len(wholePositions), len(splitPositions))
		}
		for i := range wholePositions {
			w, s := wholePositions[i], splitPositions[i]
			if w.Conid != s.Conid || w.TotalQuantity != s.TotalQuantity ||
				w.TotalCostBasis != s.TotalCostBasis || !almostEqual(w.AverageCost, s.AverageCost) {
				t.Errorf("Conid %d totals differ across partitions: %+v vs %+v", w.Conid, w, s)
			}
		}
	})

	t.Run("nil account records are skipped", func(t *testing.T) {
		accounts := map[string]*model.AccountData{
			"A":      {Summary: model.AccountSummary{NetLiquidation: 100, Currency: "USD"}},
			"broken": nil,
		}

		summary, _ := svc.Aggregate(accounts)

		if summary.NetLiquidation != 100 {
			t.Errorf("NetLiquidation = %v, want 100", summary.NetLiquidation)
		}
	})

	t.Run("net zero quantity yields zero average cost", func(t *testing.T) {
		accounts := map[string]*model.AccountData{
			"A": {Positions: []model.Position{{Conid: 1, Quantity: 5, CostBasis: 500}}},
			"B": {Positions: []model.Position{{Conid: 1, Quantity: -5, CostBasis: -450}}},
		}

		_, positions := svc.Aggregate(accounts)

		if len(positions) != 1 {
			t.Fatalf("Expected 1 position, got %d", len(positions))
		}
		if positions[0].AverageCost != 0 {
			t.Errorf("AverageCost = %v, want 0 for a flat position", positions[0].AverageCost)
		}
	})

	t.Run("mixed currencies set the warning", func(t *testing.T) {
		accounts := map[string]*model.AccountData{
			"A": {Summary: model.AccountSummary{NetLiquidation: 100, Currency: "USD"}},
			"B": {Summary: model.AccountSummary{NetLiquidation: 200, Currency: "EUR"}},
		}

		summary, _ := svc.Aggregate(accounts)

		if summary.CurrencyWarning == "" {
			t.Error("Expected a currency warning for mixed-currency accounts")
		}
	})

	t.Run("single currency sets no warning", func(t *testing.T) {
		accounts := map[string]*model.AccountData{
			"A": {Summary: model.AccountSummary{Currency: "EUR"}},
			"B": {Summary: model.AccountSummary{Currency: "EUR"}},
		}

		summary, _ := svc.Aggregate(accounts)

		if summary.CurrencyWarning != "" {
			t.Errorf("Expected no warning, got %q", summary.CurrencyWarning)
		}
		if summary.Currency != "EUR" {
			t.Errorf("Currency = %q, want EUR", summary.Currency)
		}
	})

	t.Run("empty input yields empty result", func(t *testing.T) {
		summary, positions := svc.Aggregate(map[string]*model.AccountData{})

		if summary.NetLiquidation != 0 || len(positions) != 0 {
			t.Errorf("Expected zeroed result, got %+v and %d positions", summary, len(positions))
		}
	})

	t.Run("positions are sorted by conid", func(t *testing.T) {
		accounts := map[string]*model.AccountData{
			"A": {Positions: []model.Position{
				{Conid: 300, Quantity: 1},
				{Conid: 100, Quantity: 1},
				{Conid: 200, Quantity: 1},
			}},
		}

		_, positions := svc.Aggregate(accounts)

		if len(positions) != 3 {
			t.Fatalf("Expected 3 positions, got %d", len(positions))
		}
		for i := 1; i < len(positions); i++ {
			if positions[i-1].Conid > positions[i].Conid {
				t.Errorf("Positions not sorted by conid: %d before %d", positions[i-1].Conid, positions[i].Conid)
			}
		}
	})
}
