package testutil

import (
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
)

// CreateSummary builds a raw summary with the four fields the dashboard
// reads, all denominated in the given currency.
func CreateSummary(currency string, netLiq, realizedPnl, cash, buyingPower float64) gateway.RawSummary {
	return gateway.RawSummary{
		"netliquidation": {Amount: netLiq, Currency: currency},
		"realizedpnl":    {Amount: realizedPnl, Currency: currency},
		"cashbalance":    {Amount: cash, Currency: currency},
		"buyingpower":    {Amount: buyingPower, Currency: currency},
	}
}

// CreatePosition builds a raw position row.
func CreatePosition(conid int, desc string, qty, avgCost float64) gateway.RawPosition {
	return gateway.RawPosition{
		Conid:        conid,
		ContractDesc: desc,
		Position:     qty,
		AvgCost:      avgCost,
	}
}

// CreatePerformance builds a raw performance payload where the cumulative
// return and NAV series share the given dates. Dates use the gateway's
// yyyymmdd layout, for example "20240102".
func CreatePerformance(dates []string, returns, navs []float64) gateway.RawPerformance {
	var perf gateway.RawPerformance
	perf.Cps.Dates = dates
	perf.Cps.Data = []struct {
		Returns []float64 `json:"returns"`
	}{
		{Returns: returns},
	}
	perf.Nav.Dates = dates
	perf.Nav.Data = []struct {
		Navs         []float64 `json:"navs"`
		BaseCurrency string    `json:"baseCurrency"`
	}{
		{Navs: navs, BaseCurrency: "USD"},
	}
	return perf
}
