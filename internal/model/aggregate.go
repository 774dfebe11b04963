package model

// AggregatedPosition is one instrument summed across every account that
// holds it, keyed by conid. Invariant: the sum of HoldingsByAccount values
// equals TotalQuantity.
type AggregatedPosition struct {
	Conid             int                `json:"conid"`
	Description       string             `json:"description,omitempty"`
	TotalQuantity     float64            `json:"totalQuantity"`
	TotalCostBasis    float64            `json:"totalCostBasis"`
	AverageCost       float64            `json:"averageCost"`
	HoldingsByAccount map[string]float64 `json:"holdingsByAccount"`
}

// AggregatedSummary is the component-wise sum of every account's summary.
// Currency is last-write-wins with no conversion: for mixed-currency users
// the monetary totals are not meaningful, and CurrencyWarning is set so the
// caller can surface that instead of trusting the numbers.
type AggregatedSummary struct {
	NetLiquidation  float64 `json:"netLiquidation"`
	RealizedPnl     float64 `json:"realizedPnl"`
	Cash            float64 `json:"cash"`
	BuyingPower     float64 `json:"buyingPower"`
	Currency        string  `json:"currency"`
	CurrencyWarning string  `json:"currencyWarning,omitempty"`
}

// Dashboard is the full consolidated view served to the presentation layer.
type Dashboard struct {
	Accounts  map[string]*AccountData `json:"accounts"`
	Summary   AggregatedSummary       `json:"summary"`
	Positions []AggregatedPosition    `json:"positions"`
}
