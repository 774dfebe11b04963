package model

// AccountSummary represents the normalized balance summary for one account.
// Every monetary field defaults to 0 when the upstream cell is absent or
// malformed; a missing field must never fail the pipeline.
type AccountSummary struct {
	NetLiquidation float64 `json:"netLiquidation"`
	RealizedPnl    float64 `json:"realizedPnl"`
	Cash           float64 `json:"cash"`
	BuyingPower    float64 `json:"buyingPower"`
	Currency       string  `json:"currency"`
}

// Position represents one normalized position line within a single account.
// CostBasis is always recomputed locally as Quantity * AverageCost because
// the gateway may omit or mistype its own costBasis field.
type Position struct {
	Conid       int     `json:"conid"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	AverageCost float64 `json:"averageCost"`
	CostBasis   float64 `json:"costBasis"`
}

// AccountData bundles everything fetched for one account.
// Performance is nil when the account has no history or its performance
// fetch failed; summary and positions are populated independently of it.
type AccountData struct {
	Summary     AccountSummary          `json:"summary"`
	Positions   []Position              `json:"positions"`
	Performance []DailyPerformancePoint `json:"performance,omitempty"`
}
