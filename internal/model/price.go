package model

// PriceSnapshot is the latest market data for one contract.
// IsClose is true when the gateway returned a "C"-prefixed price, meaning
// the market is closed and Price is the prior close rather than a live last.
type PriceSnapshot struct {
	Price   string `json:"price"`
	Change  string `json:"change"`
	IsClose bool   `json:"isClose"`
}
