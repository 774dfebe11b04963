package gateway

// RawAccount is one entry of the /portfolio/accounts response.
type RawAccount struct {
	AccountID   string `json:"accountId"`
	AccountVan  string `json:"accountVan,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// SummaryCell is one field of the /portfolio/{id}/summary response.
// Amount is left untyped because the gateway occasionally returns strings
// (or omits the field entirely) where a number is expected; parsing with a
// safe default happens in the service layer.
type SummaryCell struct {
	Amount   any    `json:"amount"`
	Currency string `json:"currency"`
}

// RawSummary is the full summary response, keyed by lowercase field names
// such as "netliquidation", "realizedpnl", "cashbalance" and "buyingpower".
type RawSummary map[string]SummaryCell

// RawPosition is one entry of the /portfolio/{id}/positions/{page} response.
// Position and AvgCost are untyped for the same reason as SummaryCell.Amount.
type RawPosition struct {
	Conid        int    `json:"conid"`
	ContractDesc string `json:"contractDesc"`
	Position     any    `json:"position"`
	AvgCost      any    `json:"avgCost"`
	Currency     string `json:"currency,omitempty"`
}

// RawPerformance is the /pa/performance response. The gateway returns the
// cumulative TWR series under "cps" and the net-asset-value series under
// "nav", each as a dates array plus a parallel per-account data array.
type RawPerformance struct {
	Cps struct {
		Dates []string `json:"dates"`
		Data  []struct {
			Returns []float64 `json:"returns"`
		} `json:"data"`
	} `json:"cps"`
	Nav struct {
		Dates []string `json:"dates"`
		Data  []struct {
			Navs         []float64 `json:"navs"`
			BaseCurrency string    `json:"baseCurrency"`
		} `json:"data"`
	} `json:"nav"`
}

// RawSnapshot is one entry of the /md/snapshot response. Market data fields
// are numeric tags: 31 is the last price (prefixed with "C" when it is a
// prior close), 83 is the day's change percentage.
type RawSnapshot struct {
	Conid  int `json:"conid"`
	Last   any `json:"31"`
	Change any `json:"83"`
}

// AuthStatus is the /iserver/auth/status response.
type AuthStatus struct {
	Connected     bool `json:"connected"`
	Authenticated bool `json:"authenticated"`
	Competing     bool `json:"competing"`
}
