package model

import "time"

// DailyReturnPoint is one point of the upstream cumulative time-weighted
// return series. CumulativeReturn is a fraction compounding from an
// arbitrary base chosen by the gateway.
type DailyReturnPoint struct {
	Date             time.Time `json:"date"`
	CumulativeReturn float64   `json:"cumulativeReturn"`
}

// NavPoint is one point of the upstream net-asset-value series.
type NavPoint struct {
	Date time.Time `json:"date"`
	Nav  float64   `json:"nav"`
}

// DailyPerformancePoint is one derived day of performance.
// PnlAmount is only meaningful when HasPnl is true, which requires a NAV
// series aligned with the return series. Unreliable marks points where the
// previous cumulative return was at total loss and the daily TWR had to be
// computed against an epsilon floor.
type DailyPerformancePoint struct {
	Date       time.Time `json:"date"`
	DailyTwr   float64   `json:"dailyTwr"`
	PnlAmount  float64   `json:"pnlAmount,omitempty"`
	HasPnl     bool      `json:"hasPnl"`
	Unreliable bool      `json:"unreliable,omitempty"`
}
