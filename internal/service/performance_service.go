package service

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/model"
)

// gatewayDateLayout is the YYYYMMDD format the gateway uses for series dates.
const gatewayDateLayout = "20060102"

// returnEpsilon is the floor applied to the compounding denominator when the
// previous cumulative return sits at exactly -1 (total loss). Dividing by
// zero would fault; dividing by the epsilon yields a number that is kept but
// flagged as unreliable.
const returnEpsilon = 1e-9

// PerformanceService converts the gateway's cumulative time-weighted-return
// series into daily TWR and, when a NAV series is available, into absolute
// daily P&L amounts.
type PerformanceService struct{}

// NewPerformanceService creates a new PerformanceService.
func NewPerformanceService() *PerformanceService {
	return &PerformanceService{}
}

// ParseSeries extracts the cumulative-return and NAV series from a raw
// performance response.
//
// The gateway returns each series as a dates array with a parallel values
// array; when those arrays disagree in length the response is structurally
// broken and apperrors.ErrDataShapeMismatch is returned. An account with no
// series data at all yields empty slices and no error, since a new account
// simply has no history yet.
//
// Individual dates that fail to parse are skipped rather than failing the
// whole series.
func (s *PerformanceService) ParseSeries(raw gateway.RawPerformance) ([]model.DailyReturnPoint, []model.NavPoint, error) {
	var returns []model.DailyReturnPoint
	var navs []model.NavPoint

	if len(raw.Cps.Data) > 0 {
		values := raw.Cps.Data[0].Returns
		if len(raw.Cps.Dates) != len(values) {
			return nil, nil, fmt.Errorf("%w: %d return dates vs %d returns",
				apperrors.ErrDataShapeMismatch, len(raw.Cps.Dates), len(values))
		}

		returns = make([]model.DailyReturnPoint, 0, len(values))
		for i, dateStr := range raw.Cps.Dates {
			date, err := time.Parse(gatewayDateLayout, dateStr)
			if err != nil {
				continue
			}
			returns = append(returns, model.DailyReturnPoint{
				Date:             date,
				CumulativeReturn: values[i],
			})
		}
	}

	if len(raw.Nav.Data) > 0 {
		values := raw.Nav.Data[0].Navs
		if len(raw.Nav.Dates) != len(values) {
			return nil, nil, fmt.Errorf("%w: %d NAV dates vs %d NAVs",
				apperrors.ErrDataShapeMismatch, len(raw.Nav.Dates), len(values))
		}

		navs = make([]model.NavPoint, 0, len(values))
		for i, dateStr := range raw.Nav.Dates {
			date, err := time.Parse(gatewayDateLayout, dateStr)
			if err != nil {
				continue
			}
			navs = append(navs, model.NavPoint{
				Date: date,
				Nav:  values[i],
			})
		}
	}

	return returns, navs, nil
}

// DailyPerformance derives per-day performance from a cumulative-return
// series.
//
// Daily TWR at date[i] is (1 + R[i]) / (1 + R[i-1]) - 1. The division of
// compounding multipliers is what removes the distorting effect of external
// cash flows between periods; taking simple differences of the cumulative
// returns would double-count compounding whenever interim returns are
// non-trivial.
//
// When a NAV point exists for the previous date, the absolute P&L for the
// day is dailyTwr * NAV[i-1]: the return earned during the day multiplied by
// the capital base it was earned on. Dates present in only one of the two
// series produce a point without a P&L amount. Fewer than 2 return points
// yields an empty result, not an error.
func (s *PerformanceService) DailyPerformance(returns []model.DailyReturnPoint, navs []model.NavPoint) ([]model.DailyPerformancePoint, error) {
	if len(returns) < 2 {
		return nil, nil
	}

	sorted := slices.Clone(returns)
	slices.SortFunc(sorted, func(a, b model.DailyReturnPoint) int {
		return a.Date.Compare(b.Date)
	})

	navByDate := make(map[time.Time]float64, len(navs))
	for _, point := range navs {
		navByDate[point.Date] = point.Nav
	}

	points := make([]model.DailyPerformancePoint, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		cur := sorted[i]

		denominator := 1 + prev.CumulativeReturn
		unreliable := false
		if math.Abs(denominator) < returnEpsilon {
			denominator = returnEpsilon
			unreliable = true
		}

		point := model.DailyPerformancePoint{
			Date:       cur.Date,
			DailyTwr:   (1+cur.CumulativeReturn)/denominator - 1,
			Unreliable: unreliable,
		}

		if navPrev, ok := navByDate[prev.Date]; ok {
			point.PnlAmount = point.DailyTwr * navPrev
			point.HasPnl = true
		}

		points = append(points, point)
	}

	return points, nil
}
