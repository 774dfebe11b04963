package service

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/model"
	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/validation"
)

// performanceFrequency is the gateway sampling frequency for return series.
const performanceFrequency = "D"

// summaryKeys maps gateway summary field names onto the normalized summary.
var summaryKeys = []string{"netliquidation", "realizedpnl", "cashbalance", "buyingpower"}

// DashboardService orchestrates the concurrent per-account fetches and
// assembles the consolidated dashboard. It is the only component that talks
// to the gateway on the read path; the performance cache is routed through
// for every performance fetch.
type DashboardService struct {
	gateway            gateway.Client
	positionService    *PositionService
	performanceService *PerformanceService
	cache              *PerformanceCache
	aggregationService *AggregationService
	maxConcurrency     int
}

// NewDashboardService creates a new DashboardService with the provided
// dependencies. maxConcurrency bounds how many accounts are fetched in
// parallel; values below 1 are treated as 1.
func NewDashboardService(
	gatewayClient gateway.Client,
	positionService *PositionService,
	performanceService *PerformanceService,
	cache *PerformanceCache,
	aggregationService *AggregationService,
	maxConcurrency int,
) *DashboardService {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &DashboardService{
		gateway:            gatewayClient,
		positionService:    positionService,
		performanceService: performanceService,
		cache:              cache,
		aggregationService: aggregationService,
		maxConcurrency:     maxConcurrency,
	}
}

// ListAccountIDs returns the IDs of every account visible to the session.
func (s *DashboardService) ListAccountIDs(ctx context.Context) ([]string, error) {
	return s.gateway.ListAccountIDs(ctx)
}

// GetDashboard loads every account concurrently and merges the results into
// one consolidated view. It fails only when the account list itself cannot
// be fetched; individual account failures degrade to partial data.
func (s *DashboardService) GetDashboard(ctx context.Context) (*model.Dashboard, error) {
	accountIDs, err := s.gateway.ListAccountIDs(ctx)
	if err != nil {
		return nil, err
	}

	accounts := s.FetchAll(ctx, accountIDs)
	summary, positions := s.aggregationService.Aggregate(accounts)

	return &model.Dashboard{
		Accounts:  accounts,
		Summary:   summary,
		Positions: positions,
	}, nil
}

// FetchAll fetches summary, positions, and performance for every account
// concurrently, bounded by the configured concurrency limit so a user with
// many accounts does not open unbounded connections against the
// rate-limited gateway.
//
// Failures are isolated per account and per field: one broker-side error
// never aborts the batch, it only leaves that account's affected field
// empty. Blank account IDs are short-circuited to an empty record without
// any network call. Every spawned fetch is awaited before this returns.
func (s *DashboardService) FetchAll(ctx context.Context, accountIDs []string) map[string]*model.AccountData {
	results := make(map[string]*model.AccountData, len(accountIDs))
	if len(accountIDs) == 0 {
		return results
	}

	batchID := uuid.NewString()
	log.Printf("batch %s: fetching %d account(s)", batchID, len(accountIDs))

	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(min(len(accountIDs), s.maxConcurrency))

	for _, accountID := range accountIDs {
		accountID := accountID
		group.Go(func() error {
			data := s.fetchAccount(ctx, batchID, accountID)
			mu.Lock()
			results[accountID] = data
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait is only a join point.
	_ = group.Wait()

	return results
}

// fetchAccount runs the three independent sub-fetches for one account
// concurrently with each other.
func (s *DashboardService) fetchAccount(ctx context.Context, batchID, accountID string) *model.AccountData {
	data := &model.AccountData{
		Positions: []model.Position{},
	}

	if err := validation.ValidateAccountID(accountID); err != nil {
		log.Printf("batch %s: skipping account %q: %v", batchID, accountID, err)
		return data
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		raw, err := s.gateway.GetSummary(ctx, accountID)
		if err != nil {
			log.Printf("batch %s: account %s: summary fetch failed: %v", batchID, accountID, err)
			return nil
		}
		data.Summary = normalizeSummary(accountID, raw)
		return nil
	})

	group.Go(func() error {
		raw, err := s.gateway.GetPositions(ctx, accountID)
		if err != nil {
			log.Printf("batch %s: account %s: positions fetch failed: %v", batchID, accountID, err)
			return nil
		}
		data.Positions = s.positionService.Normalize(accountID, raw)
		return nil
	})

	group.Go(func() error {
		points, err := s.cache.GetOrFetch(ctx, accountID, s.fetchPerformance)
		if err != nil {
			log.Printf("batch %s: account %s: performance unavailable: %v", batchID, accountID, err)
			return nil
		}
		data.Performance = points
		return nil
	})

	// The three goroutines write disjoint fields, so no lock is needed.
	_ = group.Wait()

	return data
}

// AccountPerformance returns the derived daily performance for one account,
// served from the cache when fresh.
func (s *DashboardService) AccountPerformance(ctx context.Context, accountID string) ([]model.DailyPerformancePoint, error) {
	if err := validation.ValidateAccountID(accountID); err != nil {
		return nil, err
	}
	return s.cache.GetOrFetch(ctx, accountID, s.fetchPerformance)
}

// fetchPerformance is the cache-miss path: fetch the raw series from the
// gateway and derive daily TWR and P&L from it.
func (s *DashboardService) fetchPerformance(ctx context.Context, accountID string) ([]model.DailyPerformancePoint, error) {
	raw, err := s.gateway.GetPerformance(ctx, accountID, performanceFrequency)
	if err != nil {
		return nil, err
	}

	returns, navs, err := s.performanceService.ParseSeries(raw)
	if err != nil {
		return nil, err
	}

	return s.performanceService.DailyPerformance(returns, navs)
}

// normalizeSummary converts a raw summary response into an AccountSummary,
// defaulting every absent or malformed amount to 0. The account currency is
// taken from the net liquidation cell, falling back to USD.
func normalizeSummary(accountID string, raw gateway.RawSummary) model.AccountSummary {
	amounts := make(map[string]float64, len(summaryKeys))
	for _, key := range summaryKeys {
		value, defaulted := parseAmount(raw[key].Amount)
		if defaulted {
			log.Printf("account %s: summary field %s absent or malformed, defaulted to 0", accountID, key)
		}
		amounts[key] = value
	}

	currency := raw["netliquidation"].Currency
	if currency == "" {
		currency = "USD"
	}

	return model.AccountSummary{
		NetLiquidation: amounts["netliquidation"],
		RealizedPnl:    amounts["realizedpnl"],
		Cash:           amounts["cashbalance"],
		BuyingPower:    amounts["buyingpower"],
		Currency:       currency,
	}
}
