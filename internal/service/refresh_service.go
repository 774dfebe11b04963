package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// RefreshService keeps the performance cache warm by re-running the full
// account fetch on a fixed schedule, so interactive dashboard requests are
// served from fresh cache entries instead of paying the gateway round trip.
type RefreshService struct {
	dashboardService *DashboardService
	schedule         string
	cron             *cron.Cron
}

// NewRefreshService creates a RefreshService running on the given cron
// schedule (for example "@every 15m").
func NewRefreshService(dashboardService *DashboardService, schedule string) *RefreshService {
	return &RefreshService{
		dashboardService: dashboardService,
		schedule:         schedule,
		cron:             cron.New(),
	}
}

// Start registers the refresh job and starts the scheduler.
func (s *RefreshService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.refresh); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("Cache refresh scheduled: %s", s.schedule)
	return nil
}

// Stop stops the scheduler. Running jobs finish on their own.
func (s *RefreshService) Stop() {
	s.cron.Stop()
}

// refresh re-fetches every account. Failures are logged and never fatal;
// the next scheduled run simply tries again.
func (s *RefreshService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	accountIDs, err := s.dashboardService.ListAccountIDs(ctx)
	if err != nil {
		log.Printf("cache refresh: account list unavailable: %v", err)
		return
	}

	results := s.dashboardService.FetchAll(ctx, accountIDs)
	log.Printf("cache refresh: refreshed %d account(s)", len(results))
}
