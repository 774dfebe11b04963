package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/model"
)

// fixedClock returns a controllable clock for cache freshness tests.
func fixedClock(start time.Time) (*time.Time, func() time.Time) {
	current := start
	return &current, func() time.Time { return current }
}

func fetchCounter(points []model.DailyPerformancePoint, err error) (*int, PerformanceFetchFunc) {
	calls := 0
	return &calls, func(_ context.Context, _ string) ([]model.DailyPerformancePoint, error) {
		calls++
		return points, err
	}
}

// TestPerformanceCache_GetOrFetch tests the cache freshness window.
//
// WHY: Performance history is the most expensive gateway call and changes at
// most once per day. Serving a fresh entry without refetching, and expiring
// it after the window, is the whole point of the cache.
func TestPerformanceCache_GetOrFetch(t *testing.T) {
	payload := []model.DailyPerformancePoint{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), DailyTwr: 0.02},
	}

	t.Run("second call within window does not refetch", func(t *testing.T) {
		// Setup
		cache := NewPerformanceCache(15 * time.Minute)
		clock, now := fixedClock(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
		cache.now = now
		calls, fetch := fetchCounter(payload, nil)

		// Execute
		if _, err := cache.GetOrFetch(context.Background(), "U111", fetch); err != nil {
			t.Fatalf("first GetOrFetch() returned unexpected error: %v", err)
		}
		*clock = clock.Add(14 * time.Minute)
		got, err := cache.GetOrFetch(context.Background(), "U111", fetch)

		// Assert
		if err != nil {
			t.Fatalf("second GetOrFetch() returned unexpected error: %v", err)
		}
		if *calls != 1 {
			t.Errorf("Expected 1 fetch, got %d", *calls)
		}
		if len(got) != 1 || got[0].DailyTwr != 0.02 {
			t.Errorf("Cached payload mismatch: %+v", got)
		}
	})

	t.Run("entry older than the window is refetched", func(t *testing.T) {
		cache := NewPerformanceCache(15 * time.Minute)
		clock, now := fixedClock(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
		cache.now = now
		calls, fetch := fetchCounter(payload, nil)

		if _, err := cache.GetOrFetch(context.Background(), "U111", fetch); err != nil {
			t.Fatalf("first GetOrFetch() returned unexpected error: %v", err)
		}
		*clock = clock.Add(16 * time.Minute)
		if _, err := cache.GetOrFetch(context.Background(), "U111", fetch); err != nil {
			t.Fatalf("second GetOrFetch() returned unexpected error: %v", err)
		}

		if *calls != 2 {
			t.Errorf("Expected 2 fetches after expiry, got %d", *calls)
		}
	})

	t.Run("fresh entry is served even when the fetch would fail", func(t *testing.T) {
		cache := NewPerformanceCache(15 * time.Minute)
		_, now := fixedClock(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
		cache.now = now

		_, okFetch := fetchCounter(payload, nil)
		if _, err := cache.GetOrFetch(context.Background(), "U111", okFetch); err != nil {
			t.Fatalf("seed GetOrFetch() returned unexpected error: %v", err)
		}

		failCalls, failFetch := fetchCounter(nil, errors.New("gateway down"))
		got, err := cache.GetOrFetch(context.Background(), "U111", failFetch)

		if err != nil {
			t.Fatalf("second GetOrFetch() returned unexpected error: %v", err)
		}
		if *failCalls != 0 {
			t.Errorf("Fetch should not run within the window, ran %d time(s)", *failCalls)
		}
		if len(got) != 1 || got[0].DailyTwr != 0.02 {
			t.Errorf("Cached payload changed: %+v", got)
		}
	})

	t.Run("failing fetch leaves existing entry intact", func(t *testing.T) {
		cache := NewPerformanceCache(15 * time.Minute)
		clock, now := fixedClock(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
		cache.now = now

		_, okFetch := fetchCounter(payload, nil)
		if _, err := cache.GetOrFetch(context.Background(), "U111", okFetch); err != nil {
			t.Fatalf("seed GetOrFetch() returned unexpected error: %v", err)
		}

		// Expire the entry, then fail the refresh.
		*clock = clock.Add(16 * time.Minute)
		fetchErr := errors.New("gateway down")
		_, failFetch := fetchCounter(nil, fetchErr)
		if _, err := cache.GetOrFetch(context.Background(), "U111", failFetch); !errors.Is(err, fetchErr) {
			t.Fatalf("Expected fetch error to propagate, got %v", err)
		}

		// The stale entry must still be there: a later successful fetch
		// within a fresh window should not be needed to read it back.
		cache.mu.Lock()
		entry, ok := cache.entries["U111"]
		cache.mu.Unlock()
		if !ok {
			t.Fatal("Existing entry was removed by a failing fetch")
		}
		if len(entry.payload) != 1 {
			t.Errorf("Existing payload was modified: %+v", entry.payload)
		}
	})

	t.Run("accounts are cached independently", func(t *testing.T) {
		cache := NewPerformanceCache(15 * time.Minute)
		_, now := fixedClock(time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC))
		cache.now = now
		calls, fetch := fetchCounter(payload, nil)

		if _, err := cache.GetOrFetch(context.Background(), "U111", fetch); err != nil {
			t.Fatalf("GetOrFetch(U111) returned unexpected error: %v", err)
		}
		if _, err := cache.GetOrFetch(context.Background(), "U222", fetch); err != nil {
			t.Fatalf("GetOrFetch(U222) returned unexpected error: %v", err)
		}

		if *calls != 2 {
			t.Errorf("Expected one fetch per account, got %d", *calls)
		}
	})
}
