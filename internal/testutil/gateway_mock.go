// Package testutil provides shared test helpers: a configurable mock gateway
// client and fixture builders for raw gateway payloads.
package testutil

import (
	"context"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/gateway"
)

// MockGatewayClient is a mock implementation of gateway.Client for testing.
// It returns predefined test data instead of talking to a running gateway.
// Per-account maps allow different accounts to return different payloads;
// accounts absent from a map fall back to the zero value.
type MockGatewayClient struct {
	// MockAccountIDs is the account list to return from ListAccountIDs
	MockAccountIDs []string
	// MockSummaries maps accountID to the summary to return
	MockSummaries map[string]gateway.RawSummary
	// MockPositions maps accountID to the positions to return
	MockPositions map[string][]gateway.RawPosition
	// MockPerformance maps accountID to the performance payload to return
	MockPerformance map[string]gateway.RawPerformance
	// MockSnapshots is the snapshot map to return from GetPriceSnapshots
	MockSnapshots map[int]gateway.RawSnapshot
	// MockAuthStatus is the status to return from AuthStatus
	MockAuthStatus gateway.AuthStatus

	// MockError, when set, is returned from every method
	MockError error
	// PerformanceErrors maps accountID to an error for GetPerformance only
	PerformanceErrors map[string]error

	// Call counters track how many times each method was invoked
	ListCalls        int
	SummaryCalls     int
	PositionCalls    int
	PerformanceCalls int
	SnapshotCalls    int
	AuthCalls        int
}

// NewMockGatewayClient creates a mock gateway client with empty defaults.
func NewMockGatewayClient() *MockGatewayClient {
	return &MockGatewayClient{
		MockSummaries:     map[string]gateway.RawSummary{},
		MockPositions:     map[string][]gateway.RawPosition{},
		MockPerformance:   map[string]gateway.RawPerformance{},
		MockSnapshots:     map[int]gateway.RawSnapshot{},
		PerformanceErrors: map[string]error{},
		MockAuthStatus:    gateway.AuthStatus{Connected: true, Authenticated: true},
	}
}

// ListAccountIDs returns the configured account list.
func (m *MockGatewayClient) ListAccountIDs(_ context.Context) ([]string, error) {
	m.ListCalls++
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockAccountIDs, nil
}

// GetSummary returns the configured summary for the account.
func (m *MockGatewayClient) GetSummary(_ context.Context, accountID string) (gateway.RawSummary, error) {
	m.SummaryCalls++
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockSummaries[accountID], nil
}

// GetPositions returns the configured positions for the account.
func (m *MockGatewayClient) GetPositions(_ context.Context, accountID string) ([]gateway.RawPosition, error) {
	m.PositionCalls++
	if m.MockError != nil {
		return nil, m.MockError
	}
	return m.MockPositions[accountID], nil
}

// GetPerformance returns the configured performance payload for the account.
// A per-account error configured via WithPerformanceError takes precedence.
func (m *MockGatewayClient) GetPerformance(_ context.Context, accountID, _ string) (gateway.RawPerformance, error) {
	m.PerformanceCalls++
	if m.MockError != nil {
		return gateway.RawPerformance{}, m.MockError
	}
	if err := m.PerformanceErrors[accountID]; err != nil {
		return gateway.RawPerformance{}, err
	}
	return m.MockPerformance[accountID], nil
}

// GetPriceSnapshots returns the configured snapshots for the requested conids.
func (m *MockGatewayClient) GetPriceSnapshots(_ context.Context, conids []int) (map[int]gateway.RawSnapshot, error) {
	m.SnapshotCalls++
	if m.MockError != nil {
		return nil, m.MockError
	}
	result := make(map[int]gateway.RawSnapshot, len(conids))
	for _, conid := range conids {
		if snap, ok := m.MockSnapshots[conid]; ok {
			result[conid] = snap
		}
	}
	return result, nil
}

// AuthStatus returns the configured auth status.
func (m *MockGatewayClient) AuthStatus(_ context.Context) (gateway.AuthStatus, error) {
	m.AuthCalls++
	if m.MockError != nil {
		return gateway.AuthStatus{}, m.MockError
	}
	return m.MockAuthStatus, nil
}

// WithAccounts configures the account list.
func (m *MockGatewayClient) WithAccounts(ids ...string) *MockGatewayClient {
	m.MockAccountIDs = ids
	return m
}

// WithSummary configures the summary for one account.
func (m *MockGatewayClient) WithSummary(accountID string, summary gateway.RawSummary) *MockGatewayClient {
	m.MockSummaries[accountID] = summary
	return m
}

// WithPositions configures the positions for one account.
func (m *MockGatewayClient) WithPositions(accountID string, positions ...gateway.RawPosition) *MockGatewayClient {
	m.MockPositions[accountID] = positions
	return m
}

// WithPerformance configures the performance payload for one account.
func (m *MockGatewayClient) WithPerformance(accountID string, perf gateway.RawPerformance) *MockGatewayClient {
	m.MockPerformance[accountID] = perf
	return m
}

// WithPerformanceError configures GetPerformance to fail for one account
// while every other method keeps succeeding.
func (m *MockGatewayClient) WithPerformanceError(accountID string, err error) *MockGatewayClient {
	m.PerformanceErrors[accountID] = err
	return m
}

// WithSnapshot configures the snapshot returned for one conid.
func (m *MockGatewayClient) WithSnapshot(conid int, snap gateway.RawSnapshot) *MockGatewayClient {
	m.MockSnapshots[conid] = snap
	return m
}

// WithError configures the mock to return the specified error from every method.
func (m *MockGatewayClient) WithError(err error) *MockGatewayClient {
	m.MockError = err
	return m
}

// WithAuthStatus configures the auth status response.
func (m *MockGatewayClient) WithAuthStatus(status gateway.AuthStatus) *MockGatewayClient {
	m.MockAuthStatus = status
	return m
}
