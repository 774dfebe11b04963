package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ndewijer/IBKR-Dashboard-Backend/internal/apperrors"
)

// Client defines the interface for fetching account data from the IBKR
// Client Portal gateway. This interface enables dependency injection and
// testing with mock implementations.
type Client interface {
	ListAccountIDs(ctx context.Context) ([]string, error)
	GetSummary(ctx context.Context, accountID string) (RawSummary, error)
	GetPositions(ctx context.Context, accountID string) ([]RawPosition, error)
	GetPerformance(ctx context.Context, accountID, freq string) (RawPerformance, error)
	GetPriceSnapshots(ctx context.Context, conids []int) (map[int]RawSnapshot, error)
	AuthStatus(ctx context.Context) (AuthStatus, error)
}

// PortalClient provides methods for fetching account data from a locally
// running IBKR Client Portal gateway. It wraps an HTTP client configured for
// the gateway's self-signed certificate and keeps the session cookie jar.
//
// All calls are throttled through a shared rate limiter because the gateway
// forwards them to a rate-limited brokerage API.
type PortalClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewPortalClient creates a new gateway client.
//
// Parameters:
//   - baseURL: Root of the gateway REST API including the /v1/api prefix
//   - timeout: Per-request timeout
//   - requestsPerSecond: Upper bound on outgoing request rate
//
// Returns:
//   - *PortalClient: A new client instance ready for use
func NewPortalClient(baseURL string, timeout time.Duration, requestsPerSecond float64) *PortalClient {
	jar, _ := cookiejar.New(nil)

	// The gateway serves a self-signed certificate on localhost.
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // local gateway only
	}

	return &PortalClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar:       jar,
			Timeout:   timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// ListAccountIDs fetches the IDs of every brokerage account visible to the
// authenticated session. Entries without an accountId are skipped.
func (c *PortalClient) ListAccountIDs(ctx context.Context) ([]string, error) {
	var accounts []RawAccount
	if err := c.getJSON(ctx, "/portfolio/accounts", &accounts); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		if acc.AccountID != "" {
			ids = append(ids, acc.AccountID)
		}
	}
	return ids, nil
}

// GetSummary fetches the raw balance summary for one account.
func (c *PortalClient) GetSummary(ctx context.Context, accountID string) (RawSummary, error) {
	var summary RawSummary
	if err := c.getJSON(ctx, "/portfolio/"+accountID+"/summary", &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// GetPositions fetches the first page of raw positions for one account.
func (c *PortalClient) GetPositions(ctx context.Context, accountID string) ([]RawPosition, error) {
	var positions []RawPosition
	if err := c.getJSON(ctx, "/portfolio/"+accountID+"/positions/0", &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// GetPerformance fetches the cumulative TWR and NAV series for one account.
// freq is the gateway's sampling frequency code, "D" for daily.
func (c *PortalClient) GetPerformance(ctx context.Context, accountID, freq string) (RawPerformance, error) {
	payload := map[string]any{
		"acctIds": []string{accountID},
		"freq":    freq,
	}

	var performance RawPerformance
	if err := c.postJSON(ctx, "/pa/performance", payload, &performance); err != nil {
		return RawPerformance{}, err
	}
	return performance, nil
}

// GetPriceSnapshots fetches market data snapshots for a batch of contracts.
// The result is keyed by conid; contracts the gateway returned nothing for
// are simply absent from the map.
func (c *PortalClient) GetPriceSnapshots(ctx context.Context, conids []int) (map[int]RawSnapshot, error) {
	if len(conids) == 0 {
		return nil, apperrors.ErrNoConids
	}

	parts := make([]string, len(conids))
	for i, conid := range conids {
		parts[i] = strconv.Itoa(conid)
	}
	path := "/md/snapshot?conids=" + strings.Join(parts, ",") + "&fields=31,83"

	var snapshots []RawSnapshot
	if err := c.getJSON(ctx, path, &snapshots); err != nil {
		return nil, err
	}

	result := make(map[int]RawSnapshot, len(snapshots))
	for _, snap := range snapshots {
		result[snap.Conid] = snap
	}
	return result, nil
}

// AuthStatus reports whether the gateway session is connected and
// authenticated.
func (c *PortalClient) AuthStatus(ctx context.Context) (AuthStatus, error) {
	var status AuthStatus
	if err := c.getJSON(ctx, "/iserver/auth/status", &status); err != nil {
		return AuthStatus{}, err
	}
	return status, nil
}

// getJSON executes a GET request against the gateway and decodes the JSON
// response into out. Network failures and non-200 statuses are wrapped in
// apperrors.ErrUpstreamUnavailable so callers can degrade uniformly.
func (c *PortalClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// postJSON executes a POST request with a JSON body against the gateway and
// decodes the JSON response into out.
func (c *PortalClient) postJSON(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *PortalClient) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", apperrors.ErrUpstreamUnavailable, req.URL.Path, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	return nil
}
