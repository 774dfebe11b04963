package apperrors

import "errors"

// Upstream errors represent failures at the gateway boundary.
// These errors are recovered locally by the orchestrator: an unreachable
// or unauthenticated gateway degrades to empty data, never to a fatal error.
var (
	// ErrUpstreamUnavailable indicates a network failure, timeout, or non-200
	// response from the Client Portal gateway.
	ErrUpstreamUnavailable = errors.New("gateway unavailable")

	// ErrGatewayNotAuthenticated indicates the gateway is running but the
	// brokerage session has not been authenticated yet.
	ErrGatewayNotAuthenticated = errors.New("gateway not authenticated")

	// ErrGatewayNotFound indicates the clientportal.gw installation could not
	// be located on disk when attempting to launch it.
	ErrGatewayNotFound = errors.New("gateway installation not found")
)

// Data quality errors represent malformed or inconsistent upstream payloads.
var (
	// ErrMalformedField indicates a numeric field that could not be parsed.
	// Recovered locally: the value is substituted with 0 and the event logged.
	ErrMalformedField = errors.New("malformed numeric field")

	// ErrDataShapeMismatch indicates that the performance response carries
	// date and value series of differing lengths. Surfaced as a typed failure
	// by the performance analyzer; the orchestrator records absent performance
	// for that account only.
	ErrDataShapeMismatch = errors.New("performance series shape mismatch")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidAccountID indicates a blank or whitespace-only account ID.
	// Short-circuited before any I/O; never reaches the gateway.
	ErrInvalidAccountID = errors.New("account ID cannot be empty")

	// ErrNoConids indicates a price snapshot request with no contract IDs.
	ErrNoConids = errors.New("at least one conid is required")
)
