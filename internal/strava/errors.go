package strava

import (
	"fmt"
	"strconv"
)

// AuthErrorKind classifies token refresh failures.
type AuthErrorKind int

const (
	AuthTimeout AuthErrorKind = iota
	AuthInvalidCredentials
	AuthRefreshFailed
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthTimeout:
		return "timeout"
	case AuthInvalidCredentials:
		return "invalid credentials"
	default:
		return "refresh failed"
	}
}

// AuthError is returned when an access token cannot be obtained. None of
// these are retried; InvalidCredentials needs a configuration fix.
type AuthError struct {
	Kind   AuthErrorKind
	Detail string
	Err    error
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case AuthTimeout:
		return "token refresh timed out; check your network and try again"
	case AuthInvalidCredentials:
		return "invalid Strava credentials; check STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET and STRAVA_REFRESH_TOKEN"
	}
	return "failed to refresh access token: " + e.Detail
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError is any non-rate-limit failure of a resource request.
type APIError struct {
	Timeout    bool
	StatusCode int // 0 for transport failures
	Detail     string
	Err        error
}

func (e *APIError) Error() string {
	if e.Timeout {
		return "request timed out; check your network and try again"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("API request failed: HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return "API request failed: " + e.Detail
}

func (e *APIError) Unwrap() error { return e.Err }

// RateLimitError reports an HTTP 429. Usage and Limit are the 15-minute
// figures from the rate limit headers, -1 when the header was missing.
type RateLimitError struct {
	Usage int
	Limit int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: usage %s/%s per 15 minutes; try again later or use cached data",
		orUnknown(e.Usage), orUnknown(e.Limit))
}

func orUnknown(n int) string {
	if n < 0 {
		return "?"
	}
	return strconv.Itoa(n)
}
