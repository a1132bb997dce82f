package strava

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/sadopc/endurance/internal/metrics"
)

const (
	// DefaultTokenTimeout bounds a refresh exchange.
	DefaultTokenTimeout = 10 * time.Second

	// A cached token is reused only while it has more than this left.
	tokenRefreshMargin = 5 * time.Minute
)

// Credentials are the OAuth values needed for a refresh_token grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// TokenManager keeps an access token in memory and refreshes it on demand.
// Nothing is persisted; a new process always starts with a refresh.
type TokenManager struct {
	mu       sync.Mutex
	client   *fasthttp.Client
	tokenURL string
	creds    Credentials
	timeout  time.Duration
	now      func() time.Time

	accessToken string
	expiresAt   time.Time
}

// NewTokenManager creates a manager for the given token endpoint. A nil
// client gets a default fasthttp.Client.
func NewTokenManager(tokenURL string, creds Credentials, client *fasthttp.Client) *TokenManager {
	if client == nil {
		client = &fasthttp.Client{}
	}
	return &TokenManager{
		client:   client,
		tokenURL: tokenURL,
		creds:    creds,
		timeout:  DefaultTokenTimeout,
		now:      time.Now,
	}
}

// Token returns a valid access token, refreshing synchronously when the
// cached one is missing or within five minutes of expiry.
func (m *TokenManager) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken != "" && m.now().Before(m.expiresAt.Add(-tokenRefreshMargin)) {
		return m.accessToken, nil
	}
	return m.refresh()
}

// ExpiresAt returns the expiry of the cached token, zero if none.
func (m *TokenManager) ExpiresAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiresAt
}

func (m *TokenManager) refresh() (string, error) {
	form := url.Values{}
	form.Set("client_id", m.creds.ClientID)
	form.Set("client_secret", m.creds.ClientSecret)
	form.Set("refresh_token", m.creds.RefreshToken)
	form.Set("grant_type", "refresh_token")

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(m.tokenURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBodyString(form.Encode())

	start := time.Now()
	if err := m.client.DoTimeout(req, resp, m.timeout); err != nil {
		metrics.ObserveUpstream("token", 0, time.Since(start))
		if isTimeout(err) {
			return "", &AuthError{Kind: AuthTimeout, Detail: err.Error(), Err: err}
		}
		return "", &AuthError{Kind: AuthRefreshFailed, Detail: err.Error(), Err: err}
	}

	code := resp.StatusCode()
	metrics.ObserveUpstream("token", code, time.Since(start))
	switch {
	case code == fasthttp.StatusUnauthorized:
		return "", &AuthError{Kind: AuthInvalidCredentials, Detail: snippet(resp.Body())}
	case code < 200 || code > 299:
		return "", &AuthError{Kind: AuthRefreshFailed, Detail: fmt.Sprintf("HTTP %d: %s", code, snippet(resp.Body()))}
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body(), &tr); err != nil {
		return "", &AuthError{Kind: AuthRefreshFailed, Detail: "decode token response: " + err.Error(), Err: err}
	}
	if tr.AccessToken == "" {
		return "", &AuthError{Kind: AuthRefreshFailed, Detail: "token response has no access_token"}
	}

	m.accessToken = tr.AccessToken
	m.expiresAt = time.Unix(tr.ExpiresAt, 0)
	// The provider may rotate the refresh token; keep the newest in memory.
	if tr.RefreshToken != "" {
		m.creds.RefreshToken = tr.RefreshToken
	}
	return m.accessToken, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// snippet trims a response body for inclusion in error messages.
func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
