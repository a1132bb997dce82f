package strava

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/sadopc/endurance/internal/metrics"
)

const (
	DefaultPageSize     = 200
	DefaultPageDelay    = 500 * time.Millisecond
	DefaultFetchTimeout = 30 * time.Second
)

// TokenSource supplies bearer tokens. *TokenManager implements it.
type TokenSource interface {
	Token() (string, error)
}

// Options configures a Client. Zero values select the defaults above.
type Options struct {
	BaseURL    string
	PageSize   int
	PageDelay  time.Duration
	Timeout    time.Duration
	HTTPClient *fasthttp.Client
	Logger     zerolog.Logger
}

// Client fetches athlete data from the provider's REST API. Calls are
// blocking and sequential; a page in flight cannot be cancelled.
type Client struct {
	http      *fasthttp.Client
	tokens    TokenSource
	baseURL   string
	pageSize  int
	pageDelay time.Duration
	timeout   time.Duration
	sleep     func(time.Duration)
	log       zerolog.Logger
}

func NewClient(tokens TokenSource, opts Options) *Client {
	c := &Client{
		http:      opts.HTTPClient,
		tokens:    tokens,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		pageSize:  opts.PageSize,
		pageDelay: opts.PageDelay,
		timeout:   opts.Timeout,
		sleep:     time.Sleep,
		log:       opts.Logger,
	}
	if c.http == nil {
		c.http = &fasthttp.Client{}
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.pageDelay <= 0 {
		c.pageDelay = DefaultPageDelay
	}
	if c.timeout <= 0 {
		c.timeout = DefaultFetchTimeout
	}
	return c
}

// Athlete fetches the authenticated athlete's profile.
func (c *Client) Athlete() (*Athlete, error) {
	var a Athlete
	if err := c.get("/athlete", "athlete", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// FetchPage fetches one page of activities, newest first.
func (c *Client) FetchPage(page, perPage int) ([]RawActivity, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out []RawActivity
	if err := c.get("/athlete/activities", "activities", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchAll pages through every activity starting at page 1, sleeping
// between pages. A short or empty page ends the walk.
//
// A RateLimitError aborts immediately and nothing accumulated is returned.
// Any other APIError stops pagination and returns what was fetched so far
// with Truncated set. Auth failures are returned as errors.
func (c *Client) FetchAll(progress ProgressFunc) (*FetchResult, error) {
	res := &FetchResult{}
	for page := 1; ; page++ {
		acts, err := c.FetchPage(page, c.pageSize)
		if err != nil {
			var rl *RateLimitError
			var apiErr *APIError
			switch {
			case errors.As(err, &rl):
				c.log.Warn().Int("page", page).Int("usage", rl.Usage).Int("limit", rl.Limit).Msg("rate limited during fetch")
				return nil, err
			case errors.As(err, &apiErr):
				c.log.Warn().Err(err).Int("page", page).Int("total", len(res.Records)).Msg("error fetching page; keeping partial results")
				res.Truncated = true
				res.Err = err
				return res, nil
			default:
				return nil, err
			}
		}

		if len(acts) == 0 {
			break
		}
		res.Records = append(res.Records, acts...)
		res.Pages = page
		if progress != nil {
			progress(page, len(res.Records))
		}
		c.log.Debug().Int("page", page).Int("total", len(res.Records)).Msg("fetched page")

		if len(acts) < c.pageSize {
			break
		}
		c.sleep(c.pageDelay)
	}
	return res, nil
}

func (c *Client) get(path, endpoint string, query url.Values, v any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		metrics.ObserveUpstream(endpoint, 0, time.Since(start))
		if isTimeout(err) {
			return &APIError{Timeout: true, Detail: err.Error(), Err: err}
		}
		return &APIError{Detail: err.Error(), Err: err}
	}

	code := resp.StatusCode()
	metrics.ObserveUpstream(endpoint, code, time.Since(start))
	if code == fasthttp.StatusTooManyRequests {
		metrics.RateLimited()
		return &RateLimitError{
			Usage: firstFigure(resp.Header.Peek("X-RateLimit-Usage")),
			Limit: firstFigure(resp.Header.Peek("X-RateLimit-Limit")),
		}
	}
	if code < 200 || code > 299 {
		return &APIError{StatusCode: code, Detail: snippet(resp.Body())}
	}

	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return &APIError{StatusCode: code, Detail: "decode response: " + err.Error(), Err: err}
	}
	return nil
}

// firstFigure parses the 15-minute element of a "15min,daily" header pair.
func firstFigure(h []byte) int {
	s := strings.TrimSpace(string(h))
	if s == "" {
		return -1
	}
	first, _, _ := strings.Cut(s, ",")
	n, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return -1
	}
	return n
}
