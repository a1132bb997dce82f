// Package server exposes the activity rollups as a JSON API over fasthttp.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/sadopc/endurance/internal/activity"
	"github.com/sadopc/endurance/internal/loader"
	"github.com/sadopc/endurance/internal/strava"
)

// TableLoader is the part of *loader.Loader the server uses.
type TableLoader interface {
	Load(forceRefresh bool, progress strava.ProgressFunc) (*loader.Result, error)
	Current() *loader.Result
}

// AthleteSource returns the authenticated athlete. *strava.Client implements it.
type AthleteSource interface {
	Athlete() (*strava.Athlete, error)
}

type Server struct {
	loader   TableLoader
	athletes AthleteSource
	gatherer prometheus.Gatherer
	log      zerolog.Logger
}

func New(l TableLoader, a AthleteSource, g prometheus.Gatherer, log zerolog.Logger) *Server {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return &Server{loader: l, athletes: a, gatherer: g, log: log}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})

	r.GET("/api/athlete", s.athlete)
	r.GET("/api/activities", s.activities)
	r.GET("/api/categories", s.categories)
	r.GET("/api/summary", s.summary)
	r.GET("/api/weekly", s.weekly)
	r.GET("/api/weekly/best", s.weeklyBest)
	r.GET("/api/monthly", s.monthly)
	r.GET("/api/monthly/best", s.monthlyBest)
	r.GET("/api/yearly", s.yearly)
	r.GET("/api/breakdown", s.breakdown)
	r.POST("/api/refresh", s.refresh)
	r.GET("/metrics", s.metrics)

	return RequestLogger(s.log, r.Handler)
}

// ListenAndServe blocks serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info().Str("addr", addr).Msg("listening")
	return fasthttp.ListenAndServe(addr, s.Handler())
}

// RequestLogger returns fasthttp middleware that logs method, path, status, duration.
func RequestLogger(log zerolog.Logger, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		log.Info().
			Bytes("method", ctx.Method()).
			Bytes("path", ctx.Path()).
			Int("status", ctx.Response.StatusCode()).
			Dur("elapsed", time.Since(start)).
			Str("ip", ctx.RemoteAddr().String()).
			Msg("request")
	}
}

func (s *Server) metrics(ctx *fasthttp.RequestCtx) {
	families, err := s.gatherer.Gather()
	if err != nil {
		errResponse(ctx, fasthttp.StatusInternalServerError, "failed to gather metrics")
		return
	}

	prefix := string(ctx.QueryArgs().Peek("prefix"))
	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
	for _, mf := range families {
		if !keepFamily(mf, prefix) {
			continue
		}
		if err := encoder.Encode(mf); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to encode metrics")
			return
		}
	}

	ctx.SetContentType(string(expfmt.FmtText))
	ctx.Response.Header.Set("Cache-Control", "no-store")
	ctx.SetBody(buf.Bytes())
}

func keepFamily(mf *dto.MetricFamily, prefix string) bool {
	return len(mf.GetMetric()) > 0 && strings.HasPrefix(mf.GetName(), prefix)
}

// table returns the session table, loading it on first use.
func (s *Server) table() (*loader.Result, error) {
	if res := s.loader.Current(); res != nil {
		return res, nil
	}
	return s.loader.Load(false, nil)
}

// filtered applies the start, end and sport query parameters.
func (s *Server) filtered(ctx *fasthttp.RequestCtx) (activity.Table, *loader.Result, bool) {
	c, err := parseCriteria(ctx.QueryArgs())
	if err != nil {
		errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	res, err := s.table()
	if err != nil {
		s.loadFailed(ctx, err)
		return nil, nil, false
	}
	t, err := activity.Filter(res.Table, c)
	if err != nil {
		errResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	return t, res, true
}

func (s *Server) loadFailed(ctx *fasthttp.RequestCtx, err error) {
	s.log.Error().Err(err).Msg("load activities")
	var authErr *strava.AuthError
	switch {
	case errors.Is(err, loader.ErrRateLimitedNoCache):
		errResponse(ctx, fasthttp.StatusServiceUnavailable, err.Error())
	case errors.As(err, &authErr):
		errResponse(ctx, fasthttp.StatusBadGateway, err.Error())
	default:
		errResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
	}
}

func parseCriteria(args *fasthttp.Args) (activity.Criteria, error) {
	var c activity.Criteria
	if v := string(args.Peek("start")); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, errors.New("start must be YYYY-MM-DD")
		}
		c.Start, _ = activity.DayRange(d, d)
	}
	if v := string(args.Peek("end")); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, errors.New("end must be YYYY-MM-DD")
		}
		_, c.End = activity.DayRange(d, d)
	}
	if !c.Start.IsZero() && !c.End.IsZero() && c.End.Before(c.Start) {
		return c, errors.New("end is before start")
	}
	for _, part := range strings.Split(string(args.Peek("sport")), ",") {
		if part = strings.TrimSpace(part); part != "" {
			c.Categories = append(c.Categories, part)
		}
	}
	return c, nil
}

func parseWindows(args *fasthttp.Args) ([]int, error) {
	var windows []int
	for _, raw := range args.PeekMulti("window") {
		n, err := strconv.Atoi(string(raw))
		if err != nil || n < 1 || n > 52 {
			return nil, errors.New("window must be a number of weeks between 1 and 52")
		}
		windows = append(windows, n)
	}
	return windows, nil
}

func jsonResponse(ctx *fasthttp.RequestCtx, data map[string]any) {
	ctx.SetContentType("application/json")
	body, err := json.Marshal(data)
	if err != nil {
		errResponse(ctx, fasthttp.StatusInternalServerError, "encode response")
		return
	}
	ctx.SetBody(body)
}

func errResponse(ctx *fasthttp.RequestCtx, code int, msg string) {
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(map[string]string{"error": msg})
	ctx.SetBody(body)
}
