package server

import (
	"bytes"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/sadopc/endurance/internal/export"
	"github.com/sadopc/endurance/internal/stats"
)

func (s *Server) athlete(ctx *fasthttp.RequestCtx) {
	if s.athletes == nil {
		errResponse(ctx, fasthttp.StatusNotFound, "athlete profile not available")
		return
	}
	a, err := s.athletes.Athlete()
	if err != nil {
		s.log.Error().Err(err).Msg("fetch athlete")
		errResponse(ctx, fasthttp.StatusBadGateway, err.Error())
		return
	}
	jsonResponse(ctx, map[string]any{
		"id":       a.ID,
		"name":     a.DisplayName(),
		"username": a.Username,
		"city":     a.City,
		"country":  a.Country,
	})
}

func (s *Server) activities(ctx *fasthttp.RequestCtx) {
	t, _, ok := s.filtered(ctx)
	if !ok {
		return
	}

	var buf bytes.Buffer
	switch format := string(ctx.QueryArgs().Peek("format")); format {
	case "csv":
		if err := export.WriteCSV(&buf, t); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
		ctx.SetContentType("text/csv")
		ctx.Response.Header.Set("Content-Disposition", `attachment; filename="`+export.FileName("csv", time.Now())+`"`)
	case "", "json":
		if err := export.WriteJSON(&buf, t, time.Now()); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
		ctx.SetContentType("application/json")
	default:
		errResponse(ctx, fasthttp.StatusBadRequest, "format must be json or csv")
		return
	}
	ctx.SetBody(buf.Bytes())
}

func (s *Server) categories(ctx *fasthttp.RequestCtx) {
	res, err := s.table()
	if err != nil {
		s.loadFailed(ctx, err)
		return
	}
	jsonResponse(ctx, map[string]any{"categories": res.Table.Categories()})
}

func (s *Server) summary(ctx *fasthttp.RequestCtx) {
	t, res, ok := s.filtered(ctx)
	if !ok {
		return
	}
	weeks := stats.Weekly(t)
	months := stats.Monthly(t)
	bestWeek, bestWeekKM := stats.FindBest(weeks, stats.Distance)
	bestMonth, bestMonthKM := stats.FindBest(months, stats.Distance)

	jsonResponse(ctx, map[string]any{
		"totals":      stats.Summarize(t),
		"weekly_mean": stats.MeanWeekly(weeks),
		"sports":      stats.CountByCategory(t),
		"best_week":   map[string]any{"label": bestWeek, "total_distance_km": bestWeekKM},
		"best_month":  map[string]any{"label": bestMonth, "total_distance_km": bestMonthKM},
		"source":      res.Source,
		"loaded_at":   res.LoadedAt,
		"warnings":    res.Warnings,
	})
}

func (s *Server) weekly(ctx *fasthttp.RequestCtx) {
	windows, err := parseWindows(ctx.QueryArgs())
	if err != nil {
		errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	t, _, ok := s.filtered(ctx)
	if !ok {
		return
	}
	weeks := stats.AddRollingAverages(stats.Weekly(t), windows...)
	jsonResponse(ctx, map[string]any{"weeks": nonNil(weeks)})
}

func (s *Server) weeklyBest(ctx *fasthttp.RequestCtx)  { s.best(ctx, stats.Week) }
func (s *Server) monthlyBest(ctx *fasthttp.RequestCtx) { s.best(ctx, stats.Month) }

func (s *Server) best(ctx *fasthttp.RequestCtx, g stats.Granularity) {
	m, err := stats.ParseMetric(string(ctx.QueryArgs().Peek("metric")))
	if err != nil {
		errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	t, _, ok := s.filtered(ctx)
	if !ok {
		return
	}
	var label string
	var value float64
	if g == stats.Week {
		label, value = stats.FindBest(stats.Weekly(t), m)
	} else {
		label, value = stats.FindBest(stats.Monthly(t), m)
	}
	jsonResponse(ctx, map[string]any{"metric": m, "label": label, "value": value})
}

func (s *Server) monthly(ctx *fasthttp.RequestCtx) {
	t, _, ok := s.filtered(ctx)
	if !ok {
		return
	}
	jsonResponse(ctx, map[string]any{"months": nonNil(stats.Monthly(t))})
}

func (s *Server) yearly(ctx *fasthttp.RequestCtx) {
	t, _, ok := s.filtered(ctx)
	if !ok {
		return
	}
	jsonResponse(ctx, map[string]any{"years": nonNil(stats.YoYChange(stats.Yearly(t)))})
}

func (s *Server) breakdown(ctx *fasthttp.RequestCtx) {
	g, err := stats.ParseGranularity(string(ctx.QueryArgs().Peek("granularity")))
	if err != nil {
		errResponse(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	t, _, ok := s.filtered(ctx)
	if !ok {
		return
	}
	jsonResponse(ctx, map[string]any{"granularity": g, "rows": stats.ByCategory(t, g)})
}

func (s *Server) refresh(ctx *fasthttp.RequestCtx) {
	res, err := s.loader.Load(true, func(page, total int) {
		s.log.Debug().Int("page", page).Int("total", total).Msg("refresh progress")
	})
	if err != nil {
		s.loadFailed(ctx, err)
		return
	}
	jsonResponse(ctx, map[string]any{
		"source":     res.Source,
		"activities": len(res.Table),
		"truncated":  res.Truncated,
		"warnings":   res.Warnings,
		"loaded_at":  res.LoadedAt,
	})
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
