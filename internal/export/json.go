package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/endurance/internal/activity"
)

type jsonExport struct {
	ExportedAt string         `json:"exported_at"`
	Count      int            `json:"count"`
	Activities []jsonActivity `json:"activities"`
}

type jsonActivity struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	StartTime    string   `json:"start_time"`
	Date         string   `json:"date"`
	Sport        string   `json:"sport"`
	DistanceKM   float64  `json:"distance_km"`
	DurationMin  float64  `json:"duration_min"`
	Duration     string   `json:"duration"`
	ElevationM   float64  `json:"elevation_m"`
	AvgHeartrate *float64 `json:"avg_hr"`
	SufferScore  *float64 `json:"suffer_score"`
	Power        *float64 `json:"power"`
	YearWeek     string   `json:"year_week"`
	Month        string   `json:"month"`
}

// ToJSON writes t to path as an indented document.
func ToJSON(t activity.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, t, time.Now()); err != nil {
		return err
	}
	return f.Close()
}

// WriteJSON encodes t with an export timestamp. Unknown optional values are
// written as null.
func WriteJSON(w io.Writer, t activity.Table, now time.Time) error {
	doc := jsonExport{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(t),
		Activities: make([]jsonActivity, 0, len(t)),
	}

	for _, a := range t {
		doc.Activities = append(doc.Activities, jsonActivity{
			ID:           a.ID,
			Name:         a.Name,
			StartTime:    a.Start.Format(time.RFC3339),
			Date:         a.Date.Format("2006-01-02"),
			Sport:        a.Category,
			DistanceKM:   a.DistanceKM,
			DurationMin:  a.MovingMin,
			Duration:     activity.FormatDuration(a.MovingMin),
			ElevationM:   a.ElevationM,
			AvgHeartrate: a.AvgHeartrate,
			SufferScore:  a.SufferScore,
			Power:        a.AvgWatts,
			YearWeek:     a.WeekLabel,
			Month:        a.Month,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
