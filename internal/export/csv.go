package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/endurance/internal/activity"
)

var csvHeader = []string{
	"activity_id", "name", "datetime", "date", "sport",
	"distance_km", "duration_min", "elevation_m",
	"avg_hr", "suffer_score", "power",
	"year", "iso_week", "year_week", "month",
}

// ToCSV writes t to a new file at path.
func ToCSV(t activity.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, t); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes a header row and one row per activity. Unknown optional
// values are left empty.
func WriteCSV(out io.Writer, t activity.Table) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, a := range t {
		row := []string{
			strconv.FormatInt(a.ID, 10),
			a.Name,
			a.Start.Format(time.RFC3339),
			a.Date.Format("2006-01-02"),
			a.Category,
			formatFloat(a.DistanceKM),
			formatFloat(a.MovingMin),
			formatFloat(a.ElevationM),
			formatOptional(a.AvgHeartrate),
			formatOptional(a.SufferScore),
			formatOptional(a.AvgWatts),
			strconv.Itoa(a.Year),
			strconv.Itoa(a.ISOWeek),
			a.WeekLabel,
			a.Month,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// FileName returns a dated export file name such as
// "strava_activities_2024-06-01.csv".
func FileName(ext string, now time.Time) string {
	return "strava_activities_" + now.Format("2006-01-02") + "." + ext
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
