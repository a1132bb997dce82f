// Package cache stores the normalized activity table as a single parquet file.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/sadopc/endurance/internal/activity"
)

const epochDay = 24 * time.Hour

// row is the on-disk layout. Start is stored as UTC microseconds plus the
// recorded UTC offset so the instant comes back with its zone.
type row struct {
	ID           int64    `parquet:"name=activity_id, type=INT64"`
	Name         string   `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	StartMicros  int64    `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MICROS"`
	UTCOffset    int32    `parquet:"name=utc_offset_s, type=INT32"`
	Date         int32    `parquet:"name=date, type=INT32, convertedtype=DATE"`
	Category     string   `parquet:"name=sport, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DistanceKM   float64  `parquet:"name=distance_km, type=DOUBLE"`
	MovingMin    float64  `parquet:"name=duration_min, type=DOUBLE"`
	ElevationM   float64  `parquet:"name=elevation_m, type=DOUBLE"`
	AvgHeartrate *float64 `parquet:"name=avg_hr, type=DOUBLE, repetitiontype=OPTIONAL"`
	SufferScore  *float64 `parquet:"name=suffer_score, type=DOUBLE, repetitiontype=OPTIONAL"`
	AvgWatts     *float64 `parquet:"name=power, type=DOUBLE, repetitiontype=OPTIONAL"`
	Year         int32    `parquet:"name=year, type=INT32"`
	ISOWeek      int32    `parquet:"name=iso_week, type=INT32"`
	WeekLabel    string   `parquet:"name=year_week, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	WeekStart    int32    `parquet:"name=week_start, type=INT32, convertedtype=DATE"`
	Month        string   `parquet:"name=month, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// Store reads and writes one cache file. It is not safe for concurrent
// writers; the loader serializes access.
type Store struct {
	dir  string
	path string
}

func New(dir, file string) *Store {
	return &Store{dir: dir, path: filepath.Join(dir, file)}
}

func (s *Store) Path() string { return s.path }

// Exists reports whether a cache file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save replaces the cache with t. The directory is created on first use and
// the file is swapped in with a rename so a failed write leaves the old
// cache intact.
func (s *Store) Save(t activity.Table) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := writeFile(tmp, t); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

// Load reads the cached table. ok is false with a nil error when no cache
// file exists.
func (s *Store) Load() (t activity.Table, ok bool, err error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	// parquet-go panics on some malformed footers.
	defer func() {
		if r := recover(); r != nil {
			t, ok, err = nil, false, fmt.Errorf("read cache: %v", r)
		}
	}()

	fr, err := local.NewLocalFileReader(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("open cache: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(row), 4)
	if err != nil {
		return nil, false, fmt.Errorf("read cache schema: %w", err)
	}
	defer pr.ReadStop()

	rows := make([]row, int(pr.GetNumRows()))
	if len(rows) > 0 {
		if err := pr.Read(&rows); err != nil {
			return nil, false, fmt.Errorf("read cache rows: %w", err)
		}
	}

	t = make(activity.Table, len(rows))
	for i, r := range rows {
		t[i] = fromRow(r)
	}
	return t, true, nil
}

// Remove deletes the cache file if present.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache: %w", err)
	}
	return nil
}

func writeFile(path string, t activity.Table) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	pw, err := writer.NewParquetWriter(fw, new(row), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, a := range t {
		if err := pw.Write(toRow(a)); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return fmt.Errorf("write cache row %d: %w", a.ID, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("finish cache file: %w", err)
	}
	return fw.Close()
}

func toRow(a activity.Activity) row {
	_, offset := a.Start.Zone()
	return row{
		ID:           a.ID,
		Name:         a.Name,
		StartMicros:  a.Start.UnixMicro(),
		UTCOffset:    int32(offset),
		Date:         toDays(a.Date),
		Category:     a.Category,
		DistanceKM:   a.DistanceKM,
		MovingMin:    a.MovingMin,
		ElevationM:   a.ElevationM,
		AvgHeartrate: a.AvgHeartrate,
		SufferScore:  a.SufferScore,
		AvgWatts:     a.AvgWatts,
		Year:         int32(a.Year),
		ISOWeek:      int32(a.ISOWeek),
		WeekLabel:    a.WeekLabel,
		WeekStart:    toDays(a.WeekStart),
		Month:        a.Month,
	}
}

func fromRow(r row) activity.Activity {
	loc := time.UTC
	if r.UTCOffset != 0 {
		loc = time.FixedZone("", int(r.UTCOffset))
	}
	start := time.UnixMicro(r.StartMicros).In(loc)
	isoYear, _ := start.ISOWeek()
	return activity.Activity{
		ID:           r.ID,
		Name:         r.Name,
		Start:        start,
		Date:         fromDays(r.Date),
		Category:     r.Category,
		DistanceKM:   r.DistanceKM,
		MovingMin:    r.MovingMin,
		ElevationM:   r.ElevationM,
		AvgHeartrate: r.AvgHeartrate,
		SufferScore:  r.SufferScore,
		AvgWatts:     r.AvgWatts,
		Year:         int(r.Year),
		ISOYear:      isoYear,
		ISOWeek:      int(r.ISOWeek),
		WeekLabel:    r.WeekLabel,
		WeekStart:    fromDays(r.WeekStart),
		Month:        r.Month,
	}
}

func toDays(t time.Time) int32 {
	return int32(t.Unix() / int64(epochDay/time.Second))
}

func fromDays(d int32) time.Time {
	return time.Unix(int64(d)*int64(epochDay/time.Second), 0).UTC()
}
