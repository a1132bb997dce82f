package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds runtime configuration for the dashboard. Values come from
// environment variables, optionally seeded from a .env file by the caller.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	BaseURL  string
	TokenURL string

	CacheDir  string
	CacheFile string

	// PageSize is the number of activities requested per page (upstream max 200).
	PageSize int

	ListenAddr string
	LogLevel   string

	// Upstream rate limits. Informational only; the client reacts to 429s
	// rather than throttling itself.
	RateLimitOverall   int
	RateLimitRead      int
	RateLimitDaily     int
	RateLimitDailyRead int
}

const (
	DefaultBaseURL   = "https://www.strava.com/api/v3"
	DefaultTokenURL  = "https://www.strava.com/oauth/token"
	DefaultCacheFile = "strava_activities.parquet"
	DefaultPageSize  = 200
)

// ErrMissingCredentials is returned by Validate when any OAuth value is unset.
var ErrMissingCredentials = errors.New("missing Strava credentials: set STRAVA_CLIENT_ID, STRAVA_CLIENT_SECRET and STRAVA_REFRESH_TOKEN")

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	cfg := &Config{
		ClientID:           strings.TrimSpace(os.Getenv("STRAVA_CLIENT_ID")),
		ClientSecret:       strings.TrimSpace(os.Getenv("STRAVA_CLIENT_SECRET")),
		RefreshToken:       strings.TrimSpace(os.Getenv("STRAVA_REFRESH_TOKEN")),
		BaseURL:            getenv("STRAVA_BASE_URL", DefaultBaseURL),
		TokenURL:           getenv("STRAVA_TOKEN_URL", DefaultTokenURL),
		CacheDir:           getenv("ENDURANCE_CACHE_DIR", DefaultDir()),
		CacheFile:          getenv("ENDURANCE_CACHE_FILE", DefaultCacheFile),
		PageSize:           DefaultPageSize,
		ListenAddr:         getenv("ENDURANCE_LISTEN_ADDR", ":8080"),
		LogLevel:           getenv("ENDURANCE_LOG_LEVEL", "info"),
		RateLimitOverall:   200,
		RateLimitRead:      100,
		RateLimitDaily:     2000,
		RateLimitDailyRead: 1000,
	}

	if v := os.Getenv("ENDURANCE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= DefaultPageSize {
			cfg.PageSize = n
		}
	}

	return cfg
}

// Validate reports whether all required credentials are present.
func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
		return ErrMissingCredentials
	}
	return nil
}

// CachePath is the full path of the parquet snapshot.
func (c *Config) CachePath() string {
	return filepath.Join(c.CacheDir, c.CacheFile)
}

// DBPath is the sqlite database holding preferences and sync history.
func (c *Config) DBPath() string {
	return filepath.Join(c.CacheDir, "endurance.db")
}

// LogPath is where the TUI writes its log, since it owns stdout.
func (c *Config) LogPath() string {
	return filepath.Join(c.CacheDir, "endurance.log")
}

// DefaultDir returns ~/.config/endurance, or ./data when no config dir exists.
func DefaultDir() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(cfg, "endurance")
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
