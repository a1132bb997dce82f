package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/sadopc/endurance/internal/cache"
	"github.com/sadopc/endurance/internal/config"
	"github.com/sadopc/endurance/internal/loader"
	"github.com/sadopc/endurance/internal/logging"
	"github.com/sadopc/endurance/internal/metrics"
	"github.com/sadopc/endurance/internal/server"
	"github.com/sadopc/endurance/internal/store"
	"github.com/sadopc/endurance/internal/strava"
	"github.com/sadopc/endurance/internal/tui"
)

const usage = `usage: endurance [command]

commands:
  (none)   open the terminal dashboard
  serve    serve the JSON API and /metrics on ENDURANCE_LISTEN_ADDR
  sync     fetch every activity from Strava and rewrite the cache
  reset    delete the cached activities so the next start fetches again
`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var err error
	switch cmd {
	case "":
		err = runTUI(cfg)
	case "serve":
		err = runServer(cfg)
	case "sync":
		err = runSync(cfg)
	case "reset":
		err = runReset(cfg)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// pipeline is everything between the credentials and a loaded table.
type pipeline struct {
	store  *store.Store
	tokens *strava.TokenManager
	client *strava.Client
	loader *loader.Loader
}

func newPipeline(cfg *config.Config, log zerolog.Logger) (*pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := store.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	httpClient := &fasthttp.Client{Name: "endurance"}
	tokens := strava.NewTokenManager(cfg.TokenURL, strava.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
	}, httpClient)
	client := strava.NewClient(tokens, strava.Options{
		BaseURL:    cfg.BaseURL,
		PageSize:   cfg.PageSize,
		HTTPClient: httpClient,
		Logger:     log.With().Str("component", "strava").Logger(),
	})

	c := cache.New(cfg.CacheDir, cfg.CacheFile)
	l := loader.New(client, c,
		loader.WithHistory(s),
		loader.WithLogger(log.With().Str("component", "loader").Logger()),
	)
	return &pipeline{store: s, tokens: tokens, client: client, loader: l}, nil
}

func runTUI(cfg *config.Config) error {
	log, closer, err := logging.New(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	p, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer p.store.Close()

	app := tui.NewApp(tui.Options{
		Loader:    p.loader,
		Athletes:  p.client,
		Store:     p.store,
		ExportDir: cfg.CacheDir,
		Logger:    log.With().Str("component", "tui").Logger(),
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

func runServer(cfg *config.Config) error {
	log := logging.Console(cfg.LogLevel)

	p, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer p.store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	// Warm the table so the first request does not pay for a full fetch.
	if res, err := p.loader.Load(false, nil); err != nil {
		log.Warn().Err(err).Msg("initial load failed; requests will retry")
	} else {
		log.Info().Int("rows", len(res.Table)).Str("source", string(res.Source)).Msg("activities loaded")
	}

	return server.New(p.loader, p.client, reg, log).ListenAndServe(cfg.ListenAddr)
}

func runSync(cfg *config.Config) error {
	log := logging.Console(cfg.LogLevel)

	p, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer p.store.Close()

	res, err := p.loader.Load(true, func(page, total int) {
		log.Info().Int("page", page).Int("total", total).Msg("fetched page")
	})
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Warn().Msg(w)
	}
	fmt.Printf("%d activities loaded from %s into %s\n", len(res.Table), res.Source, cfg.CachePath())
	if exp := p.tokens.ExpiresAt(); !exp.IsZero() {
		fmt.Printf("access token valid until %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}

// runReset needs no credentials; it only touches the cache file.
func runReset(cfg *config.Config) error {
	c := cache.New(cfg.CacheDir, cfg.CacheFile)
	if !c.Exists() {
		fmt.Println("no cache to remove")
		return nil
	}
	if err := c.Remove(); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", cfg.CachePath())
	return nil
}
