package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// DefaultFeedURL is used when no feed URL and no sources file are configured.
const DefaultFeedURL = "https://raw.githubusercontent.com/albinchristo04/ptv/refs/heads/main/events_with_m3u8.json"

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Blogger credentials. All four are required and checked before any
	// network call is made.
	ClientID     string `long:"client-id" env:"CLIENT_ID" description:"OAuth client ID (required)" required:"true"`
	ClientSecret string `long:"client-secret" env:"CLIENT_SECRET" description:"OAuth client secret (required)" required:"true"`
	RefreshToken string `long:"refresh-token" env:"REFRESH_TOKEN" description:"OAuth refresh token (required)" required:"true"`
	BlogID       string `long:"blog-id" env:"BLOG_ID" description:"Target blog identifier (required)" required:"true"`

	// Feed configuration
	FeedURL     string `long:"feed-url" env:"FEED_URL" description:"Upstream events JSON URL"`
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"Optional YAML file listing upstream feed sources"`

	// Lifecycle limits
	MaxCreatesPerRun int `long:"max-creates" env:"MAX_CREATES_PER_RUN" default:"3" description:"Maximum new posts created per run"`
	MaxDeletesPerRun int `long:"max-deletes" env:"MAX_DELETES_PER_RUN" default:"5" description:"Maximum finished posts deleted per run"`
	CreateDelayMs    int `long:"create-delay" env:"CREATE_DELAY_MS" default:"2000" description:"Delay between post creations in milliseconds"`
	DeleteDelayMs    int `long:"delete-delay" env:"DELETE_DELAY_MS" default:"1000" description:"Delay between post deletions in milliseconds"`
	FinishedOffset   int `long:"finished-offset" env:"FINISHED_OFFSET_SECONDS" default:"10800" description:"Seconds after kickoff before a match is considered finished"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (serve mode)"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the manual run endpoint (optional)"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Seconds between lifecycle runs (serve mode)"`
	DBPath            string `long:"db-path" env:"DB_PATH" default:"./match-comb.db" description:"SQLite database path for run history"`
	Once              bool   `long:"once" env:"RUN_ONCE" description:"Execute a single lifecycle run and exit"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Match Comb/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		ClientID:          raw.ClientID,
		ClientSecret:      raw.ClientSecret,
		RefreshToken:      raw.RefreshToken,
		BlogID:            raw.BlogID,
		FeedURL:           cmp.Or(raw.FeedURL, DefaultFeedURL),
		SourcesFile:       raw.SourcesFile,
		MaxCreatesPerRun:  raw.MaxCreatesPerRun,
		MaxDeletesPerRun:  raw.MaxDeletesPerRun,
		CreateDelayMs:     raw.CreateDelayMs,
		DeleteDelayMs:     raw.DeleteDelayMs,
		FinishedOffset:    raw.FinishedOffset,
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		SchedulerInterval: raw.SchedulerInterval,
		DBPath:            raw.DBPath,
		Once:              raw.Once,
		UserAgent:         raw.UserAgent,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(cfg *Cfg) error {
	if cfg.MaxCreatesPerRun < 0 {
		return fmt.Errorf("max creates per run must be non-negative")
	}
	if cfg.MaxDeletesPerRun < 0 {
		return fmt.Errorf("max deletes per run must be non-negative")
	}
	if cfg.FinishedOffset <= 0 {
		return fmt.Errorf("finished offset must be positive")
	}
	if cfg.SchedulerInterval <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}
	return nil
}
