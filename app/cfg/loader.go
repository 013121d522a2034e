package cfg

import (
	"cmp"
	"fmt"
	"path/filepath"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// NewsAPI configuration
	APIKey     string `long:"api-key" env:"NEWS_API_KEY" default:"demo" description:"NewsAPI.org API key"`
	APIBaseURL string `long:"api-base-url" env:"NEWS_API_BASE_URL" default:"https://newsapi.org/v2/everything" description:"NewsAPI search endpoint"`

	// Filesystem layout
	DataDir      string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for the database and reports"`
	ReportsDir   string `long:"reports-dir" env:"REPORTS_DIR" description:"Directory for CSV reports (defaults to <data-dir>/reports)"`
	DatabasePath string `long:"db-path" env:"DB_PATH" description:"Path to the SQLite database file (defaults to <data-dir>/news.db)"`
	ProfilePath  string `long:"profile" env:"PROFILE_PATH" default:"./collector.yml" description:"Path to the YAML collection profile"`

	// Execution
	DryRun bool `long:"dry-run" env:"DRY_RUN" description:"Fetch and clean articles without touching the database or reports"`
	Debug  bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Market News Collector/1.0" description:"User agent string for HTTP requests"`
}

// Load parses configuration from command-line flags and environment
// variables. A nil Cfg with nil error means help was requested and shown.
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
		APIKey:       raw.APIKey,
		APIBaseURL:   raw.APIBaseURL,
		DataDir:      raw.DataDir,
		ReportsDir:   cmp.Or(raw.ReportsDir, filepath.Join(raw.DataDir, "reports")),
		DatabasePath: cmp.Or(raw.DatabasePath, filepath.Join(raw.DataDir, "news.db")),
		ProfilePath:  raw.ProfilePath,
		DryRun:       raw.DryRun,
		Debug:        raw.Debug,
		UserAgent:    raw.UserAgent,
		Version:      GetVersion(),
	}

	return cfg, nil
}
