package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/okuzmin/market-news-collector/app/cfg"
	"github.com/okuzmin/market-news-collector/app/cleaner"
	"github.com/okuzmin/market-news-collector/app/collector"
	"github.com/okuzmin/market-news-collector/app/config"
	"github.com/okuzmin/market-news-collector/app/database"
	"github.com/okuzmin/market-news-collector/app/fetch"
	"github.com/okuzmin/market-news-collector/app/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return 0
	}

	logger := newLogger(appCfg.Debug)
	logger.Info("Market News Collector starting", "version", appCfg.Version, "dry_run", appCfg.DryRun)

	profile, err := config.NewLoader(appCfg.ProfilePath).Load()
	if err != nil {
		logger.Error("Failed to load collection profile", "error", err)
		return 1
	}

	if err := os.MkdirAll(appCfg.DataDir, 0o755); err != nil {
		logger.Error("Failed to create data directory", "error", err)
		return 1
	}

	db, err := database.Open(appCfg.DatabasePath, logger)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		return 1
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		logger.Error("Failed to run migrations", "error", err)
		return 1
	}
	logger.Debug("Migrations applied", "version", version, "dirty", dirty)

	articleCleaner, err := cleaner.New(&profile.Cleaning, logger)
	if err != nil {
		logger.Error("Failed to initialize cleaner", "error", err)
		return 1
	}

	client := fetch.NewClient(appCfg.APIKey, appCfg.APIBaseURL, &profile.API, appCfg.UserAgent, logger)
	repo := database.NewArticleRepository(db, logger)
	reports := report.NewGenerator(appCfg.ReportsDir, logger)

	params := fetch.SearchParams{
		Query:    profile.Search.Query,
		SortBy:   profile.Search.SortBy,
		Language: profile.Search.Language,
		PageSize: profile.Search.PageSize,
		DaysBack: profile.Search.DaysBack,
	}

	c := collector.New(client, articleCleaner, repo, reports,
		params, profile.RetentionDays, appCfg.DryRun, logger)

	summary := c.Run(context.Background())
	summary.Print(os.Stdout)

	if !summary.Success() {
		return 1
	}
	return 0
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
