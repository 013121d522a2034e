package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/okuzmin/market-news-collector/app/database"
	"github.com/okuzmin/market-news-collector/app/fetch"
	"github.com/okuzmin/market-news-collector/app/report"
)

// Status is the terminal state of one collection run
type Status string

const (
	StatusCompleted             Status = "completed"
	StatusCompletedWithWarnings Status = "completed_with_warnings"
	StatusFailed                Status = "failed"
)

// Summary is the structured result of one collection run. Every stage's
// outcome is either counted or appended to Errors; nothing vanishes.
type Summary struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Status    Status

	ArticlesFetched  int
	ArticlesCleaned  int
	ArticlesInserted int
	ArticlesSkipped  int
	ArticlesDeleted  int64

	ReportFile string
	Errors     []string
}

// Success reports whether the run completed without warnings or failures
func (s *Summary) Success() bool {
	return s.Status == StatusCompleted
}

// Print writes a human-readable execution summary
func (s *Summary) Print(w io.Writer) {
	divider := "============================================================"

	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, "EXECUTION SUMMARY")
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "Status: %s\n", s.Status)
	fmt.Fprintf(w, "Start Time: %s\n", s.StartTime.Format(time.RFC3339))
	fmt.Fprintf(w, "End Time: %s\n", s.EndTime.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", s.Duration.Round(time.Millisecond))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Articles Fetched: %d\n", s.ArticlesFetched)
	fmt.Fprintf(w, "Articles Cleaned: %d\n", s.ArticlesCleaned)
	fmt.Fprintf(w, "Articles Inserted: %d\n", s.ArticlesInserted)
	fmt.Fprintf(w, "Articles Skipped (Duplicates): %d\n", s.ArticlesSkipped)
	fmt.Fprintf(w, "Articles Deleted: %d\n", s.ArticlesDeleted)

	if s.ReportFile != "" {
		fmt.Fprintf(w, "Report File: %s\n", s.ReportFile)
	}
	if len(s.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors (%d):\n", len(s.Errors))
		for _, msg := range s.Errors {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}
	fmt.Fprintln(w, divider)
}

// Fetcher retrieves articles from the remote search API
type Fetcher interface {
	Search(ctx context.Context, params fetch.SearchParams) []database.Article
}

// ArticleCleaner normalizes and validates a batch of articles
type ArticleCleaner interface {
	Run(articles []database.Article) []database.Article
}

// ArticleStore persists articles and evicts stale rows
type ArticleStore interface {
	BulkInsert(articles []database.Article) (int, int, error)
	DeleteOlderThan(days int) (int64, error)
}

// ReportWriter renders a batch of articles into a report file
type ReportWriter interface {
	Generate(articles []database.Article, asOf time.Time) (string, error)
	Summarize(path string) (*report.Summary, error)
}

// Collector sequences one collection run:
// fetch -> clean -> store -> evict -> report
type Collector struct {
	fetcher       Fetcher
	cleaner       ArticleCleaner
	store         ArticleStore
	reports       ReportWriter
	params        fetch.SearchParams
	retentionDays int
	dryRun        bool
	logger        *slog.Logger
}

// New creates a new collector
func New(fetcher Fetcher, cleaner ArticleCleaner, store ArticleStore, reports ReportWriter,
	params fetch.SearchParams, retentionDays int, dryRun bool, logger *slog.Logger) *Collector {
	return &Collector{
		fetcher:       fetcher,
		cleaner:       cleaner,
		store:         store,
		reports:       reports,
		params:        params,
		retentionDays: retentionDays,
		dryRun:        dryRun,
		logger:        logger,
	}
}

// Run executes all applicable stages and always returns a summary; no
// failure escapes past it. In dry-run mode storage, eviction and reporting
// are skipped but the would-be inserted count is still reported.
func (c *Collector) Run(ctx context.Context) *Summary {
	summary := &Summary{StartTime: time.Now().UTC()}

	c.logger.Info("Starting collection run", "dry_run", c.dryRun)
	if c.dryRun {
		c.logger.Warn("Dry run mode, no data will be saved")
	}

	fetched := c.fetcher.Search(ctx, c.params)
	summary.ArticlesFetched = len(fetched)
	if len(fetched) == 0 {
		c.logger.Warn("No articles fetched")
		summary.Status = StatusCompletedWithWarnings
		return c.finish(summary)
	}

	cleaned := c.cleaner.Run(fetched)
	summary.ArticlesCleaned = len(cleaned)
	if len(cleaned) == 0 {
		c.fail(summary, "no articles left after cleaning")
		return c.finish(summary)
	}

	if c.dryRun {
		c.logger.Info("Dry run: skipping storage, retention sweep and report")
		summary.ArticlesInserted = len(cleaned)
		summary.Status = StatusCompleted
		return c.finish(summary)
	}

	inserted, skipped, err := c.store.BulkInsert(cleaned)
	summary.ArticlesInserted = inserted
	summary.ArticlesSkipped = skipped
	if err != nil {
		c.fail(summary, fmt.Sprintf("storing articles: %v", err))
		return c.finish(summary)
	}
	c.logger.Info("Stored articles", "inserted", inserted, "skipped", skipped)

	deleted, err := c.store.DeleteOlderThan(c.retentionDays)
	if err != nil {
		c.fail(summary, fmt.Sprintf("deleting old articles: %v", err))
		return c.finish(summary)
	}
	summary.ArticlesDeleted = deleted

	path, err := c.reports.Generate(cleaned, time.Now().UTC())
	if err != nil {
		c.fail(summary, fmt.Sprintf("generating report: %v", err))
		return c.finish(summary)
	}
	summary.ReportFile = path

	if stats, err := c.reports.Summarize(path); err != nil {
		c.logger.Warn("Failed to summarize report", "error", err)
	} else {
		c.logger.Info("Report written",
			"articles", stats.ArticleCount,
			"sources", stats.UniqueSources,
			"authors", stats.UniqueAuthors)
	}

	summary.Status = StatusCompleted
	c.logger.Info("Collection run completed")
	return c.finish(summary)
}

func (c *Collector) fail(summary *Summary, msg string) {
	c.logger.Error(msg)
	summary.Status = StatusFailed
	summary.Errors = append(summary.Errors, msg)
}

func (c *Collector) finish(summary *Summary) *Summary {
	summary.EndTime = time.Now().UTC()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
	return summary
}
