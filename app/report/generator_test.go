package report

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okuzmin/market-news-collector/app/database"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	return NewGenerator(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testArticles() []database.Article {
	published := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	fetched := time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC)

	return []database.Article{
		{
			ID:            1,
			Title:         "Markets rally",
			Source:        "Reuters",
			Author:        "Jane Doe",
			PublishedDate: &published,
			Description:   "Stocks up.",
			URL:           "https://example.com/1",
			FetchedAt:     fetched,
		},
		{
			ID:        2,
			Title:     "Rates hold",
			Source:    "Bloomberg",
			Author:    "Unknown",
			URL:       "https://example.com/2",
			FetchedAt: fetched,
		},
		{
			// Not yet persisted: no id, no dates
			Title:  "Breaking",
			Source: "Reuters",
			Author: "John Roe",
			URL:    "https://example.com/3",
		},
	}
}

func TestGenerator_RoundTrip(t *testing.T) {
	g := newTestGenerator(t)
	articles := testArticles()

	asOf := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	path, err := g.Generate(articles, asOf)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if filepath.Base(path) != "news_2026_08_28.csv" {
		t.Errorf("Expected date-stamped filename, got %s", filepath.Base(path))
	}

	summary, err := g.Summarize(path)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.ArticleCount != len(articles) {
		t.Errorf("Expected %d articles, got %d", len(articles), summary.ArticleCount)
	}
	if summary.UniqueSources != 2 {
		t.Errorf("Expected 2 unique sources, got %d", summary.UniqueSources)
	}
	if summary.UniqueAuthors != 3 {
		t.Errorf("Expected 3 unique authors, got %d", summary.UniqueAuthors)
	}
	if len(summary.Sources) != 2 {
		t.Errorf("Expected 2 sources in list, got %v", summary.Sources)
	}
	if summary.FileSizeBytes <= 0 {
		t.Errorf("Expected positive file size, got %d", summary.FileSizeBytes)
	}
}

func TestGenerator_Generate_Stringification(t *testing.T) {
	g := newTestGenerator(t)

	path, err := g.Generate(testArticles(), time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "id,title,source,author,published_date,description,url,fetched_at" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "2026-08-20T10:00:00Z") {
		t.Errorf("Expected ISO-8601 published date in row: %s", lines[1])
	}
	// Unpersisted record: empty id, empty timestamps
	if !strings.HasPrefix(lines[3], ",Breaking,") {
		t.Errorf("Expected empty id for unpersisted record: %s", lines[3])
	}
	if !strings.HasSuffix(lines[3], ",") {
		t.Errorf("Expected empty fetched_at for unpersisted record: %s", lines[3])
	}
}

func TestGenerator_Summarize_MissingFile(t *testing.T) {
	g := newTestGenerator(t)

	summary, err := g.Summarize(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if summary.ArticleCount != 0 || summary.UniqueSources != 0 || summary.FileSizeBytes != 0 {
		t.Errorf("Expected zeroed summary, got %+v", summary)
	}
}

func TestGenerator_Latest(t *testing.T) {
	g := newTestGenerator(t)

	latest, err := g.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != "" {
		t.Errorf("Expected empty string for no reports, got %s", latest)
	}

	if _, err := g.Generate(testArticles(), time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	newest, err := g.Generate(testArticles(), time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	latest, err = g.Latest()
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest != newest {
		t.Errorf("Expected latest report %s, got %s", newest, latest)
	}
}
