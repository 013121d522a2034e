package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/okuzmin/market-news-collector/app/database"
)

const (
	filePrefix = "news"
	dateLayout = "2006_01_02"
)

// header is the fixed column order of every report file
var header = []string{"id", "title", "source", "author", "published_date", "description", "url", "fetched_at"}

// Summary holds the statistics read back from a report file
type Summary struct {
	File          string
	ArticleCount  int
	UniqueSources int
	UniqueAuthors int
	Sources       []string
	FileSizeBytes int64
}

// Generator writes CSV reports of collected articles
type Generator struct {
	reportsDir string
	logger     *slog.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(reportsDir string, logger *slog.Logger) *Generator {
	return &Generator{reportsDir: reportsDir, logger: logger}
}

// Generate writes one report for the given date and returns its path.
// The filename is date-stamped, so lexicographic order of report files
// equals chronological order. A failed row is logged and skipped; it does
// not abort the file.
func (g *Generator) Generate(articles []database.Article, asOf time.Time) (string, error) {
	if err := os.MkdirAll(g.reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.csv", filePrefix, asOf.Format(dateLayout))
	path := filepath.Join(g.reportsDir, filename)
	g.logger.Info("Generating report", "file", filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write report header: %w", err)
	}

	for i := range articles {
		if err := w.Write(csvRow(&articles[i])); err != nil {
			g.logger.Warn("Failed to write report row", "url", articles[i].URL, "error", err)
			continue
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush report file: %w", err)
	}

	g.logger.Info("Report generated", "file", path, "articles", len(articles))
	return path, nil
}

// Summarize re-reads a previously written report. A missing file yields a
// zeroed summary, not an error.
func (g *Generator) Summarize(path string) (*Summary, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		g.logger.Warn("Report file not found", "path", path)
		return &Summary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat report file: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err == io.EOF {
		return &Summary{File: filepath.Base(path), FileSizeBytes: info.Size()}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read report header: %w", err)
	}

	var count int
	sources := make(map[string]struct{})
	authors := make(map[string]struct{})

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read report row: %w", err)
		}
		if len(record) < len(header) {
			continue
		}

		count++
		if record[2] != "" {
			sources[record[2]] = struct{}{}
		}
		if record[3] != "" {
			authors[record[3]] = struct{}{}
		}
	}

	sourceList := make([]string, 0, len(sources))
	for source := range sources {
		sourceList = append(sourceList, source)
	}
	slices.Sort(sourceList)

	summary := &Summary{
		File:          filepath.Base(path),
		ArticleCount:  count,
		UniqueSources: len(sources),
		UniqueAuthors: len(authors),
		Sources:       sourceList,
		FileSizeBytes: info.Size(),
	}

	g.logger.Info("Report summary", "articles", count, "sources", len(sources))
	return summary, nil
}

// Latest returns the path of the most recent report, or an empty string
// when no reports exist
func (g *Generator) Latest() (string, error) {
	matches, err := filepath.Glob(filepath.Join(g.reportsDir, filePrefix+"_*.csv"))
	if err != nil {
		return "", fmt.Errorf("failed to list report files: %w", err)
	}
	if len(matches) == 0 {
		g.logger.Debug("No reports found")
		return "", nil
	}

	slices.Sort(matches)
	return matches[len(matches)-1], nil
}

func csvRow(article *database.Article) []string {
	var id string
	if article.ID > 0 {
		id = strconv.FormatInt(article.ID, 10)
	}

	var published string
	if article.PublishedDate != nil {
		published = article.PublishedDate.Format(time.RFC3339)
	}

	var fetched string
	if !article.FetchedAt.IsZero() {
		fetched = article.FetchedAt.Format(time.RFC3339)
	}

	return []string{
		id,
		article.Title,
		article.Source,
		article.Author,
		published,
		article.Description,
		article.URL,
		fetched,
	}
}
