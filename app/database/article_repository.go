package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateURL reports that an article with the same URL is already
// stored. Callers treat it as an expected skip, not a failure.
var ErrDuplicateURL = errors.New("article with this URL already exists")

// timeLayout is how timestamps are stored. Plain UTC text keeps SQL
// comparison and ordering chronological.
const timeLayout = "2006-01-02 15:04:05"

const articleColumns = "id, title, source, author, published_date, description, url, fetched_at, created_at"

// ArticleRepository handles database operations for articles
type ArticleRepository struct {
	db     *DB
	logger *slog.Logger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *DB, logger *slog.Logger) *ArticleRepository {
	return &ArticleRepository{db: db, logger: logger}
}

// Insert stores a single article and returns its assigned id. A uniqueness
// violation on the URL returns ErrDuplicateURL; any other database failure
// is returned wrapped.
func (r *ArticleRepository) Insert(article *Article) (int64, error) {
	if article.FetchedAt.IsZero() {
		article.FetchedAt = time.Now().UTC()
	}

	result, err := r.db.Exec(`
		INSERT INTO articles
		(title, source, author, published_date, description, url, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, article.Title, article.Source, article.Author,
		formatNullableTime(article.PublishedDate), article.Description,
		article.URL, formatTime(article.FetchedAt))

	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug("Duplicate article skipped", "url", article.URL)
			return 0, ErrDuplicateURL
		}
		return 0, fmt.Errorf("failed to insert article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted article id: %w", err)
	}

	article.ID = id
	r.logger.Debug("Inserted article", "id", id, "url", article.URL)
	return id, nil
}

// BulkInsert applies Insert to each article independently and returns
// (inserted, skipped) counts. Skipped covers both duplicates and per-record
// failures; the first non-duplicate failure is also returned after the
// remaining records have been attempted.
func (r *ArticleRepository) BulkInsert(articles []Article) (int, int, error) {
	var inserted, skipped int
	var firstErr error

	for i := range articles {
		_, err := r.Insert(&articles[i])
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, ErrDuplicateURL):
			skipped++
		default:
			r.logger.Warn("Failed to insert article", "url", articles[i].URL, "error", err)
			skipped++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return inserted, skipped, firstErr
}

// Exists checks whether an article with the given URL is stored
func (r *ArticleRepository) Exists(url string) (bool, error) {
	var one int
	err := r.db.QueryRow("SELECT 1 FROM articles WHERE url = ? LIMIT 1", url).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}
	return true, nil
}

// GetByURL retrieves a single article by exact URL match, or nil when not found
func (r *ArticleRepository) GetByURL(url string) (*Article, error) {
	row := r.db.QueryRow("SELECT "+articleColumns+" FROM articles WHERE url = ?", url)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article by URL: %w", err)
	}
	return article, nil
}

// ListAll returns articles ordered most-recent-first by published date.
// A limit <= 0 returns all rows. Rows without a published date sort last.
func (r *ArticleRepository) ListAll(limit int) ([]Article, error) {
	query := "SELECT " + articleColumns + " FROM articles ORDER BY published_date DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// ListBySource returns articles from one source, most-recent-first
func (r *ArticleRepository) ListBySource(source string) ([]Article, error) {
	rows, err := r.db.Query(
		"SELECT "+articleColumns+" FROM articles WHERE source = ? ORDER BY published_date DESC",
		source)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles by source: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// Count returns the total number of stored articles
func (r *ArticleRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// DeleteOlderThan removes articles whose published date is strictly older
// than now - days and returns the number of rows removed. Rows with a null
// published date are retained indefinitely: their age cannot be determined,
// and silently deleting them would be worse than the unbounded growth this
// trades for.
func (r *ArticleRepository) DeleteOlderThan(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	result, err := r.db.Exec(`
		DELETE FROM articles
		WHERE published_date IS NOT NULL AND published_date < ?
	`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old articles: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted articles: %w", err)
	}

	r.logger.Info("Deleted old articles", "count", deleted, "retention_days", days)
	return deleted, nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var article Article
	var published, fetched, created sql.NullString

	err := row.Scan(&article.ID, &article.Title, &article.Source, &article.Author,
		&published, &article.Description, &article.URL, &fetched, &created)
	if err != nil {
		return nil, err
	}

	if published.Valid {
		if t, err := parseTime(published.String); err == nil {
			article.PublishedDate = &t
		}
	}
	if fetched.Valid {
		if t, err := parseTime(fetched.String); err == nil {
			article.FetchedAt = t
		}
	}
	if created.Valid {
		if t, err := parseTime(created.String); err == nil {
			article.CreatedAt = t
		}
	}

	return &article, nil
}

func collectArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return articles, nil
}
