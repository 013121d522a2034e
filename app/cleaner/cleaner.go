package cleaner

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/okuzmin/market-news-collector/app/config"
	"github.com/okuzmin/market-news-collector/app/database"
)

// Cleaner normalizes and validates article text fields. It is pure: no
// network or storage access, fields are overwritten in place.
type Cleaner struct {
	cfg    *config.CleaningConfig
	logger *slog.Logger

	emojiRe       *regexp.Regexp
	whitespaceRe  *regexp.Regexp
	urlRe         *regexp.Regexp
	namedEntityRe *regexp.Regexp
	decEntityRe   *regexp.Regexp
	hexEntityRe   *regexp.Regexp
}

// New creates a new cleaner with all patterns compiled once
func New(cfg *config.CleaningConfig, logger *slog.Logger) (*Cleaner, error) {
	emojiRe, err := regexp.Compile(cfg.EmojiPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid emoji pattern: %w", err)
	}

	return &Cleaner{
		cfg:           cfg,
		logger:        logger,
		emojiRe:       emojiRe,
		whitespaceRe:  regexp.MustCompile(`\s+`),
		urlRe:         regexp.MustCompile(`https?://\S+`),
		namedEntityRe: regexp.MustCompile(`&[a-z]+;`),
		decEntityRe:   regexp.MustCompile(`&#\d+;`),
		hexEntityRe:   regexp.MustCompile(`&#x[0-9a-f]+;`),
	}, nil
}

// Run cleans each article in place and drops records that fail the
// validation gate afterwards
func (c *Cleaner) Run(articles []database.Article) []database.Article {
	cleaned := make([]database.Article, 0, len(articles))

	for i := range articles {
		article := articles[i]
		c.CleanArticle(&article)

		if !c.validate(&article) {
			continue
		}
		cleaned = append(cleaned, article)
	}

	c.logger.Info("Cleaned articles", "kept", len(cleaned), "total", len(articles))
	return cleaned
}

// CleanArticle cleans all fields of one article in place
func (c *Cleaner) CleanArticle(article *database.Article) {
	article.Title = c.CleanTitle(article.Title)
	article.Description = c.CleanDescription(article.Description)
	article.Author = c.CleanAuthor(article.Author)
	article.Source = c.CleanSource(article.Source)
	article.URL = c.CleanURL(article.URL)
	article.PublishedDate = c.NormalizeTime(article.PublishedDate)
}

// CleanTitle cleans an article title. Idempotent.
func (c *Cleaner) CleanTitle(title string) string {
	if title == "" {
		return ""
	}
	return c.cleanText(title, c.cfg.MaxTitleLength)
}

// CleanDescription cleans an article description
func (c *Cleaner) CleanDescription(description string) string {
	if description == "" {
		return ""
	}
	return c.cleanText(description, c.cfg.MaxDescriptionLength)
}

// CleanAuthor cleans an author name, falling back to the default when the
// input is blank or cleaning leaves nothing behind
func (c *Cleaner) CleanAuthor(author string) string {
	if strings.TrimSpace(author) == "" {
		return c.cfg.DefaultAuthor
	}

	author = c.cleanText(author, c.cfg.MaxAuthorLength)
	if author == "" {
		return c.cfg.DefaultAuthor
	}
	return author
}

// CleanSource cleans a source name, defaulting to "Unknown" when blank
func (c *Cleaner) CleanSource(source string) string {
	if source == "" {
		return "Unknown"
	}

	source = c.stripEntities(norm.NFC.String(source))
	source = strings.TrimSpace(c.whitespaceRe.ReplaceAllString(source, " "))

	if source == "" {
		return "Unknown"
	}
	return source
}

// CleanURL trims the URL and, when the string carries leading text before
// an http(s) token, extracts just that token
func (c *Cleaner) CleanURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	if match := c.urlRe.FindString(rawURL); match != "" {
		return match
	}
	return rawURL
}

// NormalizeTime reinterprets a timezone-aware timestamp as naive UTC.
// Nil passes through unchanged.
func (c *Cleaner) NormalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	utc := t.In(time.UTC)
	return &utc
}

func (c *Cleaner) cleanText(text string, maxLength int) string {
	text = norm.NFC.String(text)
	text = c.stripEntities(text)
	text = c.emojiRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(c.whitespaceRe.ReplaceAllString(text, " "))
	return truncate(text, maxLength)
}

func (c *Cleaner) stripEntities(text string) string {
	text = c.namedEntityRe.ReplaceAllString(text, "")
	text = c.decEntityRe.ReplaceAllString(text, "")
	text = c.hexEntityRe.ReplaceAllString(text, "")
	return text
}

// validate applies the required-field gate after cleaning. A failed record
// is discarded as a whole.
func (c *Cleaner) validate(article *database.Article) bool {
	switch {
	case strings.TrimSpace(article.Title) == "":
		c.logger.Warn("Article validation failed: missing title", "url", article.URL)
	case strings.TrimSpace(article.URL) == "":
		c.logger.Warn("Article validation failed: missing URL", "title", article.Title)
	case strings.TrimSpace(article.Source) == "":
		c.logger.Warn("Article validation failed: missing source", "url", article.URL)
	default:
		return true
	}
	return false
}

func truncate(text string, maxLength int) string {
	if maxLength <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return strings.TrimRightFunc(string(runes[:maxLength]), unicode.IsSpace)
}
