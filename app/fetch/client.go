package fetch

import (
	"cmp"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/okuzmin/market-news-collector/app/config"
	"github.com/okuzmin/market-news-collector/app/database"
)

// Client fetches news articles from the NewsAPI search endpoint.
// Every failure path degrades to an empty result: the caller never has to
// distinguish a network outage from an empty search.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	sleep      func(time.Duration)
}

// NewClient creates a new API client
func NewClient(apiKey, baseURL string, apiCfg *config.APIConfig, userAgent string, logger *slog.Logger) *Client {
	if apiKey == "" || apiKey == "demo" {
		logger.Warn("Using demo API key, limited to 100 requests per day")
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		userAgent:  userAgent,
		maxRetries: apiCfg.MaxRetries,
		retryDelay: apiCfg.GetRetryDelay(),
		httpClient: &http.Client{Timeout: apiCfg.GetTimeout()},
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Search fetches articles matching the given parameters over the inclusive
// date range [today - DaysBack, today]. All failures are logged and return
// an empty slice.
func (c *Client) Search(ctx context.Context, params SearchParams) []database.Article {
	c.logger.Info("Fetching articles", "query", params.Query, "days_back", params.DaysBack)

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -params.DaysBack)

	query := url.Values{}
	query.Set("q", params.Query)
	query.Set("sortBy", params.SortBy)
	query.Set("language", params.Language)
	query.Set("pageSize", strconv.Itoa(params.PageSize))
	query.Set("from", from.Format("2006-01-02"))
	query.Set("to", to.Format("2006-01-02"))
	query.Set("apiKey", c.apiKey)

	body := c.fetchWithRetry(ctx, query)
	if body == nil {
		return nil
	}

	articles := c.parseResponse(body)
	c.logger.Info("Successfully fetched articles", "count", len(articles))
	return articles
}

// fetchWithRetry issues the request up to maxRetries times. 401 and
// unexpected statuses abort immediately; 429 backs off linearly with the
// attempt number; 5xx and transport errors wait the base delay.
func (c *Client) fetchWithRetry(ctx context.Context, query url.Values) []byte {
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		c.logger.Debug("Request attempt", "attempt", attempt, "max", c.maxRetries)

		body, status, err := c.doRequest(ctx, query)
		if err != nil {
			c.logger.Warn("Request failed", "attempt", attempt, "error", err)
			if attempt < c.maxRetries {
				c.sleep(c.retryDelay)
			}
			continue
		}

		switch {
		case status == http.StatusOK:
			return body
		case status == http.StatusUnauthorized:
			c.logger.Error("Unauthorized: invalid API key")
			return nil
		case status == http.StatusTooManyRequests:
			c.logger.Warn("Rate limited, backing off", "attempt", attempt)
			c.sleep(c.retryDelay * time.Duration(attempt))
		case status >= http.StatusInternalServerError:
			c.logger.Warn("Server error, retrying", "status", status)
			c.sleep(c.retryDelay)
		default:
			c.logger.Warn("Unexpected status code", "status", status)
			return nil
		}
	}

	c.logger.Error("All retry attempts exhausted", "attempts", c.maxRetries)
	return nil
}

func (c *Client) doRequest(ctx context.Context, query url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

// parseResponse decodes the payload and maps each item to an Article.
// Malformed items are skipped individually and never abort the batch.
func (c *Client) parseResponse(body []byte) []database.Article {
	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error("Failed to decode API response", "error", err)
		return nil
	}

	if payload.Status != "ok" {
		c.logger.Error("API returned error", "message", cmp.Or(payload.Message, "unknown error"), "code", payload.Code)
		return nil
	}

	c.logger.Debug("Parsing articles from response", "count", len(payload.Articles))

	articles := make([]database.Article, 0, len(payload.Articles))
	for _, raw := range payload.Articles {
		var item rawArticle
		if err := json.Unmarshal(raw, &item); err != nil {
			c.logger.Warn("Skipping malformed article", "error", err)
			continue
		}

		article, ok := c.mapArticle(item)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	return articles
}

func (c *Client) mapArticle(item rawArticle) (database.Article, bool) {
	itemURL := strings.TrimSpace(item.URL)
	if itemURL == "" {
		c.logger.Debug("Article missing URL, skipping")
		return database.Article{}, false
	}

	var published *time.Time
	if item.PublishedAt != "" {
		if t, err := dateparse.ParseAny(item.PublishedAt); err == nil {
			published = &t
		}
	}

	article := database.Article{
		Title:         strings.TrimSpace(item.Title),
		Source:        cmp.Or(item.Source.Name, "Unknown"),
		Author:        cmp.Or(strings.TrimSpace(item.Author), "Unknown"),
		PublishedDate: published,
		Description:   strings.TrimSpace(item.Description),
		URL:           itemURL,
		FetchedAt:     time.Now().UTC(),
	}

	return article, true
}
