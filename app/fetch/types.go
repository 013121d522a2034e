package fetch

import (
	"encoding/json"
)

// SearchParams are the query parameters for one search request
type SearchParams struct {
	Query    string
	SortBy   string
	Language string
	PageSize int
	DaysBack int
}

// searchResponse mirrors the NewsAPI "everything" response envelope.
// Articles stay raw so one malformed item cannot fail the whole payload.
type searchResponse struct {
	Status       string            `json:"status"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	TotalResults int               `json:"totalResults"`
	Articles     []json.RawMessage `json:"articles"`
}

type rawArticle struct {
	Source      rawSource `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt string    `json:"publishedAt"`
}

type rawSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
