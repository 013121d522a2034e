package database

import (
	"time"
)

// Article represents a news article record in the database.
// URL is the deduplication key: the articles table enforces a uniqueness
// constraint on it.
type Article struct {
	ID            int64      // Assigned by the store on insert; zero before persistence
	Title         string
	Source        string
	Author        string
	PublishedDate *time.Time // Naive UTC; nil when the API gave no parseable date
	Description   string
	URL           string
	FetchedAt     time.Time // Set by the fetch client at parse time
	CreatedAt     time.Time
}
