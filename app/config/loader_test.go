package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_Load_MissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing.yml"))

	profile, err := loader.Load()
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}

	if profile.Search.Query != "market OR finance OR business" {
		t.Errorf("Unexpected default query: %s", profile.Search.Query)
	}
	if profile.Search.PageSize != 100 {
		t.Errorf("Expected default page size 100, got %d", profile.Search.PageSize)
	}
	if profile.API.MaxRetries != 3 {
		t.Errorf("Expected default max retries 3, got %d", profile.API.MaxRetries)
	}
	if profile.Cleaning.MaxTitleLength != 500 {
		t.Errorf("Expected default max title length 500, got %d", profile.Cleaning.MaxTitleLength)
	}
	if profile.Cleaning.DefaultAuthor != "Unknown" {
		t.Errorf("Expected default author 'Unknown', got %s", profile.Cleaning.DefaultAuthor)
	}
	if profile.RetentionDays != 90 {
		t.Errorf("Expected default retention 90 days, got %d", profile.RetentionDays)
	}
}

func TestLoader_Load_File(t *testing.T) {
	content := `
search:
  query: "bitcoin OR ethereum"
  page_size: 50
retention_days: 30
`
	path := filepath.Join(t.TempDir(), "collector.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	profile, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if profile.Search.Query != "bitcoin OR ethereum" {
		t.Errorf("Expected overridden query, got %s", profile.Search.Query)
	}
	if profile.Search.PageSize != 50 {
		t.Errorf("Expected page size 50, got %d", profile.Search.PageSize)
	}
	if profile.RetentionDays != 30 {
		t.Errorf("Expected retention 30 days, got %d", profile.RetentionDays)
	}

	// Unset fields fall back to defaults
	if profile.Search.SortBy != "publishedAt" {
		t.Errorf("Expected default sort order, got %s", profile.Search.SortBy)
	}
	if profile.API.Timeout != 15 {
		t.Errorf("Expected default timeout 15, got %d", profile.API.Timeout)
	}
	if profile.Cleaning.EmojiPattern == "" {
		t.Error("Expected default emoji pattern to be applied")
	}
}

func TestLoader_Load_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"page size too large", "search:\n  page_size: 500\n"},
		{"negative retention", "retention_days: -1\n"},
		{"bad emoji pattern", "cleaning:\n  emoji_pattern: \"[unclosed\"\n"},
		{"not yaml", "{{{{\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "collector.yml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("Failed to write profile: %v", err)
			}

			if _, err := NewLoader(path).Load(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestAPIConfig_Durations(t *testing.T) {
	cfg := &APIConfig{Timeout: 20, RetryDelay: 5}
	if cfg.GetTimeout().Seconds() != 20 {
		t.Errorf("Expected 20s timeout, got %v", cfg.GetTimeout())
	}
	if cfg.GetRetryDelay().Seconds() != 5 {
		t.Errorf("Expected 5s retry delay, got %v", cfg.GetRetryDelay())
	}

	zero := &APIConfig{}
	if zero.GetTimeout().Seconds() != 15 {
		t.Errorf("Expected default 15s timeout, got %v", zero.GetTimeout())
	}
}
