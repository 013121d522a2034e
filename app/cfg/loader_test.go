package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		APIKey:       "test-key",
		APIBaseURL:   "https://newsapi.org/v2/everything",
		DataDir:      "./data",
		ReportsDir:   "./data/reports",
		DatabasePath: "./data/news.db",
		ProfilePath:  "./collector.yml",
		DryRun:       true,
		Debug:        true,
		UserAgent:    "Test Agent",
		Version:      "test-version",
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIKey)
	}
	if cfg.APIBaseURL != "https://newsapi.org/v2/everything" {
		t.Errorf("Expected base URL 'https://newsapi.org/v2/everything', got '%s'", cfg.APIBaseURL)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("Expected data dir './data', got '%s'", cfg.DataDir)
	}
	if cfg.ReportsDir != "./data/reports" {
		t.Errorf("Expected reports dir './data/reports', got '%s'", cfg.ReportsDir)
	}
	if cfg.DatabasePath != "./data/news.db" {
		t.Errorf("Expected database path './data/news.db', got '%s'", cfg.DatabasePath)
	}
	if cfg.ProfilePath != "./collector.yml" {
		t.Errorf("Expected profile path './collector.yml', got '%s'", cfg.ProfilePath)
	}
	if !cfg.DryRun {
		t.Error("Expected dry run to be enabled")
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}
