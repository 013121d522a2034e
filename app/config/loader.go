package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultEmojiPattern matches the emoji and symbol ranges stripped from
// article text fields during cleaning.
const DefaultEmojiPattern = `[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2702}-\x{27B0}\x{24C2}-\x{1F251}]+`

// Loader handles loading and validation of collection profiles
type Loader struct {
	path string
}

// NewLoader creates a new profile loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the YAML profile from disk. A missing file is not an error:
// the collector falls back to the built-in defaults.
func (l *Loader) Load() (*Profile, error) {
	profile := defaultProfile()

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", l.path, err)
	}

	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", l.path, err)
	}

	l.setDefaults(profile)

	if err := l.validate(profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", l.path, err)
	}

	return profile, nil
}

func defaultProfile() *Profile {
	return &Profile{
		Search: SearchConfig{
			Query:    "market OR finance OR business",
			SortBy:   "publishedAt",
			Language: "en",
			PageSize: 100,
			DaysBack: 7,
		},
		API: APIConfig{
			Timeout:    15,
			MaxRetries: 3,
			RetryDelay: 2,
		},
		Cleaning: CleaningConfig{
			MaxTitleLength:       500,
			MaxAuthorLength:      200,
			MaxDescriptionLength: 5000,
			DefaultAuthor:        "Unknown",
			EmojiPattern:         DefaultEmojiPattern,
		},
		RetentionDays: 90,
	}
}

// setDefaults fills in fields an explicit profile left empty
func (l *Loader) setDefaults(profile *Profile) {
	defaults := defaultProfile()

	if profile.Search.SortBy == "" {
		profile.Search.SortBy = defaults.Search.SortBy
	}
	if profile.Search.Language == "" {
		profile.Search.Language = defaults.Search.Language
	}
	if profile.Search.PageSize == 0 {
		profile.Search.PageSize = defaults.Search.PageSize
	}
	if profile.Search.DaysBack == 0 {
		profile.Search.DaysBack = defaults.Search.DaysBack
	}
	if profile.API.Timeout == 0 {
		profile.API.Timeout = defaults.API.Timeout
	}
	if profile.API.MaxRetries == 0 {
		profile.API.MaxRetries = defaults.API.MaxRetries
	}
	if profile.API.RetryDelay == 0 {
		profile.API.RetryDelay = defaults.API.RetryDelay
	}
	if profile.Cleaning.MaxTitleLength == 0 {
		profile.Cleaning.MaxTitleLength = defaults.Cleaning.MaxTitleLength
	}
	if profile.Cleaning.MaxAuthorLength == 0 {
		profile.Cleaning.MaxAuthorLength = defaults.Cleaning.MaxAuthorLength
	}
	if profile.Cleaning.MaxDescriptionLength == 0 {
		profile.Cleaning.MaxDescriptionLength = defaults.Cleaning.MaxDescriptionLength
	}
	if profile.Cleaning.DefaultAuthor == "" {
		profile.Cleaning.DefaultAuthor = defaults.Cleaning.DefaultAuthor
	}
	if profile.Cleaning.EmojiPattern == "" {
		profile.Cleaning.EmojiPattern = defaults.Cleaning.EmojiPattern
	}
	if profile.RetentionDays == 0 {
		profile.RetentionDays = defaults.RetentionDays
	}
}

// validate validates the profile
func (l *Loader) validate(profile *Profile) error {
	if profile.Search.Query == "" {
		return fmt.Errorf("search query is required")
	}
	if profile.Search.PageSize < 1 || profile.Search.PageSize > 100 {
		return fmt.Errorf("page size must be between 1 and 100")
	}
	if profile.Search.DaysBack < 0 {
		return fmt.Errorf("days back must be non-negative")
	}
	if profile.API.Timeout < 1 {
		return fmt.Errorf("timeout must be positive")
	}
	if profile.API.MaxRetries < 1 {
		return fmt.Errorf("max retries must be positive")
	}
	if profile.API.RetryDelay < 0 {
		return fmt.Errorf("retry delay must be non-negative")
	}
	if profile.RetentionDays < 0 {
		return fmt.Errorf("retention days must be non-negative")
	}
	if _, err := regexp.Compile(profile.Cleaning.EmojiPattern); err != nil {
		return fmt.Errorf("invalid emoji pattern: %w", err)
	}
	return nil
}
