package config

// Profile represents a complete collection profile
type Profile struct {
	Search        SearchConfig   `yaml:"search"`
	API           APIConfig      `yaml:"api"`
	Cleaning      CleaningConfig `yaml:"cleaning"`
	RetentionDays int            `yaml:"retention_days"`
}

// SearchConfig contains the NewsAPI search parameters
type SearchConfig struct {
	Query    string `yaml:"query"`
	SortBy   string `yaml:"sort_by"`
	Language string `yaml:"language"`
	PageSize int    `yaml:"page_size"`
	DaysBack int    `yaml:"days_back"`
}

// APIConfig contains the HTTP request and retry policy
type APIConfig struct {
	Timeout    int `yaml:"timeout"`     // seconds
	MaxRetries int `yaml:"max_retries"`
	RetryDelay int `yaml:"retry_delay"` // seconds
}

// CleaningConfig contains text normalization limits and defaults
type CleaningConfig struct {
	MaxTitleLength       int    `yaml:"max_title_length"`
	MaxAuthorLength      int    `yaml:"max_author_length"`
	MaxDescriptionLength int    `yaml:"max_description_length"`
	DefaultAuthor        string `yaml:"default_author"`
	EmojiPattern         string `yaml:"emoji_pattern"`
}
