package cfg

type Cfg struct {
	// NewsAPI configuration
	APIKey     string
	APIBaseURL string

	// Filesystem layout
	DataDir      string
	ReportsDir   string
	DatabasePath string
	ProfilePath  string

	// Execution
	DryRun bool
	Debug  bool

	// Application metadata
	UserAgent string
	Version   string
}
