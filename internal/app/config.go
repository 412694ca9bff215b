package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	InputPath string
	// OutputPath is where the report is written. Empty means stdout, except
	// for binary formats which get a path derived from the input.
	OutputPath string
	Format     string

	// Fetching
	Concurrency int
	Timeout     time.Duration
	UserAgent   string
	Tilde       string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	// Logging
	LogFile string
	Verbose bool
}

// Defaults used when neither flags, environment nor a config file set a value.
const (
	DefaultFormat      = "table"
	DefaultConcurrency = 16
	DefaultTimeout     = 30 * time.Second
	DefaultUserAgent   = "pagedeps/1.0 (+https://github.com/hyperifyio/pagedeps)"
	DefaultTilde       = "always"
)

// DefaultConfig returns the lowest-precedence configuration layer.
func DefaultConfig() Config {
	return Config{
		Format:      DefaultFormat,
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		Tilde:       DefaultTilde,
	}
}
