package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen for typical documentation sites: fast, local servers
// with many small HTML pages.
const (
	// DefaultConcurrency is the maximum number of pages processed at once.
	// Documentation sites are usually served by CDNs or static hosts that
	// tolerate high parallelism; 100 keeps large sites fast without
	// exhausting local file descriptors.
	DefaultConcurrency = 100

	// DefaultMaxRetries is the number of retries after the first failed
	// fetch attempt. A URL whose fetch always fails is attempted
	// DefaultMaxRetries+1 times in total and then abandoned.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the fixed delay before a failed fetch is
	// re-submitted to the frontier. The delay is constant rather than
	// exponential; transient documentation-host errors usually clear
	// within a couple of seconds.
	DefaultRetryDelay = 2 * time.Second

	// DefaultFetchTimeout bounds each HTTP request. Documentation pages
	// are small; anything slower than 30 seconds is treated as a failure
	// and handed to the retry path.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultSelector is the CSS selector locating the content region on
	// each page. Most documentation generators wrap the article body in
	// an <article> element. Pages without a match are skipped as
	// non-content pages (navigation shells, redirects, search pages).
	DefaultSelector = "article"

	// DefaultUserAgent identifies docsink in HTTP requests.
	// A descriptive User-Agent lets site operators identify crawler
	// traffic in their logs.
	DefaultUserAgent = "docsink/1.0 (+https://github.com/docsink/docsink)"

	// DefaultMaxBodySize limits the response body size read per page.
	// 10MB is generous for HTML while preventing memory exhaustion from
	// unexpectedly large responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultOutputDir is the output directory for extracted pages when
	// none is specified on the command line.
	DefaultOutputDir = "docs-output"

	// AppName is the application name used for XDG directory paths.
	AppName = "docsink"
)

// Config holds all configuration options for a docsink crawl.
// It is populated from CLI flags and passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, OutputConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// RootURL is the URL the crawl starts from. Its origin (scheme://host)
	// defines the crawl scope: only same-origin URLs are followed.
	RootURL string

	// OutputDir is the directory extracted pages are written to.
	// It is removed and recreated at the start of every crawl; a crawl
	// always starts from empty state.
	OutputDir string

	// Concurrency is the maximum number of pages processed concurrently.
	Concurrency int

	// MaxRetries is the number of retries after the first failed fetch.
	MaxRetries int

	// RetryDelay is the fixed delay before a failed fetch is re-submitted.
	RetryDelay time.Duration

	// FetchTimeout bounds each HTTP request.
	FetchTimeout time.Duration

	// Selector is the CSS selector for the content region.
	Selector string

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .docsink in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file, keyed by origin.
	SiteConfigs *File

	// SaveHistory enables recording the crawl session in the local
	// SQLite history database.
	SaveHistory bool

	// DBDir is the directory holding the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SkipArchive disables archive creation at finalization.
	SkipArchive bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, concurrency).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		OutputDir:    DefaultOutputDir,
		Concurrency:  DefaultConcurrency,
		MaxRetries:   DefaultMaxRetries,
		RetryDelay:   DefaultRetryDelay,
		FetchTimeout: DefaultFetchTimeout,
		Selector:     DefaultSelector,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for docsink.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/docsink
// On macOS: ~/Library/Application Support/docsink
// On Windows: %LOCALAPPDATA%\docsink
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for docsink.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Origin returns the scheme://host origin of the root URL.
// It returns an empty string if the root URL does not parse; Validate
// reports that case as ErrInvalidRootURL.
func (c *Config) Origin() string {
	u, err := url.Parse(c.RootURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before the crawl begins.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.RootURL == "" {
		return ErrNoRootURL
	}

	u, err := url.Parse(c.RootURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidRootURL
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	// Concurrency must be positive; zero workers would mean no crawling
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// MaxRetries must be non-negative; zero means a single attempt
	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	// RetryDelay must be non-negative
	if c.RetryDelay < 0 {
		return ErrInvalidRetryDelay
	}

	// FetchTimeout must be positive; zero would cause immediate failures
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Selector == "" {
		return ErrEmptySelector
	}

	// MaxBodySize must be non-negative if set
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
