package athn

// Loader contracts for the raw text fetcher collaborator.

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"
)

// Loader fetches document text from different sources (filesystem, fs.FS,
// HTTP). Implementations live under internal/athn but satisfy this contract.
type Loader interface {
	Load(ctx context.Context, src Source) (Text, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem enables loading from an abstract filesystem.
	FileSystem fs.FS

	// HTTPClient allows callers to inject custom HTTP behaviour (timeouts,
	// proxies). Nil means HTTP sources are disabled unless AllowHTTPFallback is
	// true.
	HTTPClient *http.Client

	// AllowHTTPFallback toggles a default HTTP client when no client is
	// supplied. Loading stays offline-first unless this is set explicitly.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration

	// HTTPCache wraps the HTTP transport in an in-memory cache that honours
	// response cache headers.
	HTTPCache bool

	// MaxBytes bounds the size of a loaded document. Zero means no limit.
	MaxBytes int64

	// Logger receives debug and warning records. Nil uses slog.Default().
	Logger *slog.Logger
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS implementation for fs sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and assigns an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithHTTPCache toggles the caching HTTP transport.
func WithHTTPCache(enabled bool) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPCache = enabled
	}
}

// WithMaxBytes bounds the size of loaded documents.
func WithMaxBytes(limit int64) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.MaxBytes = limit
	}
}

// WithLogger sets the logger used by the loader.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.Logger = logger
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// Construction helpers live in the top-level athn package to prevent import cycles.
