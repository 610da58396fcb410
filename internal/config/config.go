// Package config holds the CLI defaults and the optional TOML configuration
// file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"

	// DefaultLogFormat selects the slog text handler.
	DefaultLogFormat = "text"

	// DefaultHTTPTimeout bounds remote document fetches.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultOutput is the encoding used for documents and form models.
	DefaultOutput = "json"

	// DefaultConcurrency is the number of documents parsed in parallel.
	DefaultConcurrency = 4

	// DefaultMaxBytes caps the size of a single document. Zero disables the cap.
	DefaultMaxBytes = 0
)

// Output encodings.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config mirrors the TOML configuration file.
type Config struct {
	LogLevel    string   `toml:"log_level"`
	LogFormat   string   `toml:"log_format"`
	HTTP        bool     `toml:"http"`
	HTTPTimeout Duration `toml:"http_timeout"`
	HTTPCache   bool     `toml:"http_cache"`
	MaxBytes    int64    `toml:"max_bytes"`
	Output      string   `toml:"output"`
	Concurrency int      `toml:"concurrency"`
}

// Duration decodes TOML strings such as "5s" with time.ParseDuration.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		HTTPTimeout: Duration{DefaultHTTPTimeout},
		Output:      DefaultOutput,
		Concurrency: DefaultConcurrency,
		MaxBytes:    DefaultMaxBytes,
	}
}

// Load reads the TOML file at path on top of the defaults. An empty path
// returns the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Decode(string(data), cfg)
}

// Decode parses TOML data on top of base.
func Decode(data string, base Config) (Config, error) {
	cfg := base
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Config{}, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	var errs []error
	switch c.Output {
	case OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("config: unsupported output %q", c.Output))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unsupported log format %q", c.LogFormat))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("config: concurrency must be positive, got %d", c.Concurrency))
	}
	if c.HTTPTimeout.Duration < 0 {
		errs = append(errs, errors.New("config: http_timeout must not be negative"))
	}
	if c.MaxBytes < 0 {
		errs = append(errs, errors.New("config: max_bytes must not be negative"))
	}
	return errors.Join(errs...)
}
