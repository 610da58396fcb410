package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/goliatone/go-athn/internal/config"
	"github.com/goliatone/go-athn/internal/logger"
	pkgathn "github.com/goliatone/go-athn/pkg/athn"
	"github.com/goliatone/go-athn/pkg/fill"
)

// application carries the resolved configuration between the Before hook and
// the command actions.
type application struct {
	stdout io.Writer
	stderr io.Writer
	driver fill.PromptDriver
	cfg    config.Config
	logger *slog.Logger
}

// newApp wires the CLI. A nil driver prompts on the terminal.
func newApp(stdout, stderr io.Writer, driver fill.PromptDriver) *cli.App {
	a := &application{
		stdout: stdout,
		stderr: stderr,
		driver: driver,
		cfg:    config.Default(),
		logger: slog.Default(),
	}

	return &cli.App{
		Name:      "athn",
		Usage:     "Parse ATHN documents and work with their forms",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
				EnvVars: []string{"ATHN_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   config.DefaultLogLevel,
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   config.DefaultLogFormat,
				Usage:   "Log format (text, json)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   config.DefaultOutput,
				Usage:   "Output encoding (json, yaml)",
				EnvVars: []string{"ATHN_OUTPUT"},
			},
			&cli.BoolFlag{
				Name:    "http",
				Usage:   "Allow loading documents over HTTP",
				EnvVars: []string{"ATHN_HTTP"},
			},
			&cli.DurationFlag{
				Name:    "http-timeout",
				Value:   config.DefaultHTTPTimeout,
				Usage:   "Timeout for remote documents",
				EnvVars: []string{"ATHN_HTTP_TIMEOUT"},
			},
			&cli.BoolFlag{
				Name:    "http-cache",
				Usage:   "Cache remote documents in memory, honouring cache headers",
				EnvVars: []string{"ATHN_HTTP_CACHE"},
			},
			&cli.Int64Flag{
				Name:    "max-bytes",
				Usage:   "Maximum document size in bytes (0 disables the limit)",
				EnvVars: []string{"ATHN_MAX_BYTES"},
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Value:   config.DefaultConcurrency,
				Usage:   "Documents parsed in parallel",
				EnvVars: []string{"ATHN_CONCURRENCY"},
			},
		},
		Before: a.before,
		Commands: []*cli.Command{
			a.parseCommand(),
			a.formsCommand(),
			a.validateCommand(),
			a.fillCommand(),
		},
	}
}

// before loads the configuration file and lets explicitly set flags
// override it.
func (a *application) before(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}
	if c.IsSet("output") {
		cfg.Output = strings.ToLower(c.String("output"))
	}
	if c.IsSet("http") {
		cfg.HTTP = c.Bool("http")
	}
	if c.IsSet("http-timeout") {
		cfg.HTTPTimeout = config.Duration{Duration: c.Duration("http-timeout")}
	}
	if c.IsSet("http-cache") {
		cfg.HTTPCache = c.Bool("http-cache")
	}
	if c.IsSet("max-bytes") {
		cfg.MaxBytes = c.Int64("max-bytes")
	}
	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger.Setup(a.stderr, logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	return nil
}

func (a *application) loaderOptions() []pkgathn.LoaderOption {
	options := []pkgathn.LoaderOption{
		pkgathn.WithMaxBytes(a.cfg.MaxBytes),
		pkgathn.WithLogger(a.logger),
	}
	if a.cfg.HTTP {
		options = append(options,
			pkgathn.WithHTTPFallback(a.cfg.HTTPTimeout.Duration),
			pkgathn.WithHTTPCache(a.cfg.HTTPCache),
		)
	}
	return options
}

// parseSource maps a command line argument to a Source.
func parseSource(raw string) (pkgathn.Source, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil, errors.New("empty document path")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return urlSource(path)
	}
	return pkgathn.SourceFromFile(path), nil
}

func urlSource(raw string) (src pkgathn.Source, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return pkgathn.SourceFromURL(raw), nil
}
