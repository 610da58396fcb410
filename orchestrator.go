package athn

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	pkgathn "github.com/goliatone/go-athn/pkg/athn"
	"github.com/goliatone/go-athn/pkg/model"
)

// DefaultConcurrency bounds ParseAll when no limit is configured.
const DefaultConcurrency = 4

type batchConfig struct {
	loader      pkgathn.Loader
	parser      pkgathn.Parser
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures ParseAll.
type BatchOption func(*batchConfig)

// WithBatchLoader sets the loader used to fetch every source.
func WithBatchLoader(loader pkgathn.Loader) BatchOption {
	return func(cfg *batchConfig) {
		if loader != nil {
			cfg.loader = loader
		}
	}
}

// WithBatchParser sets the parser applied to every loaded text.
func WithBatchParser(parser pkgathn.Parser) BatchOption {
	return func(cfg *batchConfig) {
		if parser != nil {
			cfg.parser = parser
		}
	}
}

// WithConcurrency caps the number of documents processed at once.
func WithConcurrency(limit int) BatchOption {
	return func(cfg *batchConfig) {
		if limit > 0 {
			cfg.concurrency = limit
		}
	}
}

// WithBatchLogger sets the logger for per-document timings.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(cfg *batchConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// ParseAll loads and parses independent documents concurrently. Results keep
// the order of sources. The first failure cancels the remaining work and is
// returned annotated with the failing location.
func ParseAll(ctx context.Context, sources []pkgathn.Source, options ...BatchOption) ([]model.Document, error) {
	cfg := batchConfig{concurrency: DefaultConcurrency}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.loader == nil {
		cfg.loader = NewLoader()
	}
	if cfg.parser == nil {
		cfg.parser = NewParser()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	docs := make([]model.Document, len(sources))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.concurrency)

	for i, src := range sources {
		group.Go(func() error {
			start := time.Now()
			text, err := cfg.loader.Load(groupCtx, src)
			if err != nil {
				return fmt.Errorf("athn: load %s: %w", src.Location(), err)
			}
			doc, err := cfg.parser.Parse(groupCtx, text)
			if err != nil {
				return fmt.Errorf("athn: parse %s: %w", src.Location(), err)
			}
			docs[i] = doc
			cfg.logger.Debug("document parsed",
				"location", src.Location(),
				"lines", len(doc.Main),
				"duration", time.Since(start),
			)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
