// Package loader implements pkg/athn.Loader for local files, fs.FS entries and
// HTTP(S) URLs.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"

	pkgathn "github.com/goliatone/go-athn/pkg/athn"
)

// Loader implements pkgathn.Loader by delegating to file, fs.FS, or HTTP
// strategies. Construction helpers live in the top-level athn package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	maxBytes  int64
	logger    *slog.Logger
}

// Ensure the implementation satisfies the public interface.
var _ pkgathn.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgathn.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	if httpClient != nil && options.HTTPCache {
		cached := httpcache.NewMemoryCacheTransport()
		cached.Transport = httpClient.Transport
		cached.MarkCachedResponses = true
		httpClient.Transport = cached
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		maxBytes:  options.MaxBytes,
		logger:    logger,
	}
}

// Load fetches document text from the provided source.
func (l *Loader) Load(ctx context.Context, src pkgathn.Source) (pkgathn.Text, error) {
	if src == nil {
		return pkgathn.Text{}, errors.New("athn loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	start := time.Now()
	switch src.Kind() {
	case pkgathn.SourceKindFile:
		data, err = loadFile(ctx, src.Location(), l.maxBytes)
	case pkgathn.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location(), l.maxBytes)
	case pkgathn.SourceKindURL:
		if !l.allowHTTP {
			return pkgathn.Text{}, errors.New("athn loader: http support disabled")
		}
		data, err = l.loadHTTP(ctx, src.Location())
	default:
		err = fmt.Errorf("athn loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgathn.Text{}, err
	}

	l.logger.Debug("document loaded",
		"kind", src.Kind(),
		"location", src.Location(),
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return pkgathn.NewText(src, string(data))
}
