package loader

import (
	"context"
	"errors"
	"net/http"

	"github.com/gregjones/httpcache"
)

func (l *Loader) loadHTTP(ctx context.Context, url string) ([]byte, error) {
	if l.http == nil {
		return nil, errors.New("athn loader: http client is not configured")
	}
	if url == "" {
		return nil, errors.New("athn loader: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if l.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("athn loader: unexpected status " + resp.Status)
	}
	if resp.Header.Get(httpcache.XFromCache) != "" {
		l.logger.Debug("document served from cache", "url", url)
	}

	return readLimited(resp.Body, l.maxBytes)
}
