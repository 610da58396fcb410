package loader

import (
	"context"
	"errors"
	"io/fs"
)

func loadFromFS(ctx context.Context, filesystem fs.FS, name string, maxBytes int64) ([]byte, error) {
	if filesystem == nil {
		return nil, errors.New("athn loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("athn loader: fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return readLimited(f, maxBytes)
}
