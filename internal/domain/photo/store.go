package photo

import (
	"context"
	"io"
)

// Store persists image bytes and returns the public URL to reference them by.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType ContentType) (string, error)
}
