package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/snappy"
)

// Compressed stores entries of another cache snappy-encoded. Graph JSON
// repeats the same keys for every edge and typically shrinks to a third.
type Compressed struct {
	inner Cache
}

// NewCompressed wraps inner. Entries written by inner without the wrapper
// fail to decode and are reported as errors, which callers treat as misses.
func NewCompressed(inner Cache) *Compressed {
	return &Compressed{inner: inner}
}

// Unwrap returns the underlying cache.
func (c *Compressed) Unwrap() Cache { return c.inner }

func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.inner.Get(ctx, key)
	if err != nil || !hit {
		return nil, hit, err
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, false, fmt.Errorf("decompress %s: %w", key, err)
	}
	return out, true, nil
}

func (c *Compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, snappy.Encode(nil, data), ttl)
}

func (c *Compressed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *Compressed) Close() error {
	return c.inner.Close()
}

var _ Cache = (*Compressed)(nil)
