// Package cache keeps rendered production sheet PDFs so that printing the
// same sheet twice does not start the browser twice.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// PDFCache stores rendered PDFs by content key.
type PDFCache interface {
	// Get returns the cached PDF and whether it was found
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, pdf []byte, ttl time.Duration) error
	Close() error
}

// Key derives the cache key for a sheet document. Rendering is
// deterministic, so identical HTML always yields the same PDF.
func Key(html string) string {
	sum := sha256.Sum256([]byte(html))
	return hex.EncodeToString(sum[:])
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Close() error                                             { return nil }

var _ PDFCache = NopCache{}
