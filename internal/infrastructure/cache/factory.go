package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Drivers accepted by NewPDFCache
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Options selects and sizes the PDF cache
type Options struct {
	Driver     string
	MaxEntries int
	Redis      RedisConfig
	// AllowFallback switches to the in-memory cache when Redis is unreachable
	AllowFallback bool
	Logger        *zap.Logger
}

// NewPDFCache builds the cache named by opts.Driver.
func NewPDFCache(ctx context.Context, opts Options) (PDFCache, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Driver {
	case "", DriverNone:
		return NopCache{}, nil
	case DriverMemory:
		return NewInMemoryPDFCache(opts.MaxEntries, time.Minute), nil
	case DriverRedis:
		c, err := NewRedisPDFCache(ctx, opts.Redis)
		if err == nil {
			logger.Info("using Redis PDF cache")
			return c, nil
		}
		if !opts.AllowFallback {
			return nil, fmt.Errorf("redis PDF cache unavailable: %w", err)
		}
		logger.Warn("Redis unavailable, falling back to in-memory PDF cache", zap.Error(err))
		return NewInMemoryPDFCache(opts.MaxEntries, time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", opts.Driver)
	}
}
