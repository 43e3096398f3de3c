package storage

import (
	"context"
	"fmt"

	infraconfig "github.com/prodsheet/backend/internal/infrastructure/config"
	"github.com/prodsheet/backend/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// NewArchive builds the sheet archive named by cfg.Driver. It returns nil
// when archiving is disabled.
func NewArchive(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (printing.Archive, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "", infraconfig.StorageDriverNone:
		return nil, nil
	case infraconfig.StorageDriverFilesystem:
		archive, err := printing.NewFileSystemArchive(printing.FileSystemArchiveConfig{
			BasePath: cfg.Path,
			BaseURL:  cfg.BaseURL,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		return archive, nil
	case infraconfig.StorageDriverS3:
		archive, err := NewS3Archive(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if cfg.CreateBucket {
			if err := archive.EnsureBucket(ctx); err != nil {
				return nil, err
			}
		}
		return archive, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
