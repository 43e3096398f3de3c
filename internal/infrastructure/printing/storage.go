package printing

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prodsheet/backend/internal/domain/order"
	"go.uber.org/zap"
)

// ArchivedSheet is a generated production sheet PDF to keep.
type ArchivedSheet struct {
	OrderID       order.ID
	SalesOrderRef string
	PDF           []byte
	// Digest identifies the sheet content; a random ID is used when empty
	Digest      string
	GeneratedAt time.Time
}

// ArchiveResult describes where an archived sheet was written.
type ArchiveResult struct {
	Key  string
	URL  string
	Size int64
}

// Archive keeps generated sheet PDFs.
type Archive interface {
	Store(ctx context.Context, sheet *ArchivedSheet) (*ArchiveResult, error)
}

// ArchiveKey is the object key for a sheet: sheets/{yyyy}/{mm}/{order}-{digest}.pdf
func ArchiveKey(s *ArchivedSheet) string {
	at := s.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	suffix := s.Digest
	if suffix == "" {
		suffix = uuid.NewString()
	}
	if len(suffix) > 16 {
		suffix = suffix[:16]
	}
	return path.Join("sheets", at.UTC().Format("2006"), at.UTC().Format("01"),
		safeSegment(s.OrderID.String())+"-"+suffix+".pdf")
}

// safeSegment keeps order IDs usable as a single path element.
func safeSegment(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "order"
	}
	return s
}

// FileSystemArchiveConfig configures FileSystemArchive
type FileSystemArchiveConfig struct {
	// BasePath is the root directory. Default: ./data/sheets
	BasePath string
	// BaseURL prefixes archive keys to build links; empty disables links
	BaseURL string
	Logger  *zap.Logger
}

// FileSystemArchive stores sheet PDFs on local disk.
type FileSystemArchive struct {
	base    string
	baseURL string
	logger  *zap.Logger
}

// NewFileSystemArchive creates the base directory when missing.
func NewFileSystemArchive(cfg FileSystemArchiveConfig) (*FileSystemArchive, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./data/sheets"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create archive directory "+cfg.BasePath, err)
	}
	return &FileSystemArchive{
		base:    cfg.BasePath,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  cfg.Logger,
	}, nil
}

// Store writes the PDF atomically under its archive key.
func (a *FileSystemArchive) Store(ctx context.Context, s *ArchivedSheet) (*ArchiveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if s == nil || len(s.PDF) == 0 {
		return nil, NewRenderError(ErrCodeStorageFailed, "nothing to archive", nil)
	}

	key := ArchiveKey(s)
	target := filepath.Join(a.base, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create archive directory", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".sheet-*.tmp")
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(s.PDF); err != nil {
		tmp.Close()
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write PDF", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to move PDF into place", err)
	}

	a.logger.Info("sheet archived",
		zap.String("order_id", s.OrderID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(s.PDF)))

	return &ArchiveResult{Key: key, URL: a.URL(key), Size: int64(len(s.PDF))}, nil
}

// Open returns the archived PDF stored under key.
func (a *FileSystemArchive) Open(key string) (io.ReadCloser, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != key {
		return nil, NewRenderError(ErrCodeStorageFailed, "invalid archive key", nil)
	}
	f, err := os.Open(filepath.Join(a.base, filepath.FromSlash(clean)))
	if err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open archived sheet", err)
	}
	return f, nil
}

// URL returns the public link for key, or "" without a base URL.
func (a *FileSystemArchive) URL(key string) string {
	if a.baseURL == "" {
		return ""
	}
	return a.baseURL + "/" + key
}

// CleanupOlderThan removes archived PDFs last modified before now-age.
func (a *FileSystemArchive) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	removed := 0
	err := filepath.WalkDir(a.base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".pdf" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(p); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("cleanup archive: %w", err)
	}
	return removed, nil
}

var _ Archive = (*FileSystemArchive)(nil)
