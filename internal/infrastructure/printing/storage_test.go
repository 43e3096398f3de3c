package printing

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveKey(t *testing.T) {
	at := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	key := ArchiveKey(&ArchivedSheet{OrderID: "ord/1", Digest: "0123456789abcdef0123", GeneratedAt: at})
	assert.Equal(t, "sheets/2025/03/ord_1-0123456789abcdef.pdf", key)

	random := ArchiveKey(&ArchivedSheet{GeneratedAt: at})
	assert.True(t, strings.HasPrefix(random, "sheets/2025/03/order-"), random)
}

func TestFileSystemArchive_StoreAndOpen(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileSystemArchive(FileSystemArchiveConfig{BasePath: dir, BaseURL: "https://files.example.com/"})
	require.NoError(t, err)

	res, err := a.Store(context.Background(), &ArchivedSheet{
		OrderID:     "ord-1",
		PDF:         []byte("%PDF-1.4 sheet"),
		Digest:      "abc",
		GeneratedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "sheets/2025/01/ord-1-abc.pdf", res.Key)
	assert.Equal(t, "https://files.example.com/sheets/2025/01/ord-1-abc.pdf", res.URL)
	assert.Equal(t, int64(14), res.Size)

	rc, err := a.Open(res.Key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 sheet", string(body))

	_, err = a.Open("../outside.pdf")
	assert.Error(t, err)
}

func TestFileSystemArchive_StoreValidation(t *testing.T) {
	a, err := NewFileSystemArchive(FileSystemArchiveConfig{BasePath: t.TempDir()})
	require.NoError(t, err)

	_, err = a.Store(context.Background(), &ArchivedSheet{OrderID: "x"})
	assert.Equal(t, ErrCodeStorageFailed, RenderErrorCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Store(ctx, &ArchivedSheet{OrderID: "x", PDF: []byte("x")})
	assert.Equal(t, ErrCodeStorageFailed, RenderErrorCode(err))

	assert.Empty(t, a.URL("sheets/x.pdf"))
}

func TestFileSystemArchive_CleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileSystemArchive(FileSystemArchiveConfig{BasePath: dir})
	require.NoError(t, err)

	ctx := context.Background()
	old, err := a.Store(ctx, &ArchivedSheet{OrderID: "old", PDF: []byte("x"), Digest: "1"})
	require.NoError(t, err)
	_, err = a.Store(ctx, &ArchivedSheet{OrderID: "new", PDF: []byte("y"), Digest: "2"})
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, filepath.FromSlash(old.Key)), past, past))

	removed, err := a.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
