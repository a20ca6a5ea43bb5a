package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/pdfvault/pkg/internal/storage"
)

func newMemStore() *storage.LocalStore {
	return storage.NewLocalStoreFs(afero.NewMemMapFs())
}

func TestLocalStorePutOpen(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()

	content := "hello blob"
	require.NoError(t, s.Put(ctx, "a.pdf", strings.NewReader(content), int64(len(content))))

	rc, err := s.Open(ctx, "a.pdf")
	require.NoError(t, err)

	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))

	info, err := s.Stat(ctx, "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), info.Size)
}

func TestLocalStoreOpenMissing(t *testing.T) {
	s := newMemStore()

	_, err := s.Open(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotExist)

	_, err = s.Stat(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestLocalStoreListSkipsTempFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := storage.NewLocalStoreFs(fs)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a.pdf", strings.NewReader("aa"), 2))
	require.NoError(t, s.Put(ctx, "b.pdf", strings.NewReader("bb"), 2))

	// A stale temp file from an interrupted write must stay invisible.
	require.NoError(t, afero.WriteFile(fs, ".tmp-c.pdf", []byte("cc"), 0o644))

	infos, err := s.List(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}

	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf"}, names)
}

func TestLocalStoreDeleteIdempotent(t *testing.T) {
	s := newMemStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a.pdf", strings.NewReader("aa"), 2))
	require.NoError(t, s.Delete(ctx, "a.pdf"))
	require.NoError(t, s.Delete(ctx, "a.pdf"))

	_, err := s.Open(ctx, "a.pdf")
	assert.ErrorIs(t, err, storage.ErrNotExist)
}
