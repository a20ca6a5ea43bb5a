package service_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/pdfvault/pkg/apperr"
	"github.com/yeisme/pdfvault/pkg/internal/service"
	"github.com/yeisme/pdfvault/pkg/internal/storage"
)

const retention = 20 * time.Minute

func newTestVault() *service.Vault {
	store := storage.NewLocalStoreFs(afero.NewMemMapFs())
	return service.NewVault(store, retention)
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"My Report (final).PDF", "my_report_final_.pdf"},
		{"../../evil name!!.PDF", "._._evil_name_.pdf"},
		{"a///b\\c.pdf", "a_b_c.pdf"},
		{"Résumé 2024.pdf", "r_sum_2024.pdf"},
	}

	for _, tc := range cases {
		got := service.SanitizeName(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.NotContains(t, got, "..")
		assert.NotContains(t, got, "/")
	}
}

func TestVaultCreateAndDescribe(t *testing.T) {
	v := newTestVault()
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	v.SetNow(func() time.Time { return fixed })

	content := "%PDF-1.4 test content"
	rec, err := v.Create(context.Background(), strings.NewReader(content),
		int64(len(content)), "My File.pdf", "application/pdf", "upload")
	require.NoError(t, err)

	assert.NotEmpty(t, rec.FileID)
	assert.Equal(t, "my_file.pdf", rec.OriginalName)
	assert.Equal(t, rec.FileID+".pdf", rec.StoredName)
	assert.Equal(t, int64(len(content)), rec.Size)
	assert.Equal(t, fixed, rec.UploadedAt)
	assert.Equal(t, fixed.Add(retention), rec.ExpiresAt)

	got, err := v.Describe(context.Background(), rec.FileID)
	require.NoError(t, err)
	assert.Equal(t, rec.FileID, got.FileID)
	assert.Equal(t, rec.OriginalName, got.OriginalName)
	assert.True(t, got.ExpiresAt.Equal(rec.ExpiresAt))
}

func TestVaultResolveStreamsContent(t *testing.T) {
	v := newTestVault()

	content := "%PDF-1.4 resolve me"
	rec, err := v.Create(context.Background(), strings.NewReader(content),
		int64(len(content)), "doc.pdf", "application/pdf", "upload")
	require.NoError(t, err)

	rc, got, err := v.Resolve(context.Background(), rec.FileID)
	require.NoError(t, err)

	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Equal(t, "doc.pdf", got.OriginalName)
}

func TestVaultResolveDegradesWithoutMetadata(t *testing.T) {
	store := storage.NewLocalStoreFs(afero.NewMemMapFs())
	v := service.NewVault(store, retention)

	content := "%PDF-1.4 orphan"
	rec, err := v.Create(context.Background(), strings.NewReader(content),
		int64(len(content)), "doc.pdf", "application/pdf", "upload")
	require.NoError(t, err)

	// A lost sidecar must not make the blob unreachable.
	require.NoError(t, store.Delete(context.Background(), rec.FileID+".json"))

	rc, got, err := v.Resolve(context.Background(), rec.FileID)
	require.NoError(t, err)

	defer rc.Close()

	assert.Equal(t, rec.FileID, got.FileID)
	assert.Equal(t, rec.StoredName, got.StoredName)
	assert.Empty(t, got.OriginalName)

	_, err = v.Describe(context.Background(), rec.FileID)
	require.Error(t, err)
}

func TestVaultResolveUnknownID(t *testing.T) {
	v := newTestVault()

	_, _, err := v.Resolve(context.Background(), "no-such-id")
	require.Error(t, err)

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ae.Status())
}

func TestVaultSweepExpired(t *testing.T) {
	v := newTestVault()
	ctx := context.Background()

	content := "%PDF-1.4 short lived"
	rec, err := v.Create(ctx, strings.NewReader(content),
		int64(len(content)), "doc.pdf", "application/pdf", "upload")
	require.NoError(t, err)

	// Within retention nothing is deleted.
	deleted, _, err := v.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.True(t, v.Exists(ctx, rec.FileID))

	// Past retention the blob and its sidecar both go.
	v.SetNow(func() time.Time { return time.Now().Add(retention + time.Minute) })

	deleted, freed, err := v.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, int64(len(content)), freed)
	assert.False(t, v.Exists(ctx, rec.FileID))

	_, err = v.Describe(ctx, rec.FileID)
	require.Error(t, err)

	// Sweeping again is a no-op.
	deleted, _, err = v.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestVaultMaterializeTemp(t *testing.T) {
	v := newTestVault()

	content := "%PDF-1.4 temp copy"
	rec, err := v.Create(context.Background(), strings.NewReader(content),
		int64(len(content)), "doc.pdf", "application/pdf", "upload")
	require.NoError(t, err)

	p, cleanup, err := v.MaterializeTemp(context.Background(), rec.FileID)
	require.NoError(t, err)

	defer cleanup()

	assert.True(t, strings.HasSuffix(p, ".pdf"))
}
