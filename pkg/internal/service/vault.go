// Package service implements the file vault (record store plus retention
// sweep) and the document transform service on top of the blob-store
// primitive.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yeisme/pdfvault/pkg/apperr"
	"github.com/yeisme/pdfvault/pkg/internal/model"
	"github.com/yeisme/pdfvault/pkg/internal/storage"
	"github.com/yeisme/pdfvault/pkg/log"
	"github.com/yeisme/pdfvault/pkg/metrics"
)

const metaSuffix = ".json"

var (
	disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	repeatedUnders  = regexp.MustCompile(`_{2,}`)
	repeatedDots    = regexp.MustCompile(`\.{2,}`)
)

// SanitizeName reduces a client-supplied display name to [a-z0-9._-],
// collapsing repeats and lowercasing. Path separators never survive, so no
// traversal segment can reach a Content-Disposition header or the metadata.
func SanitizeName(name string) string {
	name = disallowedChars.ReplaceAllString(name, "_")
	name = repeatedUnders.ReplaceAllString(name, "_")
	name = repeatedDots.ReplaceAllString(name, ".")

	return strings.ToLower(name)
}

// Vault is the file record store: content-addressed blobs with JSON metadata
// sidecars and a fixed retention window. Records are immutable; the only
// delete path is the retention sweep.
type Vault struct {
	blobs     storage.BlobStore
	retention time.Duration

	// now is the time source, replaceable in tests.
	now func() time.Time
}

// NewVault creates a Vault over the given blob store.
func NewVault(blobs storage.BlobStore, retention time.Duration) *Vault {
	return &Vault{blobs: blobs, retention: retention, now: time.Now}
}

// SetNow replaces the time source. Tests only.
func (v *Vault) SetNow(now func() time.Time) { v.now = now }

// Blobs exposes the underlying store for streaming reads.
func (v *Vault) Blobs() storage.BlobStore { return v.blobs }

// Retention returns the configured retention window.
func (v *Vault) Retention() time.Duration { return v.retention }

// Create persists bytes under a fresh id and writes the metadata sidecar.
// The blob is written first; if it fails, no metadata is left behind.
func (v *Vault) Create(ctx context.Context, r io.Reader, size int64,
	originalName, mimeType, origin string,
) (*model.FileRecord, error) {
	id := uuid.NewString()
	name := SanitizeName(originalName)
	stored := id + path.Ext(name)

	if err := v.blobs.Put(ctx, stored, r, size); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to store file", err)
	}

	now := v.now().UTC()
	rec := &model.FileRecord{
		FileID:       id,
		OriginalName: name,
		StoredName:   stored,
		Size:         size,
		MimeType:     mimeType,
		UploadedAt:   now,
		ExpiresAt:    now.Add(v.retention),
	}

	meta, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to encode metadata", err)
	}

	if err := v.blobs.Put(ctx, id+metaSuffix, bytes.NewReader(meta), int64(len(meta))); err != nil {
		// Roll the blob back so no record is observable half-created.
		_ = v.blobs.Delete(ctx, stored)

		return nil, apperr.Wrap(apperr.Storage, "failed to store metadata", err)
	}

	metrics.FilesStored.WithLabelValues(origin).Inc()

	return rec, nil
}

// findBlob locates the stored blob whose name starts with id, excluding
// metadata sidecars. Ids are the sole lookup key; stored names carry the
// original extension, hence the prefix match.
func (v *Vault) findBlob(ctx context.Context, id string) (storage.BlobInfo, error) {
	if id == "" {
		return storage.BlobInfo{}, apperr.New(apperr.NotFound, "file not found or has expired")
	}

	infos, err := v.blobs.List(ctx)
	if err != nil {
		return storage.BlobInfo{}, apperr.Wrap(apperr.Storage, "failed to scan storage", err)
	}

	for _, info := range infos {
		if strings.HasPrefix(info.Name, id) && !strings.HasSuffix(info.Name, metaSuffix) {
			return info, nil
		}
	}

	return storage.BlobInfo{}, apperr.New(apperr.NotFound, "file not found or has expired")
}

// Exists reports whether a blob for id is present.
func (v *Vault) Exists(ctx context.Context, id string) bool {
	_, err := v.findBlob(ctx, id)
	return err == nil
}

// Describe returns the metadata record for id.
func (v *Vault) Describe(ctx context.Context, id string) (*model.FileRecord, error) {
	rc, err := v.blobs.Open(ctx, id+metaSuffix)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, apperr.New(apperr.NotFound, "file not found or has expired")
		}

		return nil, apperr.Wrap(apperr.Storage, "failed to read metadata", err)
	}
	defer rc.Close()

	var rec model.FileRecord
	if err := json.NewDecoder(rc).Decode(&rec); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "failed to decode metadata", err)
	}

	return &rec, nil
}

// Resolve opens the blob for id. The returned record is taken from the
// metadata sidecar when present; a missing or corrupted sidecar degrades to a
// record carrying only the stored name, never a failure.
func (v *Vault) Resolve(ctx context.Context, id string) (io.ReadCloser, *model.FileRecord, error) {
	info, err := v.findBlob(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := v.blobs.Open(ctx, info.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			// Swept between the scan and the open.
			return nil, nil, apperr.New(apperr.NotFound, "file not found or has expired")
		}

		return nil, nil, apperr.Wrap(apperr.Storage, "failed to open file", err)
	}

	rec, err := v.Describe(ctx, id)
	if err != nil {
		rec = &model.FileRecord{FileID: id, StoredName: info.Name, Size: info.Size}
	}

	return rc, rec, nil
}

// MaterializeTemp copies the blob for id into a temporary file, preserving
// the extension, and returns its path with a cleanup func. The transform
// collaborator operates on local paths.
func (v *Vault) MaterializeTemp(ctx context.Context, id string) (string, func(), error) {
	rc, rec, err := v.Resolve(ctx, id)
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	f, err := os.CreateTemp("", "pdfvault-*"+path.Ext(rec.StoredName))
	if err != nil {
		return "", nil, apperr.Wrap(apperr.Storage, "failed to create temp file", err)
	}

	cleanup := func() { _ = os.Remove(f.Name()) }

	if _, err := io.Copy(f, rc); err != nil {
		_ = f.Close()
		cleanup()

		return "", nil, apperr.Wrap(apperr.Storage, "failed to copy file", err)
	}

	if err := f.Close(); err != nil {
		cleanup()

		return "", nil, apperr.Wrap(apperr.Storage, "failed to flush temp file", err)
	}

	return f.Name(), cleanup, nil
}

// SweepExpired deletes every blob older than retention, pairing each with its
// metadata sidecar. Age comes from storage ModTime rather than the sidecar,
// so corrupted metadata never strands a blob. Idempotent: blobs already gone
// are skipped without error.
func (v *Vault) SweepExpired(ctx context.Context) (deleted int, freed int64, err error) {
	infos, err := v.blobs.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("sweep scan: %w", err)
	}

	now := v.now()
	l := log.Logger()

	for _, info := range infos {
		if now.Sub(info.ModTime) <= v.retention {
			continue
		}

		if delErr := v.blobs.Delete(ctx, info.Name); delErr != nil {
			l.Error().Err(delErr).Str("blob", info.Name).Msg("sweep delete failed")
			continue
		}

		if !strings.HasSuffix(info.Name, metaSuffix) {
			deleted++
			freed += info.Size

			metrics.FilesSwept.Inc()

			// Remove the sidecar with the blob; absent is fine.
			id := strings.TrimSuffix(info.Name, path.Ext(info.Name))
			_ = v.blobs.Delete(ctx, id+metaSuffix)
		}
	}

	return deleted, freed, nil
}
