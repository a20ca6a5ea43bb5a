// Package storage provides the blob-store primitive behind the file vault:
// write bytes under a new name, read/stat/list/delete by name. Two backends
// exist, a local afero-backed directory and an S3 bucket; both publish blobs
// atomically so a reader never observes a partially written object.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yeisme/pdfvault/pkg/configs"
)

// ErrNotExist is returned when a named blob is absent. Deletes of absent
// blobs are no-ops, not errors.
var ErrNotExist = errors.New("blob does not exist")

// BlobInfo describes one stored blob. ModTime is the storage-side write time
// and drives retention sweeping.
type BlobInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// BlobStore is the storage primitive. Names are flat (no directories).
type BlobStore interface {
	// Put writes the blob under name. The blob becomes visible only once
	// fully written.
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	// Open returns a reader over the named blob, or ErrNotExist.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Stat returns blob metadata, or ErrNotExist.
	Stat(ctx context.Context, name string) (BlobInfo, error)
	// List enumerates all blobs.
	List(ctx context.Context) ([]BlobInfo, error)
	// Delete removes the named blob. Deleting an absent blob is a no-op.
	Delete(ctx context.Context, name string) error
}

// Init builds the configured blob store backend.
func Init(ctx context.Context) (BlobStore, error) {
	cfg := configs.GetConfig()

	switch cfg.Storage.Backend {
	case configs.StorageBackendLocal:
		return NewLocalStore(cfg.Storage.UploadDir)
	case configs.StorageBackendS3:
		return NewS3Store(ctx)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
