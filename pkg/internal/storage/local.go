package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
)

const tmpPrefix = ".tmp-"

// LocalStore keeps blobs as flat files in a single directory. Writes go to a
// temp name first and are renamed into place, so a concurrent reader or a
// second process never observes a partially written blob.
type LocalStore struct {
	fs afero.Fs
}

// NewLocalStore creates the directory if needed and returns a store rooted
// at it.
func NewLocalStore(dir string) (*LocalStore, error) {
	base := afero.NewOsFs()
	if err := base.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	return &LocalStore{fs: afero.NewBasePathFs(base, dir)}, nil
}

// NewLocalStoreFs returns a store over the given filesystem. Tests use this
// with an in-memory fs.
func NewLocalStoreFs(fs afero.Fs) *LocalStore {
	return &LocalStore{fs: fs}
}

func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	tmp := tmpPrefix + name

	if err := afero.WriteReader(s.fs, tmp, r); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("write blob %s: %w", name, err)
	}

	if err := s.fs.Rename(tmp, name); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("publish blob %s: %w", name, err)
	}

	return nil
}

func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}

		return nil, fmt.Errorf("open blob %s: %w", name, err)
	}

	return f, nil
}

func (s *LocalStore) Stat(ctx context.Context, name string) (BlobInfo, error) {
	fi, err := s.fs.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return BlobInfo{}, ErrNotExist
		}

		return BlobInfo{}, fmt.Errorf("stat blob %s: %w", name, err)
	}

	return BlobInfo{Name: name, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

func (s *LocalStore) List(ctx context.Context) ([]BlobInfo, error) {
	entries, err := afero.ReadDir(s.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	infos := make([]BlobInfo, 0, len(entries))

	for _, fi := range entries {
		if fi.IsDir() || strings.HasPrefix(fi.Name(), tmpPrefix) {
			continue
		}

		infos = append(infos, BlobInfo{Name: fi.Name(), Size: fi.Size(), ModTime: fi.ModTime()})
	}

	return infos, nil
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := s.fs.Remove(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", name, err)
	}

	return nil
}
