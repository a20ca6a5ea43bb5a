package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/pdfvault/pkg/configs"
	plog "github.com/yeisme/pdfvault/pkg/log"
)

// S3Store keeps blobs as objects in a single bucket. S3 puts are atomic, so
// exclusive-create-then-publish comes for free; object LastModified serves as
// the blob ModTime for retention sweeping.
type S3Store struct {
	cli    *minio.Client
	bucket string
}

// NewS3Store initializes the MinIO client and ensures the bucket exists.
func NewS3Store(ctx context.Context) (*S3Store, error) {
	cfg := configs.GetConfig().S3

	endpoint := cfg.Endpoint
	// Allow a full schema endpoint (http:// or https://).
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}

		plog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
	}

	plog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &S3Store{cli: cli, bucket: cfg.BucketName}, nil
}

func (s *S3Store) Put(ctx context.Context, name string, r io.Reader, size int64) error {
	_, err := s.cli.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("put object %s: %w", name, err)
	}

	return nil
}

func (s *S3Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	// GetObject defers errors until the first read; stat first so absence
	// surfaces as ErrNotExist here.
	if _, err := s.Stat(ctx, name); err != nil {
		return nil, err
	}

	obj, err := s.cli.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", name, err)
	}

	return obj, nil
}

func (s *S3Store) Stat(ctx context.Context, name string) (BlobInfo, error) {
	info, err := s.cli.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return BlobInfo{}, ErrNotExist
		}

		return BlobInfo{}, fmt.Errorf("stat object %s: %w", name, err)
	}

	return BlobInfo{Name: name, Size: info.Size, ModTime: info.LastModified}, nil
}

func (s *S3Store) List(ctx context.Context) ([]BlobInfo, error) {
	infos := make([]BlobInfo, 0)

	for obj := range s.cli.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}

		infos = append(infos, BlobInfo{Name: obj.Key, Size: obj.Size, ModTime: obj.LastModified})
	}

	return infos, nil
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	if err := s.cli.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", name, err)
	}

	return nil
}
