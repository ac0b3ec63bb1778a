package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/netopt-project/netopt-release/internal/config"
	"github.com/netopt-project/netopt-release/internal/logger"
)

// Storage receives copies of release artifacts.
type Storage interface {
	// Upload copies a local file into the storage under the given object name.
	Upload(ctx context.Context, localPath, objectName string) error
}

// MinioStorage uploads artifacts into an S3-compatible bucket.
type MinioStorage struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioStorage builds a client from the mirror settings. No connection is
// made until the first upload.
func NewMinioStorage(cfg config.Mirror) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mirror client: %w", err)
	}

	return &MinioStorage{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// Upload implements Storage.
func (s *MinioStorage) Upload(ctx context.Context, localPath, objectName string) error {
	key := objectName
	if s.prefix != "" {
		key = path.Join(s.prefix, objectName)
	}

	if _, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("upload %s: %w", objectName, err)
	}

	return nil
}

// MirrorFiles uploads every file to the storage under its base name. The
// first failure stops the mirror pass.
func MirrorFiles(ctx context.Context, store Storage, files []string) error {
	for _, file := range files {
		name := filepath.Base(file)

		logger.InfoKV(ctx, "Mirroring artifact", "file", name)

		if err := store.Upload(ctx, file, name); err != nil {
			return err
		}
	}

	return nil
}
