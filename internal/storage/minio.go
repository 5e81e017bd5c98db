package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/spec-kit/printshop-service/internal/domain"
)

// MinIOConfig holds object storage connection values.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOStore keeps uploads in an S3 compatible bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore connects and creates the bucket when missing.
func NewMinIOStore(ctx context.Context, cfg MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinIOStore) Save(ctx context.Context, name string, r io.Reader) (StoredFile, error) {
	if !ValidName(name) {
		return StoredFile{}, fmt.Errorf("invalid file name %q", name)
	}
	digest := newDigestReader(r)
	_, err := s.client.PutObject(ctx, s.bucket, name, digest, -1, minio.PutObjectOptions{
		ContentType: ContentType(name),
	})
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to upload file: %w", err)
	}
	return digest.result(name), nil
}

func (s *MinIOStore) Open(ctx context.Context, name string) (*Object, error) {
	if !ValidName(name) {
		return nil, domain.ErrNotFound
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinIOError(err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, mapMinIOError(err)
	}
	return &Object{ReadCloser: obj, Size: info.Size, ContentType: info.ContentType}, nil
}

func mapMinIOError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return domain.ErrNotFound
	}
	return err
}
