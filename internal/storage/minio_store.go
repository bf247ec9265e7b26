package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/lshigami/placementai/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

type minioStore struct {
	client *minio.Client
	bucket string
	// mu serialises the stat-then-put name reservation.
	mu sync.Mutex
}

// NewMinioStore connects to an S3-compatible endpoint and creates the bucket
// when it does not exist yet.
func NewMinioStore(cfg config.MinIO) (ResumeStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("Created resume bucket")
	}
	return &minioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *minioStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if !validName(filename) {
		return "", ErrInvalidFilename
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for n := 0; n < maxSuffix; n++ {
		name := candidateName(filename, n)
		_, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
		if err == nil {
			continue
		}
		if !isNoSuchKey(err) {
			return "", fmt.Errorf("stat object %q: %w", name, err)
		}
		opts := minio.PutObjectOptions{ContentType: "application/pdf"}
		if _, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), opts); err != nil {
			return "", fmt.Errorf("put object %q: %w", name, err)
		}
		return name, nil
	}
	return "", fmt.Errorf("no free object name for %q", filename)
}

func (s *minioStore) Open(ctx context.Context, filename string) (io.ReadCloser, int64, error) {
	if !validName(filename) {
		return nil, 0, ErrNotFound
	}
	obj, err := s.client.GetObject(ctx, s.bucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("get object %q: %w", filename, err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("stat object %q: %w", filename, err)
	}
	return obj, info.Size, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
