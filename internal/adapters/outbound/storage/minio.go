// Package storage uploads validation reports to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/abdidvp/gltf-validator/internal/domain"
)

// MinioSink implements domain.ReportSink with minio-go.
type MinioSink struct {
	logger *slog.Logger
}

func New() *MinioSink {
	return &MinioSink{logger: slog.Default().With("component", "storage")}
}

// Upload stores payload under prefix/key in the configured bucket, creating
// the bucket if it does not exist, and returns the object URL.
func (s *MinioSink) Upload(ctx context.Context, cfg domain.StorageConfig, key string, payload []byte) (string, error) {
	if !cfg.Configured() {
		return "", fmt.Errorf("storage is not configured (set storage.endpoint and storage.bucket)")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return "", fmt.Errorf("creating storage client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return "", fmt.Errorf("checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return "", fmt.Errorf("creating bucket %s: %w", cfg.Bucket, err)
		}
	}

	object := ObjectName(cfg.Prefix, key)
	_, err = cli.PutObject(ctx, cfg.Bucket, object, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", object, err)
	}

	url := fmt.Sprintf("%s/%s/%s", cli.EndpointURL().String(), cfg.Bucket, object)
	s.logger.Debug("report uploaded", "url", url, "bytes", len(payload))
	return url, nil
}

// ObjectName joins prefix and key into an object name without a leading slash.
func ObjectName(prefix, key string) string {
	return strings.TrimPrefix(path.Join(prefix, key), "/")
}
