package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const codeNoSuchKey = "NoSuchKey"

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter, creating the bucket if it does not exist
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("bucket created", "bucket", cfg.BucketName)
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// PutObject streams size bytes from r under name
func (a *Adapter) PutObject(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := a.client.PutObject(ctx, a.config.BucketName, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", name, err)
	}
	if info.Size != size {
		return fmt.Errorf("failed to put object %s: wrote %d of %d bytes", name, info.Size, size)
	}
	return nil
}

// GetObject retrieves an obj
func (a *Adapter) GetObject(ctx context.Context, name string) (io.ReadCloser, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	if _, err := object.Stat(); err != nil {
		_ = object.Close()
		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return nil, fmt.Errorf("%w: %s", domain.ErrObjectNotFound, name)
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", name, err)
	}
	return object, nil
}

// DeleteObject removes an object. Absent objects are not an error.
func (a *Adapter) DeleteObject(ctx context.Context, name string) error {
	err := a.client.RemoveObject(ctx, a.config.BucketName, name, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return nil
		}
		return fmt.Errorf("failed to delete object %s: %w", name, err)
	}
	return nil
}

// ObjectExists reports whether name is present in the bucket
func (a *Adapter) ObjectExists(ctx context.Context, name string) (bool, error) {
	_, err := a.client.StatObject(ctx, a.config.BucketName, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == codeNoSuchKey {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", name, err)
	}
	return true, nil
}
