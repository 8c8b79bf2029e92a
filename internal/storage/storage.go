package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps the S3-compatible object store used for uploaded images and
// generated exports. Keys are generated, never caller supplied.
type Client struct {
	mc         *minio.Client
	bucket     string
	presignTTL time.Duration
}

func New(cfg *config.Config) (*Client, error) {
	mc, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}

	c := &Client{mc: mc, bucket: cfg.StorageBucket, presignTTL: cfg.PresignTTL}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := mc.BucketExists(ctx, cfg.StorageBucket)
	if err != nil {
		// Unreachable storage is not fatal at boot; uploads will fail loudly.
		log.Printf("[WARN] object storage not reachable: %v", err)
		return c, nil
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
			log.Printf("[WARN] could not create bucket %s: %v", cfg.StorageBucket, err)
		}
	}
	return c, nil
}

// UploadImage stores an image under folder/<uuid><ext> and returns the
// object key.
func (c *Client) UploadImage(ctx context.Context, r io.Reader, size int64, contentType, folder, originalName string) (string, error) {
	ext := strings.ToLower(path.Ext(originalName))
	key := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), ext)

	_, err := c.mc.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// UploadBytes stores a generated file (excel export) under the given key.
func (c *Client) UploadBytes(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.mc.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// PresignedURL returns a time-limited GET URL for an object key.
func (c *Client) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, c.presignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}
