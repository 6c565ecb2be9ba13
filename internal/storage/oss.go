package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"rentflow-backend/internal/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSS stores objects in one Aliyun OSS bucket. Logical bucket names become
// the first segment of the object key.
type OSS struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
}

func NewOSS(cfg config.OSSConfig, logger *slog.Logger) (*OSS, error) {
	var (
		client *oss.Client
		err    error
	)
	if cfg.SecurityToken != "" {
		client, err = oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, oss.SecurityToken(cfg.SecurityToken))
	} else {
		client, err = oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	}
	if err != nil {
		return nil, fmt.Errorf("oss client: %w", err)
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket: %w", err)
	}

	if loc, err := client.GetBucketLocation(cfg.Bucket); err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == 403 {
			logger.Warn("oss location check denied, continuing", "bucket", cfg.Bucket)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		logger.Info("oss bucket ready", "bucket", cfg.Bucket, "location", loc)
	}

	return &OSS{
		bucket:     bkt,
		endpoint:   strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://"),
		bucketName: cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
	}, nil
}

func (s *OSS) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error) {
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := s.bucket.PutObject(objectKey(bucket, path), r, opts...); err != nil {
		return "", err
	}
	return path, nil
}

func (s *OSS) PublicURL(bucket, storedPath string) string {
	key := objectKey(bucket, storedPath)
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, s.endpoint, key)
}

func (s *OSS) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, objectKey(bucket, p))
	}
	_, err := s.bucket.DeleteObjects(keys, oss.WithContext(ctx))
	return err
}

func (s *OSS) PathFromURL(bucket, url string) (string, bool) {
	return pathFromURL(s.PublicURL(bucket, ""), url)
}

func objectKey(bucket, path string) string {
	return bucket + "/" + strings.TrimLeft(path, "/")
}

// pathFromURL strips prefix from url. The result must be a non-empty path.
func pathFromURL(prefix, url string) (string, bool) {
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	p := strings.TrimPrefix(url, prefix)
	if p == "" {
		return "", false
	}
	return p, true
}
