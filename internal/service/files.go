package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Buckets
const (
	BucketTenantDocuments = "tenant-documents"
	BucketAvatars         = "avatars"
	BucketDocuments       = "documents"
	BucketZakatReceipts   = "zakat-receipts"
	BucketReceipts        = "receipts"
	BucketNotices         = "notices"
)

const uploadConcurrency = 4

// FileManager writes entity files to object storage and keeps only their
// public URLs. Removal of old objects is best effort.
type FileManager struct {
	Store  ports.ObjectStore
	Logger *slog.Logger
	Now    func() time.Time
}

// UploadAll uploads files concurrently and returns the URLs of the ones
// that succeeded, in input order. Failures are logged and left out.
func (m FileManager) UploadAll(ctx context.Context, bucket string, entityID uuid.UUID, uploads []domain.Upload) []string {
	if len(uploads) == 0 {
		return nil
	}
	stamp := m.now().UnixMilli()
	urls := make([]string, len(uploads))

	var g errgroup.Group
	g.SetLimit(uploadConcurrency)
	for i, up := range uploads {
		g.Go(func() error {
			url, err := m.put(ctx, bucket, objectPath(entityID, stamp, i, up), up)
			if err != nil {
				m.logger().Warn("upload failed", "bucket", bucket, "entity", entityID, "file", up.FileName, "err", err)
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Upload stores a single file and returns its public URL.
func (m FileManager) Upload(ctx context.Context, bucket string, entityID uuid.UUID, up domain.Upload) (string, error) {
	return m.put(ctx, bucket, objectPath(entityID, m.now().UnixMilli(), 0, up), up)
}

// Settle finishes a file swap once the row write is known. On success the
// object behind oldURL is removed, on failure the fresh upload at newURL is,
// so the row never points at a missing object.
func (m FileManager) Settle(ctx context.Context, bucket, oldURL, newURL string, writeErr error) {
	if newURL == "" || newURL == oldURL {
		return
	}
	if writeErr != nil {
		m.RemoveAll(ctx, bucket, []string{newURL})
		return
	}
	if oldURL != "" {
		m.RemoveAll(ctx, bucket, []string{oldURL})
	}
}

// UploadAvatar stores a JPEG thumbnail of the image in the avatars bucket.
func (m FileManager) UploadAvatar(ctx context.Context, entityID uuid.UUID, up domain.Upload) (string, error) {
	thumb, err := storage.Thumbnail(up.Data, storage.AvatarSize)
	if err != nil {
		return "", domain.Invalid("avatar", err.Error())
	}
	return m.Upload(ctx, BucketAvatars, entityID, domain.Upload{
		FileName:    "avatar.jpg",
		ContentType: "image/jpeg",
		Data:        thumb,
	})
}

// RemoveAll deletes the objects behind urls that belong to bucket. Errors
// are logged.
func (m FileManager) RemoveAll(ctx context.Context, bucket string, urls []string) {
	paths := make([]string, 0, len(urls))
	for _, u := range urls {
		if p, ok := m.Store.PathFromURL(bucket, u); ok {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}
	if err := m.Store.Remove(ctx, bucket, paths); err != nil {
		m.logger().Warn("remove old objects failed", "bucket", bucket, "paths", paths, "err", err)
	}
}

func (m FileManager) put(ctx context.Context, bucket, path string, up domain.Upload) (string, error) {
	stored, err := m.Store.Upload(ctx, bucket, path, bytes.NewReader(up.Data), up.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", up.FileName, err)
	}
	return m.Store.PublicURL(bucket, stored), nil
}

func (m FileManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m FileManager) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// objectPath is <entity id>/<unix millis>-<index><ext>.
func objectPath(entityID uuid.UUID, stamp int64, index int, up domain.Upload) string {
	return fmt.Sprintf("%s/%d-%d%s", entityID, stamp, index, extension(up))
}

func extension(up domain.Upload) string {
	if ext := strings.ToLower(filepath.Ext(up.FileName)); ext != "" {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(up.ContentType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}
