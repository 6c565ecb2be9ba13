package service

import (
	"context"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"

	"github.com/google/uuid"
)

type DocumentService struct {
	Documents ports.DocumentStore
	Files     FileManager
}

func (s DocumentService) List(ctx context.Context, category string) ([]domain.Document, error) {
	return s.Documents.List(ctx, category)
}

// Create stores file first and then the row that points at it.
func (s DocumentService) Create(ctx context.Context, d domain.Document, file *domain.Upload) (*domain.Document, error) {
	d.ID = uuid.New()
	if file != nil {
		url, err := s.Files.Upload(ctx, BucketDocuments, d.ID, *file)
		if err != nil {
			return nil, err
		}
		d.FileURL = url
		fillFileMeta(&d, *file)
	}
	if err := check(d, nil); err != nil {
		s.Files.RemoveAll(ctx, BucketDocuments, []string{d.FileURL})
		return nil, err
	}
	created, err := s.Documents.Create(ctx, d)
	if err != nil {
		s.Files.RemoveAll(ctx, BucketDocuments, []string{d.FileURL})
		return nil, err
	}
	return created, nil
}

// Update rewrites the row. A new file replaces the stored one; the old
// object is removed only after the row is written.
func (s DocumentService) Update(ctx context.Context, d domain.Document, file *domain.Upload) (*domain.Document, error) {
	old, err := s.Documents.Get(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if d.FileURL == "" {
		d.FileURL, d.FileName, d.MimeType = old.FileURL, old.FileName, old.MimeType
	}
	var url string
	if file != nil {
		url, err = s.Files.Upload(ctx, BucketDocuments, d.ID, *file)
		if err != nil {
			return nil, err
		}
		d.FileURL = url
		fillFileMeta(&d, *file)
	}
	if err := check(d, nil); err != nil {
		s.Files.Settle(ctx, BucketDocuments, old.FileURL, url, err)
		return nil, err
	}
	saved, err := s.Documents.Update(ctx, d)
	s.Files.Settle(ctx, BucketDocuments, old.FileURL, url, err)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s DocumentService) Delete(ctx context.Context, ids []uuid.UUID) error {
	return s.Documents.SoftDelete(ctx, ids)
}

func (s DocumentService) Undo(ctx context.Context, ids []uuid.UUID) error {
	return s.Documents.Restore(ctx, ids)
}

func fillFileMeta(d *domain.Document, f domain.Upload) {
	d.FileName = f.FileName
	d.MimeType = f.ContentType
}
