package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/memstore"
	"rentflow-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocuments() (DocumentService, *memstore.Documents, *memstore.Objects) {
	files, objects := newFiles()
	store := &memstore.Documents{}
	return DocumentService{Documents: store, Files: files}, store, objects
}

func TestDocumentCreateStoresFile(t *testing.T) {
	svc, _, objects := newDocuments()

	d, err := svc.Create(context.Background(), domain.Document{Category: "Contracts"}, ptr(pdf("lease.pdf")))
	require.NoError(t, err)
	assert.Equal(t, "lease.pdf", d.FileName)
	assert.Equal(t, "application/pdf", d.MimeType)
	assert.Contains(t, d.FileURL, "mem://documents/"+d.ID.String())
	assert.True(t, stored(objects, BucketDocuments, d.FileURL))
}

func TestDocumentCreateValidationRemovesUpload(t *testing.T) {
	svc, _, objects := newDocuments()

	_, err := svc.Create(context.Background(), domain.Document{}, ptr(pdf("lease.pdf")))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["category"])
	assert.Equal(t, 0, objects.Len())

	_, err = svc.Create(context.Background(), domain.Document{Category: "Contracts"}, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["fileUrl"])
}

func TestDocumentUpdateReplacesFile(t *testing.T) {
	svc, _, objects := newDocuments()
	ctx := context.Background()

	d, err := svc.Create(ctx, domain.Document{Category: "Contracts"}, ptr(pdf("old.pdf")))
	require.NoError(t, err)
	oldURL := d.FileURL

	svc.Files.Now = func() time.Time { return fixedNow.Add(time.Second) }
	saved, err := svc.Update(ctx, domain.Document{ID: d.ID, Category: "Leases"}, ptr(pdf("new.pdf")))
	require.NoError(t, err)
	assert.Equal(t, "Leases", saved.Category)
	assert.Equal(t, "new.pdf", saved.FileName)
	assert.False(t, stored(objects, BucketDocuments, oldURL))
	assert.True(t, stored(objects, BucketDocuments, saved.FileURL))
}

func TestDocumentUpdateWithoutFileKeepsStoredOne(t *testing.T) {
	svc, _, objects := newDocuments()
	ctx := context.Background()

	d, err := svc.Create(ctx, domain.Document{Category: "Contracts"}, ptr(pdf("lease.pdf")))
	require.NoError(t, err)

	saved, err := svc.Update(ctx, domain.Document{ID: d.ID, Category: "Contracts", Description: "signed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, d.FileURL, saved.FileURL)
	assert.Equal(t, "lease.pdf", saved.FileName)
	assert.Equal(t, 1, objects.Len())
}

func TestDocumentUpdateFailureKeepsOldFile(t *testing.T) {
	svc, store, objects := newDocuments()
	ctx := context.Background()

	d, err := svc.Create(ctx, domain.Document{Category: "Contracts"}, ptr(pdf("old.pdf")))
	require.NoError(t, err)

	store.UpdateErr = errors.New("connection reset")
	svc.Files.Now = func() time.Time { return fixedNow.Add(time.Second) }
	_, err = svc.Update(ctx, domain.Document{ID: d.ID, Category: "Contracts"}, ptr(pdf("new.pdf")))
	require.Error(t, err)

	row, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.FileURL, row.FileURL)
	assert.True(t, stored(objects, BucketDocuments, row.FileURL))
	assert.Equal(t, 1, objects.Len())
}

func TestDocumentUpdateValidationKeepsOldFile(t *testing.T) {
	svc, _, objects := newDocuments()
	ctx := context.Background()

	d, err := svc.Create(ctx, domain.Document{Category: "Contracts"}, ptr(pdf("old.pdf")))
	require.NoError(t, err)

	svc.Files.Now = func() time.Time { return fixedNow.Add(time.Second) }
	_, err = svc.Update(ctx, domain.Document{ID: d.ID}, ptr(pdf("new.pdf")))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, stored(objects, BucketDocuments, d.FileURL))
	assert.Equal(t, 1, objects.Len())
}

func TestDocumentUpdateUnknownID(t *testing.T) {
	svc, _, objects := newDocuments()

	_, err := svc.Update(context.Background(), domain.Document{ID: uuid.New(), Category: "Contracts"}, ptr(pdf("x.pdf")))
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 0, objects.Len())
}

func TestDocumentDeleteAndUndo(t *testing.T) {
	svc, _, _ := newDocuments()
	ctx := context.Background()

	d, err := svc.Create(ctx, domain.Document{Category: "Contracts"}, ptr(pdf("lease.pdf")))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, []uuid.UUID{d.ID}))

	items, err := svc.List(ctx, "Contracts")
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, svc.Undo(ctx, []uuid.UUID{d.ID}))
	items, err = svc.List(ctx, "Contracts")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
