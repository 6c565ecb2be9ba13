package repository

import (
	"context"
	"errors"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DocumentRepository struct {
	DB *db.Postgres
}

const documentColumns = `id, category, file_url, mime_type, file_name, description, created_at, updated_at, deleted_at`

// List returns live documents, optionally narrowed to one category.
func (r DocumentRepository) List(ctx context.Context, category string) ([]domain.Document, error) {
	q := db.Builder.Select(documentColumns).From("documents").Where(sq.Eq{"deleted_at": nil})
	if category != "" {
		q = q.Where(sq.Eq{"category": category})
	}
	sql, args, err := q.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r DocumentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	d, err := scanDocument(r.DB.Pool.QueryRow(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE id=$1 AND deleted_at IS NULL
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func (r DocumentRepository) Create(ctx context.Context, d domain.Document) (*domain.Document, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return scanDocument(r.DB.Pool.QueryRow(ctx, `
		INSERT INTO documents (id, category, file_url, mime_type, file_name, description, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, now(), now())
		RETURNING `+documentColumns,
		d.ID, d.Category, d.FileURL, d.MimeType, d.FileName, d.Description))
}

func (r DocumentRepository) Update(ctx context.Context, d domain.Document) (*domain.Document, error) {
	saved, err := scanDocument(r.DB.Pool.QueryRow(ctx, `
		UPDATE documents SET category=$2, file_url=$3, mime_type=$4, file_name=$5, description=$6, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+documentColumns,
		d.ID, d.Category, d.FileURL, d.MimeType, d.FileName, d.Description))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return saved, err
}

func (r DocumentRepository) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "documents"}.SoftDelete(ctx, ids)
}

func (r DocumentRepository) Restore(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "documents"}.Restore(ctx, ids)
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	if err := row.Scan(&d.ID, &d.Category, &d.FileURL, &d.MimeType, &d.FileName, &d.Description, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
