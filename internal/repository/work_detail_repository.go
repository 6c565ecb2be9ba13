package repository

import (
	"context"
	"errors"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WorkDetailRepository struct {
	DB *db.Postgres
}

const workDetailColumns = `id, work_date, category, description, amount, status, receipt_url, created_at, updated_at, deleted_at`

func (r WorkDetailRepository) List(ctx context.Context) ([]domain.WorkDetail, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+workDetailColumns+`
		FROM work_details
		WHERE deleted_at IS NULL
		ORDER BY work_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.WorkDetail
	for rows.Next() {
		w, err := scanWorkDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

func (r WorkDetailRepository) Create(ctx context.Context, w domain.WorkDetail) (*domain.WorkDetail, error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return scanWorkDetail(r.DB.Pool.QueryRow(ctx, `
		INSERT INTO work_details (id, work_date, category, description, amount, status, receipt_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
		RETURNING `+workDetailColumns,
		w.ID, w.Date, w.Category, w.Description, w.Amount, w.Status, w.ReceiptURL))
}

func (r WorkDetailRepository) Update(ctx context.Context, w domain.WorkDetail) (*domain.WorkDetail, error) {
	saved, err := scanWorkDetail(r.DB.Pool.QueryRow(ctx, `
		UPDATE work_details SET work_date=$2, category=$3, description=$4, amount=$5, status=$6, receipt_url=$7, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+workDetailColumns,
		w.ID, w.Date, w.Category, w.Description, w.Amount, w.Status, w.ReceiptURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return saved, err
}

func (r WorkDetailRepository) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "work_details"}.SoftDelete(ctx, ids)
}

func (r WorkDetailRepository) Restore(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "work_details"}.Restore(ctx, ids)
}

func scanWorkDetail(row pgx.Row) (*domain.WorkDetail, error) {
	var w domain.WorkDetail
	if err := row.Scan(&w.ID, &w.Date, &w.Category, &w.Description, &w.Amount, &w.Status, &w.ReceiptURL, &w.CreatedAt, &w.UpdatedAt, &w.DeletedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
