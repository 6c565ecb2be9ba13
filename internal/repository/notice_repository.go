package repository

import (
	"context"
	"errors"
	"time"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type NoticeRepository struct {
	DB *db.Postgres
}

const noticeColumns = `id, notice_date, title, body, file_url, created_at, updated_at, deleted_at`

func (r NoticeRepository) List(ctx context.Context, limit int) ([]domain.Notice, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+noticeColumns+`
		FROM notices
		WHERE deleted_at IS NULL
		ORDER BY notice_date DESC, created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

func (r NoticeRepository) Create(ctx context.Context, n domain.Notice) (*domain.Notice, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Date.IsZero() {
		n.Date = time.Now()
	}
	return scanNotice(r.DB.Pool.QueryRow(ctx, `
		INSERT INTO notices (id, notice_date, title, body, file_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5, now(), now())
		RETURNING `+noticeColumns,
		n.ID, n.Date, n.Title, n.Body, n.FileURL))
}

func (r NoticeRepository) Update(ctx context.Context, n domain.Notice) (*domain.Notice, error) {
	saved, err := scanNotice(r.DB.Pool.QueryRow(ctx, `
		UPDATE notices SET notice_date=$2, title=$3, body=$4, file_url=$5, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+noticeColumns,
		n.ID, n.Date, n.Title, n.Body, n.FileURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return saved, err
}

func (r NoticeRepository) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "notices"}.SoftDelete(ctx, ids)
}

func (r NoticeRepository) Restore(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "notices"}.Restore(ctx, ids)
}

func scanNotice(row pgx.Row) (*domain.Notice, error) {
	var n domain.Notice
	if err := row.Scan(&n.ID, &n.Date, &n.Title, &n.Body, &n.FileURL, &n.CreatedAt, &n.UpdatedAt, &n.DeletedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
