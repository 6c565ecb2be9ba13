package repository

import (
	"context"
	"time"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"

	"github.com/google/uuid"
)

type ActivityLogRepository struct {
	DB *db.Postgres
}

func (r ActivityLogRepository) Create(ctx context.Context, l domain.ActivityLog) (*domain.ActivityLog, error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.LoggedAt.IsZero() {
		l.LoggedAt = time.Now()
	}
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO activity_logs (id, title, message, actor, type, logged_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING logged_at
	`, l.ID, l.Title, l.Message, l.Actor, string(l.Type), l.LoggedAt).Scan(&l.LoggedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r ActivityLogRepository) List(ctx context.Context, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, title, message, actor, type, logged_at
		FROM activity_logs
		ORDER BY logged_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ActivityLog{}
	for rows.Next() {
		var l domain.ActivityLog
		var typ string
		if err := rows.Scan(&l.ID, &l.Title, &l.Message, &l.Actor, &typ, &l.LoggedAt); err != nil {
			return nil, err
		}
		l.Type = domain.ActivityLogType(typ)
		out = append(out, l)
	}
	return out, rows.Err()
}
