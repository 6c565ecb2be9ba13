package repository

import (
	"context"

	"rentflow-backend/internal/db"

	"github.com/google/uuid"
)

// trash implements ports.SoftDeleter for one table.
type trash struct {
	db    *db.Postgres
	table string
}

func (t trash) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.db.Pool.Exec(ctx, `UPDATE `+t.table+` SET deleted_at = now() WHERE id = ANY($1) AND deleted_at IS NULL`, ids)
	return err
}

// Restore clears deleted_at. The statement is all or nothing: when a restored
// row would collide with a live one nothing is restored and ErrConflict is
// returned.
func (t trash) Restore(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.db.Pool.Exec(ctx, `UPDATE `+t.table+` SET deleted_at = NULL, updated_at = now() WHERE id = ANY($1)`, ids)
	if IsDuplicate(err) {
		// a live row already holds the unique key, e.g. a re-billed rent period
		return ErrConflict
	}
	return err
}
