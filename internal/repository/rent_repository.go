package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type RentRepository struct {
	DB *db.Postgres
}

var rentColumns = []string{
	"id", "tenant_id", "tenant_name", "property", "avatar_url", "year", "month", "amount", "due_date",
	"status", "payment_date", "collected_by", "created_at", "updated_at", "deleted_at",
}

func (r RentRepository) List(ctx context.Context, f ports.RentFilter) ([]domain.RentEntry, error) {
	q := db.Builder.Select(rentColumns...).From("rent_entries").Where(sq.Eq{"deleted_at": nil})
	if f.Year > 0 {
		q = q.Where(sq.Eq{"year": f.Year})
	}
	if f.Month > 0 {
		q = q.Where(sq.Eq{"month": f.Month})
	}
	if f.TenantID != nil {
		q = q.Where(sq.Eq{"tenant_id": *f.TenantID})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": string(f.Status)})
	}
	sql, args, err := q.OrderBy("due_date DESC", "tenant_name ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.RentEntry
	for rows.Next() {
		e, err := scanRentEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r RentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.RentEntry, error) {
	sql, args, err := db.Builder.Select(rentColumns...).From("rent_entries").
		Where(sq.Eq{"id": id, "deleted_at": nil}).ToSql()
	if err != nil {
		return nil, err
	}
	e, err := scanRentEntry(r.DB.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r RentRepository) Create(ctx context.Context, e domain.RentEntry) (*domain.RentEntry, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	sql, args, err := db.Builder.Insert("rent_entries").
		Columns("id", "tenant_id", "tenant_name", "property", "avatar_url", "year", "month", "amount",
			"due_date", "status", "payment_date", "collected_by").
		Values(e.ID, e.TenantID, e.TenantName, e.Property, e.AvatarURL, e.Year, e.Month, e.Amount,
			e.DueDate, string(e.Status), e.PaymentDate, e.CollectedBy).
		Suffix("RETURNING " + strings.Join(rentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	saved, err := scanRentEntry(r.DB.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if IsDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return saved, nil
}

func (r RentRepository) Update(ctx context.Context, e domain.RentEntry) (*domain.RentEntry, error) {
	sql, args, err := db.Builder.Update("rent_entries").SetMap(map[string]any{
		"tenant_id":    e.TenantID,
		"tenant_name":  e.TenantName,
		"property":     e.Property,
		"avatar_url":   e.AvatarURL,
		"year":         e.Year,
		"month":        e.Month,
		"amount":       e.Amount,
		"due_date":     e.DueDate,
		"status":       string(e.Status),
		"payment_date": e.PaymentDate,
		"collected_by": e.CollectedBy,
		"updated_at":   sq.Expr("now()"),
	}).Where(sq.Eq{"id": e.ID, "deleted_at": nil}).
		Suffix("RETURNING " + strings.Join(rentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	saved, err := scanRentEntry(r.DB.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if IsDuplicate(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return saved, nil
}

// InsertMany bulk-loads entries with COPY and returns the number of rows written.
func (r RentRepository) InsertMany(ctx context.Context, entries []domain.RentEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	n, err := r.DB.Pool.CopyFrom(ctx, pgx.Identifier{"rent_entries"}, rentCopyColumns, rentCopySource(entries))
	if err != nil {
		if IsDuplicate(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	return int(n), nil
}

var rentCopyColumns = []string{"id", "tenant_id", "tenant_name", "property", "avatar_url", "year", "month", "amount",
	"due_date", "status", "payment_date", "collected_by"}

func rentCopySource(entries []domain.RentEntry) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
		e := entries[i]
		id := e.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		return []any{pgUUID(id), pgUUID(e.TenantID), e.TenantName, e.Property, e.AvatarURL, int32(e.Year), int32(e.Month),
			numeric(e.Amount), e.DueDate, string(e.Status), e.PaymentDate, e.CollectedBy}, nil
	})
}

func (r RentRepository) PatchOpen(ctx context.Context, tenantID uuid.UUID, p ports.RentPatch, from time.Time) (int64, error) {
	if p.Empty() {
		return 0, nil
	}
	set := map[string]any{"updated_at": sq.Expr("now()")}
	if p.TenantName != nil {
		set["tenant_name"] = *p.TenantName
	}
	if p.Property != nil {
		set["property"] = *p.Property
	}
	if p.AvatarURL != nil {
		set["avatar_url"] = *p.AvatarURL
	}
	if p.Amount != nil {
		set["amount"] = *p.Amount
	}
	sql, args, err := db.Builder.Update("rent_entries").SetMap(set).Where(sq.And{
		sq.Eq{"tenant_id": tenantID, "deleted_at": nil},
		sq.NotEq{"status": string(domain.RentPaid)},
		sq.GtOrEq{"due_date": from},
	}).ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := r.DB.Pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r RentRepository) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "rent_entries"}.SoftDelete(ctx, ids)
}

func (r RentRepository) Restore(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "rent_entries"}.Restore(ctx, ids)
}

func scanRentEntry(row pgx.Row) (*domain.RentEntry, error) {
	var (
		e      domain.RentEntry
		status string
	)
	if err := row.Scan(
		&e.ID, &e.TenantID, &e.TenantName, &e.Property, &e.AvatarURL, &e.Year, &e.Month, &e.Amount, &e.DueDate,
		&status, &e.PaymentDate, &e.CollectedBy, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	); err != nil {
		return nil, err
	}
	e.Status = domain.RentStatus(status)
	return &e, nil
}

// numeric converts a decimal into the pgtype value COPY encodes in binary.
func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
