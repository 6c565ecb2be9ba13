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

type DepositRepository struct {
	DB *db.Postgres
}

const depositColumns = `id, tenant_id, deposit_date, amount, type, description, receipt_url, created_at, updated_at, deleted_at`

// List returns live deposits, newest first. A non-nil tenantID keeps only that tenant's rows.
func (r DepositRepository) List(ctx context.Context, tenantID *uuid.UUID) ([]domain.Deposit, error) {
	q := db.Builder.Select(depositColumns).From("deposits").Where(sq.Eq{"deleted_at": nil})
	if tenantID != nil {
		q = q.Where(sq.Eq{"tenant_id": *tenantID})
	}
	sql, args, err := q.OrderBy("deposit_date DESC", "created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r DepositRepository) Create(ctx context.Context, d domain.Deposit) (*domain.Deposit, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return scanDeposit(r.DB.Pool.QueryRow(ctx, `
		INSERT INTO deposits (id, tenant_id, deposit_date, amount, type, description, receipt_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
		RETURNING `+depositColumns,
		d.ID, nullUUID(d.TenantID), d.Date, d.Amount, string(d.Type), d.Description, d.ReceiptURL))
}

func (r DepositRepository) Update(ctx context.Context, d domain.Deposit) (*domain.Deposit, error) {
	saved, err := scanDeposit(r.DB.Pool.QueryRow(ctx, `
		UPDATE deposits SET tenant_id=$2, deposit_date=$3, amount=$4, type=$5, description=$6, receipt_url=$7, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+depositColumns,
		d.ID, nullUUID(d.TenantID), d.Date, d.Amount, string(d.Type), d.Description, d.ReceiptURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return saved, err
}

func (r DepositRepository) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "deposits"}.SoftDelete(ctx, ids)
}

func (r DepositRepository) Restore(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "deposits"}.Restore(ctx, ids)
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var (
		d      domain.Deposit
		tenant uuid.NullUUID
	)
	if err := row.Scan(&d.ID, &tenant, &d.Date, &d.Amount, (*string)(&d.Type), &d.Description, &d.ReceiptURL, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt); err != nil {
		return nil, err
	}
	if tenant.Valid {
		d.TenantID = &tenant.UUID
	}
	return &d, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
