package repository

import (
	"context"
	"errors"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type TenantRepository struct {
	DB *db.Postgres
}

const tenantColumns = `id, name, email, phone, property, rent, join_date, status, avatar_url,
	father_name, address, date_of_birth, national_id, deposit_amount,
	electricity_meter, gas_meter, water_meter, documents, created_at, updated_at, deleted_at`

func (r TenantRepository) List(ctx context.Context) ([]domain.Tenant, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE deleted_at IS NULL
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

func (r TenantRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r TenantRepository) Create(ctx context.Context, t domain.Tenant) (*domain.Tenant, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO tenants (id, name, email, phone, property, rent, join_date, status, avatar_url,
		                     father_name, address, date_of_birth, national_id, deposit_amount,
		                     electricity_meter, gas_meter, water_meter, documents, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18, now(), now())
		RETURNING `+tenantColumns,
		t.ID, t.Name, t.Email, t.Phone, t.Property, t.Rent, t.JoinDate, string(t.Status), t.AvatarURL,
		t.FatherName, t.Address, t.DateOfBirth, t.NationalID, nullDecimal(t.DepositAmount),
		t.ElectricityMeter, t.GasMeter, t.WaterMeter, nonNil(t.Documents))
	return scanTenant(row)
}

func (r TenantRepository) Update(ctx context.Context, t domain.Tenant) (*domain.Tenant, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE tenants SET
			name=$2, email=$3, phone=$4, property=$5, rent=$6, join_date=$7, status=$8, avatar_url=$9,
			father_name=$10, address=$11, date_of_birth=$12, national_id=$13, deposit_amount=$14,
			electricity_meter=$15, gas_meter=$16, water_meter=$17, documents=$18, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+tenantColumns,
		t.ID, t.Name, t.Email, t.Phone, t.Property, t.Rent, t.JoinDate, string(t.Status), t.AvatarURL,
		t.FatherName, t.Address, t.DateOfBirth, t.NationalID, nullDecimal(t.DepositAmount),
		t.ElectricityMeter, t.GasMeter, t.WaterMeter, nonNil(t.Documents))
	saved, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return saved, nil
}

func (r TenantRepository) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "tenants"}.SoftDelete(ctx, ids)
}

func (r TenantRepository) Restore(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "tenants"}.Restore(ctx, ids)
}

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var (
		t       domain.Tenant
		status  string
		deposit decimal.NullDecimal
	)
	if err := row.Scan(
		&t.ID, &t.Name, &t.Email, &t.Phone, &t.Property, &t.Rent, &t.JoinDate, &status, &t.AvatarURL,
		&t.FatherName, &t.Address, &t.DateOfBirth, &t.NationalID, &deposit,
		&t.ElectricityMeter, &t.GasMeter, &t.WaterMeter, &t.Documents, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	); err != nil {
		return nil, err
	}
	t.Status = domain.TenantStatus(status)
	if deposit.Valid {
		t.DepositAmount = &deposit.Decimal
	}
	return &t, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
