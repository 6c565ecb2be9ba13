package repository

import (
	"context"
	"errors"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ZakatRepository struct {
	DB *db.Postgres
}

const zakatColumns = `id, txn_date, type, person, amount, description, receipt_url, created_at, updated_at, deleted_at`

func (r ZakatRepository) List(ctx context.Context) ([]domain.ZakatTransaction, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+zakatColumns+`
		FROM zakat_transactions
		WHERE deleted_at IS NULL
		ORDER BY txn_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.ZakatTransaction
	for rows.Next() {
		z, err := scanZakat(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *z)
	}
	return items, rows.Err()
}

func (r ZakatRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ZakatTransaction, error) {
	z, err := scanZakat(r.DB.Pool.QueryRow(ctx, `
		SELECT `+zakatColumns+` FROM zakat_transactions WHERE id=$1 AND deleted_at IS NULL
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return z, err
}

func (r ZakatRepository) Create(ctx context.Context, z domain.ZakatTransaction) (*domain.ZakatTransaction, error) {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	return scanZakat(r.DB.Pool.QueryRow(ctx, `
		INSERT INTO zakat_transactions (id, txn_date, type, person, amount, description, receipt_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now(), now())
		RETURNING `+zakatColumns,
		z.ID, z.Date, string(z.Type), z.Person, z.Amount, z.Description, z.ReceiptURL))
}

func (r ZakatRepository) Update(ctx context.Context, z domain.ZakatTransaction) (*domain.ZakatTransaction, error) {
	saved, err := scanZakat(r.DB.Pool.QueryRow(ctx, `
		UPDATE zakat_transactions SET txn_date=$2, type=$3, person=$4, amount=$5, description=$6, receipt_url=$7, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+zakatColumns,
		z.ID, z.Date, string(z.Type), z.Person, z.Amount, z.Description, z.ReceiptURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return saved, err
}

func (r ZakatRepository) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "zakat_transactions"}.SoftDelete(ctx, ids)
}

func (r ZakatRepository) Restore(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "zakat_transactions"}.Restore(ctx, ids)
}

func scanZakat(row pgx.Row) (*domain.ZakatTransaction, error) {
	var z domain.ZakatTransaction
	if err := row.Scan(&z.ID, &z.Date, (*string)(&z.Type), &z.Person, &z.Amount, &z.Description, &z.ReceiptURL, &z.CreatedAt, &z.UpdatedAt, &z.DeletedAt); err != nil {
		return nil, err
	}
	return &z, nil
}

// ZakatBankRepository stores the bank accounts Zakat funds are paid into.
type ZakatBankRepository struct {
	DB *db.Postgres
}

const zakatBankColumns = `id, bank_name, account_holder, account_number, iban, notes, created_at, updated_at, deleted_at`

func (r ZakatBankRepository) List(ctx context.Context) ([]domain.ZakatBankDetail, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+zakatBankColumns+`
		FROM zakat_bank_details
		WHERE deleted_at IS NULL
		ORDER BY bank_name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.ZakatBankDetail
	for rows.Next() {
		b, err := scanZakatBank(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

func (r ZakatBankRepository) Create(ctx context.Context, b domain.ZakatBankDetail) (*domain.ZakatBankDetail, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return scanZakatBank(r.DB.Pool.QueryRow(ctx, `
		INSERT INTO zakat_bank_details (id, bank_name, account_holder, account_number, iban, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, now(), now())
		RETURNING `+zakatBankColumns,
		b.ID, b.BankName, b.AccountHolder, b.AccountNumber, b.IBAN, b.Notes))
}

func (r ZakatBankRepository) Update(ctx context.Context, b domain.ZakatBankDetail) (*domain.ZakatBankDetail, error) {
	saved, err := scanZakatBank(r.DB.Pool.QueryRow(ctx, `
		UPDATE zakat_bank_details SET bank_name=$2, account_holder=$3, account_number=$4, iban=$5, notes=$6, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+zakatBankColumns,
		b.ID, b.BankName, b.AccountHolder, b.AccountNumber, b.IBAN, b.Notes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return saved, err
}

func (r ZakatBankRepository) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "zakat_bank_details"}.SoftDelete(ctx, ids)
}

func (r ZakatBankRepository) Restore(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "zakat_bank_details"}.Restore(ctx, ids)
}

func scanZakatBank(row pgx.Row) (*domain.ZakatBankDetail, error) {
	var b domain.ZakatBankDetail
	if err := row.Scan(&b.ID, &b.BankName, &b.AccountHolder, &b.AccountNumber, &b.IBAN, &b.Notes, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
