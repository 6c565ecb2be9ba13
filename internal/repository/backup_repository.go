package repository

import (
	"context"
	"fmt"
	"strings"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// BackupRepository reads and rewrites every entity table in one transaction.
type BackupRepository struct {
	DB *db.Postgres
}

// Snapshot reads all live rows from a single repeatable-read transaction so
// the tables agree with each other.
func (r BackupRepository) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	tx, err := r.DB.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var snap domain.Snapshot
	if snap.Tenants, err = collect(ctx, tx, `SELECT `+tenantColumns+` FROM tenants WHERE deleted_at IS NULL ORDER BY name`, scanTenant); err != nil {
		return nil, fmt.Errorf("tenants: %w", err)
	}
	if snap.RentEntries, err = collect(ctx, tx, `SELECT `+strings.Join(rentColumns, ", ")+` FROM rent_entries WHERE deleted_at IS NULL ORDER BY year, month`, scanRentEntry); err != nil {
		return nil, fmt.Errorf("rent entries: %w", err)
	}
	if snap.Expenses, err = collect(ctx, tx, `SELECT `+strings.Join(expenseColumns, ", ")+` FROM expenses WHERE deleted_at IS NULL ORDER BY expense_date`, scanExpense); err != nil {
		return nil, fmt.Errorf("expenses: %w", err)
	}
	if snap.Documents, err = collect(ctx, tx, `SELECT `+documentColumns+` FROM documents WHERE deleted_at IS NULL`, scanDocument); err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	if snap.ZakatTransactions, err = collect(ctx, tx, `SELECT `+zakatColumns+` FROM zakat_transactions WHERE deleted_at IS NULL ORDER BY txn_date`, scanZakat); err != nil {
		return nil, fmt.Errorf("zakat transactions: %w", err)
	}
	if snap.ZakatBankDetails, err = collect(ctx, tx, `SELECT `+zakatBankColumns+` FROM zakat_bank_details WHERE deleted_at IS NULL`, scanZakatBank); err != nil {
		return nil, fmt.Errorf("zakat bank details: %w", err)
	}
	if snap.Deposits, err = collect(ctx, tx, `SELECT `+depositColumns+` FROM deposits WHERE deleted_at IS NULL ORDER BY deposit_date`, scanDeposit); err != nil {
		return nil, fmt.Errorf("deposits: %w", err)
	}
	if snap.WorkDetails, err = collect(ctx, tx, `SELECT `+workDetailColumns+` FROM work_details WHERE deleted_at IS NULL ORDER BY work_date`, scanWorkDetail); err != nil {
		return nil, fmt.Errorf("work details: %w", err)
	}
	if snap.Notices, err = collect(ctx, tx, `SELECT `+noticeColumns+` FROM notices WHERE deleted_at IS NULL ORDER BY notice_date`, scanNotice); err != nil {
		return nil, fmt.Errorf("notices: %w", err)
	}
	if snap.Settings, err = scanSettings(tx.QueryRow(ctx, selectSettings)); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return &snap, tx.Commit(ctx)
}

// Replace empties every entity table and loads snap in its place. Either all
// tables are replaced or none are.
func (r BackupRepository) Replace(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{
		"rent_entries", "deposits", "tenants", "expenses", "documents",
		"zakat_transactions", "zakat_bank_details", "work_details", "notices",
	} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	loads := []struct {
		table   string
		columns []string
		src     pgx.CopyFromSource
	}{
		{"tenants", tenantCopyColumns, tenantCopySource(snap.Tenants)},
		{"rent_entries", rentCopyColumns, rentCopySource(snap.RentEntries)},
		{"expenses", expenseCopyColumns, expenseCopySource(snap.Expenses)},
		{"documents", []string{"id", "category", "file_url", "mime_type", "file_name", "description"},
			pgx.CopyFromSlice(len(snap.Documents), func(i int) ([]any, error) {
				d := snap.Documents[i]
				return []any{pgUUID(d.ID), d.Category, d.FileURL, d.MimeType, d.FileName, d.Description}, nil
			})},
		{"zakat_transactions", []string{"id", "txn_date", "type", "person", "amount", "description", "receipt_url"},
			pgx.CopyFromSlice(len(snap.ZakatTransactions), func(i int) ([]any, error) {
				z := snap.ZakatTransactions[i]
				return []any{pgUUID(z.ID), z.Date, string(z.Type), z.Person, numeric(z.Amount), z.Description, z.ReceiptURL}, nil
			})},
		{"zakat_bank_details", []string{"id", "bank_name", "account_holder", "account_number", "iban", "notes"},
			pgx.CopyFromSlice(len(snap.ZakatBankDetails), func(i int) ([]any, error) {
				b := snap.ZakatBankDetails[i]
				return []any{pgUUID(b.ID), b.BankName, b.AccountHolder, b.AccountNumber, b.IBAN, b.Notes}, nil
			})},
		{"deposits", []string{"id", "tenant_id", "deposit_date", "amount", "type", "description", "receipt_url"},
			pgx.CopyFromSlice(len(snap.Deposits), func(i int) ([]any, error) {
				d := snap.Deposits[i]
				tenant := pgtype.UUID{}
				if d.TenantID != nil {
					tenant = pgUUID(*d.TenantID)
				}
				return []any{pgUUID(d.ID), tenant, d.Date, numeric(d.Amount), string(d.Type), d.Description, d.ReceiptURL}, nil
			})},
		{"work_details", []string{"id", "work_date", "category", "description", "amount", "status", "receipt_url"},
			pgx.CopyFromSlice(len(snap.WorkDetails), func(i int) ([]any, error) {
				w := snap.WorkDetails[i]
				return []any{pgUUID(w.ID), w.Date, w.Category, w.Description, numeric(w.Amount), w.Status, w.ReceiptURL}, nil
			})},
		{"notices", []string{"id", "notice_date", "title", "body", "file_url"},
			pgx.CopyFromSlice(len(snap.Notices), func(i int) ([]any, error) {
				n := snap.Notices[i]
				return []any{pgUUID(n.ID), n.Date, n.Title, n.Body, n.FileURL}, nil
			})},
	}
	for _, l := range loads {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{l.table}, l.columns, l.src); err != nil {
			return fmt.Errorf("load %s: %w", l.table, err)
		}
	}
	if err := writeSettings(ctx, tx, snap.Settings); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	return tx.Commit(ctx)
}

var tenantCopyColumns = []string{"id", "name", "email", "phone", "property", "rent", "join_date", "status", "avatar_url",
	"father_name", "address", "date_of_birth", "national_id", "deposit_amount",
	"electricity_meter", "gas_meter", "water_meter", "documents"}

func tenantCopySource(tenants []domain.Tenant) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(tenants), func(i int) ([]any, error) {
		t := tenants[i]
		return []any{pgUUID(t.ID), t.Name, t.Email, t.Phone, t.Property, numeric(t.Rent), t.JoinDate, string(t.Status), t.AvatarURL,
			t.FatherName, t.Address, t.DateOfBirth, t.NationalID, nullNumeric(t.DepositAmount),
			t.ElectricityMeter, t.GasMeter, t.WaterMeter, nonNil(t.Documents)}, nil
	})
}

func collect[T any](ctx context.Context, tx pgx.Tx, query string, scan func(pgx.Row) (*T, error)) ([]T, error) {
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func nullNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return numeric(*d)
}
