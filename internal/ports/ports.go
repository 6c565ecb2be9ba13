package ports

import (
	"context"
	"io"
	"time"

	"rentflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HealthChecker checks that a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// SoftDeleter marks rows deleted and restores them. Both operations take a
// batch of ids and are applied as one statement.
type SoftDeleter interface {
	SoftDelete(ctx context.Context, ids []uuid.UUID) error
	Restore(ctx context.Context, ids []uuid.UUID) error
}

type TenantStore interface {
	SoftDeleter
	List(ctx context.Context) ([]domain.Tenant, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	Create(ctx context.Context, t domain.Tenant) (*domain.Tenant, error)
	Update(ctx context.Context, t domain.Tenant) (*domain.Tenant, error)
}

// RentFilter narrows rent entry listings. Zero values mean "any".
type RentFilter struct {
	Year     int
	Month    int
	TenantID *uuid.UUID
	Status   domain.RentStatus
}

// RentPatch carries the tenant fields copied onto open rent entries. Nil
// fields are left untouched.
type RentPatch struct {
	TenantName *string
	Property   *string
	AvatarURL  *string
	Amount     *decimal.Decimal
}

func (p RentPatch) Empty() bool {
	return p.TenantName == nil && p.Property == nil && p.AvatarURL == nil && p.Amount == nil
}

type RentStore interface {
	SoftDeleter
	List(ctx context.Context, f RentFilter) ([]domain.RentEntry, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.RentEntry, error)
	Create(ctx context.Context, e domain.RentEntry) (*domain.RentEntry, error)
	Update(ctx context.Context, e domain.RentEntry) (*domain.RentEntry, error)
	InsertMany(ctx context.Context, entries []domain.RentEntry) (int, error)
	// PatchOpen applies p to every non-deleted, unpaid entry of the tenant
	// whose due date is on or after from.
	PatchOpen(ctx context.Context, tenantID uuid.UUID, p RentPatch, from time.Time) (int64, error)
}

// ExpenseFilter narrows expense listings. From is inclusive, To exclusive.
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Category string
	Status   domain.ExpenseStatus
}

type ExpenseStore interface {
	SoftDeleter
	List(ctx context.Context, f ExpenseFilter) ([]domain.Expense, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Expense, error)
	Create(ctx context.Context, e domain.Expense) (*domain.Expense, error)
	Update(ctx context.Context, e domain.Expense) (*domain.Expense, error)
	InsertMany(ctx context.Context, expenses []domain.Expense) (int, error)
}

type DocumentStore interface {
	SoftDeleter
	List(ctx context.Context, category string) ([]domain.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	Create(ctx context.Context, d domain.Document) (*domain.Document, error)
	Update(ctx context.Context, d domain.Document) (*domain.Document, error)
}

type ZakatStore interface {
	SoftDeleter
	List(ctx context.Context) ([]domain.ZakatTransaction, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ZakatTransaction, error)
	Create(ctx context.Context, z domain.ZakatTransaction) (*domain.ZakatTransaction, error)
	Update(ctx context.Context, z domain.ZakatTransaction) (*domain.ZakatTransaction, error)
}

// SettingsStore reads and patches the single property settings row.
type SettingsStore interface {
	// Get returns nil, nil when the row has never been written.
	Get(ctx context.Context) (*domain.PropertySettings, error)
	// Patch writes the given columns, creating the row when missing.
	Patch(ctx context.Context, columns map[string]any) error
}

// OverlayStore persists the local settings overlay as one JSON blob.
type OverlayStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
}

// ObjectStore is a bucket-addressed file store.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error)
	PublicURL(bucket, storedPath string) string
	Remove(ctx context.Context, bucket string, paths []string) error
	PathFromURL(bucket, url string) (string, bool)
}

// BackupStore reads and replaces every entity table at once.
type BackupStore interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Replace(ctx context.Context, snap *domain.Snapshot) error
}

type ZakatBankStore interface {
	SoftDeleter
	List(ctx context.Context) ([]domain.ZakatBankDetail, error)
	Create(ctx context.Context, b domain.ZakatBankDetail) (*domain.ZakatBankDetail, error)
	Update(ctx context.Context, b domain.ZakatBankDetail) (*domain.ZakatBankDetail, error)
}

type DepositStore interface {
	SoftDeleter
	List(ctx context.Context, tenantID *uuid.UUID) ([]domain.Deposit, error)
	Create(ctx context.Context, d domain.Deposit) (*domain.Deposit, error)
	Update(ctx context.Context, d domain.Deposit) (*domain.Deposit, error)
}

type WorkDetailStore interface {
	SoftDeleter
	List(ctx context.Context) ([]domain.WorkDetail, error)
	Create(ctx context.Context, w domain.WorkDetail) (*domain.WorkDetail, error)
	Update(ctx context.Context, w domain.WorkDetail) (*domain.WorkDetail, error)
}

type NoticeStore interface {
	SoftDeleter
	List(ctx context.Context, limit int) ([]domain.Notice, error)
	Create(ctx context.Context, n domain.Notice) (*domain.Notice, error)
	Update(ctx context.Context, n domain.Notice) (*domain.Notice, error)
}

// ActivityStore keeps the audit trail.
type ActivityStore interface {
	Create(ctx context.Context, l domain.ActivityLog) (*domain.ActivityLog, error)
	List(ctx context.Context, limit int) ([]domain.ActivityLog, error)
}
