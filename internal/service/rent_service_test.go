package service

import (
	"context"
	"testing"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/memstore"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRentService(t *testing.T) (RentService, domain.Tenant) {
	t.Helper()
	tenants := &memstore.Tenants{}
	tenant := sampleTenant()
	tenant.AvatarURL = "mem://avatars/alice.jpg"
	created, err := tenants.Create(context.Background(), tenant)
	require.NoError(t, err)
	return RentService{Rents: &memstore.Rents{}, Tenants: tenants}, *created
}

func TestRentCreateCopiesTenantDetails(t *testing.T) {
	svc, tenant := newRentService(t)

	e, err := svc.Create(context.Background(), domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 6})
	require.NoError(t, err)
	assert.Equal(t, "Alice", e.TenantName)
	assert.Equal(t, "Unit 1", e.Property)
	assert.Equal(t, tenant.AvatarURL, e.AvatarURL)
	assert.True(t, e.Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, domain.RentPending, e.Status)
	assert.Equal(t, day(2024, time.June, 1), e.DueDate)
}

func TestRentCreateRejectsSecondEntryForPeriod(t *testing.T) {
	svc, tenant := newRentService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 6})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 6, Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestRentCreateUnknownTenant(t *testing.T) {
	svc, _ := newRentService(t)

	_, err := svc.Create(context.Background(), domain.RentEntry{TenantID: uuid.New(), Year: 2024, Month: 6})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unknown tenant", verr.Fields["tenantId"])
}

func TestRentCreateValidatesPeriod(t *testing.T) {
	svc, tenant := newRentService(t)

	_, err := svc.Create(context.Background(), domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 13})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "month")
	assert.Contains(t, verr.Fields, "dueDate")
}

func TestRentPaidRequiresPaymentDate(t *testing.T) {
	svc, tenant := newRentService(t)

	_, err := svc.Create(context.Background(), domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 6, Status: domain.RentPaid})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required when status is Paid", verr.Fields["paymentDate"])
}

func TestRentMarkPaid(t *testing.T) {
	svc, tenant := newRentService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 6})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, e.ID, time.Date(2024, time.June, 3, 17, 45, 0, 0, time.UTC), "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RentPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, day(2024, time.June, 3), *paid.PaymentDate)
	assert.Equal(t, "owner@example.com", paid.CollectedBy)

	_, err = svc.MarkPaid(ctx, uuid.New(), time.Time{}, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRentDeleteFreesPeriod(t *testing.T) {
	svc, tenant := newRentService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 7})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, []uuid.UUID{e.ID}))

	_, err = svc.Create(ctx, domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 7})
	assert.NoError(t, err)
}

func TestRentUndoRefusesRebilledPeriod(t *testing.T) {
	svc, tenant := newRentService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 5})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, []uuid.UUID{first.ID}))
	_, err = svc.Create(ctx, domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 5})
	require.NoError(t, err)

	err = svc.Undo(ctx, []uuid.UUID{first.ID})
	assert.ErrorIs(t, err, repository.ErrConflict)

	live, err := svc.List(ctx, ports.RentFilter{Year: 2024, Month: 5, TenantID: &tenant.ID})
	require.NoError(t, err)
	assert.Len(t, live, 1)
}

func TestRentUndoRefusesTwoEntriesForOnePeriod(t *testing.T) {
	svc, tenant := newRentService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 8})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, []uuid.UUID{a.ID}))
	b, err := svc.Create(ctx, domain.RentEntry{TenantID: tenant.ID, Year: 2024, Month: 8})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, []uuid.UUID{b.ID}))

	assert.ErrorIs(t, svc.Undo(ctx, []uuid.UUID{a.ID, b.ID}), repository.ErrConflict)
	require.NoError(t, svc.Undo(ctx, []uuid.UUID{b.ID}))
}
