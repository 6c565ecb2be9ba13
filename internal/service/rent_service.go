package service

import (
	"context"
	"errors"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/repository"

	"github.com/google/uuid"
)

type RentService struct {
	Rents   ports.RentStore
	Tenants ports.TenantStore
}

func (s RentService) List(ctx context.Context, f ports.RentFilter) ([]domain.RentEntry, error) {
	return s.Rents.List(ctx, f)
}

// Create bills a tenant for one period. Name, property, avatar and amount
// default to the tenant's current values; a second live entry for the same
// tenant and period is rejected with repository.ErrConflict.
func (s RentService) Create(ctx context.Context, e domain.RentEntry) (*domain.RentEntry, error) {
	if e.Status == "" {
		e.Status = domain.RentPending
	}
	if e.DueDate.IsZero() && e.Month >= 1 && e.Month <= 12 && e.Year > 0 {
		e.DueDate = time.Date(e.Year, time.Month(e.Month), 1, 0, 0, 0, 0, time.UTC)
	}
	if e.TenantID != uuid.Nil {
		t, err := s.Tenants.Get(ctx, e.TenantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, domain.Invalid("tenantId", "unknown tenant")
			}
			return nil, err
		}
		snapshot(&e, *t)
	}
	if err := check(e, rentRules(e)); err != nil {
		return nil, err
	}
	return s.Rents.Create(ctx, e)
}

func (s RentService) Update(ctx context.Context, e domain.RentEntry) (*domain.RentEntry, error) {
	if err := check(e, rentRules(e)); err != nil {
		return nil, err
	}
	return s.Rents.Update(ctx, e)
}

// MarkPaid records a payment against an entry.
func (s RentService) MarkPaid(ctx context.Context, id uuid.UUID, paidOn time.Time, collectedBy string) (*domain.RentEntry, error) {
	e, err := s.Rents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if paidOn.IsZero() {
		paidOn = time.Now()
	}
	day := time.Date(paidOn.Year(), paidOn.Month(), paidOn.Day(), 0, 0, 0, 0, time.UTC)
	e.Status = domain.RentPaid
	e.PaymentDate = &day
	e.CollectedBy = collectedBy
	return s.Rents.Update(ctx, *e)
}

func (s RentService) Delete(ctx context.Context, ids []uuid.UUID) error {
	return s.Rents.SoftDelete(ctx, ids)
}

func (s RentService) Undo(ctx context.Context, ids []uuid.UUID) error {
	return s.Rents.Restore(ctx, ids)
}

func snapshot(e *domain.RentEntry, t domain.Tenant) {
	if e.TenantName == "" {
		e.TenantName = t.Name
	}
	if e.Property == "" {
		e.Property = t.Property
	}
	if e.AvatarURL == "" {
		e.AvatarURL = t.AvatarURL
	}
	if e.Amount.IsZero() {
		e.Amount = t.Rent
	}
}

func rentRules(e domain.RentEntry) map[string]string {
	extra := map[string]string{}
	if e.Amount.IsNegative() {
		extra["amount"] = "must not be negative"
	}
	if e.Status == domain.RentPaid && e.PaymentDate == nil {
		extra["paymentDate"] = "is required when status is Paid"
	}
	return extra
}
