package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cascadeFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rentflow_cascade_failures_total",
	Help: "Tenant update listeners that returned an error.",
})

// Tenant fields reported in TenantUpdated.Changed.
const (
	FieldName      = "name"
	FieldProperty  = "property"
	FieldRent      = "rent"
	FieldAvatarURL = "avatarUrl"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldStatus    = "status"
	FieldJoinDate  = "joinDate"
	FieldDocuments = "documents"
)

// TenantUpdated is emitted after a tenant row has been written.
type TenantUpdated struct {
	TenantID uuid.UUID
	Changed  []string
	Tenant   domain.Tenant
}

func (e TenantUpdated) Has(field string) bool {
	for _, f := range e.Changed {
		if f == field {
			return true
		}
	}
	return false
}

// TenantListener reacts to committed tenant updates. An error does not undo
// the update; it is reported back to the caller as a warning.
type TenantListener interface {
	Name() string
	TenantUpdated(ctx context.Context, ev TenantUpdated) error
}

// RentSync copies changed tenant details onto the tenant's open rent
// entries: not Paid and due today or later.
type RentSync struct {
	Rents  ports.RentStore
	Logger *slog.Logger
	Now    func() time.Time
}

func (RentSync) Name() string { return "rent-sync" }

func (l RentSync) TenantUpdated(ctx context.Context, ev TenantUpdated) error {
	var p ports.RentPatch
	if ev.Has(FieldName) {
		p.TenantName = &ev.Tenant.Name
	}
	if ev.Has(FieldProperty) {
		p.Property = &ev.Tenant.Property
	}
	if ev.Has(FieldAvatarURL) {
		p.AvatarURL = &ev.Tenant.AvatarURL
	}
	if ev.Has(FieldRent) {
		p.Amount = &ev.Tenant.Rent
	}
	if p.Empty() {
		return nil
	}

	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	n, err := l.Rents.PatchOpen(ctx, ev.TenantID, p, today)
	if err != nil {
		return fmt.Errorf("sync rent entries: %w", err)
	}
	if l.Logger != nil {
		l.Logger.Info("rent entries synced", "tenant", ev.TenantID, "fields", ev.Changed, "rows", n)
	}
	return nil
}

// changedFields lists the tenant fields that differ between a and b.
func changedFields(a, b domain.Tenant) []string {
	var out []string
	add := func(name string, differs bool) {
		if differs {
			out = append(out, name)
		}
	}
	add(FieldName, a.Name != b.Name)
	add(FieldProperty, a.Property != b.Property)
	add(FieldRent, !a.Rent.Equal(b.Rent))
	add(FieldAvatarURL, a.AvatarURL != b.AvatarURL)
	add(FieldEmail, a.Email != b.Email)
	add(FieldPhone, a.Phone != b.Phone)
	add(FieldStatus, a.Status != b.Status)
	add(FieldJoinDate, !a.JoinDate.Equal(b.JoinDate))
	add(FieldDocuments, len(a.Documents) != len(b.Documents))
	return out
}
