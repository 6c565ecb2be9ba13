// Package backup exports every entity table as one JSON document and
// restores such a document into an emptied database.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"

	"github.com/google/uuid"
)

var ErrEmptySnapshot = errors.New("backup contains no data")

type Service struct {
	Store  ports.BackupStore
	Logger *slog.Logger
}

// Counts reports how many rows of each table a restore wrote.
type Counts struct {
	Tenants           int `json:"tenants"`
	RentEntries       int `json:"rentEntries"`
	Expenses          int `json:"expenses"`
	Documents         int `json:"documents"`
	ZakatTransactions int `json:"zakatTransactions"`
	ZakatBankDetails  int `json:"zakatBankDetails"`
	Deposits          int `json:"deposits"`
	WorkDetails       int `json:"workDetails"`
	Notices           int `json:"notices"`
}

func (s Service) Export(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.Store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	snap.ExportedAt = time.Now().UTC()
	return snap, nil
}

// WriteJSON writes the snapshot pretty-printed.
func WriteJSON(w io.Writer, snap *domain.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// ReadJSON decodes a snapshot written by WriteJSON.
func ReadJSON(r io.Reader) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, domain.Invalid("backup", "not a valid backup file: "+err.Error())
	}
	return &snap, nil
}

// Restore replaces the contents of every table with snap.
func (s Service) Restore(ctx context.Context, snap *domain.Snapshot) (Counts, error) {
	if snap == nil {
		return Counts{}, ErrEmptySnapshot
	}
	prepared, err := Prepare(snap)
	if err != nil {
		return Counts{}, err
	}
	if err := s.Store.Replace(ctx, prepared); err != nil {
		return Counts{}, fmt.Errorf("replace: %w", err)
	}
	counts := countRows(prepared)
	if s.Logger != nil {
		s.Logger.Info("backup restored", "tenants", counts.Tenants, "rent_entries", counts.RentEntries, "expenses", counts.Expenses)
	}
	return counts, nil
}

// Prepare returns a copy of snap ready to be inserted: every row gets a
// fresh id, timestamps are cleared so the database sets them, and tenant
// references are rewritten to the new tenant ids. Rows that point at a
// tenant missing from the snapshot are rejected.
func Prepare(snap *domain.Snapshot) (*domain.Snapshot, error) {
	out := &domain.Snapshot{
		ExportedAt: snap.ExportedAt,
		Settings:   snap.Settings,
	}

	tenantIDs := make(map[uuid.UUID]uuid.UUID, len(snap.Tenants))
	for _, t := range snap.Tenants {
		newID := uuid.New()
		tenantIDs[t.ID] = newID
		t.ID = newID
		t.CreatedAt, t.UpdatedAt, t.DeletedAt = time.Time{}, time.Time{}, nil
		out.Tenants = append(out.Tenants, t)
	}

	for _, e := range snap.RentEntries {
		tid, ok := tenantIDs[e.TenantID]
		if !ok {
			return nil, domain.Invalid("rentEntries", fmt.Sprintf("entry %s references unknown tenant %s", e.ID, e.TenantID))
		}
		e.ID, e.TenantID = uuid.New(), tid
		e.CreatedAt, e.UpdatedAt, e.DeletedAt = time.Time{}, time.Time{}, nil
		out.RentEntries = append(out.RentEntries, e)
	}

	for _, d := range snap.Deposits {
		if d.TenantID != nil {
			tid, ok := tenantIDs[*d.TenantID]
			if !ok {
				return nil, domain.Invalid("deposits", fmt.Sprintf("deposit %s references unknown tenant %s", d.ID, *d.TenantID))
			}
			d.TenantID = &tid
		}
		d.ID = uuid.New()
		d.CreatedAt, d.UpdatedAt, d.DeletedAt = time.Time{}, time.Time{}, nil
		out.Deposits = append(out.Deposits, d)
	}

	for _, e := range snap.Expenses {
		e.ID = uuid.New()
		e.CreatedAt, e.UpdatedAt, e.DeletedAt = time.Time{}, time.Time{}, nil
		out.Expenses = append(out.Expenses, e)
	}
	for _, d := range snap.Documents {
		d.ID = uuid.New()
		d.CreatedAt, d.UpdatedAt, d.DeletedAt = time.Time{}, time.Time{}, nil
		out.Documents = append(out.Documents, d)
	}
	for _, z := range snap.ZakatTransactions {
		z.ID = uuid.New()
		z.CreatedAt, z.UpdatedAt, z.DeletedAt = time.Time{}, time.Time{}, nil
		out.ZakatTransactions = append(out.ZakatTransactions, z)
	}
	for _, b := range snap.ZakatBankDetails {
		b.ID = uuid.New()
		b.CreatedAt, b.UpdatedAt, b.DeletedAt = time.Time{}, time.Time{}, nil
		out.ZakatBankDetails = append(out.ZakatBankDetails, b)
	}
	for _, w := range snap.WorkDetails {
		w.ID = uuid.New()
		w.CreatedAt, w.UpdatedAt, w.DeletedAt = time.Time{}, time.Time{}, nil
		out.WorkDetails = append(out.WorkDetails, w)
	}
	for _, n := range snap.Notices {
		n.ID = uuid.New()
		n.CreatedAt, n.UpdatedAt, n.DeletedAt = time.Time{}, time.Time{}, nil
		out.Notices = append(out.Notices, n)
	}
	return out, nil
}

func countRows(s *domain.Snapshot) Counts {
	return Counts{
		Tenants:           len(s.Tenants),
		RentEntries:       len(s.RentEntries),
		Expenses:          len(s.Expenses),
		Documents:         len(s.Documents),
		ZakatTransactions: len(s.ZakatTransactions),
		ZakatBankDetails:  len(s.ZakatBankDetails),
		Deposits:          len(s.Deposits),
		WorkDetails:       len(s.WorkDetails),
		Notices:           len(s.Notices),
	}
}
