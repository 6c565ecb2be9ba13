// Package memstore holds in-memory implementations of the store ports. They
// are used by unit tests and follow the same semantics as the Postgres
// repositories: soft-deleted rows are hidden and missing ids return
// repository.ErrNotFound.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
	"rentflow-backend/internal/repository"

	"github.com/google/uuid"
)

// table is a soft-delete aware row map shared by every entity store.
type table[T any] struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]T
	deleted map[uuid.UUID]bool
	order   []uuid.UUID
}

func (t *table[T]) init() {
	if t.rows == nil {
		t.rows = map[uuid.UUID]T{}
		t.deleted = map[uuid.UUID]bool{}
	}
}

func (t *table[T]) put(id uuid.UUID, v T) {
	t.init()
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) live() []T {
	t.init()
	out := []T{}
	for _, id := range t.order {
		if !t.deleted[id] {
			out = append(out, t.rows[id])
		}
	}
	return out
}

func (t *table[T]) get(id uuid.UUID) (T, bool) {
	t.init()
	v, ok := t.rows[id]
	if !ok || t.deleted[id] {
		var zero T
		return zero, false
	}
	return v, true
}

func (t *table[T]) SoftDelete(_ context.Context, ids []uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.init()
	for _, id := range ids {
		if _, ok := t.rows[id]; ok {
			t.deleted[id] = true
		}
	}
	return nil
}

func (t *table[T]) Restore(_ context.Context, ids []uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.init()
	for _, id := range ids {
		delete(t.deleted, id)
	}
	return nil
}

// Deleted reports whether id is currently soft-deleted.
func (t *table[T]) Deleted(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.init()
	return t.deleted[id]
}

type Tenants struct {
	table[domain.Tenant]
	// UpdateErr, when set, is returned by Update.
	UpdateErr error
}

var _ ports.TenantStore = (*Tenants)(nil)

func (s *Tenants) List(context.Context) ([]domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.live()
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *Tenants) Get(_ context.Context, id uuid.UUID) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *Tenants) Create(_ context.Context, t domain.Tenant) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	s.put(t.ID, t)
	return &t, nil
}

func (s *Tenants) Update(_ context.Context, t domain.Tenant) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	old, ok := s.get(t.ID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.CreatedAt, t.UpdatedAt = old.CreatedAt, time.Now()
	s.put(t.ID, t)
	return &t, nil
}

type Rents struct {
	table[domain.RentEntry]
	// PatchErr, when set, is returned by PatchOpen.
	PatchErr error
}

var _ ports.RentStore = (*Rents)(nil)

func (s *Rents) List(_ context.Context, f ports.RentFilter) ([]domain.RentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RentEntry
	for _, e := range s.live() {
		if f.Year > 0 && e.Year != f.Year {
			continue
		}
		if f.Month > 0 && e.Month != f.Month {
			continue
		}
		if f.TenantID != nil && e.TenantID != *f.TenantID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Rents) Get(_ context.Context, id uuid.UUID) (*domain.RentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (s *Rents) Create(_ context.Context, e domain.RentEntry) (*domain.RentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.covered(e.TenantID, e.Year, e.Month) {
		return nil, repository.ErrConflict
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
	s.put(e.ID, e)
	return &e, nil
}

func (s *Rents) Update(_ context.Context, e domain.RentEntry) (*domain.RentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.get(e.ID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	e.CreatedAt, e.UpdatedAt = old.CreatedAt, time.Now()
	s.put(e.ID, e)
	return &e, nil
}

func (s *Rents) InsertMany(_ context.Context, entries []domain.RentEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if s.covered(e.TenantID, e.Year, e.Month) {
			return 0, repository.ErrConflict
		}
	}
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
		s.put(e.ID, e)
	}
	return len(entries), nil
}

func (s *Rents) PatchOpen(_ context.Context, tenantID uuid.UUID, p ports.RentPatch, from time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PatchErr != nil {
		return 0, s.PatchErr
	}
	var n int64
	for _, e := range s.live() {
		if e.TenantID != tenantID || e.Status == domain.RentPaid || e.DueDate.Before(from) {
			continue
		}
		if p.TenantName != nil {
			e.TenantName = *p.TenantName
		}
		if p.Property != nil {
			e.Property = *p.Property
		}
		if p.AvatarURL != nil {
			e.AvatarURL = *p.AvatarURL
		}
		if p.Amount != nil {
			e.Amount = *p.Amount
		}
		s.put(e.ID, e)
		n++
	}
	return n, nil
}

// Restore refuses, as a whole, to bring back an entry whose period is
// already covered by a live entry of the same tenant.
func (s *Rents) Restore(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	type period struct {
		tenant      uuid.UUID
		year, month int
	}
	seen := map[period]bool{}
	for _, id := range ids {
		e, ok := s.rows[id]
		if !ok || !s.deleted[id] {
			continue
		}
		p := period{e.TenantID, e.Year, e.Month}
		if seen[p] || s.covered(e.TenantID, e.Year, e.Month) {
			return repository.ErrConflict
		}
		seen[p] = true
	}
	for _, id := range ids {
		delete(s.deleted, id)
	}
	return nil
}

func (s *Rents) covered(tenantID uuid.UUID, year, month int) bool {
	for _, e := range s.live() {
		if e.TenantID == tenantID && e.Year == year && e.Month == month {
			return true
		}
	}
	return false
}

type Expenses struct {
	table[domain.Expense]
	// UpdateErr, when set, is returned by Update.
	UpdateErr error
}

var _ ports.ExpenseStore = (*Expenses)(nil)

func (s *Expenses) List(_ context.Context, f ports.ExpenseFilter) ([]domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Expense
	for _, e := range s.live() {
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.Date.Before(*f.To) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Expenses) Get(_ context.Context, id uuid.UUID) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (s *Expenses) Create(_ context.Context, e domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
	s.put(e.ID, e)
	return &e, nil
}

func (s *Expenses) Update(_ context.Context, e domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	old, ok := s.get(e.ID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	e.CreatedAt, e.UpdatedAt = old.CreatedAt, time.Now()
	s.put(e.ID, e)
	return &e, nil
}

func (s *Expenses) InsertMany(_ context.Context, expenses []domain.Expense) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range expenses {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
		s.put(e.ID, e)
	}
	return len(expenses), nil
}

type Documents struct {
	table[domain.Document]
	// UpdateErr, when set, is returned by Update.
	UpdateErr error
}

var _ ports.DocumentStore = (*Documents)(nil)

func (s *Documents) List(_ context.Context, category string) ([]domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Document
	for _, d := range s.live() {
		if category == "" || d.Category == category {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Documents) Get(_ context.Context, id uuid.UUID) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (s *Documents) Create(_ context.Context, d domain.Document) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	s.put(d.ID, d)
	return &d, nil
}

func (s *Documents) Update(_ context.Context, d domain.Document) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	if _, ok := s.get(d.ID); !ok {
		return nil, repository.ErrNotFound
	}
	s.put(d.ID, d)
	return &d, nil
}

type Zakat struct {
	table[domain.ZakatTransaction]
	// UpdateErr, when set, is returned by Update.
	UpdateErr error
}

var _ ports.ZakatStore = (*Zakat)(nil)

func (s *Zakat) List(context.Context) ([]domain.ZakatTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(), nil
}

func (s *Zakat) Get(_ context.Context, id uuid.UUID) (*domain.ZakatTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &z, nil
}

func (s *Zakat) Create(_ context.Context, z domain.ZakatTransaction) (*domain.ZakatTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	s.put(z.ID, z)
	return &z, nil
}

func (s *Zakat) Update(_ context.Context, z domain.ZakatTransaction) (*domain.ZakatTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	if _, ok := s.get(z.ID); !ok {
		return nil, repository.ErrNotFound
	}
	s.put(z.ID, z)
	return &z, nil
}

// Activity is an in-memory audit trail, newest first.
type Activity struct {
	mu   sync.Mutex
	logs []domain.ActivityLog
}

var _ ports.ActivityStore = (*Activity)(nil)

func (s *Activity) Create(_ context.Context, l domain.ActivityLog) (*domain.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.LoggedAt.IsZero() {
		l.LoggedAt = time.Now()
	}
	s.logs = append([]domain.ActivityLog{l}, s.logs...)
	return &l, nil
}

func (s *Activity) List(_ context.Context, limit int) ([]domain.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.logs) {
		limit = len(s.logs)
	}
	return append([]domain.ActivityLog{}, s.logs[:limit]...), nil
}
