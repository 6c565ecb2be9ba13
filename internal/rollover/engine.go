// Package rollover opens a new billing period: it bills every tenant who is
// not yet billed for the month and carries last month's expenses forward.
package rollover

import (
	"context"
	"fmt"
	"log/slog"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var createdTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rentflow_rollover_created_total",
	Help: "Records created by period rollover.",
}, []string{"kind"})

type Engine struct {
	tenants  ports.TenantStore
	rents    ports.RentStore
	expenses ports.ExpenseStore
	log      *slog.Logger
}

func NewEngine(tenants ports.TenantStore, rents ports.RentStore, expenses ports.ExpenseStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{tenants: tenants, rents: rents, expenses: expenses, log: logger}
}

// Result reports how many records one rollover created.
type Result struct {
	Year     int `json:"year"`
	Month    int `json:"month"`
	Rent     int `json:"rentCreated"`
	Expenses int `json:"expensesCreated"`
}

// SyncRentForPeriod creates a Pending rent entry for every tenant that has
// none for the period and had moved in by the end of it. Running it again
// for the same period creates nothing new.
func (e *Engine) SyncRentForPeriod(ctx context.Context, year, month int) (int, error) {
	if err := validPeriod(year, month); err != nil {
		return 0, err
	}
	existing, err := e.rents.List(ctx, ports.RentFilter{Year: year, Month: month})
	if err != nil {
		return 0, fmt.Errorf("list rent entries: %w", err)
	}
	covered := make(map[uuid.UUID]bool, len(existing))
	for _, r := range existing {
		covered[r.TenantID] = true
	}

	tenants, err := e.tenants.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tenants: %w", err)
	}

	due := PeriodStart(year, month)
	end := due.AddDate(0, 1, 0)
	var entries []domain.RentEntry
	for _, t := range tenants {
		if covered[t.ID] || !civilDate(t.JoinDate).Before(end) {
			continue
		}
		entries = append(entries, domain.RentEntry{
			TenantID:   t.ID,
			TenantName: t.Name,
			Property:   t.Property,
			AvatarURL:  t.AvatarURL,
			Year:       year,
			Month:      month,
			Amount:     t.Rent,
			DueDate:    due,
			Status:     domain.RentPending,
		})
	}
	if len(entries) == 0 {
		return 0, nil
	}

	n, err := e.rents.InsertMany(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("insert rent entries: %w", err)
	}
	createdTotal.WithLabelValues("rent").Add(float64(n))
	e.log.Info("rent synced", "year", year, "month", month, "created", n)
	return n, nil
}

// SyncExpensesFromPreviousMonth copies every expense of the preceding month
// into (year, month) as Due. It does not check for earlier copies, so a
// second run duplicates them.
func (e *Engine) SyncExpensesFromPreviousMonth(ctx context.Context, year, month int) (int, error) {
	if err := validPeriod(year, month); err != nil {
		return 0, err
	}
	py, pm := PreviousPeriod(year, month)
	from := PeriodStart(py, pm)
	to := from.AddDate(0, 1, 0)
	prev, err := e.expenses.List(ctx, ports.ExpenseFilter{From: &from, To: &to})
	if err != nil {
		return 0, fmt.Errorf("list expenses: %w", err)
	}
	if len(prev) == 0 {
		return 0, nil
	}

	clones := make([]domain.Expense, 0, len(prev))
	for _, x := range prev {
		clones = append(clones, domain.Expense{
			Date:        ClampedDate(year, month, x.Date.Day()),
			Category:    x.Category,
			Amount:      x.Amount,
			Description: x.Description,
			Status:      domain.ExpenseDue,
		})
	}

	n, err := e.expenses.InsertMany(ctx, clones)
	if err != nil {
		return 0, fmt.Errorf("insert expenses: %w", err)
	}
	createdTotal.WithLabelValues("expense").Add(float64(n))
	e.log.Info("expenses carried forward", "year", year, "month", month, "from_year", py, "from_month", pm, "created", n)
	return n, nil
}

// Rollover runs both syncs for the period. Rent is synced first; an error
// there skips the expense copy.
func (e *Engine) Rollover(ctx context.Context, year, month int) (Result, error) {
	res := Result{Year: year, Month: month}
	var err error
	if res.Rent, err = e.SyncRentForPeriod(ctx, year, month); err != nil {
		return res, err
	}
	if res.Expenses, err = e.SyncExpensesFromPreviousMonth(ctx, year, month); err != nil {
		return res, err
	}
	return res, nil
}
