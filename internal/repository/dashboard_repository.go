package repository

import (
	"context"
	"time"

	"rentflow-backend/internal/db"

	"github.com/shopspring/decimal"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardSummary struct {
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	ActiveTenants   int64           `json:"activeTenants"`
	RentDue         decimal.Decimal `json:"rentDue"`
	RentCollected   decimal.Decimal `json:"rentCollected"`
	RentOutstanding decimal.Decimal `json:"rentOutstanding"`
	ExpensesTotal   decimal.Decimal `json:"expensesTotal"`
	ExpensesPaid    decimal.Decimal `json:"expensesPaid"`
	ZakatBalance    decimal.Decimal `json:"zakatBalance"`
}

type SeriesPoint struct {
	Label    string          `json:"label"`
	Rent     decimal.Decimal `json:"rent"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Summary aggregates rent and expenses for one period plus the running Zakat balance.
func (r DashboardRepository) Summary(ctx context.Context, year, month int) (DashboardSummary, error) {
	s := DashboardSummary{Year: year, Month: month}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM tenants WHERE deleted_at IS NULL),
			(SELECT COALESCE(SUM(amount),0) FROM rent_entries WHERE deleted_at IS NULL AND year=$1 AND month=$2),
			(SELECT COALESCE(SUM(amount),0) FROM rent_entries WHERE deleted_at IS NULL AND year=$1 AND month=$2 AND status='Paid'),
			(SELECT COALESCE(SUM(amount),0) FROM expenses WHERE deleted_at IS NULL AND expense_date >= $3 AND expense_date < $4),
			(SELECT COALESCE(SUM(amount),0) FROM expenses WHERE deleted_at IS NULL AND expense_date >= $3 AND expense_date < $4 AND status='Paid'),
			(SELECT COALESCE(SUM(CASE WHEN type='in' THEN amount ELSE -amount END),0) FROM zakat_transactions WHERE deleted_at IS NULL)
	`, year, month, start, end).Scan(&s.ActiveTenants, &s.RentDue, &s.RentCollected, &s.ExpensesTotal, &s.ExpensesPaid, &s.ZakatBalance)
	s.RentOutstanding = s.RentDue.Sub(s.RentCollected)
	return s, err
}

// MonthlySeries returns collected rent and expenses for the last n months, oldest first.
func (r DashboardRepository) MonthlySeries(ctx context.Context, months int) ([]SeriesPoint, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -months+1, 0)
	rows, err := r.DB.Pool.Query(ctx, `
		WITH periods AS (
			SELECT generate_series($1::date, date_trunc('month', now())::date, interval '1 month')::date AS period
		)
		SELECT to_char(p.period, 'YYYY-MM'),
		       COALESCE((SELECT SUM(amount) FROM rent_entries r
		                 WHERE r.deleted_at IS NULL AND r.status='Paid'
		                   AND r.year = EXTRACT(YEAR FROM p.period) AND r.month = EXTRACT(MONTH FROM p.period)),0),
		       COALESCE((SELECT SUM(amount) FROM expenses e
		                 WHERE e.deleted_at IS NULL
		                   AND e.expense_date >= p.period AND e.expense_date < p.period + interval '1 month'),0)
		FROM periods p
		ORDER BY p.period ASC
	`, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var points []SeriesPoint
	for rows.Next() {
		var p SeriesPoint
		if err := rows.Scan(&p.Label, &p.Rent, &p.Expenses); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
