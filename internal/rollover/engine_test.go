package rollover

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/memstore"
	"rentflow-backend/internal/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	tenants  *memstore.Tenants
	rents    *memstore.Rents
	expenses *memstore.Expenses
	engine   *Engine
}

func newFixture() fixture {
	f := fixture{tenants: &memstore.Tenants{}, rents: &memstore.Rents{}, expenses: &memstore.Expenses{}}
	f.engine = NewEngine(f.tenants, f.rents, f.expenses, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func (f fixture) addTenant(t *testing.T, name string, joined time.Time, rent int64) domain.Tenant {
	t.Helper()
	created, err := f.tenants.Create(context.Background(), domain.Tenant{
		Name:      name,
		Property:  "Flat " + name[:1],
		AvatarURL: "https://cdn.example.com/" + name + ".jpg",
		Rent:      decimal.NewFromInt(rent),
		JoinDate:  joined,
		Status:    domain.TenantActive,
	})
	require.NoError(t, err)
	return *created
}

func TestAliceScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.addTenant(t, "Alice", day(2024, time.January, 15), 1200)

	n, err := f.engine.SyncRentForPeriod(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, err := f.rents.List(ctx, ports.RentFilter{Year: 2024, Month: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, alice.ID, e.TenantID)
	assert.Equal(t, "Alice", e.TenantName)
	assert.Equal(t, "Flat A", e.Property)
	assert.Equal(t, alice.AvatarURL, e.AvatarURL)
	assert.True(t, decimal.NewFromInt(1200).Equal(e.Amount))
	assert.Equal(t, day(2024, time.January, 1), e.DueDate)
	assert.Equal(t, domain.RentPending, e.Status)

	n, err = f.engine.SyncRentForPeriod(ctx, 2023, 12)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSyncRentIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addTenant(t, "Alice", day(2024, time.January, 15), 1200)
	f.addTenant(t, "Bob", day(2023, time.June, 1), 900)

	n, err := f.engine.SyncRentForPeriod(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.engine.SyncRentForPeriod(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, err := f.rents.List(ctx, ports.RentFilter{Year: 2024, Month: 5})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSyncRentSkipsDeletedTenantsAndCoversNewOnes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	gone := f.addTenant(t, "Gone", day(2023, time.January, 1), 500)
	require.NoError(t, f.tenants.SoftDelete(ctx, []uuid.UUID{gone.ID}))

	n, err := f.engine.SyncRentForPeriod(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.addTenant(t, "Carol", day(2024, time.May, 31), 700)
	n, err = f.engine.SyncRentForPeriod(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSyncRentRejectsBadPeriod(t *testing.T) {
	f := newFixture()
	for _, p := range [][2]int{{2024, 0}, {2024, 13}, {0, 5}} {
		_, err := f.engine.SyncRentForPeriod(context.Background(), p[0], p[1])
		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr), "period %v", p)
	}
}

func addExpense(t *testing.T, f fixture, date time.Time, category string, amount int64, status domain.ExpenseStatus) {
	t.Helper()
	_, err := f.expenses.Create(context.Background(), domain.Expense{
		Date: date, Category: category, Amount: decimal.NewFromInt(amount), Description: category + " bill", Status: status,
	})
	require.NoError(t, err)
}

func TestSyncExpensesClonesPreviousMonth(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	addExpense(t, f, day(2024, time.February, 29), "Electricity", 300, domain.ExpensePaid)
	addExpense(t, f, day(2024, time.February, 3), "Water", 50, domain.ExpenseDue)
	addExpense(t, f, day(2024, time.January, 20), "Old", 10, domain.ExpenseDue)

	n, err := f.engine.SyncExpensesFromPreviousMonth(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	from, to := day(2024, time.March, 1), day(2024, time.April, 1)
	clones, err := f.expenses.List(ctx, ports.ExpenseFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, clones, 2)
	byCategory := map[string]domain.Expense{}
	for _, c := range clones {
		byCategory[c.Category] = c
		assert.Equal(t, domain.ExpenseDue, c.Status)
	}
	assert.Equal(t, day(2024, time.March, 29), byCategory["Electricity"].Date)
	assert.Equal(t, day(2024, time.March, 3), byCategory["Water"].Date)
	assert.Equal(t, "Electricity bill", byCategory["Electricity"].Description)
}

func TestSyncExpensesClampsToShorterMonth(t *testing.T) {
	f := newFixture()
	addExpense(t, f, day(2024, time.May, 31), "Internet", 40, domain.ExpenseDue)

	n, err := f.engine.SyncExpensesFromPreviousMonth(context.Background(), 2024, 6)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	from, to := day(2024, time.June, 1), day(2024, time.July, 1)
	clones, err := f.expenses.List(context.Background(), ports.ExpenseFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, clones, 1)
	assert.Equal(t, day(2024, time.June, 30), clones[0].Date)
}

func TestSyncExpensesJanuaryReadsDecember(t *testing.T) {
	f := newFixture()
	addExpense(t, f, day(2023, time.December, 31), "Gas", 80, domain.ExpensePaid)

	n, err := f.engine.SyncExpensesFromPreviousMonth(context.Background(), 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSyncExpensesEmptyAndRepeated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	n, err := f.engine.SyncExpensesFromPreviousMonth(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Zero(t, n)

	addExpense(t, f, day(2024, time.February, 10), "Cleaning", 25, domain.ExpenseDue)
	for i := 0; i < 2; i++ {
		n, err = f.engine.SyncExpensesFromPreviousMonth(ctx, 2024, 3)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
	from, to := day(2024, time.March, 1), day(2024, time.April, 1)
	clones, err := f.expenses.List(ctx, ports.ExpenseFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, clones, 2, "a repeated run copies again")
}

func TestRolloverRunsBoth(t *testing.T) {
	f := newFixture()
	f.addTenant(t, "Alice", day(2024, time.January, 15), 1200)
	addExpense(t, f, day(2024, time.January, 5), "Security", 100, domain.ExpenseDue)

	res, err := f.engine.Rollover(context.Background(), 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, Result{Year: 2024, Month: 2, Rent: 1, Expenses: 1}, res)
}

func TestPeriodHelpers(t *testing.T) {
	y, m := PreviousPeriod(2024, 1)
	assert.Equal(t, [2]int{2023, 12}, [2]int{y, m})
	y, m = PreviousPeriod(2024, 7)
	assert.Equal(t, [2]int{2024, 6}, [2]int{y, m})

	assert.Equal(t, 29, DaysIn(2024, 2))
	assert.Equal(t, 28, DaysIn(2023, 2))
	assert.Equal(t, 30, DaysIn(2024, 4))
	assert.Equal(t, day(2023, time.February, 28), ClampedDate(2023, 2, 31))
	assert.Equal(t, day(2024, time.March, 15), ClampedDate(2024, 3, 15))
}
