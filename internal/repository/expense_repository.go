package repository

import (
	"context"
	"errors"
	"strings"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ExpenseRepository struct {
	DB *db.Postgres
}

var expenseColumns = []string{
	"id", "expense_date", "category", "amount", "description", "status", "created_at", "updated_at", "deleted_at",
}

func (r ExpenseRepository) List(ctx context.Context, f ports.ExpenseFilter) ([]domain.Expense, error) {
	q := db.Builder.Select(expenseColumns...).From("expenses").Where(sq.Eq{"deleted_at": nil})
	if f.From != nil {
		q = q.Where(sq.GtOrEq{"expense_date": *f.From})
	}
	if f.To != nil {
		q = q.Where(sq.Lt{"expense_date": *f.To})
	}
	if f.Category != "" {
		q = q.Where(sq.Eq{"category": f.Category})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": string(f.Status)})
	}
	sql, args, err := q.OrderBy("expense_date DESC", "created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r ExpenseRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+strings.Join(expenseColumns, ", ")+`
		FROM expenses
		WHERE id=$1 AND deleted_at IS NULL
	`, id)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r ExpenseRepository) Create(ctx context.Context, e domain.Expense) (*domain.Expense, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO expenses (id, expense_date, category, amount, description, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6, now(), now())
		RETURNING `+strings.Join(expenseColumns, ", "),
		e.ID, e.Date, e.Category, e.Amount, e.Description, string(e.Status))
	return scanExpense(row)
}

func (r ExpenseRepository) Update(ctx context.Context, e domain.Expense) (*domain.Expense, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE expenses SET expense_date=$2, category=$3, amount=$4, description=$5, status=$6, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+strings.Join(expenseColumns, ", "),
		e.ID, e.Date, e.Category, e.Amount, e.Description, string(e.Status))
	saved, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return saved, nil
}

// InsertMany bulk-loads expenses with COPY and returns the number of rows written.
func (r ExpenseRepository) InsertMany(ctx context.Context, expenses []domain.Expense) (int, error) {
	if len(expenses) == 0 {
		return 0, nil
	}
	n, err := r.DB.Pool.CopyFrom(ctx, pgx.Identifier{"expenses"}, expenseCopyColumns, expenseCopySource(expenses))
	return int(n), err
}

var expenseCopyColumns = []string{"id", "expense_date", "category", "amount", "description", "status"}

func expenseCopySource(expenses []domain.Expense) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(expenses), func(i int) ([]any, error) {
		e := expenses[i]
		id := e.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		return []any{pgUUID(id), e.Date, e.Category, numeric(e.Amount), e.Description, string(e.Status)}, nil
	})
}

func (r ExpenseRepository) SoftDelete(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "expenses"}.SoftDelete(ctx, ids)
}

func (r ExpenseRepository) Restore(ctx context.Context, ids []uuid.UUID) error {
	return trash{db: r.DB, table: "expenses"}.Restore(ctx, ids)
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		e      domain.Expense
		status string
	)
	if err := row.Scan(&e.ID, &e.Date, &e.Category, &e.Amount, &e.Description, &status, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt); err != nil {
		return nil, err
	}
	e.Status = domain.ExpenseStatus(status)
	return &e, nil
}
