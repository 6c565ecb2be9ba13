package service

import (
	"context"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"

	"github.com/google/uuid"
)

type ExpenseService struct {
	Expenses ports.ExpenseStore
}

func (s ExpenseService) List(ctx context.Context, f ports.ExpenseFilter) ([]domain.Expense, error) {
	return s.Expenses.List(ctx, f)
}

func (s ExpenseService) Create(ctx context.Context, e domain.Expense) (*domain.Expense, error) {
	if e.Status == "" {
		e.Status = domain.ExpenseDue
	}
	if err := check(e, amountRule("amount", e.Amount.IsNegative())); err != nil {
		return nil, err
	}
	return s.Expenses.Create(ctx, e)
}

func (s ExpenseService) Update(ctx context.Context, e domain.Expense) (*domain.Expense, error) {
	if err := check(e, amountRule("amount", e.Amount.IsNegative())); err != nil {
		return nil, err
	}
	return s.Expenses.Update(ctx, e)
}

func (s ExpenseService) Delete(ctx context.Context, ids []uuid.UUID) error {
	return s.Expenses.SoftDelete(ctx, ids)
}

func (s ExpenseService) Undo(ctx context.Context, ids []uuid.UUID) error {
	return s.Expenses.Restore(ctx, ids)
}

func amountRule(field string, negative bool) map[string]string {
	if negative {
		return map[string]string{field: "must not be negative"}
	}
	return nil
}

func positiveRule(field string, positive bool) map[string]string {
	if !positive {
		return map[string]string{field: "must be greater than zero"}
	}
	return nil
}
