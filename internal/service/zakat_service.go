package service

import (
	"context"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"

	"github.com/google/uuid"
)

type ZakatService struct {
	Zakat ports.ZakatStore
	Files FileManager
}

func (s ZakatService) List(ctx context.Context) ([]domain.ZakatTransaction, error) {
	return s.Zakat.List(ctx)
}

func (s ZakatService) Create(ctx context.Context, z domain.ZakatTransaction, receipt *domain.Upload) (*domain.ZakatTransaction, error) {
	if err := check(z, positiveRule("amount", z.Amount.IsPositive())); err != nil {
		return nil, err
	}
	z.ID = uuid.New()
	if receipt != nil {
		url, err := s.Files.Upload(ctx, BucketZakatReceipts, z.ID, *receipt)
		if err != nil {
			return nil, err
		}
		z.ReceiptURL = url
	}
	created, err := s.Zakat.Create(ctx, z)
	if err != nil {
		s.Files.RemoveAll(ctx, BucketZakatReceipts, []string{z.ReceiptURL})
		return nil, err
	}
	return created, nil
}

func (s ZakatService) Update(ctx context.Context, z domain.ZakatTransaction, receipt *domain.Upload) (*domain.ZakatTransaction, error) {
	if err := check(z, positiveRule("amount", z.Amount.IsPositive())); err != nil {
		return nil, err
	}
	old, err := s.Zakat.Get(ctx, z.ID)
	if err != nil {
		return nil, err
	}
	if z.ReceiptURL == "" {
		z.ReceiptURL = old.ReceiptURL
	}
	var url string
	if receipt != nil {
		url, err = s.Files.Upload(ctx, BucketZakatReceipts, z.ID, *receipt)
		if err != nil {
			return nil, err
		}
		z.ReceiptURL = url
	}
	saved, err := s.Zakat.Update(ctx, z)
	s.Files.Settle(ctx, BucketZakatReceipts, old.ReceiptURL, url, err)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s ZakatService) Delete(ctx context.Context, ids []uuid.UUID) error {
	return s.Zakat.SoftDelete(ctx, ids)
}

func (s ZakatService) Undo(ctx context.Context, ids []uuid.UUID) error {
	return s.Zakat.Restore(ctx, ids)
}
