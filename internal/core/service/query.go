package service

import (
	"context"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type TransactionQueryService struct {
	repo ports.TransactionRepository
}

func NewTransactionQueryService(repo ports.TransactionRepository) *TransactionQueryService {
	return &TransactionQueryService{
		repo: repo,
	}
}

func (s *TransactionQueryService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// ListTransactions returns one page of transactions, newest first, and the
// total number matching the filter.
func (s *TransactionQueryService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, domain.NewValidationError("unknown status: " + string(filter.Status))
	}
	if filter.Offset < 0 {
		return nil, 0, domain.NewValidationError("offset must not be negative")
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultPageSize
	case filter.Limit > MaxPageSize:
		filter.Limit = MaxPageSize
	}
	return s.repo.List(ctx, filter)
}
