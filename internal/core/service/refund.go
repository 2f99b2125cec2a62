package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
	"github.com/google/uuid"
)

type RefundCommand struct {
	TransactionID uuid.UUID
	Reason        string
}

type RefundService struct {
	repo      ports.TransactionRepository
	selector  *ProviderSelector
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewRefundService(
	repo ports.TransactionRepository,
	selector *ProviderSelector,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) *RefundService {
	return &RefundService{
		repo:      repo,
		selector:  selector,
		publisher: publisher,
		logger:    logger,
	}
}

// Refund returns the full amount of a completed transaction through its
// provider. The enrollment it granted is left in place.
func (s *RefundService) Refund(ctx context.Context, cmd RefundCommand) (*domain.Transaction, error) {
	tx, err := s.repo.FindByID(ctx, cmd.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status != domain.StatusCompleted || tx.ProviderRef == nil {
		return nil, domain.NewInvalidRefundStateError(tx.Status)
	}

	adapter, ok := s.selector.Adapter(tx.Provider)
	if !ok {
		return nil, domain.NewProviderUnavailableError(tx.Provider, errors.New("provider not registered"))
	}

	req := domain.RefundRequest{
		ProviderRef:    *tx.ProviderRef,
		AmountMinor:    tx.AmountMinor,
		Currency:       tx.Currency,
		Reason:         cmd.Reason,
		IdempotencyKey: "refund-" + tx.ID.String(),
	}
	if tx.ProviderTransactionID != nil {
		req.ProviderTransactionID = *tx.ProviderTransactionID
	}

	refund, err := adapter.Refund(ctx, req)
	if err != nil {
		s.logger.Error("provider refund failed",
			"transaction_id", tx.ID,
			"provider", tx.Provider,
			"error", err)
		return nil, domain.ProviderFailure(tx.Provider, err)
	}

	var (
		result  *domain.Transaction
		changed bool
	)
	err = s.repo.WithTx(ctx, func(txRepo ports.TransactionRepository) error {
		locked, err := txRepo.FindByIDForUpdate(ctx, tx.ID)
		if err != nil {
			return err
		}
		result = locked
		// A concurrent refund of the same transaction finished first.
		if locked.Status == domain.StatusRefunded {
			return nil
		}

		next := *locked
		if err := next.Refund(refund.ProviderRefundID, cmd.Reason, time.Now().UTC()); err != nil {
			return err
		}
		ok, err := txRepo.UpdateStatus(ctx, &next, locked.Status)
		if err != nil {
			return err
		}
		if ok {
			*locked = next
			changed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("transaction refunded",
			"transaction_id", result.ID,
			"provider_refund_id", refund.ProviderRefundID)
		publish(ctx, s.publisher, s.logger, result)
	}
	return result, nil
}
