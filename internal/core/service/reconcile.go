package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
	"github.com/google/uuid"
)

type VerifyCommand struct {
	TransactionID uuid.UUID
	UserID        string
	Provider      *domain.ProviderName
}

type WebhookResult struct {
	Outcome       domain.EventOutcome
	TransactionID *uuid.UUID
}

// ReconciliationEngine is the only writer of provider-driven status changes.
// Client verification, webhooks and the stale sweeper all end in apply.
type ReconciliationEngine struct {
	repo      ports.TransactionRepository
	selector  *ProviderSelector
	publisher ports.EventPublisher
	claimer   ports.EventClaimer
	claimTTL  time.Duration
	logger    *slog.Logger
}

func NewReconciliationEngine(
	repo ports.TransactionRepository,
	selector *ProviderSelector,
	publisher ports.EventPublisher,
	claimer ports.EventClaimer,
	claimTTL time.Duration,
	logger *slog.Logger,
) *ReconciliationEngine {
	return &ReconciliationEngine{
		repo:      repo,
		selector:  selector,
		publisher: publisher,
		claimer:   claimer,
		claimTTL:  claimTTL,
		logger:    logger,
	}
}

// VerifyTransaction polls the provider for a transaction the caller owns and
// applies the result. Terminal transactions are returned without a provider call.
func (e *ReconciliationEngine) VerifyTransaction(ctx context.Context, cmd VerifyCommand) (*domain.Transaction, error) {
	tx, err := e.repo.FindByID(ctx, cmd.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.UserID != cmd.UserID {
		return nil, domain.NewTransactionNotFoundError(cmd.TransactionID.String())
	}
	if cmd.Provider != nil && *cmd.Provider != tx.Provider {
		return nil, domain.NewValidationError(fmt.Sprintf("transaction was not initialized with %s", *cmd.Provider))
	}
	return e.reconcile(ctx, tx)
}

// ReconcileStale polls the provider for a transaction found by the sweeper.
func (e *ReconciliationEngine) ReconcileStale(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	tx, err := e.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.reconcile(ctx, tx)
}

// CancelStale cancels a transaction that never resolved. It is a no-op for
// transactions that reached a terminal state in the meantime.
func (e *ReconciliationEngine) CancelStale(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var (
		result  *domain.Transaction
		changed bool
	)
	err := e.repo.WithTx(ctx, func(repo ports.TransactionRepository) error {
		locked, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		result = locked
		if locked.IsTerminal() {
			return nil
		}

		next := *locked
		if err := next.Cancel(time.Now().UTC()); err != nil {
			return err
		}
		ok, err := repo.UpdateStatus(ctx, &next, locked.Status)
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
		e.logger.Info("stale transaction cancelled", "transaction_id", id)
		publish(ctx, e.publisher, e.logger, result)
	}
	return result, nil
}

// HandleWebhook authenticates, deduplicates and applies one provider callback.
// Duplicate and irrelevant events succeed with the matching outcome.
func (e *ReconciliationEngine) HandleWebhook(ctx context.Context, provider domain.ProviderName, rawBody []byte, signature string) (*WebhookResult, error) {
	adapter, ok := e.selector.Adapter(provider)
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("provider %s is not enabled", provider))
	}

	if !adapter.VerifyWebhookSignature(rawBody, signature) {
		e.logger.Warn("webhook signature rejected", "provider", provider)
		return nil, domain.NewSignatureInvalidError()
	}

	evt, err := adapter.ParseWebhookEvent(rawBody)
	if err != nil {
		return nil, domain.NewMalformedPayloadError(err)
	}
	if evt.EventID == "" {
		return nil, domain.NewMalformedPayloadError(errors.New("event without id"))
	}
	if !evt.Relevant() {
		e.logger.Debug("webhook ignored",
			"provider", provider,
			"event_id", evt.EventID,
			"event_type", evt.EventType)
		return &WebhookResult{Outcome: domain.OutcomeIgnored}, nil
	}

	key := "webhook:" + string(provider) + ":" + evt.EventID
	claimed := false
	if e.claimer != nil {
		ok, err := e.claimer.Claim(ctx, key, e.claimTTL)
		switch {
		case err != nil:
			e.logger.Warn("event claim unavailable, relying on ledger", "key", key, "error", err)
		case !ok:
			e.logger.Info("webhook already in flight", "provider", provider, "event_id", evt.EventID)
			return &WebhookResult{Outcome: domain.OutcomeDuplicate}, nil
		default:
			claimed = true
		}
	}

	var result *WebhookResult
	if evt.StatusUnsigned {
		err = e.confirmStatus(ctx, adapter, evt)
	}
	if err == nil {
		result, err = e.consume(ctx, provider, evt)
	}
	if err != nil {
		if claimed {
			if releaseErr := e.claimer.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
				e.logger.Error("failed to release event claim", "key", key, "error", releaseErr)
			}
		}
		return nil, err
	}
	return result, nil
}

// confirmStatus replaces a status the provider's signature does not cover with
// the one the provider reports when asked. No lock is held during the call.
func (e *ReconciliationEngine) confirmStatus(ctx context.Context, adapter ports.ProviderAdapter, evt *domain.WebhookEvent) error {
	confirmed, err := adapter.FetchStatus(ctx, evt.ProviderRef)
	if err != nil {
		e.logger.Warn("webhook status confirmation failed",
			"provider", adapter.Name(),
			"event_id", evt.EventID,
			"error", err)
		return domain.ProviderFailure(adapter.Name(), err)
	}
	if confirmed.Status != evt.Status {
		e.logger.Warn("webhook status differs from provider",
			"provider", adapter.Name(),
			"event_id", evt.EventID,
			"provider_ref", evt.ProviderRef,
			"notified", evt.Status,
			"confirmed", confirmed.Status)
	}
	evt.Status = confirmed.Status
	if confirmed.ProviderTransactionID != "" {
		evt.ProviderTransactionID = confirmed.ProviderTransactionID
	}
	return nil
}

// consume records the event in the ledger and applies it in one database transaction.
func (e *ReconciliationEngine) consume(ctx context.Context, provider domain.ProviderName, evt *domain.WebhookEvent) (*WebhookResult, error) {
	var (
		result  *domain.Transaction
		changed bool
		outcome domain.EventOutcome
	)

	err := e.repo.WithTx(ctx, func(repo ports.TransactionRepository) error {
		record := &domain.ProviderEvent{
			Provider:       provider,
			EventID:        evt.EventID,
			EventType:      evt.EventType,
			ProviderRef:    evt.ProviderRef,
			ProviderStatus: evt.Status,
			ReceivedAt:     time.Now().UTC(),
		}

		tx, err := repo.FindByProviderRefForUpdate(ctx, provider, evt.ProviderRef)
		switch {
		case domain.IsErrorCode(err, domain.ErrCodeTransactionNotFound):
			outcome = domain.OutcomeIgnored
		case err != nil:
			return err
		default:
			id := tx.ID
			record.TransactionID = &id
			changed, err = e.apply(ctx, repo, tx, evt.Status, evt.ProviderTransactionID)
			if err != nil {
				return err
			}
			outcome = domain.OutcomeNoop
			if changed {
				outcome = domain.OutcomeTransitioned
			}
			result = tx
		}
		record.Outcome = outcome

		inserted, err := repo.RecordProviderEvent(ctx, record)
		if err != nil {
			return err
		}
		if !inserted {
			// Roll back anything apply did; the first delivery already did it.
			return domain.NewDuplicateEventError(provider, evt.EventID)
		}
		return nil
	})
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeDuplicateEvent) {
			e.logger.Info("duplicate webhook", "provider", provider, "event_id", evt.EventID)
			return &WebhookResult{Outcome: domain.OutcomeDuplicate}, nil
		}
		return nil, err
	}

	out := &WebhookResult{Outcome: outcome}
	if result != nil {
		id := result.ID
		out.TransactionID = &id
	}
	if outcome == domain.OutcomeIgnored {
		e.logger.Warn("webhook for unknown provider reference",
			"provider", provider,
			"provider_ref", evt.ProviderRef,
			"event_id", evt.EventID)
	}
	if changed {
		publish(ctx, e.publisher, e.logger, result)
	}
	return out, nil
}

func (e *ReconciliationEngine) reconcile(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	if tx.IsTerminal() || tx.ProviderRef == nil {
		return tx, nil
	}

	adapter, ok := e.selector.Adapter(tx.Provider)
	if !ok {
		return nil, domain.NewProviderUnavailableError(tx.Provider, errors.New("provider not registered"))
	}

	// No row lock is held while the provider is called.
	status, err := adapter.FetchStatus(ctx, *tx.ProviderRef)
	if err != nil {
		e.logger.Warn("provider status poll failed",
			"transaction_id", tx.ID,
			"provider", tx.Provider,
			"error", err)
		return nil, domain.ProviderFailure(tx.Provider, err)
	}

	var (
		result  *domain.Transaction
		changed bool
	)
	err = e.repo.WithTx(ctx, func(repo ports.TransactionRepository) error {
		locked, err := repo.FindByIDForUpdate(ctx, tx.ID)
		if err != nil {
			return err
		}
		changed, err = e.apply(ctx, repo, locked, status.Status, status.ProviderTransactionID)
		result = locked
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		publish(ctx, e.publisher, e.logger, result)
	}
	return result, nil
}

// apply folds a provider status into a locked transaction. It persists through
// a conditional update and enrolls the user in the same database transaction
// when the payment completes. tx is updated in place only when the write wins.
func (e *ReconciliationEngine) apply(
	ctx context.Context,
	repo ports.TransactionRepository,
	tx *domain.Transaction,
	status domain.ProviderStatus,
	providerTxID string,
) (bool, error) {
	if status == domain.ProviderStatusSucceeded && (tx.Status == domain.StatusFailed || tx.Status == domain.StatusCancelled) {
		e.logger.Warn("provider reports success for a closed transaction",
			"transaction_id", tx.ID,
			"status", tx.Status,
			"provider", tx.Provider,
			"user_id", tx.UserID,
			"course_id", tx.CourseID)
	}

	next := *tx
	changed, err := next.ApplyProviderStatus(status, providerTxID, time.Now().UTC())
	if err != nil || !changed {
		return false, err
	}

	ok, err := repo.UpdateStatus(ctx, &next, tx.Status)
	if err != nil {
		return false, err
	}
	if !ok {
		e.logger.Info("status update lost to a concurrent writer", "transaction_id", tx.ID)
		return false, nil
	}

	from := tx.Status
	*tx = next

	if tx.Status == domain.StatusCompleted {
		_, created, err := repo.CreateEnrollmentIfAbsent(ctx, tx.UserID, tx.CourseID, tx.ID)
		if err != nil {
			return false, fmt.Errorf("failed to enroll user: %w", err)
		}
		e.logger.Info("enrollment granted",
			"transaction_id", tx.ID,
			"user_id", tx.UserID,
			"course_id", tx.CourseID,
			"created", created)
	}

	e.logger.Info("transaction transitioned",
		"transaction_id", tx.ID,
		"from", from,
		"to", tx.Status)
	return true, nil
}

// publish hands the event for tx's new status to the notification collaborator.
// Failures are logged and never affect the committed state change.
func publish(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, tx *domain.Transaction) {
	if publisher == nil {
		return
	}
	evt, ok := domain.EventFor(tx)
	if !ok {
		return
	}
	if err := publisher.Publish(context.WithoutCancel(ctx), evt); err != nil {
		logger.Error("failed to publish payment event",
			"transaction_id", tx.ID,
			"event", evt.Type,
			"error", err)
	}
}
