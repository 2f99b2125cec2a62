// Package domain defines the payment transaction model and its state machine.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus represents the current state of a payment attempt in its lifecycle
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusCancelled  TransactionStatus = "cancelled"
	StatusRefunded   TransactionStatus = "refunded"
)

// ActiveStatuses are the non-terminal states. A user holds at most one
// transaction in one of these states per course.
var ActiveStatuses = []TransactionStatus{StatusPending, StatusProcessing}

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Transaction is a single attempt by a user to pay for a course.
type Transaction struct {
	ID            uuid.UUID
	UserID        string
	CourseID      string
	AmountMinor   int64
	Currency      string
	Provider      ProviderName
	CustomerEmail string

	Status                TransactionStatus
	ProviderRef           *string
	ProviderTransactionID *string
	ClientSecret          *string
	AuthorizationURL      *string
	ProviderRefundID      *string
	RefundReason          *string

	CreatedAt  time.Time
	UpdatedAt  time.Time
	PaidAt     *time.Time
	RefundedAt *time.Time
}

// NewTransaction returns a pending transaction with a fresh ID.
func NewTransaction(userID, courseID string, amountMinor int64, currency string, provider ProviderName, email string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		CourseID:      courseID,
		AmountMinor:   amountMinor,
		Currency:      currency,
		Provider:      provider,
		CustomerEmail: email,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanTransitionTo validates whether a transaction can move from its current status to the target status.
//
// Valid transitions are:
//   - Pending → Processing, Completed, Failed, Cancelled
//   - Processing → Completed, Failed, Cancelled
//   - Completed → Refunded
//
// Failed, Cancelled and Refunded allow nothing further.
func (t *Transaction) CanTransitionTo(target TransactionStatus) error {
	switch t.Status {
	case StatusPending:
		switch target {
		case StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
			return nil
		}
	case StatusProcessing:
		switch target {
		case StatusCompleted, StatusFailed, StatusCancelled:
			return nil
		}
	case StatusCompleted:
		if target == StatusRefunded {
			return nil
		}
	}
	return NewInvalidTransitionError(t.Status, target)
}

// IsTerminal reports whether no provider update can move the transaction any further.
// Completed is terminal for reconciliation purposes; only a refund leaves it.
func (t *Transaction) IsTerminal() bool {
	switch t.Status {
	case StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

func (t *Transaction) IsActive() bool {
	return !t.IsTerminal()
}

// AttachIntent records the provider's reference and client credentials.
// A reference that is already set is never replaced.
func (t *Transaction) AttachIntent(intent *Intent) error {
	if t.ProviderRef != nil {
		if *t.ProviderRef != intent.ProviderRef {
			return NewProviderRefImmutableError(t.ID.String())
		}
		return nil
	}
	ref := intent.ProviderRef
	t.ProviderRef = &ref
	if intent.ClientSecret != "" {
		secret := intent.ClientSecret
		t.ClientSecret = &secret
	}
	if intent.AuthorizationURL != "" {
		url := intent.AuthorizationURL
		t.AuthorizationURL = &url
	}
	return nil
}

// ApplyProviderStatus folds a provider-reported status into the transaction.
// It returns false when the update is a duplicate, stale or irrelevant; the
// transaction is left untouched in that case.
func (t *Transaction) ApplyProviderStatus(status ProviderStatus, providerTxID string, at time.Time) (bool, error) {
	target, ok := status.TargetStatus()
	if !ok || target == t.Status || t.IsTerminal() {
		return false, nil
	}
	if err := t.CanTransitionTo(target); err != nil {
		return false, err
	}

	t.Status = target
	t.UpdatedAt = at
	if target == StatusCompleted {
		paidAt := at
		t.PaidAt = &paidAt
		if providerTxID != "" && t.ProviderTransactionID == nil {
			id := providerTxID
			t.ProviderTransactionID = &id
		}
	}
	return true, nil
}

// Cancel moves a non-terminal transaction to cancelled.
func (t *Transaction) Cancel(at time.Time) error {
	if err := t.CanTransitionTo(StatusCancelled); err != nil {
		return err
	}
	t.Status = StatusCancelled
	t.UpdatedAt = at
	return nil
}

// Refund marks a completed transaction as refunded.
func (t *Transaction) Refund(providerRefundID, reason string, at time.Time) error {
	if t.Status != StatusCompleted {
		return NewInvalidRefundStateError(t.Status)
	}
	t.Status = StatusRefunded
	t.UpdatedAt = at
	refundedAt := at
	t.RefundedAt = &refundedAt
	if providerRefundID != "" {
		t.ProviderRefundID = &providerRefundID
	}
	if reason != "" {
		t.RefundReason = &reason
	}
	return nil
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	UserID string
	Status TransactionStatus
	Limit  int
	Offset int
}

// Enrollment grants a user access to a course.
type Enrollment struct {
	UserID        string
	CourseID      string
	TransactionID uuid.UUID
	CreatedAt     time.Time
}

// CoursePrice is the price of a course in one currency.
type CoursePrice struct {
	CourseID    string
	Currency    string
	AmountMinor int64
	Purchasable bool
}
