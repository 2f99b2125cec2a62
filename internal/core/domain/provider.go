package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProviderName identifies a payment provider and is stored on every transaction.
type ProviderName string

const (
	ProviderStripe   ProviderName = "stripe"
	ProviderPaystack ProviderName = "paystack"
	ProviderMidtrans ProviderName = "midtrans"
)

func ParseProviderName(s string) (ProviderName, error) {
	switch p := ProviderName(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderStripe, ProviderPaystack, ProviderMidtrans:
		return p, nil
	}
	return "", NewValidationError("unknown payment provider: " + s)
}

// ProviderStatus is a provider's view of a charge, normalized across providers.
type ProviderStatus string

const (
	ProviderStatusPending    ProviderStatus = "pending"
	ProviderStatusProcessing ProviderStatus = "processing"
	ProviderStatusSucceeded  ProviderStatus = "succeeded"
	ProviderStatusFailed     ProviderStatus = "failed"
	ProviderStatusCancelled  ProviderStatus = "cancelled"
	ProviderStatusUnknown    ProviderStatus = "unknown"
)

// TargetStatus maps a provider status to the transaction status it drives.
// Pending and unknown drive nothing.
func (s ProviderStatus) TargetStatus() (TransactionStatus, bool) {
	switch s {
	case ProviderStatusProcessing:
		return StatusProcessing, true
	case ProviderStatusSucceeded:
		return StatusCompleted, true
	case ProviderStatusFailed:
		return StatusFailed, true
	case ProviderStatusCancelled:
		return StatusCancelled, true
	default:
		return "", false
	}
}

type IntentRequest struct {
	TransactionID  string
	AmountMinor    int64
	Currency       string
	CustomerEmail  string
	CourseID       string
	UserID         string
	IdempotencyKey string
}

// Intent holds what the client needs to complete payment at the provider.
// Exactly one of ClientSecret and AuthorizationURL is normally set.
type Intent struct {
	ProviderRef      string
	ClientSecret     string
	AuthorizationURL string
}

type ProviderStatusResult struct {
	ProviderRef           string
	ProviderTransactionID string
	Status                ProviderStatus
	RawStatus             string
}

// WebhookEvent is the normalized content of a provider callback.
type WebhookEvent struct {
	EventID               string
	EventType             string
	ProviderRef           string
	ProviderTransactionID string
	Status                ProviderStatus
	// StatusUnsigned is set when the provider's signature does not cover
	// Status. The engine then asks the provider for the status instead.
	StatusUnsigned bool
}

// Relevant reports whether the event can affect a transaction.
func (e *WebhookEvent) Relevant() bool {
	if e.ProviderRef == "" {
		return false
	}
	_, ok := e.Status.TargetStatus()
	return ok
}

type RefundRequest struct {
	ProviderRef           string
	ProviderTransactionID string
	AmountMinor           int64
	Currency              string
	Reason                string
	IdempotencyKey        string
}

type RefundResult struct {
	ProviderRefundID string
	Status           string
}

// ProviderEvent is a consumed webhook delivery, kept for dedup and audit.
type ProviderEvent struct {
	Provider       ProviderName
	EventID        string
	EventType      string
	ProviderRef    string
	ProviderStatus ProviderStatus
	TransactionID  *uuid.UUID
	Outcome        EventOutcome
	ReceivedAt     time.Time
}

type EventOutcome string

const (
	OutcomeTransitioned EventOutcome = "transitioned"
	OutcomeNoop         EventOutcome = "noop"
	OutcomeIgnored      EventOutcome = "ignored"
	OutcomeDuplicate    EventOutcome = "duplicate"
)
