package domain

import "time"

type PaymentEventType string

const (
	EventPaymentCompleted PaymentEventType = "payment.completed"
	EventPaymentFailed    PaymentEventType = "payment.failed"
	EventPaymentCancelled PaymentEventType = "payment.cancelled"
	EventPaymentRefunded  PaymentEventType = "payment.refunded"
)

// PaymentEvent is published to the notification collaborator after a state change commits.
type PaymentEvent struct {
	Type          PaymentEventType  `json:"type"`
	TransactionID string            `json:"transaction_id"`
	UserID        string            `json:"user_id"`
	CourseID      string            `json:"course_id"`
	AmountMinor   int64             `json:"amount_minor"`
	Currency      string            `json:"currency"`
	Provider      ProviderName      `json:"provider"`
	Status        TransactionStatus `json:"status"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// EventFor returns the event announcing the transaction's current status, if any.
func EventFor(t *Transaction) (PaymentEvent, bool) {
	var typ PaymentEventType
	switch t.Status {
	case StatusCompleted:
		typ = EventPaymentCompleted
	case StatusFailed:
		typ = EventPaymentFailed
	case StatusCancelled:
		typ = EventPaymentCancelled
	case StatusRefunded:
		typ = EventPaymentRefunded
	default:
		return PaymentEvent{}, false
	}
	return PaymentEvent{
		Type:          typ,
		TransactionID: t.ID.String(),
		UserID:        t.UserID,
		CourseID:      t.CourseID,
		AmountMinor:   t.AmountMinor,
		Currency:      t.Currency,
		Provider:      t.Provider,
		Status:        t.Status,
		OccurredAt:    t.UpdatedAt,
	}, true
}
