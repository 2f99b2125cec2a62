package ports

import (
	"context"
	"time"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
)

// EventPublisher delivers payment events to the notification collaborator.
// Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.PaymentEvent) error
}

// EventClaimer guards a webhook event while one request processes it.
type EventClaimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
