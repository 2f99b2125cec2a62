package ports

import (
	"context"
	"time"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/google/uuid"
)

// TransactionRepository defines persistence for transactions, the provider event
// ledger and the enrollments a completed transaction grants.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	FindByProviderRefForUpdate(ctx context.Context, provider domain.ProviderName, ref string) (*domain.Transaction, error)
	FindActive(ctx context.Context, userID, courseID string) (*domain.Transaction, error)
	List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error)
	FindStale(ctx context.Context, olderThan time.Duration, limit int) ([]*domain.Transaction, error)

	// AttachIntent stores provider references on a transaction that has none yet.
	AttachIntent(ctx context.Context, tx *domain.Transaction) error

	// UpdateStatus persists tx only if its stored status still equals expected.
	// It returns false when another writer got there first.
	UpdateStatus(ctx context.Context, tx *domain.Transaction, expected domain.TransactionStatus) (bool, error)

	// RecordProviderEvent inserts a consumed webhook event. It returns false if
	// the event was already recorded.
	RecordProviderEvent(ctx context.Context, evt *domain.ProviderEvent) (bool, error)

	// Enrollment collaborator
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
	CreateEnrollmentIfAbsent(ctx context.Context, userID, courseID string, transactionID uuid.UUID) (*domain.Enrollment, bool, error)

	// WithTx executes a function within a database transaction.
	WithTx(ctx context.Context, fn func(TransactionRepository) error) error
}

// CourseCatalog is the read side of the course subsystem.
type CourseCatalog interface {
	FindPrice(ctx context.Context, courseID, currency string) (*domain.CoursePrice, error)
}
