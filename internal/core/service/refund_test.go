package service

import (
	"context"
	"testing"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRefundFixture() (*MockTransactionRepository, *MockProviderAdapter, *MockPublisher, *RefundService) {
	repo := NewMockTransactionRepository()
	stripe := newStripe()
	publisher := &MockPublisher{}
	return repo, stripe, publisher, NewRefundService(repo, newSelector(stripe), publisher, testLogger())
}

func TestRefundService_Refund_Success(t *testing.T) {
	// Setup
	repo, stripe, publisher, service := newRefundFixture()
	seeded := seedTransaction(repo, domain.StatusCompleted, domain.ProviderStripe)
	_, _, err := repo.CreateEnrollmentIfAbsent(context.Background(), seeded.UserID, seeded.CourseID, seeded.ID)
	require.NoError(t, err)

	var seen domain.RefundRequest
	stripe.RefundFn = func(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
		seen = req
		return &domain.RefundResult{ProviderRefundID: "re_1", Status: "succeeded"}, nil
	}

	// Action
	tx, err := service.Refund(context.Background(), RefundCommand{TransactionID: seeded.ID, Reason: "duplicate purchase"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, tx.Status)
	require.NotNil(t, tx.RefundedAt)
	require.NotNil(t, tx.RefundReason)
	assert.Equal(t, "duplicate purchase", *tx.RefundReason)
	require.NotNil(t, tx.ProviderRefundID)
	assert.Equal(t, "re_1", *tx.ProviderRefundID)
	assert.NotNil(t, tx.PaidAt)

	assert.Equal(t, "refund-"+seeded.ID.String(), seen.IdempotencyKey)
	assert.Equal(t, *seeded.ProviderRef, seen.ProviderRef)
	assert.Equal(t, seeded.AmountMinor, seen.AmountMinor)

	assert.Equal(t, domain.StatusRefunded, repo.Get(seeded.ID).Status)
	assert.Equal(t, 1, repo.EnrollmentCount(), "enrollment is not revoked")

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventPaymentRefunded, events[0].Type)
}

func TestRefundService_Refund_InvalidState(t *testing.T) {
	for _, status := range []domain.TransactionStatus{
		domain.StatusPending,
		domain.StatusProcessing,
		domain.StatusFailed,
		domain.StatusCancelled,
		domain.StatusRefunded,
	} {
		t.Run(string(status), func(t *testing.T) {
			repo, stripe, publisher, service := newRefundFixture()
			seeded := seedTransaction(repo, status, domain.ProviderStripe)
			before := repo.Get(seeded.ID)

			_, err := service.Refund(context.Background(), RefundCommand{TransactionID: seeded.ID, Reason: "test"})

			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidRefundState))
			assert.Equal(t, before, repo.Get(seeded.ID))
			assert.Equal(t, 0, stripe.GetCalls("Refund"))
			assert.Empty(t, publisher.Events())
		})
	}
}

func TestRefundService_Refund_NotFound(t *testing.T) {
	_, _, _, service := newRefundFixture()

	_, err := service.Refund(context.Background(), RefundCommand{TransactionID: uuid.New()})

	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeTransactionNotFound))
}

func TestRefundService_Refund_ProviderFailure(t *testing.T) {
	cases := []struct {
		retry bool
		code  string
	}{
		{true, domain.ErrCodeProviderUnavailable},
		{false, domain.ErrCodeProviderRejected},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			repo, stripe, publisher, service := newRefundFixture()
			seeded := seedTransaction(repo, domain.StatusCompleted, domain.ProviderStripe)
			stripe.RefundFn = func(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
				return nil, &retryableErr{retry: tc.retry}
			}

			_, err := service.Refund(context.Background(), RefundCommand{TransactionID: seeded.ID})

			assert.True(t, domain.IsErrorCode(err, tc.code))
			assert.Equal(t, domain.StatusCompleted, repo.Get(seeded.ID).Status)
			assert.Equal(t, 1, stripe.GetCalls("Refund"))
			assert.Empty(t, publisher.Events())
		})
	}
}

func TestRefundService_Refund_ConcurrentRefundFinishedFirst(t *testing.T) {
	repo, stripe, publisher, service := newRefundFixture()
	seeded := seedTransaction(repo, domain.StatusCompleted, domain.ProviderStripe)

	// While our provider call is in flight another refund commits.
	stripe.RefundFn = func(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
		other := repo.Get(seeded.ID)
		require.NoError(t, other.Refund("re_other", "first", other.UpdatedAt))
		repo.Seed(other)
		return &domain.RefundResult{ProviderRefundID: "re_other"}, nil
	}

	tx, err := service.Refund(context.Background(), RefundCommand{TransactionID: seeded.ID, Reason: "second"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, tx.Status)
	assert.Equal(t, "first", *tx.RefundReason)
	assert.Empty(t, publisher.Events())
}
