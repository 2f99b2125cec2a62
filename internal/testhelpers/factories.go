package testhelpers

import (
	"context"
	"testing"
	"time"

	"github.com/DanielPopoola/coursepay/internal/adapters/postgres"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// SeedCoursePrice inserts or replaces a catalog price.
func SeedCoursePrice(t *testing.T, db *postgres.DB, courseID, currency string, amountMinor int64, purchasable bool) {
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO course_prices (course_id, currency, amount_minor, purchasable) VALUES ($1, $2, $3, $4)
		ON CONFLICT (course_id, currency) DO UPDATE SET amount_minor = EXCLUDED.amount_minor, purchasable = EXCLUDED.purchasable`,
		courseID, currency, amountMinor, purchasable,
	)
	require.NoError(t, err)
}

// NewTransaction returns an unsaved USD stripe transaction for a fresh user.
func NewTransaction() *domain.Transaction {
	return domain.NewTransaction("user-"+uuid.NewString(), "course-1", 4900, "USD", domain.ProviderStripe, "ada@example.com")
}

// CreatePendingTransaction stores a pending transaction with a provider reference attached.
func CreatePendingTransaction(t *testing.T, repo *postgres.TransactionRepository) *domain.Transaction {
	ctx := context.Background()

	tx := NewTransaction()
	require.NoError(t, repo.Create(ctx, tx))

	require.NoError(t, tx.AttachIntent(&domain.Intent{
		ProviderRef:  "pi_" + uuid.NewString(),
		ClientSecret: "secret",
	}))
	require.NoError(t, repo.AttachIntent(ctx, tx))
	return tx
}

// CreateCompletedTransaction stores a transaction that the provider has already settled.
func CreateCompletedTransaction(t *testing.T, repo *postgres.TransactionRepository) *domain.Transaction {
	ctx := context.Background()

	tx := CreatePendingTransaction(t, repo)
	changed, err := tx.ApplyProviderStatus(domain.ProviderStatusSucceeded, "ch_1", time.Now())
	require.NoError(t, err)
	require.True(t, changed)

	ok, err := repo.UpdateStatus(ctx, tx, domain.StatusPending)
	require.NoError(t, err)
	require.True(t, ok)
	return tx
}

// Backdate moves a transaction's creation time into the past.
func Backdate(t *testing.T, db *postgres.DB, id uuid.UUID, age time.Duration) {
	_, err := db.Pool.Exec(context.Background(),
		`UPDATE transactions SET created_at = $1 WHERE id = $2`, time.Now().Add(-age), id)
	require.NoError(t, err)
}
