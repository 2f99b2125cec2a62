package service

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/ports"
)

const testWebhookSecret = "whsec_test"

type retryableErr struct {
	retry bool
}

func (e *retryableErr) Error() string     { return fmt.Sprintf("provider error (retryable=%v)", e.retry) }
func (e *retryableErr) IsRetryable() bool { return e.retry }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStripe() *MockProviderAdapter {
	return &MockProviderAdapter{
		ProviderID: domain.ProviderStripe,
		Currencies: []string{"EUR", "GBP", "USD"},
		Secret:     testWebhookSecret,
	}
}

func newPaystack() *MockProviderAdapter {
	return &MockProviderAdapter{
		ProviderID: domain.ProviderPaystack,
		Currencies: []string{"GHS", "KES", "NGN", "USD", "ZAR"},
		Secret:     testWebhookSecret,
	}
}

func newMidtrans() *MockProviderAdapter {
	return &MockProviderAdapter{
		ProviderID:     domain.ProviderMidtrans,
		Currencies:     []string{"IDR"},
		Secret:         testWebhookSecret,
		UnsignedStatus: true,
	}
}

func newSelector(adapters ...*MockProviderAdapter) *ProviderSelector {
	list := make([]ports.ProviderAdapter, 0, len(adapters))
	for _, a := range adapters {
		list = append(list, a)
	}
	return NewProviderSelector(list)
}

// seedTransaction stores a transaction that already has a provider reference.
func seedTransaction(repo *MockTransactionRepository, status domain.TransactionStatus, provider domain.ProviderName) *domain.Transaction {
	tx := domain.NewTransaction("user-1", "course-1", 4900, "USD", provider, "ada@example.com")
	ref := "ref-" + tx.ID.String()
	tx.ProviderRef = &ref
	tx.Status = status
	now := time.Now().UTC()
	if status == domain.StatusCompleted || status == domain.StatusRefunded {
		tx.PaidAt = &now
	}
	if status == domain.StatusRefunded {
		tx.RefundedAt = &now
	}
	repo.Seed(tx)
	return tx
}

func webhookBody(eventID, ref string, status domain.ProviderStatus) []byte {
	return []byte(fmt.Sprintf(`{"id":%q,"type":"payment.update","ref":%q,"status":%q,"provider_tx_id":"ch_1"}`, eventID, ref, status))
}
