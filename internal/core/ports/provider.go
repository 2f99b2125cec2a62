package ports

import (
	"context"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
)

// ProviderAdapter defines the behavior of an external payment provider.
type ProviderAdapter interface {
	Name() domain.ProviderName
	SupportedCurrencies() []string
	// SignatureHeader names the request header carrying the webhook signature,
	// or "" when the provider signs inside the body.
	SignatureHeader() string

	CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error)
	FetchStatus(ctx context.Context, providerRef string) (*domain.ProviderStatusResult, error)
	VerifyWebhookSignature(rawBody []byte, signature string) bool
	ParseWebhookEvent(rawBody []byte) (*domain.WebhookEvent, error)
	Refund(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error)
}
