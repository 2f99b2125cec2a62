// Package stripe is the card-network provider adapter, built on the Stripe
// PaymentIntents API through stripe-go.
package stripe

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/DanielPopoola/coursepay/internal/adapters/provider"
	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const SignatureHeader = "Stripe-Signature"

var supportedCurrencies = []string{"AUD", "CAD", "EUR", "GBP", "JPY", "SGD", "USD"}

type Client struct {
	api           *client.API
	webhookSecret string
	tolerance     time.Duration
}

// NewClient points the SDK at cfg.BaseURL. The SDK's own network retries are
// off; FetchStatus retries in provider.RetryAdapter and the side-effecting
// calls are retried by their callers under the same idempotency key.
func NewClient(cfg config.StripeConfig) *Client {
	backendConfig := &stripego.BackendConfig{
		URL:               stripego.String(strings.TrimRight(cfg.BaseURL, "/")),
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelNull},
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripego.Backends{
		API:     stripego.GetBackendWithConfig(stripego.APIBackend, backendConfig),
		Connect: stripego.GetBackend(stripego.ConnectBackend),
		Uploads: stripego.GetBackend(stripego.UploadsBackend),
	})

	return &Client{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		tolerance:     cfg.WebhookTolerance,
	}
}

func (c *Client) Name() domain.ProviderName { return domain.ProviderStripe }

func (c *Client) SupportedCurrencies() []string { return supportedCurrencies }

func (c *Client) SignatureHeader() string { return SignatureHeader }

func (c *Client) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(req.AmountMinor),
		Currency: stripego.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	if req.CustomerEmail != "" {
		params.ReceiptEmail = stripego.String(req.CustomerEmail)
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	params.AddMetadata("transaction_id", req.TransactionID)
	params.AddMetadata("course_id", req.CourseID)
	params.AddMetadata("user_id", req.UserID)

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, toProviderError(err)
	}
	return &domain.Intent{
		ProviderRef:  pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (c *Client) FetchStatus(ctx context.Context, providerRef string) (*domain.ProviderStatusResult, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Get(providerRef, params)
	if err != nil {
		return nil, toProviderError(err)
	}
	return &domain.ProviderStatusResult{
		ProviderRef:           pi.ID,
		ProviderTransactionID: chargeID(pi),
		Status:                mapIntentStatus(pi.Status),
		RawStatus:             string(pi.Status),
	}, nil
}

func (c *Client) Refund(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
	params := &stripego.RefundParams{
		PaymentIntent: stripego.String(req.ProviderRef),
		Reason:        stripego.String(string(stripego.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	if req.Reason != "" {
		params.AddMetadata("reason", req.Reason)
	}

	rf, err := c.api.Refunds.New(params)
	if err != nil {
		return nil, toProviderError(err)
	}
	if rf.Status == stripego.RefundStatusFailed || rf.Status == stripego.RefundStatusCanceled {
		return nil, &provider.ProviderError{
			Provider:   domain.ProviderStripe,
			Code:       "refund_" + string(rf.Status),
			Message:    "refund " + rf.ID + " " + string(rf.Status),
			StatusCode: http.StatusUnprocessableEntity,
		}
	}
	return &domain.RefundResult{ProviderRefundID: rf.ID, Status: string(rf.Status)}, nil
}

// toProviderError keeps the HTTP status of API errors so IsRetryable can tell
// a decline from an outage. Anything else is a transport failure.
func toProviderError(err error) error {
	var stripeErr *stripego.Error
	if !errors.As(err, &stripeErr) {
		return provider.NetworkError(domain.ProviderStripe, err)
	}
	code := string(stripeErr.Code)
	if code == "" {
		code = string(stripeErr.Type)
	}
	return &provider.ProviderError{
		Provider:   domain.ProviderStripe,
		Code:       code,
		Message:    stripeErr.Msg,
		StatusCode: stripeErr.HTTPStatusCode,
		Err:        err,
	}
}

func chargeID(pi *stripego.PaymentIntent) string {
	if pi.LatestCharge == nil {
		return ""
	}
	return pi.LatestCharge.ID
}

// mapIntentStatus normalizes a PaymentIntent status. A failed attempt returns
// the PaymentIntent to requires_payment_method and the customer may retry on
// the same client secret, so it stays pending. Only canceled is final.
func mapIntentStatus(status stripego.PaymentIntentStatus) domain.ProviderStatus {
	switch status {
	case stripego.PaymentIntentStatusSucceeded:
		return domain.ProviderStatusSucceeded
	case stripego.PaymentIntentStatusProcessing, stripego.PaymentIntentStatusRequiresCapture:
		return domain.ProviderStatusProcessing
	case stripego.PaymentIntentStatusCanceled:
		return domain.ProviderStatusCancelled
	case stripego.PaymentIntentStatusRequiresPaymentMethod,
		stripego.PaymentIntentStatusRequiresConfirmation,
		stripego.PaymentIntentStatusRequiresAction:
		return domain.ProviderStatusPending
	default:
		return domain.ProviderStatusUnknown
	}
}
