package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// VerifyWebhookSignature checks the Stripe-Signature header against the
// endpoint secret and rejects timestamps outside the configured tolerance.
func (c *Client) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	if c.webhookSecret == "" || signature == "" {
		return false
	}
	return webhook.ValidatePayloadWithTolerance(rawBody, signature, c.webhookSecret, c.tolerance) == nil
}

// ParseWebhookEvent normalizes payment_intent.* events. payment_failed is an
// attempt failure on a PaymentIntent that stays open, so it maps to pending.
func (c *Client) ParseWebhookEvent(rawBody []byte) (*domain.WebhookEvent, error) {
	var evt stripego.Event
	if err := json.Unmarshal(rawBody, &evt); err != nil {
		return nil, err
	}
	if evt.ID == "" || evt.Type == "" {
		return nil, errors.New("stripe event without id or type")
	}

	out := &domain.WebhookEvent{
		EventID:   evt.ID,
		EventType: string(evt.Type),
		Status:    domain.ProviderStatusUnknown,
	}

	if !strings.HasPrefix(string(evt.Type), "payment_intent.") || evt.Data == nil {
		return out, nil
	}

	var pi stripego.PaymentIntent
	if err := json.Unmarshal(evt.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	out.ProviderRef = pi.ID
	out.ProviderTransactionID = chargeID(&pi)

	switch evt.Type {
	case "payment_intent.succeeded":
		out.Status = domain.ProviderStatusSucceeded
	case "payment_intent.processing":
		out.Status = domain.ProviderStatusProcessing
	case "payment_intent.payment_failed":
		out.Status = domain.ProviderStatusPending
	case "payment_intent.canceled":
		out.Status = domain.ProviderStatusCancelled
	}
	return out, nil
}
