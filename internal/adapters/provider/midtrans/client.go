// Package midtrans is the regional provider adapter for Indonesian rupiah,
// built on the Midtrans Snap and Core API SDK.
package midtrans

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/DanielPopoola/coursepay/internal/adapters/provider"
	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

var supportedCurrencies = []string{"IDR"}

type snapAPI interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type coreAPI interface {
	CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
	RefundTransaction(param string, req *coreapi.RefundReq) (*coreapi.RefundResponse, *midtrans.Error)
}

type Client struct {
	serverKey string
	snap      snapAPI
	core      coreAPI
}

func NewClient(cfg config.MidtransConfig) *Client {
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}

	var s snap.Client
	s.New(cfg.ServerKey, env)

	var c coreapi.Client
	c.New(cfg.ServerKey, env)

	return &Client{
		serverKey: cfg.ServerKey,
		snap:      &s,
		core:      &c,
	}
}

func (c *Client) Name() domain.ProviderName { return domain.ProviderMidtrans }

func (c *Client) SupportedCurrencies() []string { return supportedCurrencies }

// SignatureHeader is empty: Midtrans signs inside the notification body.
func (c *Client) SignatureHeader() string { return "" }

// CreateIntent opens a Snap transaction whose order ID is the transaction ID.
// Midtrans rejects a reused order ID, so a repeat call cannot charge twice.
func (c *Client) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.IdempotencyKey,
			GrossAmt: toRupiah(req.AmountMinor),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.CustomerEmail,
		},
	}

	resp, merr := c.snap.CreateTransaction(snapReq)
	if merr != nil {
		return nil, toProviderError(merr)
	}
	return &domain.Intent{
		ProviderRef:      req.IdempotencyKey,
		AuthorizationURL: resp.RedirectURL,
	}, nil
}

func (c *Client) FetchStatus(ctx context.Context, providerRef string) (*domain.ProviderStatusResult, error) {
	resp, merr := c.core.CheckTransaction(providerRef)
	if merr != nil {
		// Midtrans knows no transaction until the customer picks a payment method.
		if merr.StatusCode == http.StatusNotFound {
			return &domain.ProviderStatusResult{
				ProviderRef: providerRef,
				Status:      domain.ProviderStatusPending,
				RawStatus:   "not_found",
			}, nil
		}
		return nil, toProviderError(merr)
	}
	return &domain.ProviderStatusResult{
		ProviderRef:           providerRef,
		ProviderTransactionID: resp.TransactionID,
		Status:                mapStatus(resp.TransactionStatus, resp.FraudStatus),
		RawStatus:             resp.TransactionStatus,
	}, nil
}

func (c *Client) Refund(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
	refundReq := &coreapi.RefundReq{
		RefundKey: req.IdempotencyKey,
		Amount:    toRupiah(req.AmountMinor),
		Reason:    req.Reason,
	}

	resp, merr := c.core.RefundTransaction(req.ProviderRef, refundReq)
	if merr != nil {
		return nil, toProviderError(merr)
	}
	return &domain.RefundResult{
		ProviderRefundID: req.IdempotencyKey,
		Status:           resp.TransactionStatus,
	}, nil
}

type notification struct {
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	OrderID           string `json:"order_id"`
	SignatureKey      string `json:"signature_key"`
}

// VerifyWebhookSignature recomputes SHA512(order_id + status_code + gross_amount + server_key)
// and compares it with the body's signature_key. The signature argument is unused.
func (c *Client) VerifyWebhookSignature(rawBody []byte, _ string) bool {
	if c.serverKey == "" {
		return false
	}
	var n notification
	if err := json.Unmarshal(rawBody, &n); err != nil || n.SignatureKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + c.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

func (c *Client) ParseWebhookEvent(rawBody []byte) (*domain.WebhookEvent, error) {
	var n notification
	if err := json.Unmarshal(rawBody, &n); err != nil {
		return nil, err
	}
	if n.OrderID == "" || n.TransactionStatus == "" {
		return nil, errors.New("midtrans notification without order_id or transaction_status")
	}
	status := mapStatus(n.TransactionStatus, n.FraudStatus)
	if want := statusCodeFor(status); want != "" && n.StatusCode != want {
		return nil, fmt.Errorf("midtrans notification status %q does not match status_code %q", n.TransactionStatus, n.StatusCode)
	}
	// The signature covers status_code but not transaction_status or
	// fraud_status, so the engine confirms the status through the Core API.
	return &domain.WebhookEvent{
		EventID:               n.TransactionID + ":" + n.TransactionStatus,
		EventType:             n.TransactionStatus,
		ProviderRef:           n.OrderID,
		ProviderTransactionID: n.TransactionID,
		Status:                status,
		StatusUnsigned:        true,
	}, nil
}

// statusCodeFor is the notification status_code Midtrans sends with a status.
func statusCodeFor(status domain.ProviderStatus) string {
	switch status {
	case domain.ProviderStatusSucceeded:
		return "200"
	case domain.ProviderStatusPending, domain.ProviderStatusProcessing:
		return "201"
	case domain.ProviderStatusFailed, domain.ProviderStatusCancelled:
		return "202"
	default:
		return ""
	}
}

func mapStatus(status, fraud string) domain.ProviderStatus {
	switch status {
	case "settlement":
		return domain.ProviderStatusSucceeded
	case "capture":
		if fraud == "challenge" {
			return domain.ProviderStatusProcessing
		}
		return domain.ProviderStatusSucceeded
	case "pending":
		return domain.ProviderStatusPending
	case "deny", "failure":
		return domain.ProviderStatusFailed
	case "cancel", "expire":
		return domain.ProviderStatusCancelled
	default:
		return domain.ProviderStatusUnknown
	}
}

// toRupiah converts ISO minor units to the whole rupiah Midtrans expects.
func toRupiah(amountMinor int64) int64 {
	return amountMinor / 100
}

func toProviderError(merr *midtrans.Error) *provider.ProviderError {
	return &provider.ProviderError{
		Provider:   domain.ProviderMidtrans,
		Code:       "midtrans_error",
		Message:    merr.Message,
		StatusCode: merr.StatusCode,
		Err:        merr.RawError,
	}
}
