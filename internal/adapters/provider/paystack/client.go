// Package paystack is the regional provider adapter for African currencies.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DanielPopoola/coursepay/internal/adapters/provider"
	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
)

const SignatureHeader = "X-Paystack-Signature"

var supportedCurrencies = []string{"GHS", "KES", "NGN", "USD", "ZAR"}

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(cfg config.PaystackConfig) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *Client) Name() domain.ProviderName { return domain.ProviderPaystack }

func (c *Client) SupportedCurrencies() []string { return supportedCurrencies }

func (c *Client) SignatureHeader() string { return SignatureHeader }

// envelope is the shape of every Paystack API response.
type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type initializeRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type transactionData struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

type refundRequest struct {
	Transaction  string `json:"transaction"`
	MerchantNote string `json:"merchant_note,omitempty"`
}

type refundData struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// CreateIntent initializes a transaction using the transaction ID as the
// Paystack reference; Paystack refuses a second initialize with the same reference.
func (c *Client) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	body := initializeRequest{
		Email:     req.CustomerEmail,
		Amount:    req.AmountMinor,
		Currency:  req.Currency,
		Reference: req.IdempotencyKey,
		Metadata: map[string]string{
			"transaction_id": req.TransactionID,
			"course_id":      req.CourseID,
			"user_id":        req.UserID,
		},
	}

	data, err := doJSON[initializeRequest, initializeData](c, ctx, http.MethodPost, "/transaction/initialize", &body)
	if err != nil {
		return nil, err
	}
	return &domain.Intent{
		ProviderRef:      data.Reference,
		AuthorizationURL: data.AuthorizationURL,
	}, nil
}

func (c *Client) FetchStatus(ctx context.Context, providerRef string) (*domain.ProviderStatusResult, error) {
	data, err := doJSON[struct{}, transactionData](c, ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(providerRef), nil)
	if err != nil {
		return nil, err
	}
	return &domain.ProviderStatusResult{
		ProviderRef:           data.Reference,
		ProviderTransactionID: formatID(data.ID),
		Status:                mapStatus(data.Status),
		RawStatus:             data.Status,
	}, nil
}

func (c *Client) Refund(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
	body := refundRequest{Transaction: req.ProviderRef, MerchantNote: req.Reason}

	data, err := doJSON[refundRequest, refundData](c, ctx, http.MethodPost, "/refund", &body)
	if err != nil {
		return nil, err
	}
	return &domain.RefundResult{ProviderRefundID: formatID(data.ID), Status: data.Status}, nil
}

// VerifyWebhookSignature checks the hex HMAC-SHA512 of the body keyed with the secret key.
func (c *Client) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	if c.secretKey == "" || signature == "" {
		return false
	}
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(rawBody)
	return hmac.Equal(sig, mac.Sum(nil))
}

type event struct {
	Event string          `json:"event"`
	Data  transactionData `json:"data"`
}

// ParseWebhookEvent normalizes a Paystack event. Paystack events carry no
// event ID, so event name and transaction ID together identify a delivery.
func (c *Client) ParseWebhookEvent(rawBody []byte) (*domain.WebhookEvent, error) {
	var evt event
	if err := json.Unmarshal(rawBody, &evt); err != nil {
		return nil, err
	}
	if evt.Event == "" {
		return nil, errors.New("paystack event without name")
	}
	charge := strings.HasPrefix(evt.Event, "charge.")
	// Without data.id every delivery of the event would share one event ID.
	if charge && evt.Data.ID == 0 {
		return nil, fmt.Errorf("paystack %s event without data.id", evt.Event)
	}

	out := &domain.WebhookEvent{
		EventID:   evt.Event + ":" + formatID(evt.Data.ID),
		EventType: evt.Event,
		Status:    domain.ProviderStatusUnknown,
	}
	if charge {
		out.ProviderRef = evt.Data.Reference
		out.ProviderTransactionID = formatID(evt.Data.ID)
		out.Status = mapStatus(evt.Data.Status)
	}
	return out, nil
}

func doJSON[Req any, Resp any](c *Client, ctx context.Context, method, path string, req *Req) (*Resp, error) {
	var body io.Reader
	if req != nil {
		jsonData, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if req != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, provider.NetworkError(domain.ProviderPaystack, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.NetworkError(domain.ProviderPaystack, err)
	}

	var env envelope[Resp]
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (decodeErr == nil && !env.Status) {
		message := env.Message
		if message == "" {
			message = string(raw)
		}
		status := resp.StatusCode
		if status >= 200 && status < 300 {
			status = http.StatusUnprocessableEntity
		}
		return nil, &provider.ProviderError{
			Provider:   domain.ProviderPaystack,
			Code:       "request_failed",
			Message:    message,
			StatusCode: status,
		}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("error decoding json response: %w", decodeErr)
	}
	return &env.Data, nil
}

func mapStatus(status string) domain.ProviderStatus {
	switch status {
	case "success":
		return domain.ProviderStatusSucceeded
	case "failed":
		return domain.ProviderStatusFailed
	case "reversed":
		return domain.ProviderStatusCancelled
	case "processing", "queued":
		return domain.ProviderStatusProcessing
	case "abandoned", "ongoing", "pending":
		return domain.ProviderStatusPending
	default:
		return domain.ProviderStatusUnknown
	}
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
