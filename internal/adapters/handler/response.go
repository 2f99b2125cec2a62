package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TransactionResponse struct {
	ID                    string     `json:"id" example:"0b6f3c3e-8f7c-4f43-9a55-2f1f0a0f9d1e"`
	UserID                string     `json:"user_id" example:"user-42"`
	CourseID              string     `json:"course_id" example:"go-concurrency"`
	AmountMinor           int64      `json:"amount_minor" example:"4900"`
	Currency              string     `json:"currency" example:"USD"`
	Provider              string     `json:"provider" example:"stripe"`
	Status                string     `json:"status" example:"pending"`
	ProviderRef           string     `json:"provider_ref,omitempty" example:"pi_3Nz"`
	ProviderTransactionID string     `json:"provider_transaction_id,omitempty"`
	ClientSecret          string     `json:"client_secret,omitempty"`
	AuthorizationURL      string     `json:"authorization_url,omitempty"`
	ProviderRefundID      string     `json:"provider_refund_id,omitempty"`
	RefundReason          string     `json:"refund_reason,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	PaidAt                *time.Time `json:"paid_at,omitempty"`
	RefundedAt            *time.Time `json:"refunded_at,omitempty"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                    t.ID.String(),
		UserID:                t.UserID,
		CourseID:              t.CourseID,
		AmountMinor:           t.AmountMinor,
		Currency:              t.Currency,
		Provider:              string(t.Provider),
		Status:                string(t.Status),
		ProviderRef:           deref(t.ProviderRef),
		ProviderTransactionID: deref(t.ProviderTransactionID),
		ClientSecret:          deref(t.ClientSecret),
		AuthorizationURL:      deref(t.AuthorizationURL),
		ProviderRefundID:      deref(t.ProviderRefundID),
		RefundReason:          deref(t.RefundReason),
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
		PaidAt:                t.PaidAt,
		RefundedAt:            t.RefundedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := APIResponse{
		Success: status >= 200 && status < 300,
	}

	if response.Success {
		response.Data = data
	} else {
		if apiErr, ok := data.(*APIError); ok {
			response.Error = apiErr
		}
	}

	_ = json.NewEncoder(w).Encode(response)
}

// WriteError renders err in the response envelope. Internal failures are
// logged here and reported without detail.
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status, apiErr := toAPIError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "code", apiErr.Code, "error", err)
	}
	respondWithJSON(w, status, apiErr)
}

func toAPIError(err error) (int, *APIError) {
	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError, &APIError{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		}
	}

	apiErr := &APIError{Code: domainErr.Code, Message: domainErr.Message}

	switch domainErr.Code {
	case domain.ErrCodeValidation, domain.ErrCodeUnsupportedCurrency,
		domain.ErrCodeUnsupportedCurrencyForProvider, domain.ErrCodeMalformedPayload:
		return http.StatusBadRequest, apiErr
	case domain.ErrCodeUnauthorized, domain.ErrCodeSignatureInvalid:
		return http.StatusUnauthorized, apiErr
	case domain.ErrCodeForbidden:
		return http.StatusForbidden, apiErr
	case domain.ErrCodeTransactionNotFound:
		return http.StatusNotFound, apiErr
	case domain.ErrCodeInvalidTransition, domain.ErrCodeInvalidRefundState, domain.ErrCodeAlreadyEnrolled,
		domain.ErrCodeActiveTransactionExists, domain.ErrCodeProviderRefImmutable:
		return http.StatusConflict, apiErr
	case domain.ErrCodeCourseNotPurchasable, domain.ErrCodeProviderRejected:
		return http.StatusUnprocessableEntity, apiErr
	case domain.ErrCodeProviderUnavailable:
		return http.StatusBadGateway, apiErr
	default:
		return http.StatusInternalServerError, &APIError{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		}
	}
}
