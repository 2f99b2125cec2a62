package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeValidation                     = "VALIDATION_ERROR"
	ErrCodeUnsupportedCurrency            = "UNSUPPORTED_CURRENCY"
	ErrCodeUnsupportedCurrencyForProvider = "UNSUPPORTED_CURRENCY_FOR_PROVIDER"
	ErrCodeMalformedPayload               = "MALFORMED_PAYLOAD"
	ErrCodeUnauthorized                   = "UNAUTHORIZED"
	ErrCodeSignatureInvalid               = "SIGNATURE_INVALID"
	ErrCodeForbidden                      = "FORBIDDEN"
	ErrCodeTransactionNotFound            = "TRANSACTION_NOT_FOUND"
	ErrCodeInvalidTransition              = "INVALID_TRANSITION"
	ErrCodeInvalidRefundState             = "INVALID_REFUND_STATE"
	ErrCodeProviderRefImmutable           = "PROVIDER_REF_IMMUTABLE"
	ErrCodeAlreadyEnrolled                = "ALREADY_ENROLLED"
	ErrCodeCourseNotPurchasable           = "COURSE_NOT_PURCHASABLE"
	ErrCodeActiveTransactionExists        = "ACTIVE_TRANSACTION_EXISTS"
	ErrCodeProviderUnavailable            = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderRejected               = "PROVIDER_REJECTED"
	ErrCodeDuplicateEvent                 = "DUPLICATE_EVENT"
)

func NewValidationError(message string) *DomainError {
	return &DomainError{Code: ErrCodeValidation, Message: message}
}

func NewUnsupportedCurrencyError(currency string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnsupportedCurrency,
		Message: fmt.Sprintf("currency %s is not supported", currency),
	}
}

func NewUnsupportedCurrencyForProviderError(provider ProviderName, currency string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnsupportedCurrencyForProvider,
		Message: fmt.Sprintf("provider %s does not support currency %s", provider, currency),
	}
}

func NewMalformedPayloadError(err error) *DomainError {
	return &DomainError{Code: ErrCodeMalformedPayload, Message: "malformed webhook payload", Err: err}
}

func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{Code: ErrCodeUnauthorized, Message: message}
}

func NewSignatureInvalidError() *DomainError {
	return &DomainError{Code: ErrCodeSignatureInvalid, Message: "invalid signature"}
}

func NewForbiddenError() *DomainError {
	return &DomainError{Code: ErrCodeForbidden, Message: "insufficient permissions"}
}

func NewTransactionNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeTransactionNotFound,
		Message: fmt.Sprintf("transaction %s not found", id),
	}
}

func NewInvalidTransitionError(from, to TransactionStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewInvalidRefundStateError(status TransactionStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidRefundState,
		Message: fmt.Sprintf("cannot refund a %s transaction", status),
	}
}

func NewProviderRefImmutableError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeProviderRefImmutable,
		Message: fmt.Sprintf("transaction %s already has a different provider reference", id),
	}
}

func NewAlreadyEnrolledError(courseID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAlreadyEnrolled,
		Message: fmt.Sprintf("already enrolled in course %s", courseID),
	}
}

func NewCourseNotPurchasableError(courseID, currency string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCourseNotPurchasable,
		Message: fmt.Sprintf("course %s cannot be purchased in %s", courseID, currency),
	}
}

func NewActiveTransactionExistsError(userID, courseID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeActiveTransactionExists,
		Message: fmt.Sprintf("user %s already has an active transaction for course %s", userID, courseID),
	}
}

func NewProviderUnavailableError(provider ProviderName, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeProviderUnavailable,
		Message: fmt.Sprintf("payment provider %s is unavailable", provider),
		Err:     err,
	}
}

func NewProviderRejectedError(provider ProviderName, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeProviderRejected,
		Message: fmt.Sprintf("payment provider %s rejected the request", provider),
		Err:     err,
	}
}

func NewDuplicateEventError(provider ProviderName, eventID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeDuplicateEvent,
		Message: fmt.Sprintf("event %s from %s already processed", eventID, provider),
	}
}

// IsErrorCode reports whether err is a DomainError with the given code.
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// Retryable is implemented by errors that know whether a retry can succeed.
type Retryable interface {
	IsRetryable() bool
}

// ProviderFailure wraps a provider call error as PROVIDER_UNAVAILABLE when a
// retry may help, PROVIDER_REJECTED otherwise.
func ProviderFailure(provider ProviderName, err error) *DomainError {
	var r Retryable
	if errors.As(err, &r) && !r.IsRetryable() {
		return NewProviderRejectedError(provider, err)
	}
	return NewProviderUnavailableError(provider, err)
}
