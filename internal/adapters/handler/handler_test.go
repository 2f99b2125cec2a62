package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock services
type mockInitService struct {
	initializeFn func(ctx context.Context, cmd service.InitializeCommand) (*domain.Transaction, error)
}

func (m *mockInitService) Initialize(ctx context.Context, cmd service.InitializeCommand) (*domain.Transaction, error) {
	return m.initializeFn(ctx, cmd)
}

type mockVerifyService struct {
	verifyFn func(ctx context.Context, cmd service.VerifyCommand) (*domain.Transaction, error)
}

func (m *mockVerifyService) VerifyTransaction(ctx context.Context, cmd service.VerifyCommand) (*domain.Transaction, error) {
	return m.verifyFn(ctx, cmd)
}

type mockRefundService struct {
	refundFn func(ctx context.Context, cmd service.RefundCommand) (*domain.Transaction, error)
}

func (m *mockRefundService) Refund(ctx context.Context, cmd service.RefundCommand) (*domain.Transaction, error) {
	return m.refundFn(ctx, cmd)
}

type mockQueryService struct {
	getFn  func(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	listFn func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error)
}

func (m *mockQueryService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return m.getFn(ctx, id)
}

func (m *mockQueryService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error) {
	return m.listFn(ctx, filter)
}

type mockWebhookProcessor struct {
	handleFn func(ctx context.Context, provider domain.ProviderName, rawBody []byte, signature string) (*service.WebhookResult, error)
}

func (m *mockWebhookProcessor) HandleWebhook(ctx context.Context, provider domain.ProviderName, rawBody []byte, signature string) (*service.WebhookResult, error) {
	return m.handleFn(ctx, provider, rawBody, signature)
}

type testServer struct {
	mux    *http.ServeMux
	auth   *Authenticator
	init   *mockInitService
	verify *mockVerifyService
	refund *mockRefundService
	query  *mockQueryService
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		mux:    http.NewServeMux(),
		auth:   NewAuthenticator(config.AuthConfig{JWTSecret: "test-secret-0123456789", Issuer: "coursepay-test"}, testLogger()),
		init:   &mockInitService{},
		verify: &mockVerifyService{},
		refund: &mockRefundService{},
		query:  &mockQueryService{},
	}
	NewPaymentHandler(s.init, s.verify, s.refund, s.query, testLogger()).RegisterRoutes(s.mux, s.auth)
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, p *Principal) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if p != nil {
		token, err := s.auth.Issue(*p, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return rr, resp
}

var (
	student = &Principal{UserID: "user-1", Email: "ada@example.com", Role: "student"}
	admin   = &Principal{UserID: "admin-1", Email: "ops@example.com", Role: RoleAdmin}
)

func sampleTransaction(userID string) *domain.Transaction {
	tx := domain.NewTransaction(userID, "course-1", 2500000, "NGN", domain.ProviderPaystack, "ada@example.com")
	ref := "ps_ref_1"
	url := "https://checkout.paystack.com/abc"
	tx.ProviderRef = &ref
	tx.AuthorizationURL = &url
	return tx
}

func dataMap(t *testing.T, resp APIResponse) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is an object")
	return m
}

func TestHandleInitialize_Success(t *testing.T) {
	s := newTestServer(t)
	var seen service.InitializeCommand
	s.init.initializeFn = func(ctx context.Context, cmd service.InitializeCommand) (*domain.Transaction, error) {
		seen = cmd
		return sampleTransaction(cmd.UserID), nil
	}

	rr, resp := s.do(t, http.MethodPost, "/api/v1/payments/initialize",
		InitializeRequest{CourseID: "course-1", Currency: "NGN"}, student)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, "ada@example.com", seen.CustomerEmail)
	assert.Nil(t, seen.ProviderHint)

	data := dataMap(t, resp)
	assert.Equal(t, "paystack", data["provider"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "https://checkout.paystack.com/abc", data["authorization_url"])
	assert.NotContains(t, data, "client_secret")
}

func TestHandleInitialize_ProviderHint(t *testing.T) {
	s := newTestServer(t)
	var seen service.InitializeCommand
	s.init.initializeFn = func(ctx context.Context, cmd service.InitializeCommand) (*domain.Transaction, error) {
		seen = cmd
		return sampleTransaction(cmd.UserID), nil
	}
	hint := "Stripe"

	rr, _ := s.do(t, http.MethodPost, "/api/v1/payments/initialize",
		InitializeRequest{CourseID: "course-1", Currency: "USD", Provider: &hint}, student)

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, seen.ProviderHint)
	assert.Equal(t, domain.ProviderStripe, *seen.ProviderHint)
}

func TestHandleInitialize_Rejections(t *testing.T) {
	unknown := "paypal"
	cases := []struct {
		name   string
		body   interface{}
		p      *Principal
		status int
		code   string
	}{
		{"no token", InitializeRequest{CourseID: "c", Currency: "USD"}, nil, http.StatusUnauthorized, domain.ErrCodeUnauthorized},
		{"missing course", InitializeRequest{Currency: "USD"}, student, http.StatusBadRequest, domain.ErrCodeValidation},
		{"bad currency", InitializeRequest{CourseID: "c", Currency: "US"}, student, http.StatusBadRequest, domain.ErrCodeValidation},
		{"unknown provider", InitializeRequest{CourseID: "c", Currency: "USD", Provider: &unknown}, student, http.StatusBadRequest, domain.ErrCodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			s.init.initializeFn = func(ctx context.Context, cmd service.InitializeCommand) (*domain.Transaction, error) {
				t.Fatal("service must not be called")
				return nil, nil
			}

			rr, resp := s.do(t, http.MethodPost, "/api/v1/payments/initialize", tc.body, tc.p)

			assert.Equal(t, tc.status, rr.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestHandleInitialize_ServiceErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.NewAlreadyEnrolledError("course-1"), http.StatusConflict},
		{domain.NewCourseNotPurchasableError("course-1", "USD"), http.StatusUnprocessableEntity},
		{domain.NewUnsupportedCurrencyError("XYZ"), http.StatusBadRequest},
		{domain.NewProviderUnavailableError(domain.ProviderStripe, errors.New("timeout")), http.StatusBadGateway},
		{domain.NewProviderRejectedError(domain.ProviderStripe, errors.New("card declined")), http.StatusUnprocessableEntity},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			s := newTestServer(t)
			s.init.initializeFn = func(ctx context.Context, cmd service.InitializeCommand) (*domain.Transaction, error) {
				return nil, tc.err
			}

			rr, resp := s.do(t, http.MethodPost, "/api/v1/payments/initialize",
				InitializeRequest{CourseID: "course-1", Currency: "USD"}, student)

			assert.Equal(t, tc.status, rr.Code)
			require.NotNil(t, resp.Error)
			assert.NotContains(t, resp.Error.Message, "connection reset")
		})
	}
}

func TestHandleVerify(t *testing.T) {
	s := newTestServer(t)
	tx := sampleTransaction("user-1")
	var seen service.VerifyCommand
	s.verify.verifyFn = func(ctx context.Context, cmd service.VerifyCommand) (*domain.Transaction, error) {
		seen = cmd
		tx.Status = domain.StatusCompleted
		return tx, nil
	}

	rr, resp := s.do(t, http.MethodPost, "/api/v1/payments/"+tx.ID.String()+"/verify", VerifyRequest{}, student)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, tx.ID, seen.TransactionID)
	assert.Equal(t, "user-1", seen.UserID)
	assert.Nil(t, seen.Provider)
	assert.Equal(t, "completed", dataMap(t, resp)["status"])
}

func TestHandleVerify_EmptyBodyAndBadID(t *testing.T) {
	s := newTestServer(t)
	s.verify.verifyFn = func(ctx context.Context, cmd service.VerifyCommand) (*domain.Transaction, error) {
		return nil, domain.NewTransactionNotFoundError(cmd.TransactionID.String())
	}

	rr, resp := s.do(t, http.MethodPost, "/api/v1/payments/"+uuid.NewString()+"/verify", nil, student)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, domain.ErrCodeTransactionNotFound, resp.Error.Code)

	rr, resp = s.do(t, http.MethodPost, "/api/v1/payments/not-a-uuid/verify", nil, student)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, domain.ErrCodeValidation, resp.Error.Code)
}

func TestHandleRefund(t *testing.T) {
	s := newTestServer(t)
	tx := sampleTransaction("user-1")
	var seen service.RefundCommand
	s.refund.refundFn = func(ctx context.Context, cmd service.RefundCommand) (*domain.Transaction, error) {
		seen = cmd
		tx.Status = domain.StatusRefunded
		return tx, nil
	}
	path := "/api/v1/payments/" + tx.ID.String() + "/refund"

	t.Run("student is forbidden", func(t *testing.T) {
		rr, resp := s.do(t, http.MethodPost, path, RefundRequest{Reason: "please"}, student)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, domain.ErrCodeForbidden, resp.Error.Code)
	})

	t.Run("admin refunds", func(t *testing.T) {
		rr, resp := s.do(t, http.MethodPost, path, RefundRequest{Reason: "duplicate"}, admin)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, tx.ID, seen.TransactionID)
		assert.Equal(t, "duplicate", seen.Reason)
		assert.Equal(t, "refunded", dataMap(t, resp)["status"])
	})

	t.Run("invalid state", func(t *testing.T) {
		s.refund.refundFn = func(ctx context.Context, cmd service.RefundCommand) (*domain.Transaction, error) {
			return nil, domain.NewInvalidRefundStateError(domain.StatusPending)
		}
		rr, resp := s.do(t, http.MethodPost, path, nil, admin)
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, domain.ErrCodeInvalidRefundState, resp.Error.Code)
	})
}

func TestHandleGetTransaction_Ownership(t *testing.T) {
	s := newTestServer(t)
	tx := sampleTransaction("user-2")
	s.query.getFn = func(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
		return tx, nil
	}
	path := "/api/v1/payments/" + tx.ID.String()

	rr, resp := s.do(t, http.MethodGet, path, nil, student)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, domain.ErrCodeTransactionNotFound, resp.Error.Code)

	rr, resp = s.do(t, http.MethodGet, path, nil, &Principal{UserID: "user-2"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, tx.ID.String(), dataMap(t, resp)["id"])

	rr, _ = s.do(t, http.MethodGet, path, nil, admin)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandleListTransactions(t *testing.T) {
	s := newTestServer(t)
	var seen domain.TransactionFilter
	s.query.listFn = func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error) {
		seen = filter
		return []*domain.Transaction{sampleTransaction(filter.UserID)}, 41, nil
	}

	t.Run("student sees own list", func(t *testing.T) {
		rr, resp := s.do(t, http.MethodGet, "/api/v1/payments?limit=10&offset=20&status=completed&user_id=user-9", nil, student)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.TransactionFilter{UserID: "user-1", Status: domain.StatusCompleted, Limit: 10, Offset: 20}, seen)

		data := dataMap(t, resp)
		assert.Equal(t, float64(41), data["total"])
		assert.Equal(t, float64(10), data["limit"])
		assert.Len(t, data["transactions"], 1)
	})

	t.Run("admin may pick a user", func(t *testing.T) {
		rr, _ := s.do(t, http.MethodGet, "/api/v1/payments?user_id=user-9", nil, admin)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-9", seen.UserID)
	})

	t.Run("admin lists everyone", func(t *testing.T) {
		rr, resp := s.do(t, http.MethodGet, "/api/v1/payments", nil, admin)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "", seen.UserID)
		assert.Equal(t, float64(service.DefaultPageSize), dataMap(t, resp)["limit"])
	})

	t.Run("non-numeric limit", func(t *testing.T) {
		rr, resp := s.do(t, http.MethodGet, "/api/v1/payments?limit=ten", nil, student)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, domain.ErrCodeValidation, resp.Error.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	healthy := pingFunc(func(ctx context.Context) error { return nil })
	down := pingFunc(func(ctx context.Context) error { return errors.New("refused") })

	rr := httptest.NewRecorder()
	HealthHandler(map[string]Pinger{"postgres": healthy}, testLogger())(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	HealthHandler(map[string]Pinger{"postgres": healthy, "redis": down}, testLogger())(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
