package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DanielPopoola/coursepay/docs"
	"github.com/DanielPopoola/coursepay/internal/adapters/handler"
	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func TestRecovery(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decode(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestTimeout(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := Timeout(20*time.Millisecond, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhooks/stripe", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	resp := decode(t, rr)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TIMEOUT", resp.Error.Code)
	assert.Contains(t, logs.String(), "request timed out")
	assert.Contains(t, logs.String(), "/webhooks/stripe")
}

func TestTimeout_FastHandlerUntouched(t *testing.T) {
	h := Timeout(time.Second, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(handler.APIResponse{Success: true, Data: map[string]string{"id": "tx-1"}})
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/payments", nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, decode(t, rr).Success)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/payments/initialize", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/v1/payments/initialize", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, float64(len("short and stout")), entry["bytes"])
}

func TestRequestValidator(t *testing.T) {
	router, err := LoadRouter(docs.SwaggerInfo.ReadDoc())
	require.NoError(t, err)

	reached := false
	h := RequestValidator(router, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}))

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		pass   bool
	}{
		{"valid initialize", http.MethodPost, "/api/v1/payments/initialize", `{"course_id":"c1","currency":"NGN"}`, true},
		{"missing currency", http.MethodPost, "/api/v1/payments/initialize", `{"course_id":"c1"}`, false},
		{"long currency", http.MethodPost, "/api/v1/payments/initialize", `{"course_id":"c1","currency":"NAIRA"}`, false},
		{"unknown provider", http.MethodPost, "/api/v1/payments/initialize", `{"course_id":"c1","currency":"USD","provider":"paypal"}`, false},
		{"bad limit", http.MethodGet, "/api/v1/payments?limit=abc", "", false},
		{"bad status", http.MethodGet, "/api/v1/payments?status=settled", "", false},
		{"valid list", http.MethodGet, "/api/v1/payments?limit=5&status=completed", "", true},
		{"verify without body", http.MethodPost, "/api/v1/payments/" + uuid.NewString() + "/verify", "", true},
		{"refund reason too long", http.MethodPost, "/api/v1/payments/" + uuid.NewString() + "/refund", `{"reason":"` + strings.Repeat("x", 501) + `"}`, false},
		{"undocumented path", http.MethodGet, "/healthz", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.pass, reached)
			if tc.pass {
				assert.Equal(t, http.StatusOK, rr.Code)
				assert.Equal(t, tc.body, rr.Body.String(), "body is still readable downstream")
				return
			}
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "VALIDATION_ERROR", decode(t, rr).Error.Code)
		})
	}
}

func TestRequestValidator_UnknownWebhookProviderIsNotFound(t *testing.T) {
	router, err := LoadRouter(docs.SwaggerInfo.ReadDoc())
	require.NoError(t, err)

	mux := http.NewServeMux()
	handler.NewWebhookHandler(nil, map[domain.ProviderName]string{
		domain.ProviderStripe: "Stripe-Signature",
	}, testLogger()).RegisterRoutes(mux)
	h := RequestValidator(router, testLogger())(mux)

	for _, path := range []string{"/webhooks/paypal", "/webhooks/midtrans"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.False(t, decode(t, rr).Success, path)
	}
}
