package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/service"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
)

type InitializationService interface {
	Initialize(ctx context.Context, cmd service.InitializeCommand) (*domain.Transaction, error)
}

type VerificationService interface {
	VerifyTransaction(ctx context.Context, cmd service.VerifyCommand) (*domain.Transaction, error)
}

type RefundService interface {
	Refund(ctx context.Context, cmd service.RefundCommand) (*domain.Transaction, error)
}

type QueryService interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error)
}

type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, provider domain.ProviderName, rawBody []byte, signature string) (*service.WebhookResult, error)
}

type PaymentHandler struct {
	initService   InitializationService
	verifyService VerificationService
	refundService RefundService
	queryService  QueryService
	validate      *validator.Validate
	logger        *slog.Logger
}

func NewPaymentHandler(
	initService InitializationService,
	verifyService VerificationService,
	refundService RefundService,
	queryService QueryService,
	logger *slog.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		initService:   initService,
		verifyService: verifyService,
		refundService: refundService,
		queryService:  queryService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// RegisterRoutes mounts the client API. Every route requires a bearer token.
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux, auth *Authenticator) {
	mux.Handle("POST /api/v1/payments/initialize", auth.Require(http.HandlerFunc(h.HandleInitialize)))
	mux.Handle("POST /api/v1/payments/{transactionID}/verify", auth.Require(http.HandlerFunc(h.HandleVerify)))
	mux.Handle("POST /api/v1/payments/{transactionID}/refund", auth.Require(RequireRole(RoleAdmin, h.logger)(http.HandlerFunc(h.HandleRefund))))
	mux.Handle("GET /api/v1/payments/{transactionID}", auth.Require(http.HandlerFunc(h.HandleGetTransaction)))
	mux.Handle("GET /api/v1/payments", auth.Require(http.HandlerFunc(h.HandleListTransactions)))
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness probes. Each named dependency must answer a ping.
func HealthHandler(deps map[string]Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if err := dep.Ping(r.Context()); err != nil {
				logger.Warn("health check failed", "dependency", name, "error", err)
				status[name] = "unavailable"
				healthy = false
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			respondWithJSON(w, http.StatusServiceUnavailable, &APIError{
				Code:    "UNHEALTHY",
				Message: "one or more dependencies are unavailable",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, status)
	}
}
