package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
	"github.com/DanielPopoola/coursepay/internal/core/service"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

const maxBodyBytes = 64 << 10

type InitializeRequest struct {
	CourseID string  `json:"course_id" validate:"required" example:"go-concurrency"`
	Currency string  `json:"currency" validate:"required,len=3" example:"NGN"`
	Provider *string `json:"provider,omitempty" example:"paystack"`
}

type VerifyRequest struct {
	Provider *string `json:"provider,omitempty" example:"stripe"`
}

type RefundRequest struct {
	Reason string `json:"reason" validate:"max=500" example:"requested by customer"`
}

// HandleInitialize starts or resumes a payment for a course
// @Summary      Initialize a course payment
// @Description  Creates a pending transaction and a provider intent, or returns the caller's active one for the same course.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      InitializeRequest  true  "Course and currency"
// @Success      201      {object}  APIResponse        "Transaction with client secret or authorization URL"
// @Failure      400      {object}  APIResponse        "Invalid request or unsupported currency"
// @Failure      401      {object}  APIResponse        "Missing or invalid token"
// @Failure      409      {object}  APIResponse        "Already enrolled"
// @Failure      422      {object}  APIResponse        "Course not purchasable or provider rejected"
// @Failure      502      {object}  APIResponse        "Provider unavailable"
// @Router       /api/v1/payments/initialize [post]
func (h *PaymentHandler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())

	var req InitializeRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		WriteError(w, err, h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, domain.NewValidationError(err.Error()), h.logger)
		return
	}

	hint, err := parseProvider(req.Provider)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	tx, err := h.initService.Initialize(r.Context(), service.InitializeCommand{
		UserID:        principal.UserID,
		CourseID:      req.CourseID,
		Currency:      req.Currency,
		CustomerEmail: principal.Email,
		ProviderHint:  hint,
	})
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// HandleVerify asks the provider for the latest status of the caller's transaction
// @Summary      Verify a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transactionID  path      string         true   "Transaction ID"  format(uuid)
// @Param        request        body      VerifyRequest  false  "Optional provider the client paid with"
// @Success      200            {object}  APIResponse
// @Failure      400            {object}  APIResponse
// @Failure      404            {object}  APIResponse
// @Failure      502            {object}  APIResponse
// @Router       /api/v1/payments/{transactionID}/verify [post]
func (h *PaymentHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())

	id, err := transactionIDParam(r)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	var req VerifyRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err, h.logger)
		return
	}
	provider, err := parseProvider(req.Provider)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	tx, err := h.verifyService.VerifyTransaction(r.Context(), service.VerifyCommand{
		TransactionID: id,
		UserID:        principal.UserID,
		Provider:      provider,
	})
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// HandleRefund refunds a completed transaction in full
// @Summary      Refund a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        transactionID  path      string         true   "Transaction ID"  format(uuid)
// @Param        request        body      RefundRequest  false  "Refund reason"
// @Success      200            {object}  APIResponse
// @Failure      403            {object}  APIResponse  "Admin role required"
// @Failure      404            {object}  APIResponse
// @Failure      409            {object}  APIResponse  "Transaction is not completed"
// @Failure      502            {object}  APIResponse
// @Router       /api/v1/payments/{transactionID}/refund [post]
func (h *PaymentHandler) HandleRefund(w http.ResponseWriter, r *http.Request) {
	id, err := transactionIDParam(r)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	var req RefundRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		WriteError(w, err, h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteError(w, domain.NewValidationError(err.Error()), h.logger)
		return
	}

	tx, err := h.refundService.Refund(r.Context(), service.RefundCommand{
		TransactionID: id,
		Reason:        req.Reason,
	})
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// HandleGetTransaction returns one transaction
// @Summary      Get a transaction
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        transactionID  path      string  true  "Transaction ID"  format(uuid)
// @Success      200            {object}  APIResponse
// @Failure      404            {object}  APIResponse
// @Router       /api/v1/payments/{transactionID} [get]
func (h *PaymentHandler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())

	id, err := transactionIDParam(r)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	tx, err := h.queryService.GetTransaction(r.Context(), id)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	if tx.UserID != principal.UserID && !principal.IsAdmin() {
		WriteError(w, domain.NewTransactionNotFoundError(id.String()), h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// HandleListTransactions lists the caller's transactions, newest first
// @Summary      List transactions
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        limit    query     int     false  "Page size (max 100)"
// @Param        offset   query     int     false  "Rows to skip"
// @Param        status   query     string  false  "Filter by status"
// @Param        user_id  query     string  false  "Admin only: list another user's transactions"
// @Success      200      {object}  APIResponse
// @Failure      400      {object}  APIResponse
// @Router       /api/v1/payments [get]
func (h *PaymentHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFrom(r.Context())
	query := r.URL.Query()

	var (
		limit, offset  *int
		status, userID *string
	)
	for name, dest := range map[string]interface{}{
		"limit":   &limit,
		"offset":  &offset,
		"status":  &status,
		"user_id": &userID,
	} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			WriteError(w, domain.NewValidationError(err.Error()), h.logger)
			return
		}
	}

	filter := domain.TransactionFilter{UserID: principal.UserID}
	if principal.IsAdmin() {
		filter.UserID = ""
		if userID != nil {
			filter.UserID = *userID
		}
	}
	if status != nil {
		filter.Status = domain.TransactionStatus(*status)
	}
	if limit != nil {
		filter.Limit = *limit
	}
	if offset != nil {
		filter.Offset = *offset
	}

	txs, total, err := h.queryService.ListTransactions(r.Context(), filter)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	items := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, toTransactionResponse(tx))
	}

	pageSize := filter.Limit
	if pageSize <= 0 {
		pageSize = service.DefaultPageSize
	}
	if pageSize > service.MaxPageSize {
		pageSize = service.MaxPageSize
	}
	respondWithJSON(w, http.StatusOK, TransactionListResponse{
		Transactions: items,
		Total:        total,
		Limit:        pageSize,
		Offset:       filter.Offset,
	})
}

func transactionIDParam(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "transactionID", r.PathValue("transactionID"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return uuid.Nil, domain.NewValidationError("transactionID must be a UUID")
	}
	return id, nil
}

func parseProvider(raw *string) (*domain.ProviderName, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	name, err := domain.ParseProviderName(*raw)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

// decodeBody reads a JSON body into dst. An empty body is accepted unless required.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}, required bool) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return domain.NewValidationError("request body too large or unreadable")
	}
	if len(body) == 0 {
		if required {
			return domain.NewValidationError("request body is required")
		}
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.NewValidationError("invalid JSON body: " + err.Error())
	}
	return nil
}
