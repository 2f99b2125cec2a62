package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/coursepay/internal/core/domain"
)

const maxWebhookBytes = 1 << 20

type WebhookResponse struct {
	Outcome       string `json:"outcome" example:"transitioned"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// WebhookHandler receives provider callbacks. It is not behind bearer auth;
// each request is authenticated by the provider's signature.
type WebhookHandler struct {
	processor        WebhookProcessor
	signatureHeaders map[domain.ProviderName]string
	logger           *slog.Logger
}

// NewWebhookHandler takes the signature header of every enabled provider.
// An empty header name means the provider signs inside the body.
func NewWebhookHandler(processor WebhookProcessor, signatureHeaders map[domain.ProviderName]string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor:        processor,
		signatureHeaders: signatureHeaders,
		logger:           logger,
	}
}

func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhooks/{provider}", h.HandleWebhook)
}

// HandleWebhook consumes one provider event
// @Summary      Provider webhook
// @Description  Signature-verified callback. Duplicate and irrelevant events are acknowledged with 200.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        provider  path      string       true  "Provider: stripe, paystack or midtrans"
// @Success      200       {object}  APIResponse
// @Failure      400       {object}  APIResponse  "Malformed payload"
// @Failure      401       {object}  APIResponse  "Invalid signature"
// @Failure      404       {object}  APIResponse  "Provider not enabled"
// @Failure      500       {object}  APIResponse
// @Router       /webhooks/{provider} [post]
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	provider, err := domain.ParseProviderName(r.PathValue("provider"))
	if err != nil {
		respondWithJSON(w, http.StatusNotFound, &APIError{Code: "NOT_FOUND", Message: "unknown webhook endpoint"})
		return
	}
	header, enabled := h.signatureHeaders[provider]
	if !enabled {
		respondWithJSON(w, http.StatusNotFound, &APIError{Code: "NOT_FOUND", Message: "unknown webhook endpoint"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		WriteError(w, domain.NewMalformedPayloadError(err), h.logger)
		return
	}

	var signature string
	if header != "" {
		signature = r.Header.Get(header)
	}

	result, err := h.processor.HandleWebhook(r.Context(), provider, body, signature)
	if err != nil {
		if domain.IsErrorCode(err, domain.ErrCodeSignatureInvalid) {
			h.logger.Warn("webhook signature rejected",
				"provider", provider,
				"remote_addr", r.RemoteAddr)
		}
		WriteError(w, err, h.logger)
		return
	}

	resp := WebhookResponse{Outcome: string(result.Outcome)}
	if result.TransactionID != nil {
		resp.TransactionID = result.TransactionID.String()
	}
	respondWithJSON(w, http.StatusOK, resp)
}
