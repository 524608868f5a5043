package adaptor

import (
	"errors"
	"io"
	"net/http"

	"travel-agency/internal/usecase"
	"travel-agency/pkg/utils"

	"go.uber.org/zap"
)

// Stripe rejects larger event payloads itself.
const maxWebhookBytes = 65536

type WebhookHandler struct {
	reservations usecase.ReservationService
	log          *zap.Logger
}

func NewWebhookHandler(reservations usecase.ReservationService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		reservations: reservations,
		log:          log.With(zap.String("handler", "webhook")),
	}
}

// Stripe handles POST /api/webhooks/stripe. Any 2xx acknowledges the event;
// a 5xx makes the processor retry it.
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		utils.ResponseBadRequest(w, "Unreadable payload", nil)
		return
	}

	err = h.reservations.HandlePaymentWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if errors.Is(err, usecase.ErrValidation) {
		h.log.Warn("Rejected webhook", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid webhook", nil)
		return
	}
	if err != nil {
		h.log.Error("Failed to handle webhook", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	utils.ResponseSuccess(w, "received", nil)
}
