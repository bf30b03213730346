package order_api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"ms-events/internal/order"
	"ms-events/internal/utils"
)

const maxWebhookBytes = 64 << 10

// StripeWebhook handles webhook events from Stripe
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("StripeWebhook: failed to read payload: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{Message: "Invalid webhook payload"})
		return
	}

	err = h.OrderService.HandleStripeWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		var webhookErr *order.WebhookError
		if errors.As(err, &webhookErr) {
			h.Logger.Warn("API", fmt.Sprintf("StripeWebhook: category=%s status=%d: %s",
				webhookErr.Category, webhookErr.StatusCode, webhookErr.InternalError))
			utils.WriteJSON(w, webhookErr.StatusCode, utils.Envelope{Message: webhookErr.PublicError})
			return
		}
		utils.WriteError(w, err, "Webhook processing error")
		return
	}

	utils.WriteSuccess(w, nil, "Webhook received")
}
