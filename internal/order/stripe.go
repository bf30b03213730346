package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ms-events/internal/apperror"
	"ms-events/internal/models"
	orderdb "ms-events/internal/order/db"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	eventCheckoutCompleted = "checkout.session.completed"
	eventCheckoutExpired   = "checkout.session.expired"
)

// WebhookError represents an error that occurred during webhook processing
type WebhookError struct {
	Category      string // "configuration", "validation", "processing"
	StatusCode    int    // HTTP status code
	PublicError   string // Safe to expose to clients
	InternalError string // Detailed error for logs only
	OriginalErr   error
}

func (e *WebhookError) Error() string {
	return e.InternalError
}

func (e *WebhookError) Unwrap() error {
	return e.OriginalErr
}

// HandleStripeWebhook verifies a Checkout webhook and moves the referenced
// order along: a paid session completes it, an expired one cancels it.
// Replays of an already applied event are accepted silently.
func (s *OrderService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.WebhookSecret == "" {
		s.logger.Error("WEBHOOK", "Stripe webhook secret is not configured")
		return &WebhookError{
			Category:      "configuration",
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Webhook processing error",
			InternalError: "Stripe webhook secret is not configured",
		}
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		s.logger.LogSecurity("WEBHOOK", fmt.Sprintf("signature verification failed: %v", err))
		return &WebhookError{
			Category:      "validation",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid webhook signature",
			InternalError: fmt.Sprintf("Invalid webhook signature: %v", err),
			OriginalErr:   err,
		}
	}

	s.logger.Info("WEBHOOK", fmt.Sprintf("Processing Stripe webhook event: %s", event.Type))

	switch event.Type {
	case eventCheckoutCompleted, eventCheckoutExpired:
	default:
		s.logger.Info("WEBHOOK", fmt.Sprintf("Unhandled event type: %s", event.Type))
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return &WebhookError{
			Category:      "processing",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid event data",
			InternalError: fmt.Sprintf("Failed to unmarshal checkout session: %v", err),
			OriginalErr:   err,
		}
	}

	orderID := session.Metadata["order_id"]
	if orderID == "" {
		orderID = session.ClientReferenceID
	}
	if orderID == "" {
		return &WebhookError{
			Category:      "processing",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid checkout session data",
			InternalError: fmt.Sprintf("checkout session %s has no order reference", session.ID),
		}
	}

	if event.Type == eventCheckoutCompleted {
		_, err = s.Complete(ctx, orderID, session.Metadata["user_id"])
	} else {
		_, err = s.transition(ctx, orderID, models.OrderStatusCancelled, false)
	}
	if err == nil || isReplay(err) {
		s.logger.Info("WEBHOOK", fmt.Sprintf("Processed %s for order %s", event.Type, orderID))
		return nil
	}

	status := http.StatusInternalServerError
	if apperror.Is(err, apperror.NotFound) {
		status = http.StatusNotFound
	} else if apperror.Is(err, apperror.Conflict) {
		status = http.StatusConflict
	}
	s.logger.Error("WEBHOOK", fmt.Sprintf("Failed to apply %s to order %s: %v", event.Type, orderID, err))
	return &WebhookError{
		Category:      "processing",
		StatusCode:    status,
		PublicError:   "Failed to process payment",
		InternalError: fmt.Sprintf("apply %s to order %s: %v", event.Type, orderID, err),
		OriginalErr:   err,
	}
}

// isReplay reports conflicts that mean the event was already applied.
// Every other failure is returned to Stripe so it retries the delivery.
func isReplay(err error) bool {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind != apperror.Conflict {
		return false
	}
	if appErr.Message == orderdb.MsgAlreadyCompleted {
		return true
	}
	for _, status := range []models.OrderStatus{models.OrderStatusPending, models.OrderStatusCancelled} {
		if appErr.Message == fmt.Sprintf(msgCurrentStatus, status) {
			return true
		}
	}
	return false
}
