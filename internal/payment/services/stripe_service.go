package services

import (
	"context"
	"errors"
	"fmt"

	"ms-events/internal/config"
	"ms-events/internal/logger"
	"ms-events/internal/models"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var (
	ErrStripeAPIError         = errors.New("stripe API error")
	ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")
)

// StripeService creates hosted Checkout Sessions that serve as an order's payment link.
type StripeService struct {
	client *client.API
	cfg    config.PaymentConfig
	log    *logger.Logger
}

func NewStripeService(cfg config.PaymentConfig, log *logger.Logger) (*StripeService, error) {
	if cfg.StripeSecretKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(cfg.StripeSecretKey, nil)
	if sc == nil {
		log.Error("STRIPE", "Failed to initialize Stripe client")
		return nil, ErrStripeClientInitFailed
	}

	log.Info("STRIPE", "Stripe client initialized successfully")
	return &StripeService{client: sc, cfg: cfg, log: log}, nil
}

// amountInMinorUnits converts the ticket price into the smallest currency unit.
func amountInMinorUnits(ticket models.Ticket) int64 {
	return ticket.Price.Shift(2).Round(0).IntPart()
}

func (s *StripeService) CreatePaymentLink(ctx context.Context, order models.Order, ticket models.Ticket) (models.Payment, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		ClientReferenceID: stripe.String(order.OrderID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.cfg.Currency),
					UnitAmount: stripe.Int64(amountInMinorUnits(ticket)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(ticket.Name),
					},
				},
				Quantity: stripe.Int64(int64(order.Quantity)),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", order.OrderID)
	params.AddMetadata("user_id", order.CreatedBy)

	session, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		s.log.Error("STRIPE", fmt.Sprintf("Failed to create checkout session for order %s: %v", order.OrderID, err))
		return models.Payment{}, fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}

	s.log.Info("STRIPE", fmt.Sprintf("Checkout session %s created for order %s", session.ID, order.OrderID))
	return models.Payment{Token: session.ID, RedirectURL: session.URL}, nil
}

// ExpirePaymentLink closes an open Checkout Session so it can no longer be paid.
func (s *StripeService) ExpirePaymentLink(ctx context.Context, token string) error {
	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx

	if _, err := s.client.CheckoutSessions.Expire(token, params); err != nil {
		s.log.Warn("STRIPE", fmt.Sprintf("Failed to expire checkout session %s: %v", token, err))
		return fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}
	return nil
}
