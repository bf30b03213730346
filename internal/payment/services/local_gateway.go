package services

import (
	"context"
	"net/url"

	"ms-events/internal/models"
)

// LocalGateway stands in for Stripe when no secret key is configured. The
// payment link points straight at the success page.
type LocalGateway struct {
	SuccessURL string
}

func (g LocalGateway) CreatePaymentLink(_ context.Context, order models.Order, _ models.Ticket) (models.Payment, error) {
	redirect := g.SuccessURL
	if u, err := url.Parse(g.SuccessURL); err == nil {
		q := u.Query()
		q.Set("order_id", order.OrderID)
		u.RawQuery = q.Encode()
		redirect = u.String()
	}
	return models.Payment{Token: "local_" + order.OrderID, RedirectURL: redirect}, nil
}

func (LocalGateway) ExpirePaymentLink(context.Context, string) error { return nil }
