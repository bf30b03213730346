package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"ms-events/internal/models"

	"github.com/shopspring/decimal"
)

// Notifier receives orders rebuilt from the completed-orders topic.
type Notifier interface {
	EmitOrderCompleted(order models.Order)
}

// Order rebuilds the order fields carried on the wire.
func (e OrderEvent) Order() (models.Order, error) {
	total, err := decimal.NewFromString(e.Total)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s: bad total %q: %w", e.OrderID, e.Total, err)
	}
	return models.Order{
		OrderID:   e.OrderID,
		CreatedBy: e.UserID,
		EventID:   e.EventID,
		TicketID:  e.TicketID,
		Quantity:  e.Quantity,
		Total:     total,
		Status:    e.Status,
		Vouchers:  e.Vouchers,
		UpdatedAt: e.OccurredAt,
	}, nil
}

// CompletedRelay hands every order.completed message to n, so each instance
// can push to the SSE clients it holds.
func CompletedRelay(n Notifier) func(ctx context.Context, value []byte) error {
	return func(_ context.Context, value []byte) error {
		var evt OrderEvent
		if err := json.Unmarshal(value, &evt); err != nil {
			return fmt.Errorf("decode order event: %w", err)
		}
		if evt.Status != models.OrderStatusCompleted {
			return nil
		}
		order, err := evt.Order()
		if err != nil {
			return err
		}
		n.EmitOrderCompleted(order)
		return nil
	}
}
