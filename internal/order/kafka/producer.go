package kafka

import (
	"context"
	"time"

	"ms-events/internal/config"
	"ms-events/internal/kafka"
	"ms-events/internal/models"
)

// OrderEvent is the message body for every order topic.
type OrderEvent struct {
	Type       string             `json:"type"`
	OrderID    string             `json:"orderId"`
	UserID     string             `json:"userId"`
	EventID    string             `json:"eventId"`
	TicketID   string             `json:"ticketId"`
	Quantity   int                `json:"quantity"`
	Total      string             `json:"total"`
	Status     models.OrderStatus `json:"status"`
	Vouchers   []models.Voucher   `json:"vouchers,omitempty"`
	OccurredAt time.Time          `json:"occurredAt"`
}

func NewOrderEvent(eventType string, order models.Order) OrderEvent {
	return OrderEvent{
		Type:       eventType,
		OrderID:    order.OrderID,
		UserID:     order.CreatedBy,
		EventID:    order.EventID,
		TicketID:   order.TicketID,
		Quantity:   order.Quantity,
		Total:      order.Total.StringFixed(2),
		Status:     order.Status,
		Vouchers:   order.Vouchers,
		OccurredAt: time.Now().UTC(),
	}
}

// Producer streams order lifecycle events, keyed by order id so one order's
// events stay on one partition.
type Producer struct {
	Publisher kafka.Publisher
	Topics    config.TopicConfig
}

func NewProducer(publisher kafka.Publisher, topics config.TopicConfig) *Producer {
	return &Producer{Publisher: publisher, Topics: topics}
}

func (p *Producer) PublishOrderCreated(ctx context.Context, order models.Order) error {
	return p.publish(ctx, p.Topics.OrderCreated, "order.created", order)
}

func (p *Producer) PublishOrderCompleted(ctx context.Context, order models.Order) error {
	return p.publish(ctx, p.Topics.OrderCompleted, "order.completed", order)
}

func (p *Producer) PublishOrderCancelled(ctx context.Context, order models.Order) error {
	return p.publish(ctx, p.Topics.OrderCancelled, "order.cancelled", order)
}

func (p *Producer) publish(ctx context.Context, topic, eventType string, order models.Order) error {
	return kafka.PublishJSON(ctx, p.Publisher, topic, order.OrderID, NewOrderEvent(eventType, order))
}
