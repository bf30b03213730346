package analytics

import (
	"context"
	"fmt"

	"ms-events/internal/apperror"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"

	"github.com/shopspring/decimal"
)

// SalesStore is the query surface the analytics service reads from.
type SalesStore interface {
	SalesByStatus(ctx context.Context, eventID string) ([]models.StatusSales, error)
	SalesByTicket(ctx context.Context, eventID string) ([]models.TicketSales, error)
	CompletedOrders(ctx context.Context, eventID string) ([]models.Order, error)
}

type EventReader interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

// Service handles analytics operations
type Service struct {
	Store  SalesStore
	Events EventReader
	logger *logger.Logger
}

// NewService creates a new analytics service
func NewService(store SalesStore, events EventReader, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{Store: store, Events: events, logger: log}
}

// EventSales aggregates the orders of a single event.
func (s *Service) EventSales(ctx context.Context, eventID string) (*models.EventSales, error) {
	if !utils.IsUUID(eventID) {
		return nil, apperror.NewNotFound(eventNotFound)
	}
	if _, err := s.Events.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.aggregate(ctx, eventID)
}

func (s *Service) aggregate(ctx context.Context, eventID string) (*models.EventSales, error) {
	byStatus, err := s.Store.SalesByStatus(ctx, eventID)
	if err != nil {
		return nil, err
	}
	byTicket, err := s.Store.SalesByTicket(ctx, eventID)
	if err != nil {
		return nil, err
	}
	completed, err := s.Store.CompletedOrders(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := &models.EventSales{
		EventID:  eventID,
		Revenue:  decimal.Zero,
		ByStatus: byStatus,
		ByTicket: byTicket,
		Daily:    dailySales(completed),
	}
	if result.ByStatus == nil {
		result.ByStatus = []models.StatusSales{}
	}
	if result.ByTicket == nil {
		result.ByTicket = []models.TicketSales{}
	}
	for _, row := range byStatus {
		if row.Status == models.OrderStatusCompleted {
			result.TicketsSold = row.Tickets
			result.Revenue = row.Revenue
		}
	}

	s.logger.Debug("ANALYTICS", fmt.Sprintf("Event %s: %d tickets sold, revenue %s",
		eventID, result.TicketsSold, result.Revenue.String()))
	return result, nil
}

// dailySales buckets orders by UTC calendar day; input must be sorted by creation time.
func dailySales(orders []models.Order) []models.DailySales {
	days := []models.DailySales{}
	for _, o := range orders {
		day := o.CreatedAt.UTC().Format("2006-01-02")
		if n := len(days); n > 0 && days[n-1].Date == day {
			days[n-1].TicketsSold += o.Quantity
			days[n-1].Revenue = days[n-1].Revenue.Add(o.Total)
			continue
		}
		days = append(days, models.DailySales{Date: day, TicketsSold: o.Quantity, Revenue: o.Total})
	}
	return days
}
