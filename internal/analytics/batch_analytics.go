package analytics

import (
	"context"
	"fmt"

	"ms-events/internal/models"
	"ms-events/internal/validation"

	"github.com/shopspring/decimal"
)

// BatchEventSales aggregates several events at once. Duplicate ids are counted once
// and every event must exist.
func (s *Service) BatchEventSales(ctx context.Context, req models.BatchSalesRequest) (*models.BatchSales, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(req.EventIDs))
	result := &models.BatchSales{
		EventIDs: make([]string, 0, len(req.EventIDs)),
		Revenue:  decimal.Zero,
		Events:   make([]models.EventSales, 0, len(req.EventIDs)),
	}
	for _, id := range req.EventIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		sales, err := s.EventSales(ctx, id)
		if err != nil {
			return nil, err
		}
		result.EventIDs = append(result.EventIDs, id)
		result.TicketsSold += sales.TicketsSold
		result.Revenue = result.Revenue.Add(sales.Revenue)
		result.Events = append(result.Events, *sales)
	}

	s.logger.Info("ANALYTICS", fmt.Sprintf("Batch analytics for %d events", len(result.EventIDs)))
	return result, nil
}
