package analytics

import (
	"context"

	"ms-events/internal/database"
	"ms-events/internal/models"

	"github.com/uptrace/bun"
)

const eventNotFound = "event not found"

// DB handles analytics database operations
type DB struct {
	Bun *bun.DB
}

func NewDB(db *bun.DB) *DB {
	return &DB{Bun: db}
}

// SalesByStatus groups an event's orders by status.
func (db *DB) SalesByStatus(ctx context.Context, eventID string) ([]models.StatusSales, error) {
	var rows []models.StatusSales
	err := db.Bun.NewSelect().
		Model((*models.Order)(nil)).
		ColumnExpr("?TableAlias.status AS status").
		ColumnExpr("COUNT(*) AS orders").
		ColumnExpr("COALESCE(SUM(?TableAlias.quantity), 0) AS tickets").
		ColumnExpr("COALESCE(SUM(?TableAlias.total), 0) AS revenue").
		Where("?TableAlias.event_id = ?", eventID).
		GroupExpr("?TableAlias.status").
		OrderExpr("?TableAlias.status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, database.Translate(err, eventNotFound)
	}
	return rows, nil
}

// SalesByTicket sums completed orders per ticket tier.
func (db *DB) SalesByTicket(ctx context.Context, eventID string) ([]models.TicketSales, error) {
	var rows []models.TicketSales
	err := db.Bun.NewSelect().
		Model((*models.Order)(nil)).
		ColumnExpr("?TableAlias.ticket_id AS ticket_id").
		ColumnExpr("tk.name AS ticket_name").
		ColumnExpr("COALESCE(SUM(?TableAlias.quantity), 0) AS tickets_sold").
		ColumnExpr("COALESCE(SUM(?TableAlias.total), 0) AS revenue").
		Join("JOIN tickets AS tk ON tk.id = ?TableAlias.ticket_id").
		Where("?TableAlias.event_id = ?", eventID).
		Where("?TableAlias.status = ?", models.OrderStatusCompleted).
		GroupExpr("?TableAlias.ticket_id, tk.name").
		OrderExpr("tk.name").
		Scan(ctx, &rows)
	if err != nil {
		return nil, database.Translate(err, eventNotFound)
	}
	return rows, nil
}

// CompletedOrders returns the fields daily bucketing needs, oldest first.
func (db *DB) CompletedOrders(ctx context.Context, eventID string) ([]models.Order, error) {
	var orders []models.Order
	err := db.Bun.NewSelect().
		Model(&orders).
		Column("created_at", "quantity", "total").
		Where("?TableAlias.event_id = ?", eventID).
		Where("?TableAlias.status = ?", models.OrderStatusCompleted).
		OrderExpr("?TableAlias.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, database.Translate(err, eventNotFound)
	}
	return orders, nil
}
