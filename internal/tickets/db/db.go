package db

import (
	"context"

	"ms-events/internal/apperror"
	"ms-events/internal/database"
	"ms-events/internal/models"

	"github.com/uptrace/bun"
)

const (
	ticketNotFound = "ticket not found"
	ticketInUse    = "ticket still has orders"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	_, err := d.Bun.NewInsert().Model(ticket).Exec(ctx)
	return database.Translate(err, ticketNotFound)
}

// GetTicketByID loads the ticket with its parent event.
func (d *DB) GetTicketByID(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Relation("Event").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, database.Translate(err, ticketNotFound)
	}
	return &ticket, nil
}

func (d *DB) ListTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, int, error) {
	var tickets []models.Ticket
	q := d.Bun.NewSelect().Model(&tickets).Relation("Event")
	q = database.ApplySearch(q, "?TableAlias.name", filter.Search)
	if filter.EventID != "" {
		q = q.Where("?TableAlias.event_id = ?", filter.EventID)
	}

	total, err := database.ApplyPage(q, filter.PageQuery).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, database.Translate(err, ticketNotFound)
	}
	return tickets, total, nil
}

func (d *DB) UpdateTicket(ctx context.Context, ticket *models.Ticket) error {
	res, err := d.Bun.NewUpdate().
		Model(ticket).
		Column("name", "description", "price", "quantity", "event_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return database.Translate(err, ticketNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound(ticketNotFound)
	}
	return nil
}

func (d *DB) DeleteTicket(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := d.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = d.Bun.NewDelete().
		Model((*models.Ticket)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, database.TranslateDelete(err, ticketNotFound, ticketInUse)
	}
	return ticket, nil
}
