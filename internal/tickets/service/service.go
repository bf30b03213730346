package tickets

import (
	"context"

	"ms-events/internal/apperror"
	"ms-events/internal/models"
	"ms-events/internal/utils"
	"ms-events/internal/validation"

	"github.com/google/uuid"
)

const notFoundMessage = "ticket not found"

type TicketDBLayer interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicketByID(ctx context.Context, id string) (*models.Ticket, error)
	ListTickets(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, int, error)
	UpdateTicket(ctx context.Context, ticket *models.Ticket) error
	DeleteTicket(ctx context.Context, id string) (*models.Ticket, error)
}

// EventReader confirms a ticket's parent event exists.
type EventReader interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type TicketService struct {
	DB     TicketDBLayer
	Events EventReader
}

func NewTicketService(db TicketDBLayer, events EventReader) *TicketService {
	return &TicketService{DB: db, Events: events}
}

func (s *TicketService) Create(ctx context.Context, req models.TicketRequest) (*models.Ticket, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	event, err := s.checkEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		EventID:     req.EventID,
	}
	if err := s.DB.CreateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	ticket.Event = event
	return ticket, nil
}

func (s *TicketService) checkEvent(ctx context.Context, eventID string) (*models.Event, error) {
	if s.Events == nil {
		return nil, nil
	}
	event, err := s.Events.GetEventByID(ctx, eventID)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return nil, apperror.NewValidation("event not found",
				apperror.FieldError{Field: "events", Message: "event not found"})
		}
		return nil, err
	}
	return event, nil
}

func (s *TicketService) FindAll(ctx context.Context, filter models.TicketFilter) ([]models.Ticket, models.Pagination, error) {
	filter.PageQuery = filter.PageQuery.Normalize()
	tickets, total, err := s.DB.ListTickets(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return tickets, models.NewPagination(total, filter.PageQuery), nil
}

// FindAllByEvent lists the tickets on sale for one event.
func (s *TicketService) FindAllByEvent(ctx context.Context, eventID string, page models.PageQuery) ([]models.Ticket, models.Pagination, error) {
	page = page.Normalize()
	if !utils.IsUUID(eventID) {
		return []models.Ticket{}, models.NewPagination(0, page), nil
	}
	return s.FindAll(ctx, models.TicketFilter{PageQuery: page, EventID: eventID})
}

func (s *TicketService) FindOne(ctx context.Context, id string) (*models.Ticket, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	return s.DB.GetTicketByID(ctx, id)
}

func (s *TicketService) Update(ctx context.Context, id string, req models.TicketRequest) (*models.Ticket, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ticket, err := s.DB.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.EventID != req.EventID {
		event, err := s.checkEvent(ctx, req.EventID)
		if err != nil {
			return nil, err
		}
		ticket.Event = event
	}

	ticket.Name = req.Name
	ticket.Description = req.Description
	ticket.Price = req.Price
	ticket.Quantity = req.Quantity
	ticket.EventID = req.EventID

	if err := s.DB.UpdateTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) Remove(ctx context.Context, id string) (*models.Ticket, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	return s.DB.DeleteTicket(ctx, id)
}
