package events

import (
	"context"
	"strings"

	"ms-events/internal/apperror"
	"ms-events/internal/models"
	"ms-events/internal/utils"
	"ms-events/internal/validation"

	"github.com/google/uuid"
)

const notFoundMessage = "event not found"

type EventDBLayer interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*models.Event, error)
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id string) (*models.Event, error)
}

// CategoryReader confirms an event's category exists.
type CategoryReader interface {
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
}

type EventService struct {
	DB         EventDBLayer
	Categories CategoryReader
}

func NewEventService(db EventDBLayer, categories CategoryReader) *EventService {
	return &EventService{DB: db, Categories: categories}
}

func (s *EventService) Create(ctx context.Context, userID string, req models.EventRequest) (*models.Event, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = models.Slugify(req.Name)
	}

	event := &models.Event{
		ID:        uuid.NewString(),
		Slug:      slug,
		CreatedBy: userID,
	}
	apply(event, req)

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) checkCategory(ctx context.Context, categoryID string) error {
	if s.Categories == nil {
		return nil
	}
	if _, err := s.Categories.GetCategoryByID(ctx, categoryID); err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return apperror.NewValidation("category not found",
				apperror.FieldError{Field: "category", Message: "category not found"})
		}
		return err
	}
	return nil
}

func apply(event *models.Event, req models.EventRequest) {
	event.Name = req.Name
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	event.Description = req.Description
	event.Banner = req.Banner
	event.CategoryID = req.CategoryID
	event.Location = req.Location
	if req.IsOnline != nil {
		event.IsOnline = *req.IsOnline
	}
	if req.IsFeatured != nil {
		event.IsFeatured = *req.IsFeatured
	}
	if req.IsPublish != nil {
		event.IsPublish = *req.IsPublish
	}
}

func (s *EventService) FindAll(ctx context.Context, filter models.EventFilter) ([]models.Event, models.Pagination, error) {
	filter.PageQuery = filter.PageQuery.Normalize()
	if filter.CategoryID != "" && !utils.IsUUID(filter.CategoryID) {
		return []models.Event{}, models.NewPagination(0, filter.PageQuery), nil
	}
	events, total, err := s.DB.ListEvents(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return events, models.NewPagination(total, filter.PageQuery), nil
}

func (s *EventService) FindOne(ctx context.Context, id string) (*models.Event, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	return s.DB.GetEventByID(ctx, id)
}

func (s *EventService) FindOneBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	return s.DB.GetEventBySlug(ctx, slug)
}

// Update keeps the stored slug unless the request names a new one.
func (s *EventService) Update(ctx context.Context, id string, req models.EventRequest) (*models.Event, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.CategoryID != req.CategoryID {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		event.Category = nil
	}

	apply(event, req)
	if slug := strings.TrimSpace(req.Slug); slug != "" {
		event.Slug = slug
	}

	if err := s.DB.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Remove(ctx context.Context, id string) (*models.Event, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	return s.DB.DeleteEvent(ctx, id)
}
