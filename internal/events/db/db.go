package db

import (
	"context"

	"ms-events/internal/apperror"
	"ms-events/internal/database"
	"ms-events/internal/models"

	"github.com/uptrace/bun"
)

const (
	eventNotFound = "event not found"
	eventInUse    = "event still has orders"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateEvent(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewInsert().Model(event).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return apperror.Wrap(apperror.Conflict, "event slug already exists", err)
	}
	return database.Translate(err, eventNotFound)
}

func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	return d.getEvent(ctx, "?TableAlias.id = ?", id)
}

func (d *DB) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return d.getEvent(ctx, "?TableAlias.slug = ?", slug)
}

func (d *DB) getEvent(ctx context.Context, where string, arg interface{}) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Relation("Category").
		Where(where, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, database.Translate(err, eventNotFound)
	}
	return &event, nil
}

func (d *DB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	var events []models.Event
	q := d.Bun.NewSelect().Model(&events)
	q = database.ApplySearch(q, "?TableAlias.name", filter.Search)

	if filter.CategoryID != "" {
		q = q.Where("?TableAlias.category_id = ?", filter.CategoryID)
	}
	if filter.IsPublish != nil {
		q = q.Where("?TableAlias.is_publish = ?", *filter.IsPublish)
	}
	if filter.IsOnline != nil {
		q = q.Where("?TableAlias.is_online = ?", *filter.IsOnline)
	}
	if filter.IsFeatured != nil {
		q = q.Where("?TableAlias.is_featured = ?", *filter.IsFeatured)
	}

	total, err := database.ApplyPage(q, filter.PageQuery).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, database.Translate(err, eventNotFound)
	}
	return events, total, nil
}

func (d *DB) UpdateEvent(ctx context.Context, event *models.Event) error {
	res, err := d.Bun.NewUpdate().
		Model(event).
		Column("name", "slug", "start_date", "end_date", "description", "banner", "category_id",
			"is_online", "is_featured", "is_publish", "location", "updated_at").
		WherePK().
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return apperror.Wrap(apperror.Conflict, "event slug already exists", err)
	}
	if err != nil {
		return database.Translate(err, eventNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound(eventNotFound)
	}
	return nil
}

func (d *DB) DeleteEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := d.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = d.Bun.NewDelete().
		Model((*models.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, database.TranslateDelete(err, eventNotFound, eventInUse)
	}
	return event, nil
}
