package db

import (
	"context"

	"ms-events/internal/apperror"
	"ms-events/internal/database"
	"ms-events/internal/models"

	"github.com/uptrace/bun"
)

const (
	categoryNotFound = "category not found"
	categoryInUse    = "category is still used by events"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateCategory(ctx context.Context, category *models.Category) error {
	_, err := d.Bun.NewInsert().Model(category).Exec(ctx)
	return database.Translate(err, categoryNotFound)
}

func (d *DB) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := d.Bun.NewSelect().
		Model(&category).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, database.Translate(err, categoryNotFound)
	}
	return &category, nil
}

func (d *DB) ListCategories(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error) {
	var categories []models.Category
	q := d.Bun.NewSelect().Model(&categories)
	q = database.ApplySearch(q, "?TableAlias.name", filter.Search)
	total, err := database.ApplyPage(q, filter.PageQuery).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, database.Translate(err, categoryNotFound)
	}
	return categories, total, nil
}

func (d *DB) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := d.Bun.NewUpdate().
		Model(category).
		Column("name", "description", "icon", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return database.Translate(err, categoryNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound(categoryNotFound)
	}
	return nil
}

// DeleteCategory returns the row as it was before removal.
func (d *DB) DeleteCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := d.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = d.Bun.NewDelete().
		Model((*models.Category)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, database.TranslateDelete(err, categoryNotFound, categoryInUse)
	}
	return category, nil
}
