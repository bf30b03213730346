package db

import (
	"context"

	"ms-events/internal/apperror"
	"ms-events/internal/database"
	"ms-events/internal/models"

	"github.com/uptrace/bun"
)

const bannerNotFound = "banner not found"

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateBanner(ctx context.Context, banner *models.Banner) error {
	_, err := d.Bun.NewInsert().Model(banner).Exec(ctx)
	return database.Translate(err, bannerNotFound)
}

func (d *DB) GetBannerByID(ctx context.Context, id string) (*models.Banner, error) {
	var banner models.Banner
	err := d.Bun.NewSelect().
		Model(&banner).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, database.Translate(err, bannerNotFound)
	}
	return &banner, nil
}

func (d *DB) ListBanners(ctx context.Context, filter models.BannerFilter) ([]models.Banner, int, error) {
	var banners []models.Banner
	q := d.Bun.NewSelect().Model(&banners)
	q = database.ApplySearch(q, "?TableAlias.title", filter.Search)
	if filter.IsShow != nil {
		q = q.Where("?TableAlias.is_show = ?", *filter.IsShow)
	}

	total, err := database.ApplyPage(q, filter.PageQuery).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, database.Translate(err, bannerNotFound)
	}
	return banners, total, nil
}

func (d *DB) UpdateBanner(ctx context.Context, banner *models.Banner) error {
	res, err := d.Bun.NewUpdate().
		Model(banner).
		Column("title", "image", "is_show", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return database.Translate(err, bannerNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound(bannerNotFound)
	}
	return nil
}

func (d *DB) DeleteBanner(ctx context.Context, id string) (*models.Banner, error) {
	banner, err := d.GetBannerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = d.Bun.NewDelete().
		Model((*models.Banner)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, database.Translate(err, bannerNotFound)
	}
	return banner, nil
}
