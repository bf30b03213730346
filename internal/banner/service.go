package banner

import (
	"context"

	"ms-events/internal/apperror"
	"ms-events/internal/models"
	"ms-events/internal/utils"
	"ms-events/internal/validation"

	"github.com/google/uuid"
)

const notFoundMessage = "banner not found"

type BannerDBLayer interface {
	CreateBanner(ctx context.Context, banner *models.Banner) error
	GetBannerByID(ctx context.Context, id string) (*models.Banner, error)
	ListBanners(ctx context.Context, filter models.BannerFilter) ([]models.Banner, int, error)
	UpdateBanner(ctx context.Context, banner *models.Banner) error
	DeleteBanner(ctx context.Context, id string) (*models.Banner, error)
}

type BannerService struct {
	DB BannerDBLayer
}

func NewBannerService(db BannerDBLayer) *BannerService {
	return &BannerService{DB: db}
}

func (s *BannerService) Create(ctx context.Context, req models.BannerRequest) (*models.Banner, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	banner := &models.Banner{
		ID:     uuid.NewString(),
		Title:  req.Title,
		Image:  req.Image,
		IsShow: *req.IsShow,
	}
	if err := s.DB.CreateBanner(ctx, banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *BannerService) FindAll(ctx context.Context, filter models.BannerFilter) ([]models.Banner, models.Pagination, error) {
	filter.PageQuery = filter.PageQuery.Normalize()
	banners, total, err := s.DB.ListBanners(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return banners, models.NewPagination(total, filter.PageQuery), nil
}

func (s *BannerService) FindOne(ctx context.Context, id string) (*models.Banner, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	return s.DB.GetBannerByID(ctx, id)
}

func (s *BannerService) Update(ctx context.Context, id string, req models.BannerRequest) (*models.Banner, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	banner, err := s.DB.GetBannerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	banner.Title = req.Title
	banner.Image = req.Image
	banner.IsShow = *req.IsShow

	if err := s.DB.UpdateBanner(ctx, banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *BannerService) Remove(ctx context.Context, id string) (*models.Banner, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	return s.DB.DeleteBanner(ctx, id)
}
