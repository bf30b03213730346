package category

import (
	"context"

	"ms-events/internal/apperror"
	"ms-events/internal/models"
	"ms-events/internal/utils"
	"ms-events/internal/validation"

	"github.com/google/uuid"
)

const notFoundMessage = "category not found"

type CategoryDBLayer interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context, filter models.CategoryFilter) ([]models.Category, int, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id string) (*models.Category, error)
}

type CategoryService struct {
	DB CategoryDBLayer
}

func NewCategoryService(db CategoryDBLayer) *CategoryService {
	return &CategoryService{DB: db}
}

func (s *CategoryService) Create(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	category := &models.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := s.DB.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) FindAll(ctx context.Context, filter models.CategoryFilter) ([]models.Category, models.Pagination, error) {
	filter.PageQuery = filter.PageQuery.Normalize()
	categories, total, err := s.DB.ListCategories(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return categories, models.NewPagination(total, filter.PageQuery), nil
}

func (s *CategoryService) FindOne(ctx context.Context, id string) (*models.Category, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	return s.DB.GetCategoryByID(ctx, id)
}

func (s *CategoryService) Update(ctx context.Context, id string, req models.CategoryRequest) (*models.Category, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	category, err := s.DB.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Description = req.Description
	category.Icon = req.Icon

	if err := s.DB.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Remove(ctx context.Context, id string) (*models.Category, error) {
	if !utils.IsUUID(id) {
		return nil, apperror.NewNotFound(notFoundMessage)
	}
	return s.DB.DeleteCategory(ctx, id)
}
