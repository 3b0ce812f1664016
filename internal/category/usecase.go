package category

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/category/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type UseCase interface {
	CreateCategories(ctx context.Context, inputs []dto.CreateCategoryInput) (int, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error)
	UpdateCategories(ctx context.Context, inputs []dto.UpdateCategoryInput) ([]model.Category, error)
	DeleteCategories(ctx context.Context, ids []string) (int, error)
}
