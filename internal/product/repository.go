package product

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	// Update never touches stock.
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
}

// SearchIndex is an optional full-text index over product names and descriptions.
type SearchIndex interface {
	IndexProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, text, categoryID string) ([]string, error)
}
