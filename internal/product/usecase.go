package product

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
)

type UseCase interface {
	CreateProducts(ctx context.Context, inputs []dto.CreateProductInput) (int, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	// GetProducts returns the products that exist among ids. Missing ids are skipped.
	GetProducts(ctx context.Context, ids []string) ([]model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error)
	UpdateProducts(ctx context.Context, inputs []dto.UpdateProductInput) ([]model.Product, error)
	DeleteProducts(ctx context.Context, ids []string) (int, error)
}
