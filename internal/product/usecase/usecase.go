package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/cache"
	"github.com/fekuna/omnipos-retail-service/internal/category"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo     product.Repository
	catRepo  category.Repository
	cache    cache.Store
	cacheTTL time.Duration
	index    product.SearchIndex
	logger   logger.ZapLogger
}

// NewProductUseCase wires the catalog. cache and index may be nil.
func NewProductUseCase(
	repo product.Repository,
	catRepo category.Repository,
	cacheStore cache.Store,
	cacheTTL time.Duration,
	index product.SearchIndex,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:     repo,
		catRepo:  catRepo,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
		index:    index,
		logger:   log,
	}
}

func (uc *productUseCase) CreateProducts(ctx context.Context, inputs []dto.CreateProductInput) (int, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return 0, model.ErrForbidden
	}

	var errs error
	created := 0
	for i, input := range inputs {
		p, err := uc.create(ctx, input)
		if err != nil {
			errs = multierr.Append(errs, &model.ElementError{Index: i, Err: err})
			continue
		}
		created++
		go uc.syncToIndex(context.Background(), p)
	}

	if created > 0 {
		uc.invalidateProductCache(ctx)
	}
	return created, errs
}

func (uc *productUseCase) create(ctx context.Context, input dto.CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.ErrInvalidInput
	}
	if input.Stock < 0 {
		return nil, model.ErrInvalidQuantity
	}
	if input.BuyPrice.IsNegative() || input.SellPrice.IsNegative() {
		return nil, model.ErrInvalidAmount
	}
	categoryID, err := uc.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:  categoryID,
		Name:        name,
		Description: input.Description,
		BuyPrice:    input.BuyPrice,
		SellPrice:   input.SellPrice,
		Stock:       input.Stock,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		uc.logger.Error("failed to create product", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// resolveCategory treats an empty id as "no category".
func (uc *productUseCase) resolveCategory(ctx context.Context, id *string) (*string, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	cat, err := uc.catRepo.FindByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, model.ErrCategoryNotFound
	}
	catID := cat.ID
	return &catID, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, model.ErrProductNotFound
	}
	return p, nil
}

func (uc *productUseCase) GetProducts(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	return uc.repo.FindByIDs(ctx, ids)
}

type cachedList struct {
	Products []model.Product
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}

	// 1. Search via index when a query is present
	if filters.SearchQuery != "" && uc.index != nil {
		ids, err := uc.index.SearchProducts(ctx, filters.SearchQuery, filters.CategoryID)
		if err == nil {
			return uc.loadInOrder(ctx, ids)
		}
		// If the index fails, fall through to DB
		uc.logger.Error("product search failed, falling back to DB", zap.Error(err))
	}

	// 2. Check cache
	cacheKey, err := uc.generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, hit, err := uc.cache.Get(ctx, cacheKey)
		if err != nil {
			uc.logger.Warn("product cache read failed", zap.Error(err))
		}
		if hit {
			var result cachedList
			if err := json.Unmarshal(val, &result); err == nil {
				return result.Products, nil
			}
		}
	}

	// 3. DB query
	products, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	// 4. Set cache
	if cacheKey != "" && uc.cache != nil {
		if data, err := json.Marshal(cachedList{Products: products}); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, uc.cacheTTL); err != nil {
				uc.logger.Warn("product cache write failed", zap.Error(err))
			}
		}
	}
	return products, nil
}

// loadInOrder reads fresh rows for index hits, keeping relevance order and
// dropping ids the database no longer has.
func (uc *productUseCase) loadInOrder(ctx context.Context, ids []string) ([]model.Product, error) {
	products, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", cache.ProductListPrefix, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePrefix(ctx, cache.ProductListPrefix); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) syncToIndex(ctx context.Context, p *model.Product) {
	if uc.index == nil {
		return
	}
	if err := uc.index.IndexProduct(ctx, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) UpdateProducts(ctx context.Context, inputs []dto.UpdateProductInput) ([]model.Product, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return nil, model.ErrForbidden
	}

	var errs error
	updated := make([]model.Product, 0, len(inputs))
	for i, input := range inputs {
		p, err := uc.update(ctx, input)
		if err != nil {
			errs = multierr.Append(errs, &model.ElementError{Index: i, Err: err})
			continue
		}
		updated = append(updated, *p)
		go uc.syncToIndex(context.Background(), p)
	}

	if len(updated) > 0 {
		uc.invalidateProductCache(ctx)
	}
	return updated, errs
}

func (uc *productUseCase) update(ctx context.Context, input dto.UpdateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.ErrInvalidInput
	}
	if input.BuyPrice.IsNegative() || input.SellPrice.IsNegative() {
		return nil, model.ErrInvalidAmount
	}

	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	categoryID, err := uc.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.Description = input.Description
	p.BuyPrice = input.BuyPrice
	p.SellPrice = input.SellPrice
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) DeleteProducts(ctx context.Context, ids []string) (int, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return 0, model.ErrForbidden
	}

	var errs error
	deleted := 0
	for i, id := range ids {
		if err := uc.repo.Delete(ctx, id); err != nil {
			errs = multierr.Append(errs, &model.ElementError{Index: i, Err: err})
			continue
		}
		deleted++

		if uc.index != nil {
			go func(id string) {
				if err := uc.index.DeleteProduct(context.Background(), id); err != nil {
					uc.logger.Error("failed to delete product from index", zap.String("product_id", id), zap.Error(err))
				}
			}(id)
		}
	}

	if deleted > 0 {
		uc.invalidateProductCache(ctx)
	}
	return deleted, errs
}
