package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/cache"
	"github.com/fekuna/omnipos-retail-service/internal/category"
	"github.com/fekuna/omnipos-retail-service/internal/category/dto"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	cache  cache.Store
	logger logger.ZapLogger
}

// NewCategoryUseCase wires categories. cacheStore may be nil.
func NewCategoryUseCase(repo category.Repository, cacheStore cache.Store, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cache:  cacheStore,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategories(ctx context.Context, inputs []dto.CreateCategoryInput) (int, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return 0, model.ErrForbidden
	}

	var errs error
	created := 0
	for i, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			errs = multierr.Append(errs, &model.ElementError{Index: i, Err: model.ErrInvalidInput})
			continue
		}

		now := time.Now().UTC()
		cat := &model.Category{
			BaseModel: model.BaseModel{
				ID:        uuid.New().String(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Name: name,
		}
		if err := uc.repo.Create(ctx, cat); err != nil {
			uc.logger.Error("failed to create category", zap.String("name", name), zap.Error(err))
			errs = multierr.Append(errs, &model.ElementError{Index: i, Err: err})
			continue
		}
		created++
	}
	return created, errs
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, model.ErrCategoryNotFound
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, error) {
	if filters == nil {
		filters = &dto.CategoryFilters{}
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *categoryUseCase) UpdateCategories(ctx context.Context, inputs []dto.UpdateCategoryInput) ([]model.Category, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return nil, model.ErrForbidden
	}

	var errs error
	updated := make([]model.Category, 0, len(inputs))
	for i, input := range inputs {
		cat, err := uc.update(ctx, input)
		if err != nil {
			errs = multierr.Append(errs, &model.ElementError{Index: i, Err: err})
			continue
		}
		updated = append(updated, *cat)
	}
	return updated, errs
}

func (uc *categoryUseCase) update(ctx context.Context, input dto.UpdateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.ErrInvalidInput
	}
	cat, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	cat.Name = name
	cat.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategories(ctx context.Context, ids []string) (int, error) {
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
	}
	if deleted > 0 {
		// Products of a deleted category become uncategorised
		uc.invalidateProductCache(ctx)
	}
	return deleted, errs
}

func (uc *categoryUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePrefix(ctx, cache.ProductListPrefix); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}
