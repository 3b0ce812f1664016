package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/cache"
	"github.com/fekuna/omnipos-retail-service/internal/category/dto"
	"github.com/fekuna/omnipos-retail-service/internal/category/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/memory"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type recordingCache struct {
	mu       sync.Mutex
	prefixes []string
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (c *recordingCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes = append(c.prefixes, prefix)
	return nil
}

func admin() context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: "u-1", Role: auth.RoleAdmin})
}

func TestCreateCategoriesPartial(t *testing.T) {
	uc := usecase.NewCategoryUseCase(memory.NewStore().Categories(), nil, logger.NewNop())

	n, err := uc.CreateCategories(admin(), []dto.CreateCategoryInput{
		{Name: "Drinks"}, {Name: "  "}, {Name: "Snacks"}, {Name: "Drinks"},
	})
	assert.Equal(t, 2, n)
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	var el *model.ElementError
	require.ErrorAs(t, errs[0], &el)
	assert.Equal(t, 1, el.Index)
	require.ErrorAs(t, errs[1], &el)
	assert.Equal(t, 3, el.Index)

	cats, err := uc.ListCategories(admin(), nil)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Drinks", cats[0].Name)
	assert.Equal(t, "Snacks", cats[1].Name)
}

func TestUpdateAndDeleteCategories(t *testing.T) {
	uc := usecase.NewCategoryUseCase(memory.NewStore().Categories(), nil, logger.NewNop())
	_, err := uc.CreateCategories(admin(), []dto.CreateCategoryInput{{Name: "Drinks"}})
	require.NoError(t, err)
	cats, err := uc.ListCategories(admin(), &dto.CategoryFilters{Name: "Drinks"})
	require.NoError(t, err)
	require.Len(t, cats, 1)
	id := cats[0].ID

	updated, err := uc.UpdateCategories(admin(), []dto.UpdateCategoryInput{
		{ID: id, Name: "Beverages"},
		{ID: uuid.New().String(), Name: "Ghost"},
	})
	assert.ErrorIs(t, err, model.ErrCategoryNotFound)
	require.Len(t, updated, 1)
	assert.Equal(t, "Beverages", updated[0].Name)

	n, err := uc.DeleteCategories(admin(), []string{id, id})
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, model.ErrCategoryNotFound)

	_, err = uc.GetCategory(admin(), id)
	assert.ErrorIs(t, err, model.ErrCategoryNotFound)
}

func TestCategoryWritesRequireAdmin(t *testing.T) {
	uc := usecase.NewCategoryUseCase(memory.NewStore().Categories(), nil, logger.NewNop())
	cashier := auth.WithUser(context.Background(), auth.UserContext{UserID: "u-2", Role: auth.RoleCashier})

	_, err := uc.CreateCategories(cashier, []dto.CreateCategoryInput{{Name: "Drinks"}})
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = uc.DeleteCategories(cashier, []string{uuid.New().String()})
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestDeleteCategoriesDropsProductCache(t *testing.T) {
	store := &recordingCache{}
	uc := usecase.NewCategoryUseCase(memory.NewStore().Categories(), store, logger.NewNop())
	_, err := uc.CreateCategories(admin(), []dto.CreateCategoryInput{{Name: "Drinks"}})
	require.NoError(t, err)
	cats, err := uc.ListCategories(admin(), nil)
	require.NoError(t, err)

	// Nothing deleted, nothing to invalidate
	_, err = uc.DeleteCategories(admin(), []string{uuid.New().String()})
	require.Error(t, err)
	assert.Empty(t, store.prefixes)

	n, err := uc.DeleteCategories(admin(), []string{cats[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{cache.ProductListPrefix}, store.prefixes)
}
