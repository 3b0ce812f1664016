package pos_test

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	ledgerusecase "github.com/fekuna/omnipos-retail-service/internal/ledger/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/memory"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/pos"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	productusecase "github.com/fekuna/omnipos-retail-service/internal/product/usecase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*pos.Service, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	log := logger.NewNop()
	products := productusecase.NewProductUseCase(s.Products(), s.Categories(), nil, 0, nil, log)
	ledgerUC := ledgerusecase.NewLedgerUseCase(s.Ledger(), nil, nil, log)
	return pos.NewService(pos.NewRegistry(), products, ledgerUC, log), s
}

// countingProducts records how the catalog is read.
type countingProducts struct {
	product.UseCase
	single int
	batch  int
}

func (c *countingProducts) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	c.single++
	return c.UseCase.GetProduct(ctx, id)
}

func (c *countingProducts) GetProducts(ctx context.Context, ids []string) ([]model.Product, error) {
	c.batch++
	return c.UseCase.GetProducts(ctx, ids)
}

func seed(t *testing.T, s *memory.Store, price int64, stock int) string {
	t.Helper()
	p := model.Product{BaseModel: model.BaseModel{ID: uuid.New().String()}, Name: "item", SellPrice: decimal.NewFromInt(price), Stock: stock}
	require.NoError(t, s.Products().Create(context.Background(), &p))
	return p.ID
}

func till() context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: "kasir-1", Role: auth.RoleCashier})
}

func TestServiceCheckout(t *testing.T) {
	svc, store := newService(t)
	ctx := till()
	id := seed(t, store, 2500, 3)

	_, err := svc.Select(ctx, "t1", id)
	require.NoError(t, err)
	_, err = svc.Select(ctx, "t1", id)
	require.NoError(t, err)
	_, err = svc.SetAmountPaid(ctx, "t1", "10000")
	require.NoError(t, err)

	res, err := svc.Checkout(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(5000)))

	p, err := store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)

	revs, err := store.Ledger().ListRevenues(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.True(t, revs[0].Amount.Equal(decimal.NewFromInt(5000)))

	cart, err := svc.Cart(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, cart.Empty())
}

func TestServiceSelectRereadsStock(t *testing.T) {
	svc, store := newService(t)
	ctx := till()
	id := seed(t, store, 1000, 1)

	// Another terminal sells the last unit
	_, err := svc.Select(ctx, "t2", id)
	require.NoError(t, err)
	_, err = svc.SetAmountPaid(ctx, "t2", "1000")
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, "t2")
	require.NoError(t, err)

	sess, err := svc.Select(ctx, "t1", id)
	assert.ErrorIs(t, err, model.ErrOutOfStock)
	assert.True(t, sess.Empty())
}

func TestServiceCheckoutOversellIsRejected(t *testing.T) {
	svc, store := newService(t)
	ctx := till()
	id := seed(t, store, 1000, 2)

	_, err := svc.SetQuantity(ctx, "t1", id, 5)
	require.NoError(t, err)
	_, err = svc.SetAmountPaid(ctx, "t1", "5000")
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, "t1")
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	cart, err := svc.Cart(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Quantity(id))
}

func TestServiceRequiresCashier(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Cart(context.Background(), "t1")
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = svc.Cart(till(), "  ")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestServiceCartRefreshesInOneLookup(t *testing.T) {
	s := memory.NewStore()
	log := logger.NewNop()
	products := &countingProducts{UseCase: productusecase.NewProductUseCase(s.Products(), s.Categories(), nil, 0, nil, log)}
	svc := pos.NewService(pos.NewRegistry(), products, ledgerusecase.NewLedgerUseCase(s.Ledger(), nil, nil, log), log)
	ctx := till()

	kept := seed(t, s, 1000, 5)
	gone := seed(t, s, 2000, 5)
	_, err := svc.Select(ctx, "t1", kept)
	require.NoError(t, err)
	_, err = svc.Select(ctx, "t1", gone)
	require.NoError(t, err)
	require.NoError(t, s.Products().Delete(context.Background(), gone))

	products.single, products.batch = 0, 0
	sess, err := svc.Cart(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 0, products.single)
	assert.Equal(t, 1, products.batch)

	lines := sess.Lines()
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Total.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, lines[1].Name)
	assert.True(t, sess.Subtotal().Equal(decimal.NewFromInt(1000)))
}
