package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/broker"
	"github.com/fekuna/omnipos-retail-service/internal/ledger"
	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/ledger/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/memory"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []broker.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, event broker.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	store *memory.Store
	pub   *recordingPublisher
	uc    ledger.UseCase
}

func newFixture() *fixture {
	s := memory.NewStore()
	pub := &recordingPublisher{}
	return &fixture{store: s, pub: pub, uc: usecase.NewLedgerUseCase(s.Ledger(), nil, pub, logger.NewNop())}
}

func (f *fixture) product(t *testing.T, stock int) string {
	t.Helper()
	p := model.Product{
		BaseModel: model.BaseModel{ID: uuid.New().String()},
		Name:      "Item",
		SellPrice: decimal.NewFromInt(1500),
		Stock:     stock,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), &p))
	return p.ID
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func cashier() context.Context {
	return auth.WithUser(context.Background(), auth.UserContext{UserID: "till-1", Role: auth.RoleCashier})
}

func TestRecordItemsSoldRequiresCashier(t *testing.T) {
	f := newFixture()
	id := f.product(t, 5)

	anon := context.Background()
	_, err := f.uc.RecordItemsSold(anon, []model.StockLine{{ProductID: id, Quantity: 1}})
	assert.ErrorIs(t, err, model.ErrForbidden)
	assert.Equal(t, 5, f.stock(t, id))
}

func TestRecordItemsSoldAndRestocked(t *testing.T) {
	f := newFixture()
	id := f.product(t, 5)

	n, err := f.uc.RecordItemsSold(cashier(), []model.StockLine{{ProductID: id, Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, f.stock(t, id))

	n, err = f.uc.RecordItemsRestocked(cashier(), []model.StockLine{{ProductID: id, Quantity: 10}, {ProductID: id, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 13, f.stock(t, id))

	require.Len(t, f.pub.events, 2)
	assert.Equal(t, broker.EventItemsSold, f.pub.events[0].EventType)
	assert.Equal(t, broker.EventItemsRestocked, f.pub.events[1].EventType)
}

func TestRecordItemsSoldRejectsBadBatches(t *testing.T) {
	f := newFixture()
	id := f.product(t, 5)

	tests := []struct {
		name  string
		lines []model.StockLine
		want  error
	}{
		{"empty", nil, model.ErrEmptyBatch},
		{"zero quantity", []model.StockLine{{ProductID: id, Quantity: 0}}, model.ErrInvalidQuantity},
		{"unknown product", []model.StockLine{{ProductID: id, Quantity: 1}, {ProductID: uuid.New().String(), Quantity: 1}}, model.ErrProductNotFound},
		{"malformed id", []model.StockLine{{ProductID: "nope", Quantity: 1}}, model.ErrProductNotFound},
		{"oversell", []model.StockLine{{ProductID: id, Quantity: 6}}, model.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.RecordItemsSold(cashier(), tt.lines)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 5, f.stock(t, id))
		})
	}
	assert.Empty(t, f.pub.events)
}

func TestRecordRevenue(t *testing.T) {
	f := newFixture()
	day := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)

	n, err := f.uc.RecordRevenue(cashier(), []dto.RevenueInput{
		{Amount: decimal.NewFromInt(1000), Date: &day},
		{Amount: decimal.NewFromInt(250)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	revs, err := f.uc.ListRevenues(cashier(), nil)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.True(t, revs[0].Date.Equal(day))

	_, err = f.uc.RecordRevenue(cashier(), []dto.RevenueInput{{Amount: decimal.NewFromInt(-1)}})
	var elemErr *model.ElementError
	require.ErrorAs(t, err, &elemErr)
	assert.Equal(t, 0, elemErr.Index)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}

func TestCheckoutWritesSaleAndRevenueTogether(t *testing.T) {
	f := newFixture()
	a := f.product(t, 5)
	b := f.product(t, 1)

	res, err := f.uc.Checkout(cashier(), []dto.CheckoutLine{
		{ProductID: a, Quantity: 2, Amount: decimal.NewFromInt(3000)},
		{ProductID: b, Quantity: 1, Amount: decimal.NewFromInt(1500)},
	})
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(4500)))
	assert.Len(t, res.Sold, 2)
	assert.Len(t, res.Revenue, 2)
	assert.Equal(t, 3, f.stock(t, a))
	assert.Equal(t, 0, f.stock(t, b))

	_, err = f.uc.Checkout(cashier(), []dto.CheckoutLine{
		{ProductID: a, Quantity: 1, Amount: decimal.NewFromInt(1500)},
		{ProductID: b, Quantity: 1, Amount: decimal.NewFromInt(1500)},
	})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Equal(t, 3, f.stock(t, a))

	revs, err := f.uc.ListRevenues(cashier(), nil)
	require.NoError(t, err)
	assert.Len(t, revs, 2)
}

func TestGetMapsMissingRowsToNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.GetItemsSold(cashier(), uuid.New().String())
	assert.ErrorIs(t, err, model.ErrItemsSoldNotFound)
	_, err = f.uc.GetItemsRestocked(cashier(), uuid.New().String())
	assert.ErrorIs(t, err, model.ErrRestockNotFound)
	_, err = f.uc.GetRevenue(cashier(), uuid.New().String())
	assert.ErrorIs(t, err, model.ErrRevenueNotFound)
	assert.True(t, model.IsNotFound(err))
}

func TestListRejectsInvertedRange(t *testing.T) {
	f := newFixture()
	start := time.Now()
	end := start.Add(-time.Hour)

	_, err := f.uc.ListItemsSold(cashier(), &dto.LedgerFilters{Range: model.DateRange{Start: &start, End: &end}})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
