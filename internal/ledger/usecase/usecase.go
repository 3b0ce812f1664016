package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/broker"
	"github.com/fekuna/omnipos-retail-service/internal/cache"
	"github.com/fekuna/omnipos-retail-service/internal/ledger"
	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ledgerUseCase struct {
	repo      ledger.Repository
	cache     cache.Store
	publisher broker.Publisher
	logger    logger.ZapLogger
	now       func() time.Time
}

// NewLedgerUseCase wires the sell-through, restock and revenue ledger. cache and
// publisher may be nil.
func NewLedgerUseCase(repo ledger.Repository, cacheStore cache.Store, publisher broker.Publisher, log logger.ZapLogger) ledger.UseCase {
	return &ledgerUseCase{
		repo:      repo,
		cache:     cacheStore,
		publisher: publisher,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ledgerUseCase) RecordItemsSold(ctx context.Context, lines []model.StockLine) (int, error) {
	if !auth.HasRole(ctx, auth.RoleCashier) {
		return 0, model.ErrForbidden
	}
	if err := model.ValidateLines(lines); err != nil {
		return 0, err
	}

	now := uc.now()
	rows := make([]model.ItemsSold, len(lines))
	for i, l := range lines {
		rows[i] = model.ItemsSold{ID: uuid.New().String(), ProductID: l.ProductID, Quantity: l.Quantity, CreatedAt: now}
	}

	if err := uc.repo.RecordItemsSold(ctx, rows); err != nil {
		uc.logger.Error("failed to record items sold", zap.Int("lines", len(rows)), zap.Error(err))
		return 0, err
	}

	uc.stockChanged(ctx)
	uc.publish(ctx, broker.EventItemsSold, rows)
	return len(rows), nil
}

func (uc *ledgerUseCase) RecordItemsRestocked(ctx context.Context, lines []model.StockLine) (int, error) {
	if !auth.HasRole(ctx, auth.RoleCashier) {
		return 0, model.ErrForbidden
	}
	if err := model.ValidateLines(lines); err != nil {
		return 0, err
	}

	now := uc.now()
	rows := make([]model.ItemsRestocked, len(lines))
	for i, l := range lines {
		rows[i] = model.ItemsRestocked{ID: uuid.New().String(), ProductID: l.ProductID, Quantity: l.Quantity, CreatedAt: now}
	}

	if err := uc.repo.RecordItemsRestocked(ctx, rows); err != nil {
		uc.logger.Error("failed to record items restocked", zap.Int("lines", len(rows)), zap.Error(err))
		return 0, err
	}

	uc.stockChanged(ctx)
	uc.publish(ctx, broker.EventItemsRestocked, rows)
	return len(rows), nil
}

func (uc *ledgerUseCase) RecordRevenue(ctx context.Context, inputs []dto.RevenueInput) (int, error) {
	if !auth.HasRole(ctx, auth.RoleCashier) {
		return 0, model.ErrForbidden
	}
	if len(inputs) == 0 {
		return 0, model.ErrEmptyBatch
	}

	now := uc.now()
	rows := make([]model.Revenue, len(inputs))
	for i, in := range inputs {
		if in.Amount.IsNegative() {
			return 0, &model.ElementError{Index: i, Err: model.ErrInvalidAmount}
		}
		date := now
		if in.Date != nil {
			date = in.Date.UTC()
		}
		rows[i] = model.Revenue{ID: uuid.New().String(), Amount: in.Amount, Date: date, CreatedAt: now}
	}

	if err := uc.repo.RecordRevenue(ctx, rows); err != nil {
		uc.logger.Error("failed to record revenue", zap.Int("rows", len(rows)), zap.Error(err))
		return 0, err
	}

	uc.publish(ctx, broker.EventRevenueRecorded, rows)
	return len(rows), nil
}

// Checkout writes one ItemsSold and one Revenue row per line, all dated now,
// in a single store transaction.
func (uc *ledgerUseCase) Checkout(ctx context.Context, lines []dto.CheckoutLine) (*dto.CheckoutResult, error) {
	if !auth.HasRole(ctx, auth.RoleCashier) {
		return nil, model.ErrForbidden
	}

	stock := make([]model.StockLine, len(lines))
	for i, l := range lines {
		if l.Amount.IsNegative() {
			return nil, model.ErrInvalidAmount
		}
		stock[i] = model.StockLine{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	if err := model.ValidateLines(stock); err != nil {
		return nil, err
	}

	now := uc.now()
	result := &dto.CheckoutResult{
		Sold:    make([]model.ItemsSold, len(lines)),
		Revenue: make([]model.Revenue, len(lines)),
		Total:   decimal.Zero,
	}
	for i, l := range lines {
		result.Sold[i] = model.ItemsSold{ID: uuid.New().String(), ProductID: l.ProductID, Quantity: l.Quantity, CreatedAt: now}
		result.Revenue[i] = model.Revenue{ID: uuid.New().String(), Amount: l.Amount, Date: now, CreatedAt: now}
		result.Total = result.Total.Add(l.Amount)
	}

	if err := uc.repo.RecordCheckout(ctx, result.Sold, result.Revenue); err != nil {
		uc.logger.Error("checkout failed", zap.Int("lines", len(lines)), zap.Error(err))
		return nil, err
	}

	uc.stockChanged(ctx)
	uc.publish(ctx, broker.EventCheckout, result)
	return result, nil
}

func (uc *ledgerUseCase) ListItemsSold(ctx context.Context, filters *dto.LedgerFilters) ([]model.ItemsSold, error) {
	filters, err := normalize(filters)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListItemsSold(ctx, filters)
}

func (uc *ledgerUseCase) ListItemsRestocked(ctx context.Context, filters *dto.LedgerFilters) ([]model.ItemsRestocked, error) {
	filters, err := normalize(filters)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListItemsRestocked(ctx, filters)
}

func (uc *ledgerUseCase) ListRevenues(ctx context.Context, filters *dto.LedgerFilters) ([]model.Revenue, error) {
	filters, err := normalize(filters)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListRevenues(ctx, filters)
}

func (uc *ledgerUseCase) GetItemsSold(ctx context.Context, id string) (*model.ItemsSold, error) {
	row, err := uc.repo.FindItemsSoldByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, model.ErrItemsSoldNotFound
	}
	return row, nil
}

func (uc *ledgerUseCase) GetItemsRestocked(ctx context.Context, id string) (*model.ItemsRestocked, error) {
	row, err := uc.repo.FindItemsRestockedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, model.ErrRestockNotFound
	}
	return row, nil
}

func (uc *ledgerUseCase) GetRevenue(ctx context.Context, id string) (*model.Revenue, error) {
	row, err := uc.repo.FindRevenueByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, model.ErrRevenueNotFound
	}
	return row, nil
}

func normalize(f *dto.LedgerFilters) (*dto.LedgerFilters, error) {
	if f == nil {
		return &dto.LedgerFilters{}, nil
	}
	if !f.Range.Valid() {
		return nil, model.ErrInvalidInput
	}
	return f, nil
}

// stockChanged drops cached product listings, they carry stock.
func (uc *ledgerUseCase) stockChanged(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePrefix(ctx, cache.ProductListPrefix); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *ledgerUseCase) publish(ctx context.Context, eventType string, payload interface{}) {
	if uc.publisher == nil {
		return
	}
	ev, err := broker.NewEvent(eventType, payload)
	if err == nil {
		err = uc.publisher.Publish(ctx, eventType, ev)
	}
	if err != nil {
		uc.logger.Error("failed to publish ledger event", zap.String("event_type", eventType), zap.Error(err))
	}
}
