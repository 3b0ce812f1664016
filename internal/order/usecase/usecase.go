package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/broker"
	"github.com/fekuna/omnipos-retail-service/internal/cache"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/order"
	"github.com/fekuna/omnipos-retail-service/internal/order/dto"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo      order.Repository
	products  product.Repository
	cache     cache.Store
	publisher broker.Publisher
	logger    logger.ZapLogger
}

// NewOrderUseCase wires supplier orders. cache and publisher may be nil.
func NewOrderUseCase(repo order.Repository, products product.Repository, cacheStore cache.Store, publisher broker.Publisher, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		products:  products,
		cache:     cacheStore,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *orderUseCase) CreateOrders(ctx context.Context, inputs []dto.CreateOrderInput) (int, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return 0, model.ErrForbidden
	}
	if len(inputs) == 0 {
		return 0, model.ErrEmptyBatch
	}

	now := time.Now().UTC()
	orders := make([]model.Order, 0, len(inputs))
	for i, input := range inputs {
		o, err := uc.buildOrder(ctx, input, now)
		if err != nil {
			return 0, &model.ElementError{Index: i, Err: err}
		}
		orders = append(orders, *o)
	}

	if err := uc.repo.CreateWithItems(ctx, orders); err != nil {
		uc.logger.Error("failed to create orders", zap.Int("orders", len(orders)), zap.Error(err))
		return 0, err
	}

	uc.invalidateProductCache(ctx)
	for _, o := range orders {
		uc.publish(ctx, broker.EventOrderCreated, o.ID, o)
	}
	return len(orders), nil
}

// buildOrder validates one order and snapshots unit prices.
func (uc *orderUseCase) buildOrder(ctx context.Context, input dto.CreateOrderInput, now time.Time) (*model.Order, error) {
	lines := make([]model.StockLine, len(input.Items))
	for i, it := range input.Items {
		lines[i] = model.StockLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	if err := model.ValidateLines(lines); err != nil {
		return nil, err
	}

	o := &model.Order{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Status:    model.OrderStatusPending,
		Items:     make([]model.OrderItem, 0, len(input.Items)),
	}
	for _, it := range input.Items {
		p, err := uc.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, errors.Wrapf(model.ErrProductNotFound, "product %s", it.ProductID)
		}

		price := p.BuyPrice
		if it.Price != nil {
			if it.Price.IsNegative() {
				return nil, model.ErrInvalidAmount
			}
			price = *it.Price
		}
		o.Items = append(o.Items, model.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     price,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	o.TotalAmount = model.OrderTotal(o.Items)
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, model.ErrOrderNotFound
	}
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, error) {
	if filters == nil {
		filters = &dto.OrderFilters{}
	}
	if !filters.Range.Valid() {
		return nil, model.ErrInvalidInput
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) UpdateOrders(ctx context.Context, inputs []dto.UpdateOrderInput) ([]model.Order, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return nil, model.ErrForbidden
	}

	var errs error
	updated := make([]model.Order, 0, len(inputs))
	for i, input := range inputs {
		o, err := uc.transition(ctx, input.ID, input.Status)
		if err != nil {
			errs = multierr.Append(errs, &model.ElementError{Index: i, Err: err})
			continue
		}
		updated = append(updated, *o)
	}
	return updated, errs
}

func (uc *orderUseCase) MarkOrderAsReceived(ctx context.Context, id string) (*model.Order, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return nil, model.ErrForbidden
	}
	return uc.transition(ctx, id, model.OrderStatusReceived)
}

// transition applies a status change. Same-state changes succeed without a write.
func (uc *orderUseCase) transition(ctx context.Context, id string, next model.OrderStatus) (*model.Order, error) {
	o, err := uc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, model.ErrInvalidStatus
	}
	if o.Status == next {
		return o, nil
	}

	now := time.Now().UTC()
	if err := uc.repo.UpdateStatus(ctx, id, next, now); err != nil {
		return nil, err
	}
	o.Status = next
	o.UpdatedAt = now

	if next == model.OrderStatusReceived {
		uc.publish(ctx, broker.EventOrderReceived, o.ID, o)
	}
	return o, nil
}

func (uc *orderUseCase) DeleteOrders(ctx context.Context, ids []string) (int, error) {
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
	return deleted, errs
}

func (uc *orderUseCase) UpdateOrderItems(ctx context.Context, inputs []dto.UpdateOrderItemInput) ([]model.OrderItem, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return nil, model.ErrForbidden
	}

	var errs error
	updated := make([]model.OrderItem, 0, len(inputs))
	for i, input := range inputs {
		it, err := uc.updateItem(ctx, input)
		if err != nil {
			errs = multierr.Append(errs, &model.ElementError{Index: i, Err: err})
			continue
		}
		updated = append(updated, *it)
	}
	return updated, errs
}

// updateItem corrects quantity or price. Stock is not re-adjusted.
func (uc *orderUseCase) updateItem(ctx context.Context, input dto.UpdateOrderItemInput) (*model.OrderItem, error) {
	if input.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if input.Price.IsNegative() {
		return nil, model.ErrInvalidAmount
	}

	it, err := uc.repo.FindItemByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, model.ErrOrderItemNotFound
	}

	it.Quantity = input.Quantity
	it.Price = input.Price
	it.UpdatedAt = time.Now().UTC()
	if err := uc.repo.UpdateItem(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (uc *orderUseCase) DeleteOrderItems(ctx context.Context, ids []string) (int, error) {
	if !auth.HasRole(ctx, auth.RoleAdmin) {
		return 0, model.ErrForbidden
	}

	var errs error
	deleted := 0
	for i, id := range ids {
		if err := uc.repo.DeleteItem(ctx, id); err != nil {
			errs = multierr.Append(errs, &model.ElementError{Index: i, Err: err})
			continue
		}
		deleted++
	}
	return deleted, errs
}

func (uc *orderUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePrefix(ctx, cache.ProductListPrefix); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

// publish is fire-and-log: the write already committed.
func (uc *orderUseCase) publish(ctx context.Context, eventType, key string, payload interface{}) {
	if uc.publisher == nil {
		return
	}
	ev, err := broker.NewEvent(eventType, payload)
	if err == nil {
		err = uc.publisher.Publish(ctx, key, ev)
	}
	if err != nil {
		uc.logger.Error("failed to publish order event", zap.String("event_type", eventType), zap.String("order_id", key), zap.Error(err))
	}
}
