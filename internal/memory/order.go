package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/order/dto"
)

type OrderRepository struct {
	s *Store
}

func (r *OrderRepository) CreateWithItems(ctx context.Context, orders []model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var lines []model.StockLine
	for _, o := range orders {
		for _, it := range o.Items {
			lines = append(lines, model.StockLine{ProductID: it.ProductID, Quantity: it.Quantity})
		}
	}
	if err := r.s.applyDeltas(model.NetDeltas(lines, -1)); err != nil {
		return err
	}

	for _, o := range orders {
		for _, it := range o.Items {
			r.s.items[it.ID] = it
		}
		o.Items = nil
		r.s.orders[o.ID] = o
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Items = r.itemsOf(id)
	return &o, nil
}

func (r *OrderRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, error) {
	if f == nil {
		f = &dto.OrderFilters{}
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Order{}
	for _, o := range r.s.orders {
		if !f.Range.Contains(o.CreatedAt) {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		o.Items = r.itemsOf(o.ID)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// itemsOf returns an order's items oldest first. Caller holds the lock.
func (r *OrderRepository) itemsOf(orderID string) []model.OrderItem {
	items := []model.OrderItem{}
	for _, it := range r.s.items {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	r.s.orders[id] = o
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[id]; !ok {
		return model.ErrOrderNotFound
	}
	delete(r.s.orders, id)
	for itemID, it := range r.s.items {
		if it.OrderID == id {
			delete(r.s.items, itemID)
		}
	}
	return nil
}

func (r *OrderRepository) FindItemByID(ctx context.Context, id string) (*model.OrderItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *OrderRepository) UpdateItem(ctx context.Context, item *model.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.items[item.ID]
	if !ok {
		return model.ErrOrderItemNotFound
	}
	current.Quantity = item.Quantity
	current.Price = item.Price
	current.UpdatedAt = item.UpdatedAt
	r.s.items[item.ID] = current
	r.recomputeTotal(current.OrderID, item.UpdatedAt)
	return nil
}

func (r *OrderRepository) DeleteItem(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	it, ok := r.s.items[id]
	if !ok {
		return model.ErrOrderItemNotFound
	}
	delete(r.s.items, id)
	r.recomputeTotal(it.OrderID, time.Now().UTC())
	return nil
}

func (r *OrderRepository) recomputeTotal(orderID string, at time.Time) {
	o, ok := r.s.orders[orderID]
	if !ok {
		return
	}
	o.TotalAmount = model.OrderTotal(r.itemsOf(orderID))
	o.UpdatedAt = at
	r.s.orders[orderID] = o
}
