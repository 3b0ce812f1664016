package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/order/dto"
)

type Repository interface {
	// CreateWithItems inserts the orders with their items and decrements stock
	// for every item. The whole call commits or nothing does.
	CreateWithItems(ctx context.Context, orders []model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error
	Delete(ctx context.Context, id string) error

	FindItemByID(ctx context.Context, id string) (*model.OrderItem, error)
	// UpdateItem and DeleteItem recompute the owning order's total.
	UpdateItem(ctx context.Context, item *model.OrderItem) error
	DeleteItem(ctx context.Context, id string) error
}
