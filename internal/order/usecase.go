package order

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/order/dto"
)

type UseCase interface {
	CreateOrders(ctx context.Context, inputs []dto.CreateOrderInput) (int, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, error)
	UpdateOrders(ctx context.Context, inputs []dto.UpdateOrderInput) ([]model.Order, error)
	DeleteOrders(ctx context.Context, ids []string) (int, error)
	MarkOrderAsReceived(ctx context.Context, id string) (*model.Order, error)

	UpdateOrderItems(ctx context.Context, inputs []dto.UpdateOrderItemInput) ([]model.OrderItem, error)
	DeleteOrderItems(ctx context.Context, ids []string) (int, error)
}
