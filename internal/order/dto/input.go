package dto

import (
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

type CreateOrderInput struct {
	Items []CreateOrderItemInput
}

type CreateOrderItemInput struct {
	ProductID string
	Quantity  int
	Price     *decimal.Decimal // Nil snapshots the product's current buy price
}

type UpdateOrderInput struct {
	ID     string
	Status model.OrderStatus
}

type UpdateOrderItemInput struct {
	ID       string
	Quantity int
	Price    decimal.Decimal
}
