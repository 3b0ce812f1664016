package dto

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

type RevenueInput struct {
	Amount decimal.Decimal
	Date   *time.Time // Nil means now
}

// CheckoutLine is one cart entry priced at checkout time.
type CheckoutLine struct {
	ProductID string
	Quantity  int
	Amount    decimal.Decimal // sellPrice x quantity
}

type CheckoutResult struct {
	Sold    []model.ItemsSold
	Revenue []model.Revenue
	Total   decimal.Decimal
}
