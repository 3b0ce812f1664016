package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID  *string
	Name        string
	Description *string
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
	Stock       int // Opening stock, later changes go through the ledger
}

type UpdateProductInput struct {
	ID          string
	CategoryID  *string
	Name        string
	Description *string
	BuyPrice    decimal.Decimal
	SellPrice   decimal.Decimal
}
