package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	CategoryID  *string         `db:"category_id" json:"category_id"` // Nullable
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	BuyPrice    decimal.Decimal `db:"buy_price" json:"buy_price"`
	SellPrice   decimal.Decimal `db:"sell_price" json:"sell_price"`
	// Stock changes only through ledger batches (sale, restock, order items).
	Stock int `db:"stock" json:"stock"`
}

// InCategory reports whether the product belongs to categoryID.
func (p Product) InCategory(categoryID string) bool {
	return p.CategoryID != nil && *p.CategoryID == categoryID
}
