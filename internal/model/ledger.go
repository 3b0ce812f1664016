package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLine is one entry of a stock-adjusting batch.
type StockLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type ItemsSold struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ItemsRestocked struct {
	ID        string    `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Revenue struct {
	ID        string          `db:"id" json:"id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Date      time.Time       `db:"date" json:"date"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// StockDelta is the signed change applied to a product's stock by one ledger row.
type StockDelta struct {
	ProductID string
	Delta     int
}
