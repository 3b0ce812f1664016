package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusReceived))
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusPending))
	assert.True(t, OrderStatusReceived.CanTransitionTo(OrderStatusReceived))
	assert.False(t, OrderStatusReceived.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatus("SHIPPED")))
}

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{Quantity: 2, Price: decimal.RequireFromString("1500.50")},
		{Quantity: 3, Price: decimal.NewFromInt(100)},
	}
	assert.True(t, decimal.RequireFromString("3301").Equal(OrderTotal(items)))
	assert.True(t, OrderTotal(nil).IsZero())
}

func TestNetDeltas(t *testing.T) {
	lines := []StockLine{
		{ProductID: "b", Quantity: 2},
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 3},
	}
	got := NetDeltas(lines, -1)
	assert.Equal(t, []StockDelta{{ProductID: "a", Delta: -1}, {ProductID: "b", Delta: -5}}, got)
}

func TestValidateLines(t *testing.T) {
	assert.ErrorIs(t, ValidateLines(nil), ErrEmptyBatch)
	id := uuid.New().String()
	assert.ErrorIs(t, ValidateLines([]StockLine{{ProductID: id, Quantity: 0}}), ErrInvalidQuantity)
	assert.ErrorIs(t, ValidateLines([]StockLine{{Quantity: 1}}), ErrProductNotFound)
	assert.ErrorIs(t, ValidateLines([]StockLine{{ProductID: "sku-1", Quantity: 1}}), ErrProductNotFound)
	assert.NoError(t, ValidateLines([]StockLine{{ProductID: id, Quantity: 1}}))
}

func TestDateRangeContainsIsInclusive(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	r := DateRange{Start: &start, End: &end}

	assert.True(t, r.Contains(start))
	assert.True(t, r.Contains(end))
	assert.False(t, r.Contains(start.Add(-time.Second)))
	assert.False(t, r.Contains(end.Add(time.Second)))
	assert.True(t, DateRange{}.Contains(time.Time{}))
	assert.False(t, DateRange{Start: &end, End: &start}.Valid())
}

func TestIsNotFound(t *testing.T) {
	wrapped := &ElementError{Index: 2, Err: ErrOrderNotFound}
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(ErrInsufficientStock))
	assert.Equal(t, "element 2: order not found", wrapped.Error())
}
