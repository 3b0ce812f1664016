package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
	ErrItemsSoldNotFound = errors.New("items sold record not found")
	ErrRestockNotFound   = errors.New("items restocked record not found")
	ErrRevenueNotFound   = errors.New("revenue record not found")

	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be a positive number")
	ErrEmptyBatch        = errors.New("batch must contain at least one entry")
	ErrInvalidAmount     = errors.New("amount must be a non-negative number")
	ErrInvalidStatus     = errors.New("invalid order status transition")
	ErrInvalidInput      = errors.New("invalid input")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("amount paid is less than the subtotal")
	ErrOutOfStock          = errors.New("product is out of stock")
)

// IsNotFound matches every not-found sentinel.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrCategoryNotFound, ErrProductNotFound, ErrOrderNotFound,
		ErrOrderItemNotFound, ErrItemsSoldNotFound, ErrRestockNotFound, ErrRevenueNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ElementError ties a failure to its position in a bulk request.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error { return e.Err }
