package pos

import (
	"context"
	"sync"

	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

// Checkouter records a finished sale. ledger.UseCase satisfies it.
type Checkouter interface {
	Checkout(ctx context.Context, lines []dto.CheckoutLine) (*dto.CheckoutResult, error)
}

// OutOfStockError names the product that could not be added.
type OutOfStockError struct {
	Product model.Product
}

func (e *OutOfStockError) Error() string {
	return e.Product.Name + ": " + model.ErrOutOfStock.Error()
}

func (e *OutOfStockError) Unwrap() error { return model.ErrOutOfStock }

type Line struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Session is one terminal's cart. Quantities are not bounded here, the ledger
// enforces stock when the cart is checked out.
type Session struct {
	mu         sync.Mutex
	terminalID string
	quantities map[string]int
	order      []string
	amountPaid string
	products   map[string]model.Product
}

func NewSession(terminalID string) *Session {
	return &Session{
		terminalID: terminalID,
		quantities: make(map[string]int),
		amountPaid: "0",
		products:   make(map[string]model.Product),
	}
}

func (s *Session) TerminalID() string { return s.terminalID }

// Select adds one unit of p. Out of stock products leave the cart untouched.
func (s *Session) Select(p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = p
	if p.Stock <= 0 {
		return &OutOfStockError{Product: p}
	}
	if _, ok := s.quantities[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.quantities[p.ID]++
	return nil
}

func (s *Session) SetQuantity(productID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quantities[productID]; !ok {
		s.order = append(s.order, productID)
	}
	s.quantities[productID] = n
}

func (s *Session) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quantities[productID]; !ok {
		return
	}
	delete(s.quantities, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Session) SetAmountPaid(amount string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.amountPaid = amount
}

func (s *Session) AmountPaid() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amountPaid
}

// Refresh replaces the known product list used for pricing. Products missing
// from the list no longer resolve and price at zero.
func (s *Session) Refresh(products []model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make(map[string]model.Product, len(products))
	for _, p := range products {
		s.products[p.ID] = p
	}
}

// ProductIDs returns the cart keys in the order they were added.
func (s *Session) ProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func (s *Session) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quantities[productID]
}

func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quantities) == 0
}

func (s *Session) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lines()
}

func (s *Session) lines() []Line {
	out := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		qty := s.quantities[id]
		line := Line{ProductID: id, Quantity: qty, UnitPrice: decimal.Zero, Total: decimal.Zero}
		if p, ok := s.products[id]; ok {
			line.Name = p.Name
			line.UnitPrice = p.SellPrice
			line.Total = p.SellPrice.Mul(decimal.NewFromInt(int64(qty)))
		}
		out = append(out, line)
	}
	return out
}

func (s *Session) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotal()
}

func (s *Session) subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines() {
		total = total.Add(l.Total)
	}
	return total
}

// paid parses amountPaid. Anything unparsable counts as nothing paid.
func (s *Session) paid() decimal.Decimal {
	d, err := decimal.NewFromString(s.amountPaid)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (s *Session) ChangeDue() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := s.paid().Sub(s.subtotal())
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

func (s *Session) CanCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkable() == nil
}

func (s *Session) checkable() error {
	if len(s.quantities) == 0 {
		return model.ErrEmptyCart
	}
	if s.paid().LessThan(s.subtotal()) {
		return model.ErrInsufficientPayment
	}
	return nil
}

// Checkout records one sold line and one revenue row per cart entry, then
// clears the cart. A failed checkout leaves the cart as it was.
func (s *Session) Checkout(ctx context.Context, ledger Checkouter) (*dto.CheckoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkable(); err != nil {
		return nil, err
	}

	lines := s.lines()
	req := make([]dto.CheckoutLine, len(lines))
	for i, l := range lines {
		req[i] = dto.CheckoutLine{ProductID: l.ProductID, Quantity: l.Quantity, Amount: l.Total}
	}

	res, err := ledger.Checkout(ctx, req)
	if err != nil {
		return nil, err
	}

	s.quantities = make(map[string]int)
	s.order = nil
	s.amountPaid = "0"
	return res, nil
}
