package memory

import (
	"sync"

	"github.com/fekuna/omnipos-retail-service/internal/category"
	"github.com/fekuna/omnipos-retail-service/internal/ledger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/order"
	"github.com/fekuna/omnipos-retail-service/internal/product"
)

var (
	_ category.Repository = (*CategoryRepository)(nil)
	_ product.Repository  = (*ProductRepository)(nil)
	_ order.Repository    = (*OrderRepository)(nil)
	_ ledger.Repository   = (*LedgerRepository)(nil)
)

// Store keeps every table in process memory behind one lock. It backs
// STORAGE_DRIVER=memory and the package tests of the usecases.
type Store struct {
	mu         sync.RWMutex
	categories map[string]model.Category
	products   map[string]model.Product
	orders     map[string]model.Order
	items      map[string]model.OrderItem
	sold       []model.ItemsSold
	restocked  []model.ItemsRestocked
	revenues   []model.Revenue
}

func NewStore() *Store {
	return &Store{
		categories: make(map[string]model.Category),
		products:   make(map[string]model.Product),
		orders:     make(map[string]model.Order),
		items:      make(map[string]model.OrderItem),
	}
}

func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }

func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }

func (s *Store) Ledger() *LedgerRepository { return &LedgerRepository{s: s} }

// applyDeltas checks every delta before touching any stock. Caller holds the
// write lock.
func (s *Store) applyDeltas(deltas []model.StockDelta) error {
	for _, d := range deltas {
		p, ok := s.products[d.ProductID]
		if !ok {
			return model.ErrProductNotFound
		}
		if p.Stock+d.Delta < 0 {
			return model.ErrInsufficientStock
		}
	}
	for _, d := range deltas {
		p := s.products[d.ProductID]
		p.Stock += d.Delta
		s.products[d.ProductID] = p
	}
	return nil
}
