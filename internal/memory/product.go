package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/product/dto"
)

type ProductRepository struct {
	s *Store
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.Stock < 0 {
		return model.ErrInvalidQuantity
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Product{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		p, ok := r.s.products[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, error) {
	if f == nil {
		f = &dto.ProductFilters{}
	}
	search := strings.ToLower(f.SearchQuery)

	r.s.mu.RLock()
	out := []model.Product{}
	for _, p := range r.s.products {
		if f.CategoryID != "" && !p.InCategory(f.CategoryID) {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		out = append(out, p)
	}
	r.s.mu.RUnlock()

	desc := strings.ToLower(f.SortOrder) == "desc"
	sort.Slice(out, func(i, j int) bool {
		c := compareProducts(out[i], out[j], f.SortBy)
		if c == 0 {
			return out[i].ID < out[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out, nil
}

func matches(p model.Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) {
		return true
	}
	return p.Description != nil && strings.Contains(strings.ToLower(*p.Description), search)
}

func compareProducts(a, b model.Product, sortBy string) int {
	switch sortBy {
	case "stock":
		return a.Stock - b.Stock
	case "sell_price":
		return a.SellPrice.Cmp(b.SellPrice)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.products[p.ID]
	if !ok {
		return model.ErrProductNotFound
	}
	updated := *p
	updated.Stock = current.Stock
	updated.CreatedAt = current.CreatedAt
	r.s.products[p.ID] = updated
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return model.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}
