package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-retail-service/internal/category/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/pkg/errors"
)

type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return errors.Wrapf(model.ErrInvalidInput, "category %q already exists", c.Name)
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Category{}
	for _, c := range r.s.categories {
		if f != nil && f.Name != "" && c.Name != f.Name {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[c.ID]; !ok {
		return model.ErrCategoryNotFound
	}
	for id, existing := range r.s.categories {
		if id != c.ID && existing.Name == c.Name {
			return errors.Wrapf(model.ErrInvalidInput, "category %q already exists", c.Name)
		}
	}
	r.s.categories[c.ID] = *c
	return nil
}

// Delete leaves the category's products uncategorised.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return model.ErrCategoryNotFound
	}
	delete(r.s.categories, id)
	for pid, p := range r.s.products {
		if p.InCategory(id) {
			p.CategoryID = nil
			r.s.products[pid] = p
		}
	}
	return nil
}
