package memory

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type LedgerRepository struct {
	s *Store
}

func soldLines(rows []model.ItemsSold) []model.StockLine {
	lines := make([]model.StockLine, len(rows))
	for i, r := range rows {
		lines[i] = model.StockLine{ProductID: r.ProductID, Quantity: r.Quantity}
	}
	return lines
}

func (r *LedgerRepository) RecordItemsSold(ctx context.Context, rows []model.ItemsSold) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.applyDeltas(model.NetDeltas(soldLines(rows), -1)); err != nil {
		return err
	}
	r.s.sold = append(r.s.sold, rows...)
	return nil
}

func (r *LedgerRepository) RecordItemsRestocked(ctx context.Context, rows []model.ItemsRestocked) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	lines := make([]model.StockLine, len(rows))
	for i, row := range rows {
		lines[i] = model.StockLine{ProductID: row.ProductID, Quantity: row.Quantity}
	}
	if err := r.s.applyDeltas(model.NetDeltas(lines, 1)); err != nil {
		return err
	}
	r.s.restocked = append(r.s.restocked, rows...)
	return nil
}

func (r *LedgerRepository) RecordCheckout(ctx context.Context, sold []model.ItemsSold, revenue []model.Revenue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.applyDeltas(model.NetDeltas(soldLines(sold), -1)); err != nil {
		return err
	}
	r.s.sold = append(r.s.sold, sold...)
	r.s.revenues = append(r.s.revenues, revenue...)
	return nil
}

func (r *LedgerRepository) RecordRevenue(ctx context.Context, rows []model.Revenue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.revenues = append(r.s.revenues, rows...)
	return nil
}

func (r *LedgerRepository) ListItemsSold(ctx context.Context, f *dto.LedgerFilters) ([]model.ItemsSold, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.ItemsSold{}
	for _, row := range r.s.sold {
		if keep(f, row.CreatedAt, row.ProductID) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return before(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (r *LedgerRepository) ListItemsRestocked(ctx context.Context, f *dto.LedgerFilters) ([]model.ItemsRestocked, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.ItemsRestocked{}
	for _, row := range r.s.restocked {
		if keep(f, row.CreatedAt, row.ProductID) {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return before(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

// ListRevenues filters on the revenue date. Revenue has no product.
func (r *LedgerRepository) ListRevenues(ctx context.Context, f *dto.LedgerFilters) ([]model.Revenue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []model.Revenue{}
	for _, row := range r.s.revenues {
		if keep(f, row.Date, "") {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return before(out[i].Date, out[i].ID, out[j].Date, out[j].ID) })
	return out, nil
}

func keep(f *dto.LedgerFilters, at time.Time, productID string) bool {
	if f == nil {
		return true
	}
	if !f.Range.Contains(at) {
		return false
	}
	return f.ProductID == "" || productID == "" || productID == f.ProductID
}

func before(a time.Time, aID string, b time.Time, bID string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return aID < bID
}

func (r *LedgerRepository) FindItemsSoldByID(ctx context.Context, id string) (*model.ItemsSold, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.sold {
		if row.ID == id {
			return &row, nil
		}
	}
	return nil, nil
}

func (r *LedgerRepository) FindItemsRestockedByID(ctx context.Context, id string) (*model.ItemsRestocked, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.restocked {
		if row.ID == id {
			return &row, nil
		}
	}
	return nil, nil
}

func (r *LedgerRepository) FindRevenueByID(ctx context.Context, id string) (*model.Revenue, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.revenues {
		if row.ID == id {
			return &row, nil
		}
	}
	return nil, nil
}
