package ledger

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type Repository interface {
	// Stock-adjusting batches: rows and stock deltas commit together or not at all.
	RecordItemsSold(ctx context.Context, rows []model.ItemsSold) error
	RecordItemsRestocked(ctx context.Context, rows []model.ItemsRestocked) error
	// RecordCheckout stores a sale and its revenue in one transaction.
	RecordCheckout(ctx context.Context, sold []model.ItemsSold, revenue []model.Revenue) error

	RecordRevenue(ctx context.Context, rows []model.Revenue) error

	ListItemsSold(ctx context.Context, filters *dto.LedgerFilters) ([]model.ItemsSold, error)
	ListItemsRestocked(ctx context.Context, filters *dto.LedgerFilters) ([]model.ItemsRestocked, error)
	ListRevenues(ctx context.Context, filters *dto.LedgerFilters) ([]model.Revenue, error)

	FindItemsSoldByID(ctx context.Context, id string) (*model.ItemsSold, error)
	FindItemsRestockedByID(ctx context.Context, id string) (*model.ItemsRestocked, error)
	FindRevenueByID(ctx context.Context, id string) (*model.Revenue, error)
}
