package ledger

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type UseCase interface {
	RecordItemsSold(ctx context.Context, lines []model.StockLine) (int, error)
	RecordItemsRestocked(ctx context.Context, lines []model.StockLine) (int, error)
	RecordRevenue(ctx context.Context, inputs []dto.RevenueInput) (int, error)
	Checkout(ctx context.Context, lines []dto.CheckoutLine) (*dto.CheckoutResult, error)

	ListItemsSold(ctx context.Context, filters *dto.LedgerFilters) ([]model.ItemsSold, error)
	ListItemsRestocked(ctx context.Context, filters *dto.LedgerFilters) ([]model.ItemsRestocked, error)
	ListRevenues(ctx context.Context, filters *dto.LedgerFilters) ([]model.Revenue, error)

	GetItemsSold(ctx context.Context, id string) (*model.ItemsSold, error)
	GetItemsRestocked(ctx context.Context, id string) (*model.ItemsRestocked, error)
	GetRevenue(ctx context.Context, id string) (*model.Revenue, error)
}
