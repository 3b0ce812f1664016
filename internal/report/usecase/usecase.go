package usecase

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/category"
	categorydto "github.com/fekuna/omnipos-retail-service/internal/category/dto"
	"github.com/fekuna/omnipos-retail-service/internal/ledger"
	ledgerdto "github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/order"
	orderdto "github.com/fekuna/omnipos-retail-service/internal/order/dto"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	productdto "github.com/fekuna/omnipos-retail-service/internal/product/dto"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type reportUseCase struct {
	ledger     ledger.Repository
	orders     order.Repository
	products   product.Repository
	categories category.Repository
	logger     logger.ZapLogger
}

func NewReportUseCase(
	ledgerRepo ledger.Repository,
	orderRepo order.Repository,
	productRepo product.Repository,
	categoryRepo category.Repository,
	log logger.ZapLogger,
) report.UseCase {
	return &reportUseCase{
		ledger:     ledgerRepo,
		orders:     orderRepo,
		products:   productRepo,
		categories: categoryRepo,
		logger:     log,
	}
}

func (uc *reportUseCase) Dashboard(ctx context.Context, window model.DateRange) (*report.Dashboard, error) {
	d, _, err := uc.Snapshot(ctx, window)
	return d, err
}

func (uc *reportUseCase) Snapshot(ctx context.Context, window model.DateRange) (*report.Dashboard, *report.Input, error) {
	if !window.Valid() {
		return nil, nil, model.ErrInvalidInput
	}

	in, err := uc.load(ctx, window)
	if err != nil {
		uc.logger.Error("failed to load report rows", zap.Error(err))
		return nil, nil, err
	}
	d := report.Build(window, *in)
	return &d, in, nil
}

// load reads the six tables concurrently. Revenue is read in full for the
// monthly series.
func (uc *reportUseCase) load(ctx context.Context, window model.DateRange) (*report.Input, error) {
	in := &report.Input{}
	windowed := &ledgerdto.LedgerFilters{Range: window}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.ItemsSold, err = uc.ledger.ListItemsSold(ctx, windowed)
		return err
	})
	g.Go(func() (err error) {
		in.ItemsRestocked, err = uc.ledger.ListItemsRestocked(ctx, windowed)
		return err
	})
	g.Go(func() (err error) {
		in.Revenues, err = uc.ledger.ListRevenues(ctx, &ledgerdto.LedgerFilters{})
		return err
	})
	g.Go(func() (err error) {
		in.Orders, err = uc.orders.FindAll(ctx, &orderdto.OrderFilters{Range: window})
		return err
	})
	g.Go(func() (err error) {
		in.Products, err = uc.products.FindAll(ctx, &productdto.ProductFilters{})
		return err
	})
	g.Go(func() (err error) {
		in.Categories, err = uc.categories.FindAll(ctx, &categorydto.CategoryFilters{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}
