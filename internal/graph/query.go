package graph

import (
	"context"

	categorydto "github.com/fekuna/omnipos-retail-service/internal/category/dto"
	ledgerdto "github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	orderdto "github.com/fekuna/omnipos-retail-service/internal/order/dto"
	productdto "github.com/fekuna/omnipos-retail-service/internal/product/dto"
	graphql "github.com/graph-gophers/graphql-go"
)

// lookupError turns a not-found lookup into a null result.
func lookupError(err error) error {
	if model.IsNotFound(err) {
		return nil
	}
	return newError(err)
}

func (r *Resolver) Categories(ctx context.Context, args struct{ Name *string }) ([]*categoryResolver, error) {
	filters := &categorydto.CategoryFilters{}
	if args.Name != nil {
		filters.Name = *args.Name
	}
	categories, err := r.categories.ListCategories(ctx, filters)
	if err != nil {
		return nil, newError(err)
	}
	return r.categoryList(categories), nil
}

func (r *Resolver) Category(ctx context.Context, args struct{ ID graphql.ID }) (*categoryResolver, error) {
	c, err := r.categories.GetCategory(ctx, string(args.ID))
	if err != nil {
		return nil, lookupError(err)
	}
	return &categoryResolver{c: *c, r: r}, nil
}

func (r *Resolver) Products(ctx context.Context, args struct {
	Search     *string
	CategoryID *graphql.ID
	SortBy     *string
	SortOrder  *string
}) ([]*productResolver, error) {
	filters := &productdto.ProductFilters{CategoryID: str(args.CategoryID)}
	if args.Search != nil {
		filters.SearchQuery = *args.Search
	}
	if args.SortBy != nil {
		filters.SortBy = *args.SortBy
	}
	if args.SortOrder != nil {
		filters.SortOrder = *args.SortOrder
	}
	products, err := r.products.ListProducts(ctx, filters)
	if err != nil {
		return nil, newError(err)
	}
	return r.productList(products), nil
}

func (r *Resolver) Product(ctx context.Context, args struct{ ID graphql.ID }) (*productResolver, error) {
	p, err := r.products.GetProduct(ctx, string(args.ID))
	if err != nil {
		return nil, lookupError(err)
	}
	return &productResolver{p: *p, r: r}, nil
}

func (r *Resolver) Orders(ctx context.Context, args struct {
	StartDate *graphql.Time
	EndDate   *graphql.Time
	Status    *string
}) ([]*orderResolver, error) {
	filters := &orderdto.OrderFilters{Range: window(args.StartDate, args.EndDate)}
	if args.Status != nil {
		filters.Status = model.OrderStatus(*args.Status)
	}
	orders, err := r.orders.ListOrders(ctx, filters)
	if err != nil {
		return nil, newError(err)
	}
	return r.orderList(orders), nil
}

func (r *Resolver) Order(ctx context.Context, args struct{ ID graphql.ID }) (*orderResolver, error) {
	o, err := r.orders.GetOrder(ctx, string(args.ID))
	if err != nil {
		return nil, lookupError(err)
	}
	return &orderResolver{o: *o, r: r}, nil
}

type ledgerArgs struct {
	StartDate *graphql.Time
	EndDate   *graphql.Time
	ProductID *graphql.ID
}

func (a ledgerArgs) filters() *ledgerdto.LedgerFilters {
	return &ledgerdto.LedgerFilters{Range: window(a.StartDate, a.EndDate), ProductID: str(a.ProductID)}
}

func (r *Resolver) ItemsSold(ctx context.Context, args ledgerArgs) ([]*itemsSoldResolver, error) {
	rows, err := r.ledger.ListItemsSold(ctx, args.filters())
	if err != nil {
		return nil, newError(err)
	}
	return r.soldList(rows), nil
}

func (r *Resolver) ItemSold(ctx context.Context, args struct{ ID graphql.ID }) (*itemsSoldResolver, error) {
	row, err := r.ledger.GetItemsSold(ctx, string(args.ID))
	if err != nil {
		return nil, lookupError(err)
	}
	return &itemsSoldResolver{s: *row, r: r}, nil
}

func (r *Resolver) ItemsRestocked(ctx context.Context, args ledgerArgs) ([]*itemsRestockedResolver, error) {
	rows, err := r.ledger.ListItemsRestocked(ctx, args.filters())
	if err != nil {
		return nil, newError(err)
	}
	return r.restockedList(rows), nil
}

func (r *Resolver) ItemRestocked(ctx context.Context, args struct{ ID graphql.ID }) (*itemsRestockedResolver, error) {
	row, err := r.ledger.GetItemsRestocked(ctx, string(args.ID))
	if err != nil {
		return nil, lookupError(err)
	}
	return &itemsRestockedResolver{s: *row, r: r}, nil
}

func (r *Resolver) Revenues(ctx context.Context, args struct {
	StartDate *graphql.Time
	EndDate   *graphql.Time
}) ([]*revenueResolver, error) {
	rows, err := r.ledger.ListRevenues(ctx, &ledgerdto.LedgerFilters{Range: window(args.StartDate, args.EndDate)})
	if err != nil {
		return nil, newError(err)
	}
	return revenueList(rows), nil
}

func (r *Resolver) Revenue(ctx context.Context, args struct{ ID graphql.ID }) (*revenueResolver, error) {
	row, err := r.ledger.GetRevenue(ctx, string(args.ID))
	if err != nil {
		return nil, lookupError(err)
	}
	return &revenueResolver{rev: *row}, nil
}

func (r *Resolver) Dashboard(ctx context.Context, args struct {
	StartDate *graphql.Time
	EndDate   *graphql.Time
}) (*dashboardResolver, error) {
	d, err := r.reports.Dashboard(ctx, window(args.StartDate, args.EndDate))
	if err != nil {
		return nil, newError(err)
	}
	return &dashboardResolver{d: d, f: r.formatter}, nil
}

func (r *Resolver) Cart(ctx context.Context, args struct{ TerminalID string }) (*cartResolver, error) {
	sess, err := r.pos.Cart(ctx, args.TerminalID)
	if err != nil {
		return nil, newError(err)
	}
	return &cartResolver{s: sess, f: r.formatter}, nil
}
