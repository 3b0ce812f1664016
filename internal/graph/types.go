package graph

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	productdto "github.com/fekuna/omnipos-retail-service/internal/product/dto"
	graphql "github.com/graph-gophers/graphql-go"
)

type categoryResolver struct {
	c model.Category
	r *Resolver
}

func (c *categoryResolver) ID() graphql.ID           { return graphql.ID(c.c.ID) }
func (c *categoryResolver) Name() string             { return c.c.Name }
func (c *categoryResolver) CreatedAt() graphql.Time { return graphql.Time{Time: c.c.CreatedAt} }
func (c *categoryResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: c.c.UpdatedAt} }

func (c *categoryResolver) Products(ctx context.Context) ([]*productResolver, error) {
	products, err := c.r.products.ListProducts(ctx, &productdto.ProductFilters{CategoryID: c.c.ID})
	if err != nil {
		return nil, newError(err)
	}
	return c.r.productList(products), nil
}

type productResolver struct {
	p model.Product
	r *Resolver
}

func (p *productResolver) ID() graphql.ID            { return graphql.ID(p.p.ID) }
func (p *productResolver) Name() string              { return p.p.Name }
func (p *productResolver) Description() *string      { return p.p.Description }
func (p *productResolver) BuyPrice() string          { return p.p.BuyPrice.String() }
func (p *productResolver) SellPrice() string         { return p.p.SellPrice.String() }
func (p *productResolver) Stock() int32              { return int32(p.p.Stock) }
func (p *productResolver) CreatedAt() graphql.Time  { return graphql.Time{Time: p.p.CreatedAt} }
func (p *productResolver) UpdatedAt() graphql.Time  { return graphql.Time{Time: p.p.UpdatedAt} }

func (p *productResolver) CategoryID() *graphql.ID {
	if p.p.CategoryID == nil {
		return nil
	}
	id := graphql.ID(*p.p.CategoryID)
	return &id
}

func (p *productResolver) Category(ctx context.Context) (*categoryResolver, error) {
	if p.p.CategoryID == nil {
		return nil, nil
	}
	c, err := p.r.categories.GetCategory(ctx, *p.p.CategoryID)
	if err != nil {
		if model.IsNotFound(err) {
			return nil, nil
		}
		return nil, newError(err)
	}
	return &categoryResolver{c: *c, r: p.r}, nil
}

type orderResolver struct {
	o model.Order
	r *Resolver
}

func (o *orderResolver) ID() graphql.ID           { return graphql.ID(o.o.ID) }
func (o *orderResolver) TotalAmount() string      { return o.o.TotalAmount.String() }
func (o *orderResolver) Status() string           { return string(o.o.Status) }
func (o *orderResolver) CreatedAt() graphql.Time { return graphql.Time{Time: o.o.CreatedAt} }
func (o *orderResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: o.o.UpdatedAt} }

func (o *orderResolver) Items() []*orderItemResolver {
	out := make([]*orderItemResolver, len(o.o.Items))
	for i, it := range o.o.Items {
		out[i] = &orderItemResolver{it: it, r: o.r}
	}
	return out
}

type orderItemResolver struct {
	it model.OrderItem
	r  *Resolver
}

func (i *orderItemResolver) ID() graphql.ID           { return graphql.ID(i.it.ID) }
func (i *orderItemResolver) OrderID() graphql.ID      { return graphql.ID(i.it.OrderID) }
func (i *orderItemResolver) ProductID() graphql.ID    { return graphql.ID(i.it.ProductID) }
func (i *orderItemResolver) Quantity() int32          { return int32(i.it.Quantity) }
func (i *orderItemResolver) Price() string            { return i.it.Price.String() }
func (i *orderItemResolver) CreatedAt() graphql.Time { return graphql.Time{Time: i.it.CreatedAt} }
func (i *orderItemResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: i.it.UpdatedAt} }

func (i *orderItemResolver) Product(ctx context.Context) (*productResolver, error) {
	return i.r.lookupProduct(ctx, i.it.ProductID)
}

type itemsSoldResolver struct {
	s model.ItemsSold
	r *Resolver
}

func (s *itemsSoldResolver) ID() graphql.ID           { return graphql.ID(s.s.ID) }
func (s *itemsSoldResolver) ProductID() graphql.ID    { return graphql.ID(s.s.ProductID) }
func (s *itemsSoldResolver) Quantity() int32          { return int32(s.s.Quantity) }
func (s *itemsSoldResolver) CreatedAt() graphql.Time { return graphql.Time{Time: s.s.CreatedAt} }

func (s *itemsSoldResolver) Product(ctx context.Context) (*productResolver, error) {
	return s.r.lookupProduct(ctx, s.s.ProductID)
}

type itemsRestockedResolver struct {
	s model.ItemsRestocked
	r *Resolver
}

func (s *itemsRestockedResolver) ID() graphql.ID           { return graphql.ID(s.s.ID) }
func (s *itemsRestockedResolver) ProductID() graphql.ID    { return graphql.ID(s.s.ProductID) }
func (s *itemsRestockedResolver) Quantity() int32          { return int32(s.s.Quantity) }
func (s *itemsRestockedResolver) CreatedAt() graphql.Time { return graphql.Time{Time: s.s.CreatedAt} }

func (s *itemsRestockedResolver) Product(ctx context.Context) (*productResolver, error) {
	return s.r.lookupProduct(ctx, s.s.ProductID)
}

type revenueResolver struct {
	rev model.Revenue
}

func (r *revenueResolver) ID() graphql.ID           { return graphql.ID(r.rev.ID) }
func (r *revenueResolver) Amount() string           { return r.rev.Amount.String() }
func (r *revenueResolver) Date() graphql.Time      { return graphql.Time{Time: r.rev.Date} }
func (r *revenueResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.rev.CreatedAt} }

// lookupProduct resolves a ledger reference. Deleted products resolve to null.
func (r *Resolver) lookupProduct(ctx context.Context, id string) (*productResolver, error) {
	p, err := r.products.GetProduct(ctx, id)
	if err != nil {
		if model.IsNotFound(err) {
			return nil, nil
		}
		return nil, newError(err)
	}
	return &productResolver{p: *p, r: r}, nil
}

func (r *Resolver) productList(products []model.Product) []*productResolver {
	out := make([]*productResolver, len(products))
	for i, p := range products {
		out[i] = &productResolver{p: p, r: r}
	}
	return out
}

func (r *Resolver) categoryList(categories []model.Category) []*categoryResolver {
	out := make([]*categoryResolver, len(categories))
	for i, c := range categories {
		out[i] = &categoryResolver{c: c, r: r}
	}
	return out
}

func (r *Resolver) orderList(orders []model.Order) []*orderResolver {
	out := make([]*orderResolver, len(orders))
	for i, o := range orders {
		out[i] = &orderResolver{o: o, r: r}
	}
	return out
}

func (r *Resolver) soldList(rows []model.ItemsSold) []*itemsSoldResolver {
	out := make([]*itemsSoldResolver, len(rows))
	for i, s := range rows {
		out[i] = &itemsSoldResolver{s: s, r: r}
	}
	return out
}

func (r *Resolver) restockedList(rows []model.ItemsRestocked) []*itemsRestockedResolver {
	out := make([]*itemsRestockedResolver, len(rows))
	for i, s := range rows {
		out[i] = &itemsRestockedResolver{s: s, r: r}
	}
	return out
}

func revenueList(rows []model.Revenue) []*revenueResolver {
	out := make([]*revenueResolver, len(rows))
	for i, rev := range rows {
		out[i] = &revenueResolver{rev: rev}
	}
	return out
}
