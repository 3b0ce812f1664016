package graph

import (
	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/money"
	"github.com/fekuna/omnipos-retail-service/internal/pos"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	graphql "github.com/graph-gophers/graphql-go"
)

type dashboardResolver struct {
	d *report.Dashboard
	f *money.Formatter
}

func (d *dashboardResolver) UnitsSold() int32                   { return int32(d.d.UnitsSold) }
func (d *dashboardResolver) UnitsRestocked() int32              { return int32(d.d.UnitsRestocked) }
func (d *dashboardResolver) RevenueTotal() string               { return d.d.RevenueTotal.String() }
func (d *dashboardResolver) RevenueTotalFormatted() string      { return d.f.Format(d.d.RevenueTotal) }
func (d *dashboardResolver) OrderCount() int32                  { return int32(d.d.OrderCount) }
func (d *dashboardResolver) AverageOrderValue() string          { return d.d.AverageOrderValue.String() }
func (d *dashboardResolver) AverageOrderValueFormatted() string { return d.f.Format(d.d.AverageOrderValue) }

func (d *dashboardResolver) RevenueByMonth() []*monthRevenueResolver {
	out := make([]*monthRevenueResolver, len(d.d.RevenueByMonth))
	for i, m := range d.d.RevenueByMonth {
		out[i] = &monthRevenueResolver{m: m, f: d.f}
	}
	return out
}

func (d *dashboardResolver) UnitsByCategory() []*categoryUnitsResolver {
	out := make([]*categoryUnitsResolver, len(d.d.UnitsByCategory))
	for i, c := range d.d.UnitsByCategory {
		out[i] = &categoryUnitsResolver{c}
	}
	return out
}

func (d *dashboardResolver) BestSellers() []*productUnitsResolver {
	out := make([]*productUnitsResolver, len(d.d.BestSellers))
	for i, p := range d.d.BestSellers {
		out[i] = &productUnitsResolver{p}
	}
	return out
}

func (d *dashboardResolver) LowStock() []*productStockResolver {
	out := make([]*productStockResolver, len(d.d.LowStock))
	for i, p := range d.d.LowStock {
		out[i] = &productStockResolver{p}
	}
	return out
}

type monthRevenueResolver struct {
	m report.MonthRevenue
	f *money.Formatter
}

func (m *monthRevenueResolver) Year() int32       { return int32(m.m.Year) }
func (m *monthRevenueResolver) Month() int32      { return int32(m.m.Month) }
func (m *monthRevenueResolver) Label() string     { return m.m.Label() }
func (m *monthRevenueResolver) Amount() string    { return m.m.Amount.String() }
func (m *monthRevenueResolver) Formatted() string { return m.f.Format(m.m.Amount) }

type categoryUnitsResolver struct{ c report.CategoryUnits }

func (c *categoryUnitsResolver) CategoryID() graphql.ID { return graphql.ID(c.c.CategoryID) }
func (c *categoryUnitsResolver) Name() string           { return c.c.Name }
func (c *categoryUnitsResolver) Units() int32           { return int32(c.c.Units) }

type productUnitsResolver struct{ p report.ProductUnits }

func (p *productUnitsResolver) ProductID() graphql.ID { return graphql.ID(p.p.ProductID) }
func (p *productUnitsResolver) Name() string          { return p.p.Name }
func (p *productUnitsResolver) Units() int32          { return int32(p.p.Units) }

type productStockResolver struct{ p report.ProductStock }

func (p *productStockResolver) ProductID() graphql.ID { return graphql.ID(p.p.ProductID) }
func (p *productStockResolver) Name() string          { return p.p.Name }
func (p *productStockResolver) Stock() int32          { return int32(p.p.Stock) }

type cartResolver struct {
	s *pos.Session
	f *money.Formatter
}

func (c *cartResolver) TerminalID() string        { return c.s.TerminalID() }
func (c *cartResolver) Subtotal() string          { return c.s.Subtotal().String() }
func (c *cartResolver) SubtotalFormatted() string { return c.f.Format(c.s.Subtotal()) }
func (c *cartResolver) AmountPaid() string        { return c.s.AmountPaid() }
func (c *cartResolver) ChangeDue() string         { return c.s.ChangeDue().String() }
func (c *cartResolver) CanCheckout() bool         { return c.s.CanCheckout() }

func (c *cartResolver) Lines() []*cartLineResolver {
	lines := c.s.Lines()
	out := make([]*cartLineResolver, len(lines))
	for i, l := range lines {
		out[i] = &cartLineResolver{l}
	}
	return out
}

type cartLineResolver struct{ l pos.Line }

func (l *cartLineResolver) ProductID() graphql.ID { return graphql.ID(l.l.ProductID) }
func (l *cartLineResolver) Name() string          { return l.l.Name }
func (l *cartLineResolver) Quantity() int32       { return int32(l.l.Quantity) }
func (l *cartLineResolver) UnitPrice() string     { return l.l.UnitPrice.String() }
func (l *cartLineResolver) Total() string         { return l.l.Total.String() }

type cartResultResolver struct {
	cart   *cartResolver
	notice *string
}

func (c *cartResultResolver) Cart() *cartResolver { return c.cart }
func (c *cartResultResolver) Notice() *string     { return c.notice }

type receiptResolver struct {
	res *dto.CheckoutResult
	r   *Resolver
}

func (r *receiptResolver) Total() string          { return r.res.Total.String() }
func (r *receiptResolver) TotalFormatted() string { return r.r.formatter.Format(r.res.Total) }
func (r *receiptResolver) Sold() []*itemsSoldResolver {
	return r.r.soldList(r.res.Sold)
}
func (r *receiptResolver) Revenue() []*revenueResolver {
	return revenueList(r.res.Revenue)
}
