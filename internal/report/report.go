package report

import (
	"sort"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

// TopN bounds the best-seller and low-stock rankings.
const TopN = 3

// Input is the raw material of a dashboard. Ledger rows may reach outside the
// window; Build filters them.
type Input struct {
	ItemsSold      []model.ItemsSold
	ItemsRestocked []model.ItemsRestocked
	Revenues       []model.Revenue
	Orders         []model.Order
	Products       []model.Product
	Categories     []model.Category
}

type MonthRevenue struct {
	Year   int
	Month  time.Month
	Amount decimal.Decimal
}

// Label is the short month name, "Jan".
func (m MonthRevenue) Label() string {
	return m.Month.String()[:3]
}

type CategoryUnits struct {
	CategoryID string
	Name       string
	Units      int
}

type ProductUnits struct {
	ProductID string
	Name      string
	Units     int
}

type ProductStock struct {
	ProductID string
	Name      string
	Stock     int
}

type Dashboard struct {
	Window            model.DateRange
	UnitsSold         int
	UnitsRestocked    int
	RevenueTotal      decimal.Decimal
	RevenueByMonth    []MonthRevenue
	UnitsByCategory   []CategoryUnits
	BestSellers       []ProductUnits
	LowStock          []ProductStock
	OrderCount        int
	AverageOrderValue decimal.Decimal
}

// Build aggregates in over window. Revenue by month ignores window and covers
// the full history.
func Build(window model.DateRange, in Input) Dashboard {
	products := make(map[string]model.Product, len(in.Products))
	for _, p := range in.Products {
		products[p.ID] = p
	}

	d := Dashboard{
		Window:         window,
		RevenueTotal:   decimal.Zero,
		RevenueByMonth: revenueByMonth(in.Revenues),
		LowStock:       lowStock(in.Products),
	}

	// Sold rows whose product is gone are dropped, not counted as zero
	sold := make([]model.ItemsSold, 0, len(in.ItemsSold))
	for _, row := range in.ItemsSold {
		if _, ok := products[row.ProductID]; ok && window.Contains(row.CreatedAt) {
			sold = append(sold, row)
			d.UnitsSold += row.Quantity
		}
	}

	for _, row := range in.ItemsRestocked {
		if window.Contains(row.CreatedAt) {
			d.UnitsRestocked += row.Quantity
		}
	}

	for _, row := range in.Revenues {
		if window.Contains(row.Date) {
			d.RevenueTotal = d.RevenueTotal.Add(row.Amount)
		}
	}

	d.UnitsByCategory = unitsByCategory(in.Categories, products, sold)
	d.BestSellers = bestSellers(products, sold)
	d.OrderCount, d.AverageOrderValue = averageOrderValue(window, in.Orders)
	return d
}

func revenueByMonth(rows []model.Revenue) []MonthRevenue {
	type key struct {
		year  int
		month time.Month
	}
	sums := map[key]decimal.Decimal{}
	for _, r := range rows {
		k := key{r.Date.Year(), r.Date.Month()}
		if cur, ok := sums[k]; ok {
			sums[k] = cur.Add(r.Amount)
		} else {
			sums[k] = r.Amount
		}
	}

	out := make([]MonthRevenue, 0, len(sums))
	for k, amount := range sums {
		out = append(out, MonthRevenue{Year: k.year, Month: k.month, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// unitsByCategory lists every category, including those with nothing sold.
func unitsByCategory(categories []model.Category, products map[string]model.Product, sold []model.ItemsSold) []CategoryUnits {
	out := make([]CategoryUnits, len(categories))
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		out[i] = CategoryUnits{CategoryID: c.ID, Name: c.Name}
		index[c.ID] = i
	}
	for _, row := range sold {
		p := products[row.ProductID]
		if p.CategoryID == nil {
			continue
		}
		if i, ok := index[*p.CategoryID]; ok {
			out[i].Units += row.Quantity
		}
	}
	return out
}

func bestSellers(products map[string]model.Product, sold []model.ItemsSold) []ProductUnits {
	units := map[string]int{}
	for _, row := range sold {
		units[row.ProductID] += row.Quantity
	}

	out := make([]ProductUnits, 0, len(units))
	for id, n := range units {
		out = append(out, ProductUnits{ProductID: id, Name: products[id].Name, Units: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

// lowStock keeps input order among equal stock levels.
func lowStock(products []model.Product) []ProductStock {
	out := make([]ProductStock, len(products))
	for i, p := range products {
		out[i] = ProductStock{ProductID: p.ID, Name: p.Name, Stock: p.Stock}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	if len(out) > TopN {
		out = out[:TopN]
	}
	return out
}

func averageOrderValue(window model.DateRange, orders []model.Order) (int, decimal.Decimal) {
	count := 0
	total := decimal.Zero
	for _, o := range orders {
		if window.Contains(o.CreatedAt) {
			count++
			total = total.Add(o.TotalAmount)
		}
	}
	if count == 0 {
		return 0, decimal.Zero
	}
	return count, total.Div(decimal.NewFromInt(int64(count)))
}
