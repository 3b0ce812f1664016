package export

import (
	"strconv"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/money"
)

// OrderLine is one order item flattened with its order and product.
type OrderLine struct {
	Order   model.Order
	Item    model.OrderItem
	Product *model.Product // Nil once the product is deleted
}

// FlattenOrders joins items to products. Orders without items still get a line.
func FlattenOrders(orders []model.Order, products []model.Product) []OrderLine {
	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var out []OrderLine
	for _, o := range orders {
		if len(o.Items) == 0 {
			out = append(out, OrderLine{Order: o})
			continue
		}
		for _, it := range o.Items {
			out = append(out, OrderLine{Order: o, Item: it, Product: byID[it.ProductID]})
		}
	}
	return out
}

func OrderColumns(f *money.Formatter) []Column[OrderLine] {
	return []Column[OrderLine]{
		{Header: "order_id", Extract: func(l OrderLine) string { return l.Order.ID }},
		{Header: "created_at", Extract: func(l OrderLine) string { return l.Order.CreatedAt.UTC().Format(time.RFC3339) }},
		{Header: "status", Extract: func(l OrderLine) string { return string(l.Order.Status) }},
		{Header: "product", Extract: func(l OrderLine) string {
			if l.Product == nil {
				return l.Item.ProductID
			}
			return l.Product.Name
		}},
		{Header: "quantity", Extract: func(l OrderLine) string {
			if l.Item.ID == "" {
				return ""
			}
			return strconv.Itoa(l.Item.Quantity)
		}},
		{Header: "price", Extract: func(l OrderLine) string {
			if l.Item.ID == "" {
				return ""
			}
			return f.Format(l.Item.Price)
		}},
		{Header: "order_total", Extract: func(l OrderLine) string { return f.Format(l.Order.TotalAmount) }},
	}
}
