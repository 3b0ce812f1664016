package graph

import (
	"context"

	categorydto "github.com/fekuna/omnipos-retail-service/internal/category/dto"
	"github.com/fekuna/omnipos-retail-service/internal/i18n"
	ledgerdto "github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	orderdto "github.com/fekuna/omnipos-retail-service/internal/order/dto"
	"github.com/fekuna/omnipos-retail-service/internal/pos"
	productdto "github.com/fekuna/omnipos-retail-service/internal/product/dto"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Malformed input rejects the whole call before anything is written.
func parseMoney(index int, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, newError(&model.ElementError{Index: index, Err: model.ErrInvalidAmount})
	}
	return d, nil
}

type categoryInput struct {
	Name string
}

type categoryUpdateInput struct {
	ID   graphql.ID
	Name string
}

func (r *Resolver) CreateCategories(ctx context.Context, args struct{ Input []categoryInput }) (int32, error) {
	inputs := make([]categorydto.CreateCategoryInput, len(args.Input))
	for i, in := range args.Input {
		inputs[i] = categorydto.CreateCategoryInput{Name: in.Name}
	}
	n, err := r.categories.CreateCategories(ctx, inputs)
	return int32(n), bulkError(err, n)
}

func (r *Resolver) UpdateCategories(ctx context.Context, args struct{ Input []categoryUpdateInput }) ([]*categoryResolver, error) {
	inputs := make([]categorydto.UpdateCategoryInput, len(args.Input))
	for i, in := range args.Input {
		inputs[i] = categorydto.UpdateCategoryInput{ID: string(in.ID), Name: in.Name}
	}
	updated, err := r.categories.UpdateCategories(ctx, inputs)
	if err != nil {
		return nil, bulkError(err, len(updated))
	}
	return r.categoryList(updated), nil
}

func (r *Resolver) DeleteCategories(ctx context.Context, args struct{ IDs []graphql.ID }) (int32, error) {
	n, err := r.categories.DeleteCategories(ctx, ids(args.IDs))
	return int32(n), bulkError(err, n)
}

type productInput struct {
	Name        string
	Description *string
	BuyPrice    string
	SellPrice   string
	Stock       int32
	CategoryID  *graphql.ID
}

type productUpdateInput struct {
	ID          graphql.ID
	Name        string
	Description *string
	BuyPrice    string
	SellPrice   string
	CategoryID  *graphql.ID
}

func optionalID(id *graphql.ID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

func (r *Resolver) CreateProducts(ctx context.Context, args struct{ Input []productInput }) (int32, error) {
	inputs := make([]productdto.CreateProductInput, len(args.Input))
	for i, in := range args.Input {
		buy, err := parseMoney(i, in.BuyPrice)
		if err != nil {
			return 0, err
		}
		sell, err := parseMoney(i, in.SellPrice)
		if err != nil {
			return 0, err
		}
		inputs[i] = productdto.CreateProductInput{
			CategoryID:  optionalID(in.CategoryID),
			Name:        in.Name,
			Description: in.Description,
			BuyPrice:    buy,
			SellPrice:   sell,
			Stock:       int(in.Stock),
		}
	}
	n, err := r.products.CreateProducts(ctx, inputs)
	return int32(n), bulkError(err, n)
}

func (r *Resolver) UpdateProducts(ctx context.Context, args struct{ Input []productUpdateInput }) ([]*productResolver, error) {
	inputs := make([]productdto.UpdateProductInput, len(args.Input))
	for i, in := range args.Input {
		buy, err := parseMoney(i, in.BuyPrice)
		if err != nil {
			return nil, err
		}
		sell, err := parseMoney(i, in.SellPrice)
		if err != nil {
			return nil, err
		}
		inputs[i] = productdto.UpdateProductInput{
			ID:          string(in.ID),
			CategoryID:  optionalID(in.CategoryID),
			Name:        in.Name,
			Description: in.Description,
			BuyPrice:    buy,
			SellPrice:   sell,
		}
	}
	updated, err := r.products.UpdateProducts(ctx, inputs)
	if err != nil {
		return nil, bulkError(err, len(updated))
	}
	return r.productList(updated), nil
}

func (r *Resolver) DeleteProducts(ctx context.Context, args struct{ IDs []graphql.ID }) (int32, error) {
	n, err := r.products.DeleteProducts(ctx, ids(args.IDs))
	return int32(n), bulkError(err, n)
}

type orderInput struct {
	Items []orderItemInput
}

type orderItemInput struct {
	ProductID graphql.ID
	Quantity  int32
	Price     *string
}

type orderUpdateInput struct {
	ID     graphql.ID
	Status string
}

type orderItemUpdateInput struct {
	ID       graphql.ID
	Quantity int32
	Price    string
}

// CreateOrders is a stock-adjusting batch: every order commits or none does.
func (r *Resolver) CreateOrders(ctx context.Context, args struct{ Input []orderInput }) (int32, error) {
	inputs := make([]orderdto.CreateOrderInput, len(args.Input))
	for i, in := range args.Input {
		items := make([]orderdto.CreateOrderItemInput, len(in.Items))
		for j, it := range in.Items {
			items[j] = orderdto.CreateOrderItemInput{ProductID: string(it.ProductID), Quantity: int(it.Quantity)}
			if it.Price != nil {
				price, err := parseMoney(i, *it.Price)
				if err != nil {
					return 0, err
				}
				items[j].Price = &price
			}
		}
		inputs[i] = orderdto.CreateOrderInput{Items: items}
	}
	n, err := r.orders.CreateOrders(ctx, inputs)
	return int32(n), newError(err)
}

func (r *Resolver) UpdateOrders(ctx context.Context, args struct{ Input []orderUpdateInput }) ([]*orderResolver, error) {
	inputs := make([]orderdto.UpdateOrderInput, len(args.Input))
	for i, in := range args.Input {
		inputs[i] = orderdto.UpdateOrderInput{ID: string(in.ID), Status: model.OrderStatus(in.Status)}
	}
	updated, err := r.orders.UpdateOrders(ctx, inputs)
	if err != nil {
		return nil, bulkError(err, len(updated))
	}
	return r.orderList(updated), nil
}

func (r *Resolver) DeleteOrders(ctx context.Context, args struct{ IDs []graphql.ID }) (int32, error) {
	n, err := r.orders.DeleteOrders(ctx, ids(args.IDs))
	return int32(n), bulkError(err, n)
}

func (r *Resolver) UpdateOrderItems(ctx context.Context, args struct{ Input []orderItemUpdateInput }) ([]*orderItemResolver, error) {
	inputs := make([]orderdto.UpdateOrderItemInput, len(args.Input))
	for i, in := range args.Input {
		price, err := parseMoney(i, in.Price)
		if err != nil {
			return nil, err
		}
		inputs[i] = orderdto.UpdateOrderItemInput{ID: string(in.ID), Quantity: int(in.Quantity), Price: price}
	}
	updated, err := r.orders.UpdateOrderItems(ctx, inputs)
	if err != nil {
		return nil, bulkError(err, len(updated))
	}
	out := make([]*orderItemResolver, len(updated))
	for i, it := range updated {
		out[i] = &orderItemResolver{it: it, r: r}
	}
	return out, nil
}

func (r *Resolver) DeleteOrderItems(ctx context.Context, args struct{ IDs []graphql.ID }) (int32, error) {
	n, err := r.orders.DeleteOrderItems(ctx, ids(args.IDs))
	return int32(n), bulkError(err, n)
}

func (r *Resolver) MarkOrderAsReceived(ctx context.Context, args struct{ OrderID graphql.ID }) (*orderResolver, error) {
	o, err := r.orders.MarkOrderAsReceived(ctx, string(args.OrderID))
	if err != nil {
		return nil, newError(err)
	}
	return &orderResolver{o: *o, r: r}, nil
}

type stockLineInput struct {
	ProductID graphql.ID
	Quantity  int32
}

func stockLines(in []stockLineInput) []model.StockLine {
	out := make([]model.StockLine, len(in))
	for i, l := range in {
		out[i] = model.StockLine{ProductID: string(l.ProductID), Quantity: int(l.Quantity)}
	}
	return out
}

type revenueInput struct {
	Amount string
	Date   *graphql.Time
}

func (r *Resolver) RecordItemsSold(ctx context.Context, args struct{ Input []stockLineInput }) (int32, error) {
	n, err := r.ledger.RecordItemsSold(ctx, stockLines(args.Input))
	return int32(n), newError(err)
}

func (r *Resolver) RecordItemsRestocked(ctx context.Context, args struct{ Input []stockLineInput }) (int32, error) {
	n, err := r.ledger.RecordItemsRestocked(ctx, stockLines(args.Input))
	return int32(n), newError(err)
}

func (r *Resolver) RecordRevenue(ctx context.Context, args struct{ Input []revenueInput }) (int32, error) {
	inputs := make([]ledgerdto.RevenueInput, len(args.Input))
	for i, in := range args.Input {
		amount, err := parseMoney(i, in.Amount)
		if err != nil {
			return 0, err
		}
		inputs[i] = ledgerdto.RevenueInput{Amount: amount, Date: toTime(in.Date)}
	}
	n, err := r.ledger.RecordRevenue(ctx, inputs)
	return int32(n), newError(err)
}

// CartSelect reports an out of stock product as a notice, not an error.
func (r *Resolver) CartSelect(ctx context.Context, args struct {
	TerminalID string
	ProductID  graphql.ID
}) (*cartResultResolver, error) {
	sess, err := r.pos.Select(ctx, args.TerminalID, string(args.ProductID))
	var oos *pos.OutOfStockError
	switch {
	case errors.As(err, &oos):
		notice := r.translator.T(i18n.LanguageFrom(ctx), i18n.MsgOutOfStock, map[string]interface{}{"Name": oos.Product.Name})
		return &cartResultResolver{cart: &cartResolver{s: sess, f: r.formatter}, notice: &notice}, nil
	case err != nil:
		return nil, newError(err)
	}
	return &cartResultResolver{cart: &cartResolver{s: sess, f: r.formatter}}, nil
}

func (r *Resolver) CartSetQuantity(ctx context.Context, args struct {
	TerminalID string
	ProductID  graphql.ID
	Quantity   int32
}) (*cartResolver, error) {
	sess, err := r.pos.SetQuantity(ctx, args.TerminalID, string(args.ProductID), int(args.Quantity))
	if err != nil {
		return nil, newError(err)
	}
	return &cartResolver{s: sess, f: r.formatter}, nil
}

func (r *Resolver) CartRemove(ctx context.Context, args struct {
	TerminalID string
	ProductID  graphql.ID
}) (*cartResolver, error) {
	sess, err := r.pos.Remove(ctx, args.TerminalID, string(args.ProductID))
	if err != nil {
		return nil, newError(err)
	}
	return &cartResolver{s: sess, f: r.formatter}, nil
}

func (r *Resolver) CartSetAmountPaid(ctx context.Context, args struct {
	TerminalID string
	Amount     string
}) (*cartResolver, error) {
	sess, err := r.pos.SetAmountPaid(ctx, args.TerminalID, args.Amount)
	if err != nil {
		return nil, newError(err)
	}
	return &cartResolver{s: sess, f: r.formatter}, nil
}

func (r *Resolver) Checkout(ctx context.Context, args struct{ TerminalID string }) (*receiptResolver, error) {
	res, err := r.pos.Checkout(ctx, args.TerminalID)
	if err != nil {
		return nil, newError(err)
	}
	return &receiptResolver{res: res, r: r}, nil
}
