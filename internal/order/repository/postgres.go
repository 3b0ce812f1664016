package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/database"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	orderColumns = `id, total_amount, status, created_at, updated_at`
	itemColumns  = `id, order_id, product_id, quantity, price, created_at, updated_at`
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWithItems(ctx context.Context, orders []model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertOrder := `
        INSERT INTO orders (id, total_amount, status, created_at, updated_at)
        VALUES (:id, :total_amount, :status, :created_at, :updated_at)
    `
	insertItem := `
        INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at, updated_at)
        VALUES (:id, :order_id, :product_id, :quantity, :price, :created_at, :updated_at)
    `

	var lines []model.StockLine
	for i := range orders {
		o := &orders[i]
		if _, err := tx.NamedExecContext(ctx, insertOrder, o); err != nil {
			return errors.Wrap(err, "insert order")
		}
		for j := range o.Items {
			if _, err := tx.NamedExecContext(ctx, insertItem, &o.Items[j]); err != nil {
				return errors.Wrap(err, "insert order item")
			}
			lines = append(lines, model.StockLine{ProductID: o.Items[j].ProductID, Quantity: o.Items[j].Quantity})
		}
	}

	if err := database.ApplyStockDeltas(ctx, tx, model.NetDeltas(lines, -1)); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	if !model.ValidID(id) {
		return nil, nil
	}
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get order")
	}

	items := []model.OrderItem{}
	if err := r.DB.SelectContext(ctx, &items, `SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY created_at, id`, id); err != nil {
		return nil, errors.Wrap(err, "get order items")
	}
	o.Items = items
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.Range.Start != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.Range.Start
	}
	if f.Range.End != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.Range.End
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = string(f.Status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT " + orderColumns + " FROM orders" + whereClause + " ORDER BY created_at DESC, id"
	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "prepare order list")
	}
	defer nstmt.Close()

	orders := []model.Order{}
	if err := nstmt.SelectContext(ctx, &orders, args); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PGRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM order_items WHERE order_id IN (?) ORDER BY created_at, id`, ids)
	if err != nil {
		return err
	}
	query = r.DB.Rebind(query)

	var items []model.OrderItem
	if err := r.DB.SelectContext(ctx, &items, query, args...); err != nil {
		return errors.Wrap(err, "list order items")
	}

	byOrder := make(map[string][]model.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []model.OrderItem{}
		}
	}
	return nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, at time.Time) error {
	if !model.ValidID(id) {
		return model.ErrOrderNotFound
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, string(status), at, id)
	if err != nil {
		return errors.Wrap(err, "update order status")
	}
	return requireAffected(res, model.ErrOrderNotFound)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	if !model.ValidID(id) {
		return model.ErrOrderNotFound
	}
	// order_items go with the order (ON DELETE CASCADE)
	res, err := r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete order")
	}
	return requireAffected(res, model.ErrOrderNotFound)
}

func (r *PGRepository) FindItemByID(ctx context.Context, id string) (*model.OrderItem, error) {
	if !model.ValidID(id) {
		return nil, nil
	}
	var it model.OrderItem
	err := r.DB.GetContext(ctx, &it, `SELECT `+itemColumns+` FROM order_items WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get order item")
	}
	return &it, nil
}

func (r *PGRepository) UpdateItem(ctx context.Context, item *model.OrderItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, `
        UPDATE order_items
        SET quantity = :quantity, price = :price, updated_at = :updated_at
        WHERE id = :id
    `, item)
	if err != nil {
		return errors.Wrap(err, "update order item")
	}
	if err := requireAffected(res, model.ErrOrderItemNotFound); err != nil {
		return err
	}
	if err := recomputeTotal(ctx, tx, item.OrderID, item.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) DeleteItem(ctx context.Context, id string) error {
	if !model.ValidID(id) {
		return model.ErrOrderItemNotFound
	}
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var orderID string
	err = tx.GetContext(ctx, &orderID, `DELETE FROM order_items WHERE id = $1 RETURNING order_id`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrOrderItemNotFound
		}
		return errors.Wrap(err, "delete order item")
	}
	if err := recomputeTotal(ctx, tx, orderID, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

func recomputeTotal(ctx context.Context, tx *sqlx.Tx, orderID string, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
        UPDATE orders
        SET total_amount = (
                SELECT COALESCE(SUM(price * quantity), 0) FROM order_items WHERE order_id = $1
            ),
            updated_at = $2
        WHERE id = $1
    `, orderID, at)
	return errors.Wrap(err, "recompute order total")
}

func requireAffected(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
