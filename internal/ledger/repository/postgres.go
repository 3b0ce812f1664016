package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/database"
	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const (
	insertItemsSold = `
        INSERT INTO items_sold (id, product_id, quantity, created_at)
        VALUES (:id, :product_id, :quantity, :created_at)
    `
	insertItemsRestocked = `
        INSERT INTO items_restocked (id, product_id, quantity, created_at)
        VALUES (:id, :product_id, :quantity, :created_at)
    `
	insertRevenue = `
        INSERT INTO revenues (id, amount, date, created_at)
        VALUES (:id, :amount, :date, :created_at)
    `
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) RecordItemsSold(ctx context.Context, rows []model.ItemsSold) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		return insertSold(ctx, tx, rows)
	})
}

func (r *PGRepository) RecordItemsRestocked(ctx context.Context, rows []model.ItemsRestocked) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertItemsRestocked, rows); err != nil {
			return errors.Wrap(err, "insert items restocked")
		}
		lines := make([]model.StockLine, len(rows))
		for i, row := range rows {
			lines[i] = model.StockLine{ProductID: row.ProductID, Quantity: row.Quantity}
		}
		return database.ApplyStockDeltas(ctx, tx, model.NetDeltas(lines, 1))
	})
}

func (r *PGRepository) RecordCheckout(ctx context.Context, sold []model.ItemsSold, revenue []model.Revenue) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := insertSold(ctx, tx, sold); err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insertRevenue, revenue); err != nil {
			return errors.Wrap(err, "insert revenue")
		}
		return nil
	})
}

func (r *PGRepository) RecordRevenue(ctx context.Context, rows []model.Revenue) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, insertRevenue, rows)
		return errors.Wrap(err, "insert revenue")
	})
}

func insertSold(ctx context.Context, tx *sqlx.Tx, rows []model.ItemsSold) error {
	if _, err := tx.NamedExecContext(ctx, insertItemsSold, rows); err != nil {
		return errors.Wrap(err, "insert items sold")
	}
	lines := make([]model.StockLine, len(rows))
	for i, row := range rows {
		lines[i] = model.StockLine{ProductID: row.ProductID, Quantity: row.Quantity}
	}
	return database.ApplyStockDeltas(ctx, tx, model.NetDeltas(lines, -1))
}

func (r *PGRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PGRepository) ListItemsSold(ctx context.Context, f *dto.LedgerFilters) ([]model.ItemsSold, error) {
	items := []model.ItemsSold{}
	err := r.list(ctx, &items, "SELECT id, product_id, quantity, created_at FROM items_sold", "created_at", f)
	return items, errors.Wrap(err, "list items sold")
}

func (r *PGRepository) ListItemsRestocked(ctx context.Context, f *dto.LedgerFilters) ([]model.ItemsRestocked, error) {
	items := []model.ItemsRestocked{}
	err := r.list(ctx, &items, "SELECT id, product_id, quantity, created_at FROM items_restocked", "created_at", f)
	return items, errors.Wrap(err, "list items restocked")
}

func (r *PGRepository) ListRevenues(ctx context.Context, f *dto.LedgerFilters) ([]model.Revenue, error) {
	items := []model.Revenue{}
	err := r.list(ctx, &items, "SELECT id, amount, date, created_at FROM revenues", "date", f)
	return items, errors.Wrap(err, "list revenues")
}

// list runs base with the inclusive range applied to timeColumn.
func (r *PGRepository) list(ctx context.Context, dest interface{}, base, timeColumn string, f *dto.LedgerFilters) error {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.Range.Start != nil {
		conditions = append(conditions, timeColumn+" >= :start_date")
		args["start_date"] = *f.Range.Start
	}
	if f.Range.End != nil {
		conditions = append(conditions, timeColumn+" <= :end_date")
		args["end_date"] = *f.Range.End
	}
	if f.ProductID != "" && timeColumn == "created_at" {
		if !model.ValidID(f.ProductID) {
			return nil
		}
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}

	query := base
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + timeColumn + " ASC, id ASC"

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer nstmt.Close()
	return nstmt.SelectContext(ctx, dest, args)
}

func (r *PGRepository) FindItemsSoldByID(ctx context.Context, id string) (*model.ItemsSold, error) {
	var row model.ItemsSold
	ok, err := r.get(ctx, &row, "SELECT id, product_id, quantity, created_at FROM items_sold WHERE id = $1", id)
	if !ok {
		return nil, err
	}
	return &row, nil
}

func (r *PGRepository) FindItemsRestockedByID(ctx context.Context, id string) (*model.ItemsRestocked, error) {
	var row model.ItemsRestocked
	ok, err := r.get(ctx, &row, "SELECT id, product_id, quantity, created_at FROM items_restocked WHERE id = $1", id)
	if !ok {
		return nil, err
	}
	return &row, nil
}

func (r *PGRepository) FindRevenueByID(ctx context.Context, id string) (*model.Revenue, error) {
	var row model.Revenue
	ok, err := r.get(ctx, &row, "SELECT id, amount, date, created_at FROM revenues WHERE id = $1", id)
	if !ok {
		return nil, err
	}
	return &row, nil
}

// get reports false with a nil error when no row matches.
func (r *PGRepository) get(ctx context.Context, dest interface{}, query, id string) (bool, error) {
	if !model.ValidID(id) {
		return false, nil
	}
	if err := r.DB.GetContext(ctx, dest, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrap(err, "get ledger row")
	}
	return true, nil
}
