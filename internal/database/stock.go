package database

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// ApplyStockDeltas moves stock inside tx. The guarded UPDATE takes the row lock,
// so concurrent batches on the same product serialise and never drop below zero.
func ApplyStockDeltas(ctx context.Context, tx *sqlx.Tx, deltas []model.StockDelta) error {
	query := `
		UPDATE products
		SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2 AND stock + $1 >= 0
	`
	for _, d := range deltas {
		res, err := tx.ExecContext(ctx, query, d.Delta, d.ProductID)
		if err != nil {
			return errors.Wrapf(err, "adjust stock for product %s", d.ProductID)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "rows affected")
		}
		if rows == 0 {
			// Either the product is gone or the floor check failed
			var exists bool
			if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, d.ProductID); err != nil {
				return errors.Wrap(err, "check product")
			}
			if !exists {
				return errors.Wrapf(model.ErrProductNotFound, "product %s", d.ProductID)
			}
			return errors.Wrapf(model.ErrInsufficientStock, "product %s", d.ProductID)
		}
	}
	return nil
}
