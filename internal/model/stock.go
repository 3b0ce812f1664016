package model

import (
	"sort"

	"github.com/google/uuid"
)

// NetDeltas folds a batch into one signed delta per product, ordered by product
// id so concurrent batches lock rows in the same order.
func NetDeltas(lines []StockLine, sign int) []StockDelta {
	sums := make(map[string]int, len(lines))
	for _, l := range lines {
		sums[l.ProductID] += sign * l.Quantity
	}
	out := make([]StockDelta, 0, len(sums))
	for id, d := range sums {
		out = append(out, StockDelta{ProductID: id, Delta: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// ValidateLines rejects empty batches, malformed ids and non-positive quantities.
func ValidateLines(lines []StockLine) error {
	if len(lines) == 0 {
		return ErrEmptyBatch
	}
	for _, l := range lines {
		// Ids are UUIDs, anything else cannot reference a product
		if _, err := uuid.Parse(l.ProductID); err != nil {
			return ErrProductNotFound
		}
		if l.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// ValidID reports whether id can name a stored row. Malformed ids never match.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
