package graph

import (
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Error carries a machine-readable code and, for bulk writes, how many
// elements went through before or around the failures.
type Error struct {
	err      error
	affected *int
}

func newError(err error) error {
	if err == nil {
		return nil
	}
	return &Error{err: err}
}

// bulkError reports per-element failures of a plain bulk write. Elements that
// succeeded stay applied.
func bulkError(err error, affected int) error {
	if err == nil {
		return nil
	}
	return &Error{err: err, affected: &affected}
}

func (e *Error) Error() string { return e.err.Error() }

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Extensions() map[string]interface{} {
	errs := multierr.Errors(e.err)
	ext := map[string]interface{}{"code": Code(errs[0])}
	if e.affected != nil {
		ext["affected"] = *e.affected
	}

	var elements []map[string]interface{}
	for _, err := range errs {
		var elemErr *model.ElementError
		if errors.As(err, &elemErr) {
			elements = append(elements, map[string]interface{}{
				"index":   elemErr.Index,
				"code":    Code(elemErr.Err),
				"message": elemErr.Err.Error(),
			})
		}
	}
	if len(elements) > 0 {
		ext["elements"] = elements
	}
	return ext
}

func Code(err error) string {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, model.ErrForbidden):
		return "FORBIDDEN"
	case model.IsNotFound(err):
		return "NOT_FOUND"
	case errors.Is(err, model.ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, model.ErrOutOfStock):
		return "OUT_OF_STOCK"
	case errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrEmptyBatch),
		errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrEmptyCart),
		errors.Is(err, model.ErrInsufficientPayment):
		return "BAD_USER_INPUT"
	default:
		return "INTERNAL"
	}
}
