package export

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// Column names one field of a row and how to read it from the row.
type Column[T any] struct {
	Header  string
	Extract func(T) string
}

func Headers[T any](cols []Column[T]) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

func Row[T any](cols []Column[T], v T) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Extract(v)
	}
	return out
}

// WriteCSV writes a header line followed by one line per row.
func WriteCSV[T any](w io.Writer, cols []Column[T], rows []T) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers(cols)); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for i, r := range rows {
		if err := cw.Write(Row(cols, r)); err != nil {
			return errors.Wrapf(err, "write csv row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}
