package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts as "<CODE> 1,500,000". Grouping is always three
// digits with a comma, whatever the user's language. Fractions are kept at
// the value's own precision.
type Formatter struct {
	code    string
	printer *message.Printer
}

func NewFormatter(currencyCode string) *Formatter {
	return &Formatter{
		code:    strings.ToUpper(strings.TrimSpace(currencyCode)),
		printer: message.NewPrinter(language.English),
	}
}

func (f *Formatter) Code() string { return f.code }

func (f *Formatter) Format(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	whole := amount.Truncate(0)
	out := f.printer.Sprintf("%d", whole.IntPart())
	if frac := amount.Sub(whole); !frac.IsZero() {
		out += strings.TrimPrefix(frac.String(), "0")
	}
	return f.code + " " + sign + out
}
