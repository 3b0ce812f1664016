package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	f := NewFormatter("idr")

	tests := []struct {
		in   string
		want string
	}{
		{"0", "IDR 0"},
		{"999", "IDR 999"},
		{"1000", "IDR 1,000"},
		{"1500000", "IDR 1,500,000"},
		{"1234567.5", "IDR 1,234,567.5"},
		{"12.25", "IDR 12.25"},
		{"-45000", "IDR -45,000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(decimal.RequireFromString(tt.in)))
		})
	}
}
