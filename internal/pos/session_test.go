package pos_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/ledger/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/pos"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	calls [][]dto.CheckoutLine
	err   error
}

func (f *fakeLedger) Checkout(ctx context.Context, lines []dto.CheckoutLine) (*dto.CheckoutResult, error) {
	f.calls = append(f.calls, lines)
	if f.err != nil {
		return nil, f.err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return &dto.CheckoutResult{Total: total}, nil
}

func item(id string, price int64, stock int) model.Product {
	return model.Product{BaseModel: model.BaseModel{ID: id}, Name: id, SellPrice: decimal.NewFromInt(price), Stock: stock}
}

func TestSelectAccumulatesQuantity(t *testing.T) {
	for _, q := range []int{0, 1, 2, 7} {
		s := pos.NewSession("t1")
		p := item("kopi", 12500, q)
		for i := 0; i < q; i++ {
			require.NoError(t, s.Select(p))
		}
		assert.Equal(t, q, s.Quantity("kopi"))
		assert.True(t, s.Subtotal().Equal(decimal.NewFromInt(int64(q)*12500)), "q=%d", q)
	}
}

func TestSelectDoesNotCheckRunningQuantity(t *testing.T) {
	s := pos.NewSession("t1")
	p := item("kopi", 100, 1)

	require.NoError(t, s.Select(p))
	require.NoError(t, s.Select(p))
	assert.Equal(t, 2, s.Quantity("kopi"))
}

func TestSelectOutOfStock(t *testing.T) {
	s := pos.NewSession("t1")
	require.NoError(t, s.Select(item("teh", 100, 3)))

	err := s.Select(item("kopi", 100, 0))
	assert.ErrorIs(t, err, model.ErrOutOfStock)
	assert.Equal(t, []string{"teh"}, s.ProductIDs())
	assert.Equal(t, 0, s.Quantity("kopi"))
}

func TestChangeDue(t *testing.T) {
	tests := []struct {
		paid string
		want int64
	}{
		{"0", 0},
		{"4999", 0},
		{"5000", 0},
		{"7000", 2000},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.paid, func(t *testing.T) {
			s := pos.NewSession("t1")
			s.Refresh([]model.Product{item("kopi", 2500, 10)})
			s.SetQuantity("kopi", 2)
			s.SetAmountPaid(tt.paid)

			assert.True(t, s.ChangeDue().Equal(decimal.NewFromInt(tt.want)), s.ChangeDue().String())
			assert.False(t, s.ChangeDue().IsNegative())
		})
	}
}

func TestCanCheckout(t *testing.T) {
	s := pos.NewSession("t1")
	s.SetAmountPaid("100000")
	assert.False(t, s.CanCheckout(), "empty cart")

	s.Refresh([]model.Product{item("beras", 50000, 10)})
	s.SetQuantity("beras", 1)

	s.SetAmountPaid("50000")
	assert.True(t, s.CanCheckout())

	s.SetAmountPaid("49999")
	assert.False(t, s.CanCheckout())
}

func TestSubtotalSkipsUnresolvedProducts(t *testing.T) {
	s := pos.NewSession("t1")
	require.NoError(t, s.Select(item("kopi", 1000, 5)))
	require.NoError(t, s.Select(item("teh", 700, 5)))

	s.Refresh([]model.Product{item("teh", 700, 5)})

	assert.True(t, s.Subtotal().Equal(decimal.NewFromInt(700)))
	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Total.IsZero())
}

func TestRemove(t *testing.T) {
	s := pos.NewSession("t1")
	require.NoError(t, s.Select(item("a", 1, 5)))
	require.NoError(t, s.Select(item("b", 1, 5)))
	require.NoError(t, s.Select(item("c", 1, 5)))

	s.Remove("b")
	s.Remove("missing")

	assert.Equal(t, []string{"a", "c"}, s.ProductIDs())
}

func TestCheckoutClearsCart(t *testing.T) {
	s := pos.NewSession("t1")
	require.NoError(t, s.Select(item("kopi", 1500, 5)))
	require.NoError(t, s.Select(item("kopi", 1500, 5)))
	require.NoError(t, s.Select(item("teh", 1000, 5)))
	s.SetAmountPaid("5000")

	ledger := &fakeLedger{}
	res, err := s.Checkout(context.Background(), ledger)
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(4000)))

	require.Len(t, ledger.calls, 1)
	assert.Equal(t, []dto.CheckoutLine{
		{ProductID: "kopi", Quantity: 2, Amount: decimal.NewFromInt(3000)},
		{ProductID: "teh", Quantity: 1, Amount: decimal.NewFromInt(1000)},
	}, ledger.calls[0])

	assert.True(t, s.Empty())
	assert.Equal(t, "0", s.AmountPaid())
}

func TestCheckoutPreconditions(t *testing.T) {
	ledger := &fakeLedger{}

	s := pos.NewSession("t1")
	_, err := s.Checkout(context.Background(), ledger)
	assert.ErrorIs(t, err, model.ErrEmptyCart)

	require.NoError(t, s.Select(item("kopi", 1500, 5)))
	s.SetAmountPaid("1000")
	_, err = s.Checkout(context.Background(), ledger)
	assert.ErrorIs(t, err, model.ErrInsufficientPayment)
	assert.Empty(t, ledger.calls)
}

func TestFailedCheckoutKeepsCart(t *testing.T) {
	s := pos.NewSession("t1")
	require.NoError(t, s.Select(item("kopi", 1500, 5)))
	s.SetAmountPaid("2000")

	_, err := s.Checkout(context.Background(), &fakeLedger{err: errors.New("boom")})
	require.Error(t, err)
	assert.Equal(t, 1, s.Quantity("kopi"))
	assert.Equal(t, "2000", s.AmountPaid())
}

func TestRegistryReusesSessions(t *testing.T) {
	r := pos.NewRegistry()
	a := r.Get("till-1")
	require.NoError(t, a.Select(item("kopi", 1, 1)))

	assert.Same(t, a, r.Get("till-1"))
	assert.NotSame(t, a, r.Get("till-2"))
	assert.Equal(t, 2, r.Len())
}

func TestOutOfStockErrorNamesProduct(t *testing.T) {
	s := pos.NewSession("t1")
	err := s.Select(item("kopi", 100, 0))

	var oos *pos.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "kopi", oos.Product.Name)
}
