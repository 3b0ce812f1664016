package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/memory"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/report/usecase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardLoadsFromStore(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Now().UTC()

	cat := model.Category{BaseModel: model.BaseModel{ID: uuid.New().String()}, Name: "Drinks"}
	require.NoError(t, s.Categories().Create(ctx, &cat))
	p := model.Product{BaseModel: model.BaseModel{ID: uuid.New().String()}, CategoryID: &cat.ID, Name: "Kopi", Stock: 10}
	require.NoError(t, s.Products().Create(ctx, &p))

	require.NoError(t, s.Ledger().RecordCheckout(ctx,
		[]model.ItemsSold{{ID: uuid.New().String(), ProductID: p.ID, Quantity: 4, CreatedAt: now}},
		[]model.Revenue{{ID: uuid.New().String(), Amount: decimal.NewFromInt(6000), Date: now, CreatedAt: now}},
	))

	uc := usecase.NewReportUseCase(s.Ledger(), s.Orders(), s.Products(), s.Categories(), logger.NewNop())
	d, err := uc.Dashboard(ctx, model.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, 4, d.UnitsSold)
	assert.True(t, d.RevenueTotal.Equal(decimal.NewFromInt(6000)))
	require.Len(t, d.UnitsByCategory, 1)
	assert.Equal(t, 4, d.UnitsByCategory[0].Units)
	require.Len(t, d.LowStock, 1)
	assert.Equal(t, 6, d.LowStock[0].Stock)
}

func TestDashboardRejectsInvertedWindow(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewReportUseCase(s.Ledger(), s.Orders(), s.Products(), s.Categories(), logger.NewNop())

	start := time.Now()
	end := start.Add(-time.Minute)
	_, err := uc.Dashboard(context.Background(), model.DateRange{Start: &start, End: &end})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
