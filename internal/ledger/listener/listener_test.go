package listener

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/broker"
	"github.com/fekuna/omnipos-retail-service/internal/ledger/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/memory"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, eventType string, payload StockPayload) []byte {
	t.Helper()
	ev, err := broker.NewEvent(eventType, payload)
	require.NoError(t, err)
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return raw
}

func TestProcessMessage(t *testing.T) {
	store := memory.NewStore()
	p := model.Product{BaseModel: model.BaseModel{ID: uuid.New().String()}, Name: "Kopi", Stock: 4}
	require.NoError(t, store.Products().Create(context.Background(), &p))

	l := NewInboundListener(nil, usecase.NewLedgerUseCase(store.Ledger(), nil, nil, logger.NewNop()), logger.NewNop())
	ctx := auth.WithUser(context.Background(), auth.UserContext{UserID: "kafka-inbound", Role: auth.RoleSystem})

	stock := func() int {
		got, err := store.Products().FindByID(context.Background(), p.ID)
		require.NoError(t, err)
		return got.Stock
	}

	l.processMessage(ctx, encode(t, broker.EventItemsSold, StockPayload{Source: "till-7", Items: []model.StockLine{{ProductID: p.ID, Quantity: 3}}}))
	assert.Equal(t, 1, stock())

	l.processMessage(ctx, encode(t, broker.EventItemsRestocked, StockPayload{Source: "supplier", Items: []model.StockLine{{ProductID: p.ID, Quantity: 9}}}))
	assert.Equal(t, 10, stock())

	// Oversell is rejected whole
	l.processMessage(ctx, encode(t, broker.EventItemsSold, StockPayload{Items: []model.StockLine{{ProductID: p.ID, Quantity: 11}}}))
	assert.Equal(t, 10, stock())

	// Unrelated events and garbage are ignored
	l.processMessage(ctx, encode(t, broker.EventOrderCreated, StockPayload{Items: []model.StockLine{{ProductID: p.ID, Quantity: 1}}}))
	l.processMessage(ctx, []byte("{not json"))
	assert.Equal(t, 10, stock())
}
