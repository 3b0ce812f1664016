package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/broker"
	"github.com/fekuna/omnipos-retail-service/internal/ledger"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// InboundListener applies stock batches pushed by remote terminals and suppliers.
type InboundListener struct {
	consumer MessageReader
	uc       ledger.UseCase
	logger   logger.ZapLogger
}

func NewInboundListener(consumer MessageReader, uc ledger.UseCase, logger logger.ZapLogger) *InboundListener {
	return &InboundListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

type StockPayload struct {
	Source string            `json:"source"`
	Items  []model.StockLine `json:"items"`
}

func (l *InboundListener) Start(ctx context.Context) {
	l.logger.Info("Starting inbound ledger listener")
	ctx = auth.WithUser(ctx, auth.UserContext{UserID: "kafka-inbound", Role: auth.RoleSystem})
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping inbound ledger listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *InboundListener) processMessage(ctx context.Context, value []byte) {
	var event broker.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	var record func(context.Context, []model.StockLine) (int, error)
	switch event.EventType {
	case broker.EventItemsSold:
		record = l.uc.RecordItemsSold
	case broker.EventItemsRestocked:
		record = l.uc.RecordItemsRestocked
	default:
		return
	}

	var payload StockPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		l.logger.Error("Failed to unmarshal stock payload", zap.String("event_id", event.EventID), zap.Error(err))
		return
	}

	n, err := record(ctx, payload.Items)
	if err != nil {
		// The batch is atomic, nothing was applied
		l.logger.Error("Failed to apply inbound stock batch",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.String("source", payload.Source),
			zap.Error(err),
		)
		return
	}
	l.logger.Info("Applied inbound stock batch",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.Int("lines", n),
	)
}
