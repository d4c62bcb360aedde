// Package events publishes sale notifications for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Priyansh-03/Vyapar-Sahayak/internal/model"
	"github.com/Priyansh-03/Vyapar-Sahayak/internal/stockalert"
	"github.com/Priyansh-03/Vyapar-Sahayak/pkg/logger"
	"github.com/Priyansh-03/Vyapar-Sahayak/prometheus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Type names an event
type Type string

const (
	BillCommitted Type = "bill.committed"
	StockAlert    Type = "stock.alert"
)

// Message is the envelope written to the broker
type Message struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// BillCommittedData is the payload of a bill.committed event
type BillCommittedData struct {
	BillID      string          `json:"bill_id"`
	BillNumber  string          `json:"bill_number"`
	Degraded    bool            `json:"degraded"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewBillCommitted builds a bill.committed event
func NewBillCommitted(bill *model.Bill, degraded bool) Message {
	return newMessage(BillCommitted, BillCommittedData{
		BillID:      bill.ID,
		BillNumber:  bill.BillNumber,
		Degraded:    degraded,
		TotalAmount: bill.TotalAmount,
		ItemCount:   len(bill.Items),
		Timestamp:   bill.Timestamp,
	})
}

// NewStockAlert builds a stock.alert event
func NewStockAlert(alert stockalert.Alert) Message {
	return newMessage(StockAlert, alert)
}

func newMessage(t Type, data any) Message {
	return Message{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Encode serializes a message as JSON
func Encode(msg Message) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", msg.Type, err)
	}
	return body, nil
}

// Publisher delivers messages
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// NopPublisher drops every message. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, msg Message) error {
	logger.FromCtx(ctx).Debug("Event publishing disabled, dropping event",
		zap.String("event", string(msg.Type)),
		zap.String("event_id", msg.ID))
	return nil
}

// Dispatch publishes each message in order. Failures are logged and counted
// but never returned: a sale that was committed stays committed.
func Dispatch(ctx context.Context, pub Publisher, msgs ...Message) {
	log := logger.FromCtx(ctx)
	for _, msg := range msgs {
		if err := pub.Publish(ctx, msg); err != nil {
			prometheus.RecordEventPublishError(string(msg.Type))
			log.Error("Failed to publish event",
				zap.String("event", string(msg.Type)),
				zap.String("event_id", msg.ID),
				zap.Error(err))
		}
	}
}
