package domain

import (
	"context"
	"time"
)

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

type PurchaseEventType string

const (
	EventPurchaseReserved   PurchaseEventType = "PURCHASE_RESERVED"
	EventPurchaseAuthorized PurchaseEventType = "PURCHASE_AUTHORIZED"
	EventPurchaseRejected   PurchaseEventType = "PURCHASE_REJECTED"
)

type PurchaseEvent struct {
	Type       PurchaseEventType `json:"type"`
	PurchaseID string            `json:"purchase_id"`
	UnitID     string            `json:"unit_id"`
	BuyerName  string            `json:"buyer_name"`
	BuyerKey   string            `json:"buyer_key"`
	Numbers    []int64           `json:"numbers"`
	Amount     float64           `json:"amount"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// PurchaseEventPublisher delivers lifecycle events to notification consumers.
type PurchaseEventPublisher interface {
	PublishPurchase(ctx context.Context, event PurchaseEvent) error
}
