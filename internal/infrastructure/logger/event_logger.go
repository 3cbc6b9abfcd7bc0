package logger

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PurchaseAuditEvent is one row of the purchase audit trail.
type PurchaseAuditEvent struct {
	ID         uint          `gorm:"primaryKey"`
	PurchaseID string        `gorm:"index"`
	UnitID     string        `gorm:"index"`
	Event      string
	BuyerKey   string
	Numbers    pq.Int64Array `gorm:"type:bigint[]"`
	Amount     float64
	Reason     string
	Timestamp  time.Time
}

func (PurchaseAuditEvent) TableName() string { return "purchase_events" }

type PurchaseEventLogger interface {
	LogPurchaseEvent(ctx context.Context, event PurchaseAuditEvent) error
}

type PGPurchaseEventLogger struct {
	db *gorm.DB
}

func NewPGPurchaseEventLogger(db *gorm.DB) *PGPurchaseEventLogger {
	return &PGPurchaseEventLogger{db: db}
}

func (l *PGPurchaseEventLogger) LogPurchaseEvent(ctx context.Context, event PurchaseAuditEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

// MemoryPurchaseEventLogger keeps the audit trail in memory.
type MemoryPurchaseEventLogger struct {
	mu     sync.Mutex
	events []PurchaseAuditEvent
}

func NewMemoryPurchaseEventLogger() *MemoryPurchaseEventLogger {
	return &MemoryPurchaseEventLogger{}
}

func (l *MemoryPurchaseEventLogger) LogPurchaseEvent(ctx context.Context, event PurchaseAuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	event.ID = uint(len(l.events) + 1)
	l.events = append(l.events, event)
	return nil
}

func (l *MemoryPurchaseEventLogger) Events() []PurchaseAuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]PurchaseAuditEvent, len(l.events))
	copy(out, l.events)
	return out
}
