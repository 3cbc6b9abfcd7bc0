package models

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/lib/pq"
)

type PurchaseModel struct {
	ID            string `gorm:"primaryKey;type:varchar(32)"`
	UnitID        string `gorm:"type:uuid;index:idx_purchase_unit_status"`
	BuyerName     string `gorm:"not null"`
	BuyerDocument string `gorm:"index"`
	BuyerPhone    string
	Numbers       pq.Int64Array `gorm:"type:bigint[]"`
	Amount        float64
	Status        domain.PurchaseStatus `gorm:"index:idx_purchase_unit_status"`
	CreatedAt     time.Time             `gorm:"index"`
	DecidedAt     *time.Time
}

func (PurchaseModel) TableName() string { return "purchase_records" }
