package models

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// NumberModel is one ticket number of a unit. The holder columns are empty
// while the number is available.
type NumberModel struct {
	UnitID         string              `gorm:"primaryKey;type:uuid"`
	Value          int64               `gorm:"primaryKey;autoIncrement:false"`
	Status         domain.NumberStatus `gorm:"index:idx_number_unit_status"`
	HolderName     string
	HolderDocument string
	HolderPhone    string
	ReservedAt     *time.Time
	PurchaseID     string `gorm:"index"`
	Prize          bool
}

func (NumberModel) TableName() string { return "number_records" }
