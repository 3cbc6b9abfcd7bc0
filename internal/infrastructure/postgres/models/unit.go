package models

import (
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/lib/pq"
)

type UnitModel struct {
	ID                   string `gorm:"primaryKey;type:uuid"`
	Title                string `gorm:"not null"`
	TotalNumbers         int
	NumberSpaceSize      int
	Numbering            domain.NumberingMode
	Pricing              domain.PricingMode
	UnitPrice            float64
	ComboBaseValue       float64
	ComboNumbersPerValue int
	Status               domain.UnitStatus `gorm:"index"`
	WinningNumber        *int64
	PrizeNumbers         pq.Int64Array `gorm:"type:bigint[]"`
	PaymentKey           string
	CreatedAt            time.Time `gorm:"index"`
	UpdatedAt            time.Time
}

func (UnitModel) TableName() string { return "units" }
