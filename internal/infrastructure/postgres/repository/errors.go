package repository

import (
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const numberBatchSize = 1000

func notFound(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return err
}

// lockActiveUnit takes a share lock on the unit row for the rest of the
// transaction, so a concurrent status change waits for the claim to commit.
func lockActiveUnit(tx *gorm.DB, unitID string) error {
	var statuses []domain.UnitStatus
	err := tx.Table("units").
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id = ?", unitID).
		Pluck("status", &statuses).Error
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		return fmt.Errorf("unit %s: %w", unitID, domain.ErrNotFound)
	}
	if statuses[0] != domain.UnitActive {
		return fmt.Errorf("%w: unit %s is %s", domain.ErrUnitNotActive, unitID, statuses[0])
	}
	return nil
}

func ensureUnit(tx *gorm.DB, unitID string) error {
	var count int64
	if err := tx.Table("units").Where("id = ?", unitID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("unit %s: %w", unitID, domain.ErrNotFound)
	}
	return nil
}
