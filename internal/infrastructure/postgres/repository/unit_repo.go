package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultUnitRepository struct {
	DB *gorm.DB
}

func NewDefaultUnitRepository(db *gorm.DB) *DefaultUnitRepository {
	return &DefaultUnitRepository{DB: db}
}

func (r *DefaultUnitRepository) CreateUnit(ctx context.Context, unit *domain.Unit, numbers []*domain.NumberRecord) error {
	unitModel := mappers.ToGORMUnit(unit)
	numberModels := make([]*models.NumberModel, len(numbers))
	for i, n := range numbers {
		numberModels[i] = mappers.ToGORMNumber(n)
		numberModels[i].UnitID = unit.ID
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(unitModel).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(numberModels, numberBatchSize).Error
	})
}

func (r *DefaultUnitRepository) GetUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	var unit models.UnitModel
	if err := r.DB.WithContext(ctx).First(&unit, "id = ?", unitID).Error; err != nil {
		return nil, notFound(err, "unit", unitID)
	}
	return mappers.ToDomainUnit(&unit), nil
}

func (r *DefaultUnitRepository) ListUnits(ctx context.Context) ([]*domain.Unit, error) {
	var unitModels []models.UnitModel
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&unitModels).Error; err != nil {
		return nil, err
	}
	units := make([]*domain.Unit, len(unitModels))
	for i := range unitModels {
		units[i] = mappers.ToDomainUnit(&unitModels[i])
	}
	return units, nil
}

func (r *DefaultUnitRepository) UpdateUnitStatus(ctx context.Context, unitID string, from, to domain.UnitStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.UnitModel{}).
		Where("id = ? AND status = ?", unitID, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := ensureUnit(r.DB.WithContext(ctx), unitID); err != nil {
			return err
		}
		return fmt.Errorf("%w: unit %s is no longer %s", domain.ErrInvalidTransition, unitID, from)
	}
	return nil
}

func (r *DefaultUnitRepository) SetWinningNumber(ctx context.Context, unitID string, value int64) error {
	res := r.DB.WithContext(ctx).Model(&models.UnitModel{}).
		Where("id = ? AND winning_number IS NULL", unitID).
		Updates(map[string]any{"winning_number": value, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := ensureUnit(r.DB.WithContext(ctx), unitID); err != nil {
			return err
		}
		return fmt.Errorf("%w: winner already drawn", domain.ErrInvalidTransition)
	}
	return nil
}
