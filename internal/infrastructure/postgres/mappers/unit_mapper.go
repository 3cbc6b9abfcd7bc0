package mappers

import (
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"github.com/lib/pq"
)

func ToDomainUnit(model *models.UnitModel) *domain.Unit {
	unit := &domain.Unit{
		ID:              model.ID,
		Title:           model.Title,
		TotalNumbers:    model.TotalNumbers,
		NumberSpaceSize: model.NumberSpaceSize,
		Numbering:       model.Numbering,
		Pricing:         model.Pricing,
		UnitPrice:       model.UnitPrice,
		Status:          model.Status,
		WinningNumber:   model.WinningNumber,
		PrizeNumbers:    []int64(model.PrizeNumbers),
		PaymentKey:      model.PaymentKey,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.Pricing == domain.PricingCombo {
		unit.Combo = &domain.ComboRule{
			BaseValue:       model.ComboBaseValue,
			NumbersPerValue: model.ComboNumbersPerValue,
		}
	}
	return unit
}

func ToGORMUnit(unit *domain.Unit) *models.UnitModel {
	model := &models.UnitModel{
		ID:              unit.ID,
		Title:           unit.Title,
		TotalNumbers:    unit.TotalNumbers,
		NumberSpaceSize: unit.NumberSpaceSize,
		Numbering:       unit.Numbering,
		Pricing:         unit.Pricing,
		UnitPrice:       unit.UnitPrice,
		Status:          unit.Status,
		WinningNumber:   unit.WinningNumber,
		PrizeNumbers:    pq.Int64Array(unit.PrizeNumbers),
		PaymentKey:      unit.PaymentKey,
		CreatedAt:       unit.CreatedAt,
		UpdatedAt:       unit.UpdatedAt,
	}
	if unit.Combo != nil {
		model.ComboBaseValue = unit.Combo.BaseValue
		model.ComboNumbersPerValue = unit.Combo.NumbersPerValue
	}
	return model
}
