package mappers

import (
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
)

func ToDomainNumber(model *models.NumberModel) *domain.NumberRecord {
	number := &domain.NumberRecord{
		UnitID:     model.UnitID,
		Value:      model.Value,
		Status:     model.Status,
		ReservedAt: model.ReservedAt,
		PurchaseID: model.PurchaseID,
		Prize:      model.Prize,
	}
	if model.PurchaseID != "" {
		number.Holder = &domain.Buyer{
			Name:       model.HolderName,
			DocumentID: model.HolderDocument,
			Phone:      model.HolderPhone,
		}
	}
	return number
}

func ToGORMNumber(number *domain.NumberRecord) *models.NumberModel {
	model := &models.NumberModel{
		UnitID:     number.UnitID,
		Value:      number.Value,
		Status:     number.Status,
		ReservedAt: number.ReservedAt,
		PurchaseID: number.PurchaseID,
		Prize:      number.Prize,
	}
	if number.Holder != nil {
		model.HolderName = number.Holder.Name
		model.HolderDocument = number.Holder.DocumentID
		model.HolderPhone = number.Holder.Phone
	}
	return model
}
