package mappers

import (
	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"github.com/lib/pq"
)

func ToDomainPurchase(model *models.PurchaseModel) *domain.PurchaseRecord {
	return &domain.PurchaseRecord{
		ID:     model.ID,
		UnitID: model.UnitID,
		Buyer: domain.Buyer{
			Name:       model.BuyerName,
			DocumentID: model.BuyerDocument,
			Phone:      model.BuyerPhone,
		},
		Numbers:   []int64(model.Numbers),
		Amount:    model.Amount,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
		DecidedAt: model.DecidedAt,
	}
}

func ToGORMPurchase(purchase *domain.PurchaseRecord) *models.PurchaseModel {
	return &models.PurchaseModel{
		ID:            purchase.ID,
		UnitID:        purchase.UnitID,
		BuyerName:     purchase.Buyer.Name,
		BuyerDocument: purchase.Buyer.DocumentID,
		BuyerPhone:    purchase.Buyer.Phone,
		Numbers:       pq.Int64Array(purchase.Numbers),
		Amount:        purchase.Amount,
		Status:        purchase.Status,
		CreatedAt:     purchase.CreatedAt,
		DecidedAt:     purchase.DecidedAt,
	}
}
