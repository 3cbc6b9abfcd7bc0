package purchase

import (
	"context"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

func (uc *DefaultPurchaseUsecase) GetPurchase(ctx context.Context, purchaseID string) (*domain.PurchaseRecord, error) {
	return uc.PurchaseRepo.GetPurchaseByID(ctx, purchaseID)
}

// ListPending returns the unit's pending purchases, oldest first.
func (uc *DefaultPurchaseUsecase) ListPending(ctx context.Context, unitID string) ([]*domain.PurchaseRecord, error) {
	return uc.ListPurchases(ctx, domain.PurchaseFilter{UnitID: unitID, Status: domain.PurchasePending})
}

func (uc *DefaultPurchaseUsecase) ListPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.PurchaseRecord, error) {
	if filter.UnitID != "" {
		if _, err := uc.UnitRepo.GetUnitByID(ctx, filter.UnitID); err != nil {
			return nil, err
		}
	}
	return uc.PurchaseRepo.ListPurchases(ctx, filter)
}

// PaymentInfo returns what a payment display shows for a purchase. The
// purchase id doubles as the payment reference.
func (uc *DefaultPurchaseUsecase) PaymentInfo(ctx context.Context, purchaseID string) (*domain.PaymentInfo, error) {
	purchase, err := uc.PurchaseRepo.GetPurchaseByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	unit, err := uc.UnitRepo.GetUnitByID(ctx, purchase.UnitID)
	if err != nil {
		return nil, err
	}
	return &domain.PaymentInfo{
		PurchaseID: purchase.ID,
		Amount:     purchase.Amount,
		PaymentKey: unit.PaymentKey,
		Reference:  purchase.ID,
	}, nil
}
