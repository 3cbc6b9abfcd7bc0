package purchase

import (
	"context"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"go.uber.org/zap"
)

// Authorize finalizes a pending purchase: its numbers become sold.
func (uc *DefaultPurchaseUsecase) Authorize(ctx context.Context, purchaseID string) (*domain.PurchaseRecord, error) {
	return uc.decide(ctx, purchaseID, domain.DecisionAuthorize, "")
}

// Reject releases a pending purchase's numbers back to the pool.
func (uc *DefaultPurchaseUsecase) Reject(ctx context.Context, purchaseID string) (*domain.PurchaseRecord, error) {
	return uc.decide(ctx, purchaseID, domain.DecisionReject, "")
}

func (uc *DefaultPurchaseUsecase) decide(ctx context.Context, purchaseID string, d domain.Decision, reason string) (*domain.PurchaseRecord, error) {
	purchase, err := uc.PurchaseRepo.DecidePurchase(ctx, purchaseID, d, uc.now())
	if err != nil {
		uc.recordError(string(d), err)
		return nil, err
	}

	event := domain.EventPurchaseAuthorized
	if purchase.Status == domain.PurchaseRejected {
		event = domain.EventPurchaseRejected
	}

	if uc.Metrics != nil {
		waited := purchase.DecidedAt.Sub(purchase.CreatedAt).Seconds()
		if purchase.Status == domain.PurchaseAuthorized {
			uc.Metrics.RecordAuthorized(purchase.UnitID, purchase.Amount, waited)
		} else {
			uc.Metrics.RecordRejected(purchase.UnitID, waited)
		}
	}

	uc.Log.Info("purchase decided",
		zap.String("purchase_id", purchase.ID),
		zap.String("unit_id", purchase.UnitID),
		zap.String("status", string(purchase.Status)),
		zap.String("reason", reason),
	)
	uc.notify(purchase, event, reason)

	return purchase, nil
}
