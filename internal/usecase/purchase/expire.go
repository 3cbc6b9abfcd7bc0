package purchase

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"go.uber.org/zap"
)

const reasonExpired = "reservation expired"

// RejectExpired rejects every purchase still pending after ttl and returns
// how many were released. A non-positive ttl disables expiry.
func (uc *DefaultPurchaseUsecase) RejectExpired(ctx context.Context, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}
	stale, err := uc.PurchaseRepo.FindPendingBefore(ctx, uc.now().Add(-ttl))
	if err != nil {
		return 0, err
	}

	released := 0
	for _, p := range stale {
		if err := ctx.Err(); err != nil {
			return released, err
		}
		if _, err := uc.decide(ctx, p.ID, domain.DecisionReject, reasonExpired); err != nil {
			// an operator got there first
			if errors.Is(err, domain.ErrInvalidTransition) {
				continue
			}
			uc.Log.Error("failed to expire reservation", zap.String("purchase_id", p.ID), zap.Error(err))
			continue
		}
		if uc.Metrics != nil {
			uc.Metrics.RecordExpired(p.UnitID)
		}
		released++
	}
	return released, nil
}
