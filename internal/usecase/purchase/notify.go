package purchase

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// notify fans a lifecycle change out to the audit trail and the event bus.
// Neither is critical: failures are logged and the state change stands.
func (uc *DefaultPurchaseUsecase) notify(p *domain.PurchaseRecord, eventType domain.PurchaseEventType, reason string) {
	at := p.CreatedAt
	if p.DecidedAt != nil {
		at = *p.DecidedAt
	}

	if uc.Audit != nil {
		err := uc.Audit.LogPurchaseEvent(context.Background(), logger.PurchaseAuditEvent{
			PurchaseID: p.ID,
			UnitID:     p.UnitID,
			Event:      string(eventType),
			BuyerKey:   p.Buyer.Key(),
			Numbers:    p.Numbers,
			Amount:     p.Amount,
			Reason:     reason,
			Timestamp:  at,
		})
		if err != nil {
			uc.Log.Error("failed to write purchase audit event", zap.String("purchase_id", p.ID), zap.Error(err))
		}
	}

	if uc.Publisher == nil {
		return
	}
	go func(event domain.PurchaseEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := uc.Publisher.PublishPurchase(ctx, event); err != nil {
			uc.Log.Error("failed to publish purchase event",
				zap.String("type", string(event.Type)),
				zap.String("purchase_id", event.PurchaseID),
				zap.Error(err),
			)
		}
	}(domain.PurchaseEvent{
		Type:       eventType,
		PurchaseID: p.ID,
		UnitID:     p.UnitID,
		BuyerName:  p.Buyer.Name,
		BuyerKey:   p.Buyer.Key(),
		Numbers:    p.Numbers,
		Amount:     p.Amount,
		OccurredAt: at,
	})
}

func (uc *DefaultPurchaseUsecase) recordError(operation string, err error) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.RecordError(operation, ErrorKind(err))
}

// ErrorKind names the domain error class of err for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrNumbersUnavailable):
		return "numbers_unavailable"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, domain.ErrEntitlementExceeded):
		return "entitlement_exceeded"
	case errors.Is(err, domain.ErrUnitNotActive):
		return "unit_not_active"
	case errors.Is(err, domain.ErrSoldOut):
		return "sold_out"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	}
	return "internal"
}
