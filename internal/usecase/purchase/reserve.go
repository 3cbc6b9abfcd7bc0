package purchase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/pricing"
	"go.uber.org/zap"
)

type ReserveInput struct {
	UnitID string
	// Numbers, when set, are claimed exactly.
	Numbers []int64
	// Count asks for that many random numbers instead. For combo units a
	// zero Count means "the whole entitlement".
	Count int
	// Amount is the buyer's contribution; only combo units read it.
	Amount float64
	Buyer  domain.Buyer
}

const (
	selectionExplicit = "explicit"
	selectionAuto     = "auto"
)

// Reserve claims numbers for a buyer and records a pending purchase. The
// claim is all-or-nothing: on any conflict no number changes.
func (uc *DefaultPurchaseUsecase) Reserve(ctx context.Context, in ReserveInput) (*domain.PurchaseRecord, error) {
	in.Buyer.Name = strings.TrimSpace(in.Buyer.Name)
	if in.Buyer.Name == "" {
		return nil, fmt.Errorf("%w: buyer name is required", domain.ErrInvalidInput)
	}
	if len(in.Numbers) > 0 && in.Count > 0 {
		return nil, fmt.Errorf("%w: give either numbers or a count", domain.ErrInvalidInput)
	}

	unit, err := uc.UnitRepo.GetUnitByID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	if unit.Status != domain.UnitActive {
		return nil, fmt.Errorf("%w: unit %s is %s", domain.ErrUnitNotActive, unit.ID, unit.Status)
	}

	numbers, selection, err := uc.selectNumbers(ctx, unit, in)
	if err != nil {
		uc.recordError("reserve", err)
		return nil, err
	}

	amount := pricing.Quote(unit, len(numbers))
	if unit.Pricing == domain.PricingCombo {
		amount = in.Amount
	}

	purchase := &domain.PurchaseRecord{
		ID:        uc.newID(),
		UnitID:    unit.ID,
		Buyer:     in.Buyer,
		Numbers:   numbers,
		Amount:    amount,
		Status:    domain.PurchasePending,
		CreatedAt: uc.now(),
	}

	start := time.Now()
	if err := uc.NumberStore.ReserveNumbers(ctx, purchase); err != nil {
		if errors.Is(err, domain.ErrNumbersUnavailable) && uc.Metrics != nil {
			uc.Metrics.RecordConflict(unit.ID, time.Since(start).Seconds())
		}
		uc.recordError("reserve", err)
		uc.Log.Info("reservation refused",
			zap.String("unit_id", unit.ID),
			zap.Int64s("numbers", numbers),
			zap.Error(err),
		)
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordReservation(unit.ID, string(unit.Pricing), selection, len(numbers), time.Since(start).Seconds())
	}

	uc.Log.Info("numbers reserved",
		zap.String("purchase_id", purchase.ID),
		zap.String("unit_id", unit.ID),
		zap.String("buyer", purchase.Buyer.Key()),
		zap.Int("count", len(numbers)),
		zap.String("selection", selection),
	)
	uc.notify(purchase, domain.EventPurchaseReserved, "")

	return purchase, nil
}

func (uc *DefaultPurchaseUsecase) selectNumbers(ctx context.Context, unit *domain.Unit, in ReserveInput) ([]int64, string, error) {
	bound := pricing.Bound(unit, in.Amount)
	if unit.Pricing == domain.PricingCombo && bound == 0 {
		return nil, "", fmt.Errorf("%w: contribution %.2f unlocks no numbers", domain.ErrEntitlementExceeded, in.Amount)
	}

	if len(in.Numbers) > 0 {
		numbers := slices.Clone(in.Numbers)
		slices.Sort(numbers)
		if len(slices.Compact(slices.Clone(numbers))) != len(numbers) {
			return nil, "", fmt.Errorf("%w: duplicate numbers in request", domain.ErrInvalidInput)
		}
		if bound >= 0 && len(numbers) > bound {
			return nil, "", fmt.Errorf("%w: %d numbers requested, entitlement is %d",
				domain.ErrEntitlementExceeded, len(numbers), bound)
		}
		return numbers, selectionExplicit, nil
	}

	count := in.Count
	if bound >= 0 && (count <= 0 || count > bound) {
		count = bound
	}
	if count <= 0 {
		return nil, "", fmt.Errorf("%w: numbers or a positive count are required", domain.ErrInvalidInput)
	}

	available, err := uc.NumberStore.ListValuesByStatus(ctx, unit.ID, domain.NumberAvailable)
	if err != nil {
		return nil, "", err
	}
	if len(available) == 0 {
		return nil, "", fmt.Errorf("unit %s: %w", unit.ID, domain.ErrSoldOut)
	}
	return uc.Pool.Pick(available, count), selectionAuto, nil
}
