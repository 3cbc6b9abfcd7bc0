package unit

import (
	"context"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

func (uc *DefaultUnitUsecase) Get(ctx context.Context, unitID string) (*domain.Unit, error) {
	return uc.UnitRepo.GetUnitByID(ctx, unitID)
}

func (uc *DefaultUnitUsecase) List(ctx context.Context) ([]*domain.Unit, error) {
	return uc.UnitRepo.ListUnits(ctx)
}

// Stats counts the unit's numbers per status at call time.
func (uc *DefaultUnitUsecase) Stats(ctx context.Context, unitID string) (domain.NumberStats, error) {
	stats, err := uc.NumberStore.CountByStatus(ctx, unitID)
	if err != nil {
		return domain.NumberStats{}, err
	}
	if uc.Metrics != nil {
		uc.Metrics.SetNumberStats(unitID, stats.Available, stats.Reserved, stats.Sold)
	}
	return stats, nil
}

// ListNumbers returns the unit's numbers, all of them when status is empty.
func (uc *DefaultUnitUsecase) ListNumbers(ctx context.Context, unitID string, status domain.NumberStatus) ([]*domain.NumberRecord, error) {
	return uc.NumberStore.ListNumbers(ctx, unitID, status)
}

// RefreshGauges recomputes the inventory gauges of every unit still taking
// part in sales.
func (uc *DefaultUnitUsecase) RefreshGauges(ctx context.Context) error {
	units, err := uc.UnitRepo.ListUnits(ctx)
	if err != nil {
		return err
	}
	for _, u := range units {
		if u.Status == domain.UnitCancelled {
			continue
		}
		if _, err := uc.Stats(ctx, u.ID); err != nil {
			return err
		}
	}
	return nil
}
