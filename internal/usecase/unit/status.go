package unit

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"go.uber.org/zap"
)

// ChangeStatus moves the unit along its lifecycle. The store re-checks the
// current status, so two racing changes cannot both apply.
func (uc *DefaultUnitUsecase) ChangeStatus(ctx context.Context, unitID string, next domain.UnitStatus) (*domain.Unit, error) {
	unit, err := uc.UnitRepo.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if !unit.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: unit %s cannot go from %s to %s", domain.ErrInvalidTransition, unitID, unit.Status, next)
	}
	if err := uc.UnitRepo.UpdateUnitStatus(ctx, unitID, unit.Status, next); err != nil {
		return nil, err
	}
	uc.Log.Info("unit status changed",
		zap.String("unit_id", unitID),
		zap.String("from", string(unit.Status)),
		zap.String("to", string(next)),
	)
	return uc.UnitRepo.GetUnitByID(ctx, unitID)
}

// DrawWinner picks a sold number uniformly at random for a completed unit.
func (uc *DefaultUnitUsecase) DrawWinner(ctx context.Context, unitID string) (*domain.Unit, error) {
	unit, err := uc.UnitRepo.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit.Status != domain.UnitCompleted {
		return nil, fmt.Errorf("%w: winner can only be drawn for a completed unit", domain.ErrInvalidTransition)
	}
	if unit.WinningNumber != nil {
		return nil, fmt.Errorf("%w: winner already drawn", domain.ErrInvalidTransition)
	}

	sold, err := uc.NumberStore.ListValuesByStatus(ctx, unitID, domain.NumberSold)
	if err != nil {
		return nil, err
	}
	if len(sold) == 0 {
		return nil, fmt.Errorf("unit %s has no sold numbers: %w", unitID, domain.ErrSoldOut)
	}
	winner := uc.Pool.Pick(sold, 1)[0]
	if err := uc.UnitRepo.SetWinningNumber(ctx, unitID, winner); err != nil {
		return nil, err
	}
	uc.Log.Info("winner drawn", zap.String("unit_id", unitID), zap.Int64("number", winner))
	return uc.UnitRepo.GetUnitByID(ctx, unitID)
}
