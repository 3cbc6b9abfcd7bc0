package unit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/numberpool"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DefaultUnitUsecase struct {
	UnitRepo    domain.UnitRepository
	NumberStore domain.NumberStore
	Pool        *numberpool.Pool
	Metrics     *metrics.RaffleMetrics
	Log         *zap.Logger
	// MaxTotalNumbers bounds TotalNumbers on Create when positive.
	MaxTotalNumbers int

	now func() time.Time
}

func NewDefaultUnitUsecase(
	unitRepo domain.UnitRepository,
	numberStore domain.NumberStore,
	pool *numberpool.Pool,
	log *zap.Logger,
) *DefaultUnitUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &DefaultUnitUsecase{
		UnitRepo:    unitRepo,
		NumberStore: numberStore,
		Pool:        pool,
		Log:         log.Named("unit"),
		now:         time.Now,
	}
}

func (uc *DefaultUnitUsecase) WithMetrics(m *metrics.RaffleMetrics) *DefaultUnitUsecase {
	uc.Metrics = m
	return uc
}

func (uc *DefaultUnitUsecase) WithMaxTotalNumbers(n int) *DefaultUnitUsecase {
	uc.MaxTotalNumbers = n
	return uc
}

type CreateUnitInput struct {
	Title        string
	TotalNumbers int
	// SpaceSize bounds random numbering; values fall in [0, SpaceSize).
	SpaceSize    int
	Numbering    domain.NumberingMode
	Pricing      domain.PricingMode
	UnitPrice    float64
	Combo        *domain.ComboRule
	PrizeCount   int
	PrizeNumbers []int64
	PaymentKey   string
	Activate     bool
}

// Create builds the unit's whole number pool and stores it with the unit.
func (uc *DefaultUnitUsecase) Create(ctx context.Context, in CreateUnitInput) (*domain.Unit, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.Numbering == "" {
		in.Numbering = domain.NumberingSequential
	}
	if in.Pricing == "" {
		in.Pricing = domain.PricingFlat
	}
	switch in.Pricing {
	case domain.PricingFlat:
		if in.UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: flat pricing needs a positive unit price", domain.ErrInvalidInput)
		}
		in.Combo = nil
	case domain.PricingCombo:
		if in.Combo == nil || !in.Combo.Valid() {
			return nil, fmt.Errorf("%w: combo pricing needs a valid combo rule", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: unknown pricing mode %q", domain.ErrInvalidInput, in.Pricing)
	}

	if uc.MaxTotalNumbers > 0 && in.TotalNumbers > uc.MaxTotalNumbers {
		return nil, fmt.Errorf("%w: %d numbers requested, a unit holds at most %d",
			domain.ErrCapacityExceeded, in.TotalNumbers, uc.MaxTotalNumbers)
	}

	space := in.SpaceSize
	if in.Numbering == domain.NumberingSequential {
		space = in.TotalNumbers
	}

	numbers, err := uc.Pool.GenerateWith(numberpool.Options{
		Mode:         in.Numbering,
		TotalNumbers: in.TotalNumbers,
		SpaceSize:    space,
		PrizeCount:   in.PrizeCount,
		PrizeNumbers: in.PrizeNumbers,
	})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	unit := &domain.Unit{
		ID:              uuid.New().String(),
		Title:           in.Title,
		TotalNumbers:    in.TotalNumbers,
		NumberSpaceSize: space,
		Numbering:       in.Numbering,
		Pricing:         in.Pricing,
		UnitPrice:       in.UnitPrice,
		Combo:           in.Combo,
		Status:          domain.UnitDraft,
		PaymentKey:      in.PaymentKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Activate {
		unit.Status = domain.UnitActive
	}
	for _, n := range numbers {
		n.UnitID = unit.ID
		if n.Prize {
			unit.PrizeNumbers = append(unit.PrizeNumbers, n.Value)
		}
	}

	if err := uc.UnitRepo.CreateUnit(ctx, unit, numbers); err != nil {
		return nil, fmt.Errorf("create unit: %w", err)
	}
	if uc.Metrics != nil {
		uc.Metrics.SetNumberStats(unit.ID, int64(len(numbers)), 0, 0)
	}
	uc.Log.Info("unit created",
		zap.String("unit_id", unit.ID),
		zap.Int("total_numbers", unit.TotalNumbers),
		zap.String("numbering", string(unit.Numbering)),
		zap.String("pricing", string(unit.Pricing)),
	)
	return unit, nil
}
