package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type UnitStatus string

const (
	UnitDraft     UnitStatus = "DRAFT"
	UnitActive    UnitStatus = "ACTIVE"
	UnitPaused    UnitStatus = "PAUSED"
	UnitCompleted UnitStatus = "COMPLETED"
	UnitCancelled UnitStatus = "CANCELLED"
)

var unitTransitions = map[UnitStatus][]UnitStatus{
	UnitDraft:  {UnitActive, UnitCancelled},
	UnitActive: {UnitPaused, UnitCompleted, UnitCancelled},
	UnitPaused: {UnitActive, UnitCompleted, UnitCancelled},
}

func ParseUnitStatus(s string) (UnitStatus, error) {
	switch st := UnitStatus(strings.ToUpper(s)); st {
	case UnitDraft, UnitActive, UnitPaused, UnitCompleted, UnitCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown unit status %q", ErrInvalidInput, s)
}

func (s UnitStatus) Terminal() bool {
	return s == UnitCompleted || s == UnitCancelled
}

// CanTransitionTo reports whether a unit may move from s to next.
func (s UnitStatus) CanTransitionTo(next UnitStatus) bool {
	for _, allowed := range unitTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type NumberingMode string

const (
	NumberingSequential NumberingMode = "SEQUENTIAL"
	NumberingRandom     NumberingMode = "RANDOM"
)

type PricingMode string

const (
	PricingFlat  PricingMode = "FLAT"
	PricingCombo PricingMode = "COMBO"
)

// ComboRule grants NumbersPerValue numbers for every BaseValue contributed.
type ComboRule struct {
	BaseValue       float64
	NumbersPerValue int
}

func (r ComboRule) Valid() bool {
	return r.BaseValue > 0 && r.NumbersPerValue >= 1
}

type Unit struct {
	ID              string
	Title           string
	TotalNumbers    int
	NumberSpaceSize int
	Numbering       NumberingMode
	Pricing         PricingMode
	UnitPrice       float64
	Combo           *ComboRule
	Status          UnitStatus
	WinningNumber   *int64
	PrizeNumbers    []int64
	PaymentKey      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type NumberStats struct {
	Total     int64
	Available int64
	Reserved  int64
	Sold      int64
}

type UnitRepository interface {
	// CreateUnit persists the unit together with its whole number set.
	CreateUnit(ctx context.Context, unit *Unit, numbers []*NumberRecord) error
	GetUnitByID(ctx context.Context, unitID string) (*Unit, error)
	ListUnits(ctx context.Context) ([]*Unit, error)
	// UpdateUnitStatus moves the unit from `from` to `to`, failing with
	// ErrInvalidTransition when the stored status is no longer `from`.
	UpdateUnitStatus(ctx context.Context, unitID string, from, to UnitStatus) error
	SetWinningNumber(ctx context.Context, unitID string, value int64) error
}
