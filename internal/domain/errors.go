package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrCapacityExceeded    = errors.New("requested ticket count exceeds number space")
	ErrNumbersUnavailable  = errors.New("numbers unavailable")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrEntitlementExceeded = errors.New("requested numbers exceed combo entitlement")
	ErrUnitNotActive       = errors.New("unit is not accepting reservations")
	ErrSoldOut             = errors.New("no available numbers")
)

// UnavailableError lists the requested numbers that were not available at
// claim time.
type UnavailableError struct {
	Numbers []int64
}

func (e *UnavailableError) Error() string {
	parts := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%s: [%s]", ErrNumbersUnavailable, strings.Join(parts, ","))
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrNumbersUnavailable
}

// ConflictingNumbers extracts the conflicting set from err, if any.
func ConflictingNumbers(err error) ([]int64, bool) {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return ue.Numbers, true
	}
	return nil, false
}
