package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type NumberStatus string

const (
	NumberAvailable NumberStatus = "AVAILABLE"
	NumberReserved  NumberStatus = "RESERVED"
	NumberSold      NumberStatus = "SOLD"
)

func ParseNumberStatus(s string) (NumberStatus, error) {
	switch st := NumberStatus(strings.ToUpper(s)); st {
	case NumberAvailable, NumberReserved, NumberSold:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown number status %q", ErrInvalidInput, s)
}

// Buyer identifies whoever holds a number or a purchase.
type Buyer struct {
	Name       string
	DocumentID string
	Phone      string
}

// Key is the identity purchases are grouped by.
func (b Buyer) Key() string {
	if id := strings.TrimSpace(b.DocumentID); id != "" {
		return id
	}
	if phone := strings.TrimSpace(b.Phone); phone != "" {
		return phone
	}
	return strings.ToLower(strings.TrimSpace(b.Name))
}

type NumberRecord struct {
	UnitID     string
	Value      int64
	Status     NumberStatus
	Holder     *Buyer
	ReservedAt *time.Time
	PurchaseID string
	Prize      bool
}

func (n *NumberRecord) Reserve(purchaseID string, holder Buyer, at time.Time) error {
	if n.Status != NumberAvailable {
		return fmt.Errorf("%w: number %d is %s", ErrInvalidTransition, n.Value, n.Status)
	}
	n.Status = NumberReserved
	n.Holder = &holder
	n.ReservedAt = &at
	n.PurchaseID = purchaseID
	return nil
}

func (n *NumberRecord) Sell() error {
	if n.Status != NumberReserved {
		return fmt.Errorf("%w: number %d is %s", ErrInvalidTransition, n.Value, n.Status)
	}
	n.Status = NumberSold
	return nil
}

// Release returns a reserved number to the pool, dropping its holder.
func (n *NumberRecord) Release() error {
	if n.Status != NumberReserved {
		return fmt.Errorf("%w: number %d is %s", ErrInvalidTransition, n.Value, n.Status)
	}
	n.Status = NumberAvailable
	n.Holder = nil
	n.ReservedAt = nil
	n.PurchaseID = ""
	return nil
}

// CheckNumberSet rejects an empty claim or one that names a value twice.
func CheckNumberSet(values []int64) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no numbers requested", ErrInvalidInput)
	}
	seen := make(map[int64]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			return fmt.Errorf("%w: number %d requested twice", ErrInvalidInput, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

type NumberStore interface {
	// ReserveNumbers atomically claims purchase.Numbers and persists the
	// pending purchase. The unit must be active at claim time. When any
	// number is not available it returns an *UnavailableError and mutates
	// nothing.
	ReserveNumbers(ctx context.Context, purchase *PurchaseRecord) error
	ListNumbers(ctx context.Context, unitID string, status NumberStatus) ([]*NumberRecord, error)
	ListValuesByStatus(ctx context.Context, unitID string, status NumberStatus) ([]int64, error)
	CountByStatus(ctx context.Context, unitID string) (NumberStats, error)
}
