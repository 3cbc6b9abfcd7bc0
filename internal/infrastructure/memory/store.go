package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type unitState struct {
	unit    domain.Unit
	numbers map[int64]*domain.NumberRecord
	values  []int64
}

// Store keeps units, numbers and purchases in process memory. Every write
// happens under one mutex, which is the serialization point that makes
// reservation and decision atomic.
type Store struct {
	mu        sync.RWMutex
	units     map[string]*unitState
	purchases map[string]*domain.PurchaseRecord
}

func NewStore() *Store {
	return &Store{
		units:     make(map[string]*unitState),
		purchases: make(map[string]*domain.PurchaseRecord),
	}
}

// Units

func (s *Store) CreateUnit(ctx context.Context, unit *domain.Unit, numbers []*domain.NumberRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.units[unit.ID]; exists {
		return fmt.Errorf("%w: unit %s already exists", domain.ErrInvalidInput, unit.ID)
	}
	st := &unitState{
		unit:    cloneUnit(unit),
		numbers: make(map[int64]*domain.NumberRecord, len(numbers)),
		values:  make([]int64, 0, len(numbers)),
	}
	for _, n := range numbers {
		if _, dup := st.numbers[n.Value]; dup {
			return fmt.Errorf("%w: duplicate number %d", domain.ErrInvalidInput, n.Value)
		}
		rec := cloneNumber(n)
		rec.UnitID = unit.ID
		st.numbers[n.Value] = rec
		st.values = append(st.values, n.Value)
	}
	slices.Sort(st.values)
	s.units[unit.ID] = st
	return nil
}

func (s *Store) GetUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.units[unitID]
	if !ok {
		return nil, fmt.Errorf("unit %s: %w", unitID, domain.ErrNotFound)
	}
	u := cloneUnit(&st.unit)
	return &u, nil
}

func (s *Store) ListUnits(ctx context.Context) ([]*domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	units := make([]*domain.Unit, 0, len(s.units))
	for _, st := range s.units {
		u := cloneUnit(&st.unit)
		units = append(units, &u)
	}
	sort.Slice(units, func(i, j int) bool {
		if !units[i].CreatedAt.Equal(units[j].CreatedAt) {
			return units[i].CreatedAt.Before(units[j].CreatedAt)
		}
		return units[i].ID < units[j].ID
	})
	return units, nil
}

func (s *Store) UpdateUnitStatus(ctx context.Context, unitID string, from, to domain.UnitStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.units[unitID]
	if !ok {
		return fmt.Errorf("unit %s: %w", unitID, domain.ErrNotFound)
	}
	if st.unit.Status != from {
		return fmt.Errorf("%w: unit is %s, not %s", domain.ErrInvalidTransition, st.unit.Status, from)
	}
	st.unit.Status = to
	st.unit.UpdatedAt = time.Now()
	return nil
}

func (s *Store) SetWinningNumber(ctx context.Context, unitID string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.units[unitID]
	if !ok {
		return fmt.Errorf("unit %s: %w", unitID, domain.ErrNotFound)
	}
	if st.unit.WinningNumber != nil {
		return fmt.Errorf("%w: winner already drawn", domain.ErrInvalidTransition)
	}
	st.unit.WinningNumber = &value
	st.unit.UpdatedAt = time.Now()
	return nil
}

// Numbers

func (s *Store) ReserveNumbers(ctx context.Context, purchase *domain.PurchaseRecord) error {
	if err := domain.CheckNumberSet(purchase.Numbers); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.units[purchase.UnitID]
	if !ok {
		return fmt.Errorf("unit %s: %w", purchase.UnitID, domain.ErrNotFound)
	}
	if st.unit.Status != domain.UnitActive {
		return fmt.Errorf("%w: unit %s is %s", domain.ErrUnitNotActive, st.unit.ID, st.unit.Status)
	}

	var conflicts []int64
	for _, v := range purchase.Numbers {
		n, ok := st.numbers[v]
		if !ok {
			return fmt.Errorf("number %d: %w", v, domain.ErrNotFound)
		}
		if n.Status != domain.NumberAvailable {
			conflicts = append(conflicts, v)
		}
	}
	if len(conflicts) > 0 {
		slices.Sort(conflicts)
		return &domain.UnavailableError{Numbers: conflicts}
	}

	for _, v := range purchase.Numbers {
		if err := st.numbers[v].Reserve(purchase.ID, purchase.Buyer, purchase.CreatedAt); err != nil {
			return err
		}
	}
	s.purchases[purchase.ID] = clonePurchase(purchase)
	return nil
}

func (s *Store) ListNumbers(ctx context.Context, unitID string, status domain.NumberStatus) ([]*domain.NumberRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.units[unitID]
	if !ok {
		return nil, fmt.Errorf("unit %s: %w", unitID, domain.ErrNotFound)
	}
	out := make([]*domain.NumberRecord, 0)
	for _, v := range st.values {
		n := st.numbers[v]
		if status == "" || n.Status == status {
			out = append(out, cloneNumber(n))
		}
	}
	return out, nil
}

func (s *Store) ListValuesByStatus(ctx context.Context, unitID string, status domain.NumberStatus) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.units[unitID]
	if !ok {
		return nil, fmt.Errorf("unit %s: %w", unitID, domain.ErrNotFound)
	}
	out := make([]int64, 0)
	for _, v := range st.values {
		if st.numbers[v].Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Store) CountByStatus(ctx context.Context, unitID string) (domain.NumberStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.units[unitID]
	if !ok {
		return domain.NumberStats{}, fmt.Errorf("unit %s: %w", unitID, domain.ErrNotFound)
	}
	var stats domain.NumberStats
	for _, n := range st.numbers {
		stats.Total++
		switch n.Status {
		case domain.NumberAvailable:
			stats.Available++
		case domain.NumberReserved:
			stats.Reserved++
		case domain.NumberSold:
			stats.Sold++
		}
	}
	return stats, nil
}

// Purchases

func (s *Store) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.PurchaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.purchases[purchaseID]
	if !ok {
		return nil, fmt.Errorf("purchase %s: %w", purchaseID, domain.ErrNotFound)
	}
	return clonePurchase(p), nil
}

func (s *Store) ListPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.PurchaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.PurchaseRecord, 0)
	for _, p := range s.purchases {
		if filter.UnitID != "" && p.UnitID != filter.UnitID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.DocumentID != "" && p.Buyer.DocumentID != filter.DocumentID {
			continue
		}
		out = append(out, clonePurchase(p))
	}
	sortByCreated(out)
	return out, nil
}

func (s *Store) DecidePurchase(ctx context.Context, purchaseID string, d domain.Decision, at time.Time) (*domain.PurchaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.purchases[purchaseID]
	if !ok {
		return nil, fmt.Errorf("purchase %s: %w", purchaseID, domain.ErrNotFound)
	}
	next, err := p.Status.Apply(d)
	if err != nil {
		return nil, err
	}
	st, ok := s.units[p.UnitID]
	if !ok {
		return nil, fmt.Errorf("unit %s: %w", p.UnitID, domain.ErrNotFound)
	}

	// Validate every number before touching any of them.
	for _, v := range p.Numbers {
		n, ok := st.numbers[v]
		if !ok || n.Status != domain.NumberReserved || n.PurchaseID != p.ID {
			return nil, fmt.Errorf("%w: number %d is not held by purchase %s", domain.ErrInvalidTransition, v, p.ID)
		}
	}
	for _, v := range p.Numbers {
		n := st.numbers[v]
		if next == domain.PurchaseAuthorized {
			err = n.Sell()
		} else {
			err = n.Release()
		}
		if err != nil {
			return nil, err
		}
	}
	p.Status = next
	p.DecidedAt = &at
	return clonePurchase(p), nil
}

func (s *Store) FindPendingBefore(ctx context.Context, before time.Time) ([]*domain.PurchaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.PurchaseRecord, 0)
	for _, p := range s.purchases {
		if p.Status == domain.PurchasePending && p.CreatedAt.Before(before) {
			out = append(out, clonePurchase(p))
		}
	}
	sortByCreated(out)
	return out, nil
}

func sortByCreated(ps []*domain.PurchaseRecord) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].ID < ps[j].ID
		}
		return ps[i].CreatedAt.Before(ps[j].CreatedAt)
	})
}

func cloneUnit(u *domain.Unit) domain.Unit {
	c := *u
	if u.Combo != nil {
		combo := *u.Combo
		c.Combo = &combo
	}
	if u.WinningNumber != nil {
		w := *u.WinningNumber
		c.WinningNumber = &w
	}
	c.PrizeNumbers = slices.Clone(u.PrizeNumbers)
	return c
}

func cloneNumber(n *domain.NumberRecord) *domain.NumberRecord {
	c := *n
	if n.Holder != nil {
		h := *n.Holder
		c.Holder = &h
	}
	if n.ReservedAt != nil {
		at := *n.ReservedAt
		c.ReservedAt = &at
	}
	return &c
}

func clonePurchase(p *domain.PurchaseRecord) *domain.PurchaseRecord {
	c := *p
	c.Numbers = slices.Clone(p.Numbers)
	if p.DecidedAt != nil {
		at := *p.DecidedAt
		c.DecidedAt = &at
	}
	return &c
}
