package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T, total int) *Store {
	t.Helper()
	s := NewStore()
	numbers := make([]*domain.NumberRecord, total)
	for i := range numbers {
		numbers[i] = &domain.NumberRecord{Value: int64(i + 1), Status: domain.NumberAvailable}
	}
	err := s.CreateUnit(context.Background(), &domain.Unit{
		ID:           "unit-1",
		TotalNumbers: total,
		Status:       domain.UnitActive,
		CreatedAt:    time.Now(),
	}, numbers)
	require.NoError(t, err)
	return s
}

func purchase(id string, numbers ...int64) *domain.PurchaseRecord {
	return &domain.PurchaseRecord{
		ID:        id,
		UnitID:    "unit-1",
		Buyer:     domain.Buyer{Name: id, DocumentID: id},
		Numbers:   numbers,
		Status:    domain.PurchasePending,
		CreatedAt: time.Now(),
	}
}

func TestReserveNumbers_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t, 10)

	require.NoError(t, s.ReserveNumbers(ctx, purchase("a", 1, 2, 3)))

	err := s.ReserveNumbers(ctx, purchase("b", 3, 4))
	nums, ok := domain.ConflictingNumbers(err)
	require.True(t, ok)
	assert.Equal(t, []int64{3}, nums)

	available, err := s.ListValuesByStatus(ctx, "unit-1", domain.NumberAvailable)
	require.NoError(t, err)
	assert.Contains(t, available, int64(4))

	_, err = s.GetPurchaseByID(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.ReserveNumbers(ctx, purchase("c", 4, 99))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	stats, err := s.CountByStatus(ctx, "unit-1")
	require.NoError(t, err)
	assert.Equal(t, domain.NumberStats{Total: 10, Available: 7, Reserved: 3}, stats)
}

func TestReserveNumbers_ConcurrentOverlap(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t, 20)

	const buyers = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// every request overlaps on number 10
			err := s.ReserveNumbers(ctx, purchase(fmt.Sprintf("p%d", i), 10, int64(i%5+1)))
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, domain.ErrNumbersUnavailable))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	held := map[int64]string{}
	ps, err := s.ListPurchases(ctx, domain.PurchaseFilter{UnitID: "unit-1"})
	require.NoError(t, err)
	for _, p := range ps {
		for _, n := range p.Numbers {
			_, taken := held[n]
			assert.False(t, taken, "number %d double allocated", n)
			held[n] = p.ID
		}
	}
}

func TestDecidePurchase(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t, 5)
	require.NoError(t, s.ReserveNumbers(ctx, purchase("a", 1, 2)))
	require.NoError(t, s.ReserveNumbers(ctx, purchase("b", 3)))

	p, err := s.DecidePurchase(ctx, "a", domain.DecisionAuthorize, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseAuthorized, p.Status)
	require.NotNil(t, p.DecidedAt)

	p, err = s.DecidePurchase(ctx, "b", domain.DecisionReject, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseRejected, p.Status)

	_, err = s.DecidePurchase(ctx, "a", domain.DecisionReject, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = s.DecidePurchase(ctx, "missing", domain.DecisionReject, time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	numbers, err := s.ListNumbers(ctx, "unit-1", "")
	require.NoError(t, err)
	byValue := map[int64]*domain.NumberRecord{}
	for _, n := range numbers {
		byValue[n.Value] = n
	}
	assert.Equal(t, domain.NumberSold, byValue[1].Status)
	assert.Equal(t, "a", byValue[1].Holder.Name)
	assert.Equal(t, domain.NumberAvailable, byValue[3].Status)
	assert.Nil(t, byValue[3].Holder)
	assert.Nil(t, byValue[3].ReservedAt)

	// a released number can be claimed again
	require.NoError(t, s.ReserveNumbers(ctx, purchase("c", 3)))
}

func TestDecidePurchase_ConcurrentDecisions(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t, 5)
	require.NoError(t, s.ReserveNumbers(ctx, purchase("a", 1, 2)))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := domain.DecisionAuthorize
			if i%2 == 0 {
				d = domain.DecisionReject
			}
			_, err := s.DecidePurchase(ctx, "a", d, time.Now())
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
}

func TestUnitStatusAndWinner(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t, 3)

	require.NoError(t, s.UpdateUnitStatus(ctx, "unit-1", domain.UnitActive, domain.UnitPaused))
	err := s.UpdateUnitStatus(ctx, "unit-1", domain.UnitActive, domain.UnitCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, s.SetWinningNumber(ctx, "unit-1", 2))
	assert.ErrorIs(t, s.SetWinningNumber(ctx, "unit-1", 3), domain.ErrInvalidTransition)

	u, err := s.GetUnitByID(ctx, "unit-1")
	require.NoError(t, err)
	assert.Equal(t, domain.UnitPaused, u.Status)
	require.NotNil(t, u.WinningNumber)
	assert.Equal(t, int64(2), *u.WinningNumber)

	_, err = s.GetUnitByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserveNumbers_RejectsBadNumberSets(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t, 5)

	for _, numbers := range [][]int64{nil, {1, 1}, {2, 4, 2}} {
		err := s.ReserveNumbers(ctx, purchase("p", numbers...))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "numbers %v", numbers)
	}

	stats, err := s.CountByStatus(ctx, "unit-1")
	require.NoError(t, err)
	assert.Equal(t, domain.NumberStats{Total: 5, Available: 5}, stats)
	_, err = s.GetPurchaseByID(ctx, "p")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserveNumbers_UnitNotActive(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t, 5)
	require.NoError(t, s.UpdateUnitStatus(ctx, "unit-1", domain.UnitActive, domain.UnitPaused))

	err := s.ReserveNumbers(ctx, purchase("p", 1))
	assert.ErrorIs(t, err, domain.ErrUnitNotActive)

	available, err := s.ListValuesByStatus(ctx, "unit-1", domain.NumberAvailable)
	require.NoError(t, err)
	assert.Len(t, available, 5)
}

func TestListUnits_SameInstantOrderedByID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for _, id := range []string{"u-c", "u-a", "u-b"} {
		require.NoError(t, s.CreateUnit(ctx, &domain.Unit{ID: id, Status: domain.UnitDraft, CreatedAt: at}, nil))
	}

	units, err := s.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 3)
	assert.Equal(t, []string{"u-a", "u-b", "u-c"}, []string{units[0].ID, units[1].ID, units[2].ID})
}
