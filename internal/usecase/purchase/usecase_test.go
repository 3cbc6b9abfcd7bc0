package purchase

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/memory"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/numberpool"
	"github.com/LavaJover/shvark-raffle-service/internal/usecase/ranking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	store   *memory.Store
	uc      *DefaultPurchaseUsecase
	audit   *logger.MemoryPurchaseEventLogger
	metrics *metrics.RaffleMetrics
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	uc, err := NewDefaultPurchaseUsecase(store, store, store, numberpool.New(rand.NewPCG(7, 11)), zaptest.NewLogger(t))
	require.NoError(t, err)

	f := &fixture{
		store:   store,
		uc:      uc,
		audit:   logger.NewMemoryPurchaseEventLogger(),
		metrics: metrics.NewRaffleMetrics(prometheus.NewRegistry()),
		clock:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	uc.WithAudit(f.audit).WithMetrics(f.metrics)
	uc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

func (f *fixture) addUnit(t *testing.T, unit *domain.Unit) *domain.Unit {
	t.Helper()
	if unit.Status == "" {
		unit.Status = domain.UnitActive
	}
	numbers := make([]*domain.NumberRecord, unit.TotalNumbers)
	for i := range numbers {
		numbers[i] = &domain.NumberRecord{UnitID: unit.ID, Value: int64(i + 1), Status: domain.NumberAvailable}
	}
	require.NoError(t, f.store.CreateUnit(context.Background(), unit, numbers))
	return unit
}

func flatUnit(id string, total int) *domain.Unit {
	return &domain.Unit{
		ID:           id,
		Title:        "Prize draw",
		TotalNumbers: total,
		Numbering:    domain.NumberingSequential,
		Pricing:      domain.PricingFlat,
		UnitPrice:    2.5,
		PaymentKey:   "pix-key-123",
	}
}

func comboUnit(id string, total int) *domain.Unit {
	return &domain.Unit{
		ID:           id,
		Title:        "Combo draw",
		TotalNumbers: total,
		Numbering:    domain.NumberingSequential,
		Pricing:      domain.PricingCombo,
		Combo:        &domain.ComboRule{BaseValue: 2, NumbersPerValue: 1},
	}
}

var (
	buyerA = domain.Buyer{Name: "Ana", DocumentID: "111"}
	buyerB = domain.Buyer{Name: "Bruno", DocumentID: "222"}
)

func TestPurchaseLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUnit(t, flatUnit("u1", 10))

	p, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{3, 1, 2}, Buyer: buyerA})
	require.NoError(t, err)
	assert.Len(t, p.ID, PurchaseIDLength)
	assert.Equal(t, []int64{1, 2, 3}, p.Numbers)
	assert.Equal(t, domain.PurchasePending, p.Status)
	assert.InDelta(t, 7.5, p.Amount, 1e-9)

	stats, err := f.store.CountByStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.NumberStats{Total: 10, Available: 7, Reserved: 3}, stats)

	_, err = f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{3, 4}, Buyer: buyerB})
	require.ErrorIs(t, err, domain.ErrNumbersUnavailable)
	conflicting, ok := domain.ConflictingNumbers(err)
	require.True(t, ok)
	assert.Equal(t, []int64{3}, conflicting)

	four, err := f.store.ListNumbers(ctx, "u1", domain.NumberAvailable)
	require.NoError(t, err)
	assert.Len(t, four, 7)

	f.advance(10 * time.Minute)
	authorized, err := f.uc.Authorize(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseAuthorized, authorized.Status)
	require.NotNil(t, authorized.DecidedAt)
	assert.Equal(t, f.clock, *authorized.DecidedAt)

	stats, err = f.store.CountByStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.NumberStats{Total: 10, Available: 7, Sold: 3}, stats)

	entries, err := ranking.NewDefaultRankingUsecase(f.store, f.store).Rank(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ana", entries[0].BuyerName)
	assert.Equal(t, 3, entries[0].TicketsBought)
	assert.InDelta(t, 100.0, entries[0].ParticipationPercentage, 1e-9)

	_, err = f.uc.Reject(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	events := f.audit.Events()
	require.Len(t, events, 2)
	assert.Equal(t, string(domain.EventPurchaseReserved), events[0].Event)
	assert.Equal(t, string(domain.EventPurchaseAuthorized), events[1].Event)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationsTotal.WithLabelValues("u1", "FLAT", "explicit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationConflicts.WithLabelValues("u1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PurchasesAuthorizedTotal.WithLabelValues("u1")))
	assert.Equal(t, 7.5, testutil.ToFloat64(f.metrics.AuthorizedAmountTotal.WithLabelValues("u1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Errors.WithLabelValues("reject", "invalid_transition")))
}

func TestReject_ReleasesNumbers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUnit(t, flatUnit("u1", 5))

	p, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{2, 4}, Buyer: buyerA})
	require.NoError(t, err)

	rejected, err := f.uc.Reject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseRejected, rejected.Status)

	numbers, err := f.store.ListNumbers(ctx, "u1", domain.NumberAvailable)
	require.NoError(t, err)
	assert.Len(t, numbers, 5)
	for _, n := range numbers {
		assert.Nil(t, n.Holder)
		assert.Empty(t, n.PurchaseID)
	}

	// released numbers can be claimed again
	again, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{2}, Buyer: buyerB})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, again.Numbers)

	_, err = f.uc.Authorize(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestReserve_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUnit(t, flatUnit("u1", 5))
	paused := flatUnit("u2", 5)
	paused.Status = domain.UnitPaused
	f.addUnit(t, paused)

	tests := []struct {
		name string
		in   ReserveInput
		want error
	}{
		{"missing buyer name", ReserveInput{UnitID: "u1", Numbers: []int64{1}, Buyer: domain.Buyer{Name: "  "}}, domain.ErrInvalidInput},
		{"numbers and count", ReserveInput{UnitID: "u1", Numbers: []int64{1}, Count: 2, Buyer: buyerA}, domain.ErrInvalidInput},
		{"nothing requested", ReserveInput{UnitID: "u1", Buyer: buyerA}, domain.ErrInvalidInput},
		{"duplicates", ReserveInput{UnitID: "u1", Numbers: []int64{1, 1}, Buyer: buyerA}, domain.ErrInvalidInput},
		{"unknown unit", ReserveInput{UnitID: "nope", Numbers: []int64{1}, Buyer: buyerA}, domain.ErrNotFound},
		{"unknown number", ReserveInput{UnitID: "u1", Numbers: []int64{99}, Buyer: buyerA}, domain.ErrNotFound},
		{"paused unit", ReserveInput{UnitID: "u2", Numbers: []int64{1}, Buyer: buyerA}, domain.ErrUnitNotActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Reserve(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	stats, err := f.store.CountByStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Available)
}

func TestReserve_Combo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUnit(t, comboUnit("c1", 20))

	t.Run("below base value", func(t *testing.T) {
		_, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "c1", Amount: 1.5, Count: 1, Buyer: buyerA})
		assert.ErrorIs(t, err, domain.ErrEntitlementExceeded)
	})

	t.Run("explicit over entitlement", func(t *testing.T) {
		_, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "c1", Amount: 4, Numbers: []int64{1, 2, 3}, Buyer: buyerA})
		assert.ErrorIs(t, err, domain.ErrEntitlementExceeded)
	})

	t.Run("whole entitlement by default", func(t *testing.T) {
		p, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "c1", Amount: 10, Buyer: buyerA})
		require.NoError(t, err)
		assert.Len(t, p.Numbers, 5)
		assert.InDelta(t, 10.0, p.Amount, 1e-9)
		assert.IsIncreasing(t, p.Numbers)
	})

	t.Run("count is clamped to entitlement", func(t *testing.T) {
		p, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "c1", Amount: 6, Count: 9, Buyer: buyerB})
		require.NoError(t, err)
		assert.Len(t, p.Numbers, 3)
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.ReservationsTotal.WithLabelValues("c1", "COMBO", "auto")))
}

func TestReserve_AutoSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUnit(t, flatUnit("u1", 4))

	first, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Count: 3, Buyer: buyerA})
	require.NoError(t, err)
	assert.Len(t, first.Numbers, 3)

	// fewer left than asked for: take what remains
	second, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Count: 3, Buyer: buyerB})
	require.NoError(t, err)
	require.Len(t, second.Numbers, 1)
	assert.NotContains(t, first.Numbers, second.Numbers[0])

	_, err = f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Count: 1, Buyer: buyerB})
	assert.ErrorIs(t, err, domain.ErrSoldOut)
}

func TestReserve_ConcurrentOverlap(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUnit(t, flatUnit("u1", 10))

	const workers = 30
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{5, 6}, Buyer: buyerA})
			if err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrNumbersUnavailable)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	pending, err := f.uc.ListPending(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRejectExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUnit(t, flatUnit("u1", 10))

	old, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{1}, Buyer: buyerA})
	require.NoError(t, err)
	f.advance(20 * time.Minute)
	fresh, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{2}, Buyer: buyerB})
	require.NoError(t, err)
	f.advance(5 * time.Minute)

	n, err := f.uc.RejectExpired(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.uc.RejectExpired(ctx, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.uc.GetPurchase(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseRejected, got.Status)
	got, err = f.uc.GetPurchase(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurchasePending, got.Status)

	events := f.audit.Events()
	last := events[len(events)-1]
	assert.Equal(t, reasonExpired, last.Reason)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ExpiredReservationsTotal.WithLabelValues("u1")))
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUnit(t, flatUnit("u1", 10))

	p1, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{1}, Buyer: buyerA})
	require.NoError(t, err)
	f.advance(time.Minute)
	p2, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{2, 3}, Buyer: buyerB})
	require.NoError(t, err)
	f.advance(time.Minute)
	p3, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{4}, Buyer: buyerA})
	require.NoError(t, err)
	_, err = f.uc.Authorize(ctx, p2.ID)
	require.NoError(t, err)

	pending, err := f.uc.ListPending(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, p1.ID, pending[0].ID)
	assert.Equal(t, p3.ID, pending[1].ID)

	mine, err := f.uc.ListPurchases(ctx, domain.PurchaseFilter{UnitID: "u1", DocumentID: "111"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = f.uc.ListPending(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	info, err := f.uc.PaymentInfo(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentInfo{PurchaseID: p2.ID, Amount: 5, PaymentKey: "pix-key-123", Reference: p2.ID}, *info)

	_, err = f.uc.PaymentInfo(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.PurchaseEvent
}

func (p *recordingPublisher) PublishPurchase(_ context.Context, e domain.PurchaseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestNotify_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pub := &recordingPublisher{}
	f.uc.WithPublisher(pub)
	f.addUnit(t, flatUnit("u1", 3))

	p, err := f.uc.Reserve(ctx, ReserveInput{UnitID: "u1", Numbers: []int64{1, 2}, Buyer: buyerA})
	require.NoError(t, err)
	_, err = f.uc.Reject(ctx, p.ID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 10*time.Millisecond)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	types := []domain.PurchaseEventType{pub.events[0].Type, pub.events[1].Type}
	assert.ElementsMatch(t, []domain.PurchaseEventType{domain.EventPurchaseReserved, domain.EventPurchaseRejected}, types)
	for _, e := range pub.events {
		assert.Equal(t, "111", e.BuyerKey)
		assert.Equal(t, []int64{1, 2}, e.Numbers)
	}
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "numbers_unavailable", ErrorKind(&domain.UnavailableError{Numbers: []int64{1}}))
	assert.Equal(t, "sold_out", ErrorKind(domain.ErrSoldOut))
	assert.Equal(t, "internal", ErrorKind(context.DeadlineExceeded))
}
