package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RaffleMetrics holds every collector the service exports.
type RaffleMetrics struct {
	// Reservations
	ReservationsTotal        *prometheus.CounterVec
	ReservationConflicts     *prometheus.CounterVec
	ReservedNumbersTotal     *prometheus.CounterVec
	ReservationDuration      *prometheus.HistogramVec

	// Decisions
	PurchasesAuthorizedTotal *prometheus.CounterVec
	PurchasesRejectedTotal   *prometheus.CounterVec
	AuthorizedAmountTotal    *prometheus.CounterVec
	DecisionLatency          *prometheus.HistogramVec
	ExpiredReservationsTotal *prometheus.CounterVec

	// Inventory
	NumbersByStatus *prometheus.GaugeVec

	Errors *prometheus.CounterVec
}

// NewRaffleMetrics registers the collectors on reg. A nil reg means the
// default prometheus registry.
func NewRaffleMetrics(reg prometheus.Registerer) *RaffleMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &RaffleMetrics{
		ReservationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_reservations_total",
				Help: "Successful reservations (pending purchases created)",
			},
			[]string{"unit_id", "pricing_mode", "selection"},
		),
		ReservationConflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_reservation_conflicts_total",
				Help: "Reservations refused because a requested number was taken",
			},
			[]string{"unit_id"},
		),
		ReservedNumbersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_reserved_numbers_total",
				Help: "Numbers moved to RESERVED",
			},
			[]string{"unit_id"},
		),
		ReservationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raffle_reservation_duration_seconds",
				Help:    "Time spent in the atomic claim",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"unit_id", "outcome"},
		),
		PurchasesAuthorizedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_purchases_authorized_total",
				Help: "Purchases authorized by an operator",
			},
			[]string{"unit_id"},
		),
		PurchasesRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_purchases_rejected_total",
				Help: "Purchases rejected by an operator or the expiry sweeper",
			},
			[]string{"unit_id"},
		),
		AuthorizedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_authorized_amount_total",
				Help: "Sum of authorized purchase amounts",
			},
			[]string{"unit_id"},
		),
		DecisionLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "raffle_decision_latency_seconds",
				Help:    "Time from reservation to operator decision",
				Buckets: prometheus.ExponentialBuckets(60, 2, 12),
			},
			[]string{"unit_id", "decision"},
		),
		ExpiredReservationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_expired_reservations_total",
				Help: "Pending purchases released by the expiry sweeper",
			},
			[]string{"unit_id"},
		),
		NumbersByStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "raffle_numbers",
				Help: "Numbers per unit and status",
			},
			[]string{"unit_id", "status"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "raffle_errors_total",
				Help: "Operation failures by kind",
			},
			[]string{"operation", "kind"},
		),
	}
}

func (m *RaffleMetrics) RecordReservation(unitID, pricingMode, selection string, numbers int, seconds float64) {
	m.ReservationsTotal.WithLabelValues(unitID, pricingMode, selection).Inc()
	m.ReservedNumbersTotal.WithLabelValues(unitID).Add(float64(numbers))
	m.ReservationDuration.WithLabelValues(unitID, "ok").Observe(seconds)
}

func (m *RaffleMetrics) RecordConflict(unitID string, seconds float64) {
	m.ReservationConflicts.WithLabelValues(unitID).Inc()
	m.ReservationDuration.WithLabelValues(unitID, "conflict").Observe(seconds)
}

func (m *RaffleMetrics) RecordAuthorized(unitID string, amount, waitedSeconds float64) {
	m.PurchasesAuthorizedTotal.WithLabelValues(unitID).Inc()
	m.AuthorizedAmountTotal.WithLabelValues(unitID).Add(amount)
	m.DecisionLatency.WithLabelValues(unitID, "authorize").Observe(waitedSeconds)
}

func (m *RaffleMetrics) RecordRejected(unitID string, waitedSeconds float64) {
	m.PurchasesRejectedTotal.WithLabelValues(unitID).Inc()
	m.DecisionLatency.WithLabelValues(unitID, "reject").Observe(waitedSeconds)
}

func (m *RaffleMetrics) RecordExpired(unitID string) {
	m.ExpiredReservationsTotal.WithLabelValues(unitID).Inc()
}

func (m *RaffleMetrics) SetNumberStats(unitID string, available, reserved, sold int64) {
	m.NumbersByStatus.WithLabelValues(unitID, "available").Set(float64(available))
	m.NumbersByStatus.WithLabelValues(unitID, "reserved").Set(float64(reserved))
	m.NumbersByStatus.WithLabelValues(unitID, "sold").Set(float64(sold))
}

func (m *RaffleMetrics) RecordError(operation, kind string) {
	m.Errors.WithLabelValues(operation, kind).Inc()
}
