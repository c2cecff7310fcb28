package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "servio"

// Metrics holds the engine's Prometheus instruments. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	bookingTransitions *prometheus.CounterVec
	commissionSplits   *prometheus.CounterVec
	commissionAmount   *prometheus.CounterVec
	tierRecomputes     *prometheus.CounterVec
	migrationRecords   *prometheus.CounterVec
	notificationErrors *prometheus.CounterVec
}

// NewMetrics creates the instruments and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "booking_transitions_total",
			Help:      "Booking status transition attempts by outcome.",
		}, []string{"from", "to", "result"}),
		commissionSplits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commission_splits_total",
			Help:      "Transactions split into commission and payout, by tier.",
		}, []string{"tier"}),
		commissionAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commission_amount_total",
			Help:      "Platform commission recorded, by tier.",
		}, []string{"tier"}),
		tierRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tier_recomputes_total",
			Help:      "Provider tier recomputations by resulting tier and outcome.",
		}, []string{"tier", "result"}),
		migrationRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tier_migration_records_total",
			Help:      "Legacy provider records processed by the tier migration.",
		}, []string{"result"}),
		notificationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "side_effect_failures_total",
			Help:      "Failed post-commit side effects (audit, notification, email, payment hook).",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.bookingTransitions,
			m.commissionSplits,
			m.commissionAmount,
			m.tierRecomputes,
			m.migrationRecords,
			m.notificationErrors,
		)
	}
	return m
}

func (m *Metrics) ObserveTransition(from, to, result string) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(from, to, result).Inc()
}

func (m *Metrics) ObserveSplit(tier string, commission float64) {
	if m == nil {
		return
	}
	m.commissionSplits.WithLabelValues(tier).Inc()
	m.commissionAmount.WithLabelValues(tier).Add(commission)
}

func (m *Metrics) ObserveRecompute(tier, result string) {
	if m == nil {
		return
	}
	m.tierRecomputes.WithLabelValues(tier, result).Inc()
}

func (m *Metrics) ObserveMigrationRecord(result string) {
	if m == nil {
		return
	}
	m.migrationRecords.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSideEffectFailure(kind string) {
	if m == nil {
		return
	}
	m.notificationErrors.WithLabelValues(kind).Inc()
}
