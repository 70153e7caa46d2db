package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BotMetrics records conversation-turn metadata.
type BotMetrics struct {
	turnDuration   *prometheus.HistogramVec
	turnFailure    *prometheus.CounterVec
	ordersPlaced   prometheus.Counter
	oracleFallback *prometheus.CounterVec
}

// NewBotMetrics registers the bot metrics on the provided registerer.
func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	if reg == nil {
		return &BotMetrics{}
	}
	turnDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bot_turn_duration_seconds",
		Help:    "Duration of conversation turns in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"state"})
	turnFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_turn_failure",
		Help: "Conversation turns that ended in an error reply.",
	}, []string{"state"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_orders_placed",
		Help: "Orders confirmed and persisted.",
	})
	oracleFallback := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_oracle_fallback",
		Help: "Oracle calls that fell back to the rule-based path.",
	}, []string{"task"})
	reg.MustRegister(turnDuration, turnFailure, ordersPlaced, oracleFallback)
	return &BotMetrics{
		turnDuration:   turnDuration,
		turnFailure:    turnFailure,
		ordersPlaced:   ordersPlaced,
		oracleFallback: oracleFallback,
	}
}

// ObserveTurn records the duration of a turn handled in the given state.
func (b *BotMetrics) ObserveTurn(state string, duration time.Duration) {
	if b == nil || b.turnDuration == nil {
		return
	}
	b.turnDuration.WithLabelValues(normalizeLabel(state)).Observe(duration.Seconds())
}

// IncTurnFailure increments the failed-turn counter for the given state.
func (b *BotMetrics) IncTurnFailure(state string) {
	if b == nil || b.turnFailure == nil {
		return
	}
	b.turnFailure.WithLabelValues(normalizeLabel(state)).Inc()
}

// IncOrderPlaced increments the placed-order counter.
func (b *BotMetrics) IncOrderPlaced() {
	if b == nil || b.ordersPlaced == nil {
		return
	}
	b.ordersPlaced.Inc()
}

// IncOracleFallback increments the oracle fallback counter for the named task.
func (b *BotMetrics) IncOracleFallback(task string) {
	if b == nil || b.oracleFallback == nil {
		return
	}
	b.oracleFallback.WithLabelValues(normalizeLabel(task)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
