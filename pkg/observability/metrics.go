package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/mintaka-labs/pennywise/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	turns       *prometheus.CounterVec
	rules       *prometheus.CounterVec
	transitions *prometheus.CounterVec
	actions     *prometheus.CounterVec
	messages    prometheus.Histogram
	epsilonHops prometheus.Histogram
	nluLatency  prometheus.Histogram
}

// NewMetrics registers the engine collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pennywise",
			Name:      "turns_total",
			Help:      "Turns processed, by starting state and detected intent.",
		}, []string{"state", "intent"}),
		rules: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pennywise",
			Name:      "rule_matches_total",
			Help:      "Rule matches, by state and rule name.",
		}, []string{"state", "rule"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pennywise",
			Name:      "transitions_total",
			Help:      "State transitions, split by epsilon (same-turn) hops.",
		}, []string{"from", "to", "epsilon"}),
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pennywise",
			Name:      "actions_total",
			Help:      "Emitted side-effect requests by type.",
		}, []string{"type"}),
		messages: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pennywise",
			Name:      "turn_messages",
			Help:      "Reply messages produced per turn.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		}),
		epsilonHops: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pennywise",
			Name:      "turn_epsilon_hops",
			Help:      "Same-turn state chain length per turn.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		nluLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pennywise",
			Name:      "nlu_latency_seconds",
			Help:      "Latency of upstream NLU calls.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Hooks returns lifecycle hooks that feed these collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurnStart: func(_ context.Context, e *domain.TurnEvent) {
			m.turns.WithLabelValues(e.State, orNone(e.Intent)).Inc()
		},
		OnTurnEnd: func(_ context.Context, e *domain.TurnEvent) {
			m.messages.Observe(float64(e.Messages))
			m.epsilonHops.Observe(float64(e.Hops))
		},
		OnRuleMatch: func(_ context.Context, e *domain.RuleEvent) {
			m.rules.WithLabelValues(e.State, e.Rule).Inc()
		},
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(e.From, e.To, strconv.FormatBool(e.Epsilon)).Inc()
		},
		OnActionEmit: func(_ context.Context, e *domain.ActionEvent) {
			m.actions.WithLabelValues(e.ActionType).Inc()
		},
	}
}

// ObserveNLULatency feeds the NLU latency histogram; pass it to the
// wit client's WithLatencyObserver option.
func (m *Metrics) ObserveNLULatency(d time.Duration) {
	m.nluLatency.Observe(d.Seconds())
}

func orNone(intent string) string {
	if intent == "" {
		return "none"
	}
	return intent
}
