package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/wicker/pkg/domain"
)

// Metrics holds the Prometheus collectors for one bot. Feed it to the
// engine through Hooks.
type Metrics struct {
	turns        *prometheus.CounterVec
	turnDuration prometheus.Histogram
	dialogStarts *prometheus.CounterVec
	dialogEnds   *prometheus.CounterVec
	prompts      *prometheus.CounterVec
	stackDepth   prometheus.Gauge
}

// NewMetrics creates and registers the collectors. Pass
// prometheus.DefaultRegisterer unless the process runs several bots.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wicker_turns_total",
				Help: "Processed turns by outcome.",
			},
			[]string{"outcome"},
		),
		turnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wicker_turn_duration_seconds",
				Help:    "Wall time spent processing one turn.",
				Buckets: prometheus.DefBuckets,
			},
		),
		dialogStarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wicker_dialog_starts_total",
				Help: "Dialogs pushed onto a stack, by dialog name.",
			},
			[]string{"dialog"},
		),
		dialogEnds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wicker_dialog_ends_total",
				Help: "Dialogs popped off a stack, by dialog name.",
			},
			[]string{"dialog"},
		),
		prompts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wicker_prompts_total",
				Help: "Prompts issued, by kind; retry=true counts re-prompts after invalid input.",
			},
			[]string{"kind", "retry"},
		),
		stackDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wicker_dialog_stack_depth",
				Help: "Stack depth observed on the most recent dialog start.",
			},
		),
	}
	reg.MustRegister(m.turns, m.turnDuration, m.dialogStarts, m.dialogEnds, m.prompts, m.stackDepth)
	return m
}

// Hooks returns lifecycle hooks feeding these collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDialogStart: func(ctx context.Context, ev *domain.DialogEvent) {
			m.dialogStarts.WithLabelValues(ev.Dialog).Inc()
			m.stackDepth.Set(float64(ev.Depth))
		},
		OnDialogEnd: func(ctx context.Context, ev *domain.DialogEvent) {
			m.dialogEnds.WithLabelValues(ev.Dialog).Inc()
		},
		OnPrompt: func(ctx context.Context, ev *domain.PromptEvent) {
			retry := "false"
			if ev.Retry {
				retry = "true"
			}
			m.prompts.WithLabelValues(string(ev.Kind), retry).Inc()
		},
		OnTurn: func(ctx context.Context, ev *domain.TurnEvent) {
			m.turns.WithLabelValues(ev.Outcome).Inc()
			m.turnDuration.Observe(ev.Duration.Seconds())
		},
	}
}
