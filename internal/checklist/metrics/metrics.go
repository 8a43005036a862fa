package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the checklist module.
type Metrics struct {
	AnswersSaved       prometheus.Counter
	GuardResets        prometheus.Counter
	Evaluations        prometheus.Counter
	EvaluationDuration prometheus.Histogram
	DerivedChecklists  *prometheus.CounterVec
	Escalations        prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
}

// New creates and registers all checklist metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a caller-supplied registerer; tests pass
// a fresh registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AnswersSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "fieldaudit_answers_saved_total",
			Help: "Total number of answer writes accepted by the save guard",
		}),
		GuardResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "fieldaudit_guard_status_resets_total",
			Help: "Total number of rejected answers force-reset to pending verification on edit",
		}),
		Evaluations: factory.NewCounter(prometheus.CounterOpts{
			Name: "fieldaudit_evaluations_total",
			Help: "Total number of level evaluations computed",
		}),
		EvaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fieldaudit_evaluation_duration_seconds",
			Help:    "Latency of level evaluation computations",
			Buckets: prometheus.DefBuckets,
		}),
		DerivedChecklists: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldaudit_derived_checklists_total",
			Help: "Total number of derived checklists created, by type",
		}, []string{"type"}),
		Escalations: factory.NewCounter(prometheus.CounterOpts{
			Name: "fieldaudit_target_level_escalations_total",
			Help: "Total number of target level escalations recorded",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "fieldaudit_evaluation_cache_hits_total",
			Help: "Evaluation cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "fieldaudit_evaluation_cache_misses_total",
			Help: "Evaluation cache misses",
		}),
	}
}
