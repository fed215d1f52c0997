package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

const metricsNamespace = "prediction_league"

// Metrics is the prometheus-backed engine recorder. Each instance owns its
// registry so tests can build one without touching the global default.
type Metrics struct {
	registry *prometheus.Registry

	boostDecisions     *prometheus.CounterVec
	boostApplied       *prometheus.CounterVec
	boostConflicts     *prometheus.CounterVec
	predictionsWritten prometheus.Counter
	predictionRejected *prometheus.CounterVec
	roundTransitions   *prometheus.CounterVec
	finalizeLeagues    prometheus.Histogram
	finalizeDuration   prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		boostDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "boost",
			Name:      "decisions_total",
			Help:      "Boost eligibility decisions by code and outcome.",
		}, []string{"code", "outcome"}),
		boostApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "boost",
			Name:      "applied_total",
			Help:      "Boosts recorded against a round result.",
		}, []string{"code"}),
		boostConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "boost",
			Name:      "conflicts_total",
			Help:      "Boost applications lost to a concurrent writer.",
		}, []string{"code"}),
		predictionsWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "prediction",
			Name:      "written_total",
			Help:      "Predictions accepted and stored.",
		}),
		predictionRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "prediction",
			Name:      "rejected_total",
			Help:      "Prediction submissions rejected by reason.",
		}, []string{"reason"}),
		roundTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "round",
			Name:      "transitions_total",
			Help:      "Round lifecycle transitions by target status.",
		}, []string{"status"}),
		finalizeLeagues: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "round",
			Name:      "finalize_leagues",
			Help:      "Leagues scored per round finalization.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),
		finalizeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "round",
			Name:      "finalize_duration_seconds",
			Help:      "Wall time of round finalization.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) BoostDecision(code, outcome string) {
	m.boostDecisions.WithLabelValues(code, outcome).Inc()
}

func (m *Metrics) BoostApplied(code string) {
	m.boostApplied.WithLabelValues(code).Inc()
}

func (m *Metrics) BoostConflict(code string) {
	m.boostConflicts.WithLabelValues(code).Inc()
}

func (m *Metrics) PredictionsWritten(count int) {
	if count <= 0 {
		return
	}
	m.predictionsWritten.Add(float64(count))
}

func (m *Metrics) PredictionRejected(reason string) {
	m.predictionRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) RoundTransitioned(status string) {
	m.roundTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) RoundFinalized(leagues int, elapsed time.Duration) {
	m.finalizeLeagues.Observe(float64(leagues))
	m.finalizeDuration.Observe(elapsed.Seconds())
}

// ObserveCache exports the store's counters, read at scrape time. A nil
// store registers nothing.
func (m *Metrics) ObserveCache(store *cache.Store) {
	if store == nil {
		return
	}
	factory := promauto.With(m.registry)
	counter := func(name, help string, read func(cache.Stats) uint64) {
		factory.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(read(store.Stats())) })
	}
	counter("hits_total", "Cache lookups served from memory.", func(st cache.Stats) uint64 { return st.Hits })
	counter("misses_total", "Cache lookups that found nothing live.", func(st cache.Stats) uint64 { return st.Misses })
	counter("loads_total", "Loader calls made on a miss.", func(st cache.Stats) uint64 { return st.Loads })
	counter("load_failures_total", "Loader calls that returned an error.", func(st cache.Stats) uint64 { return st.LoadFails })
	counter("evictions_total", "Entries removed by invalidation or expiry.", func(st cache.Stats) uint64 { return st.Evictions })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Entries currently held.",
	}, func() float64 { return float64(store.Stats().Entries) })
}

var breakerStateValue = map[resilience.State]float64{
	resilience.StateClosed:   0,
	resilience.StateHalfOpen: 1,
	resilience.StateOpen:     2,
}

// ObserveBreaker exports a breaker's state (0 closed, 1 half open, 2 open)
// and its rejected-call count under the dependency label. A nil breaker
// registers nothing.
func (m *Metrics) ObserveBreaker(dependency string, breaker *resilience.CircuitBreaker) {
	if breaker == nil {
		return
	}
	factory := promauto.With(m.registry)
	labels := prometheus.Labels{"dependency": dependency}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "breaker",
		Name:        "state",
		Help:        "Circuit breaker state: 0 closed, 1 half open, 2 open.",
		ConstLabels: labels,
	}, func() float64 { return breakerStateValue[breaker.State()] })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Subsystem:   "breaker",
		Name:        "rejected_total",
		Help:        "Calls turned away while the breaker was open.",
		ConstLabels: labels,
	}, func() float64 { return float64(breaker.Rejected()) })
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
