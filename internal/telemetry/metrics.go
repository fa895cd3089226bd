package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — Prometheus метрики Cascade.
//
// Регистрируются один раз на процесс; nil-безопасны — все методы
// записи допускают nil-получателя, чтобы ядро и CLI могли работать
// без метрик.
type Metrics struct {
	// RunsTotal — количество завершённых runs по статусам.
	RunsTotal *prometheus.CounterVec

	// RunDuration — длительность runs по конвейерам.
	RunDuration *prometheus.HistogramVec

	// StepsTotal — количество выполненных шагов.
	StepsTotal prometheus.Counter

	// StepDuration — длительность выполнения одного шага.
	StepDuration prometheus.Histogram

	// GroupSize — размер параллельных групп (фактический fan-out).
	GroupSize prometheus.Histogram
}

// NewMetrics создаёт и регистрирует метрики в указанном Registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cascade",
			Name:      "runs_total",
			Help:      "Completed pipeline runs by final status.",
		}, []string{"pipeline", "status"}),

		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cascade",
			Name:      "run_duration_seconds",
			Help:      "Pipeline run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"pipeline"}),

		StepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "cascade",
			Name:      "steps_total",
			Help:      "Executed pipeline steps.",
		}),

		StepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cascade",
			Name:      "step_duration_seconds",
			Help:      "Single step execution duration.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}),

		GroupSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cascade",
			Name:      "group_size",
			Help:      "Number of steps executed concurrently per group.",
			Buckets:   prometheus.LinearBuckets(1, 1, 16),
		}),
	}
}

// ObserveRun записывает итог одного run.
func (m *Metrics) ObserveRun(pipeline, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(pipeline, status).Inc()
	m.RunDuration.WithLabelValues(pipeline).Observe(seconds)
}

// ObserveStep записывает выполнение одного шага.
func (m *Metrics) ObserveStep(seconds float64) {
	if m == nil {
		return
	}
	m.StepsTotal.Inc()
	m.StepDuration.Observe(seconds)
}

// ObserveGroup записывает размер выполненной параллельной группы.
func (m *Metrics) ObserveGroup(size int) {
	if m == nil {
		return
	}
	m.GroupSize.Observe(float64(size))
}
