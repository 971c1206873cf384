package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Entity labels.
const (
	EntityQuestion = "question"
	EntityAnswer   = "answer"
)

// Operation labels.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Metrics provides observability for the question/answer module.
// Tracks successful mutations and per-operation latency.
type Metrics struct {
	Mutations         *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// New registers the module metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qna_mutations_total",
			Help: "Total number of successful question and answer mutations",
		}, []string{"entity", "operation"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qna_operation_duration_seconds",
			Help:    "Duration of question and answer service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"entity", "operation"}),
	}
}

// IncrementMutation records a committed create, update or delete.
func (m *Metrics) IncrementMutation(entity, operation string) {
	m.Mutations.WithLabelValues(entity, operation).Inc()
}

// ObserveOperation records the duration of a service call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(entity, operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(entity, operation).Observe(time.Since(start).Seconds())
}
