package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/gotracker/internal/domain"
)

// Metrics holds the transaction Prometheus metrics and implements
// usecase.MetricsRecorder.
type Metrics struct {
	Operations         *prometheus.CounterVec
	StoredTransactions prometheus.Gauge
	Amount             *prometheus.HistogramVec
	ValidationFailures prometheus.Counter
	EventsDropped      prometheus.Counter
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gotracker_transaction_operations_total",
				Help: "Total number of transaction store operations",
			},
			[]string{"operation", "result"},
		),
		StoredTransactions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gotracker_transactions_stored",
			Help: "Number of transactions currently held by the store",
		}),
		Amount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gotracker_transaction_amount",
				Help:    "Absolute amounts of created transactions",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
			},
			[]string{"type"},
		),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gotracker_validation_failures_total",
			Help: "Total number of records rejected by server-side validation",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "gotracker_events_dropped_total",
			Help: "Total number of transaction events dropped because the queue was full",
		}),
	}
}

func (m *Metrics) RecordOperation(operation, result string) {
	m.Operations.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) RecordAmount(transactionType domain.TransactionType, amount float64) {
	m.Amount.WithLabelValues(string(transactionType)).Observe(amount)
}

func (m *Metrics) RecordValidationFailure() {
	m.ValidationFailures.Inc()
}

func (m *Metrics) SetStoredTransactions(n int) {
	m.StoredTransactions.Set(float64(n))
}

// RecordEventDropped counts an event the dispatcher could not queue.
func (m *Metrics) RecordEventDropped() {
	m.EventsDropped.Inc()
}
