package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec

	confidenceScore *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vendormind",
			Subsystem: "worker",
			Name:      "invoice_process_total",
			Help:      "Total processed invoices by outcome.",
		},
		[]string{"service", "outcome"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vendormind",
			Subsystem: "worker",
			Name:      "invoice_process_duration_seconds",
			Help:      "Invoice processing duration in seconds by outcome.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "outcome"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "vendormind",
			Subsystem: "worker",
			Name:      "invoice_process_in_flight",
			Help:      "Number of in-flight invoice processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vendormind",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between invoice ingestion and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	confidenceScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vendormind",
			Subsystem: "worker",
			Name:      "invoice_confidence_score",
			Help:      "Final confidence score distribution of processed invoices.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 0.99},
		},
		[]string{"service"},
	)
	registry.MustRegister(processTotal, processDuration, processInFlight, queueLag, confidenceScore)

	return &WorkerMetrics{
		registry:        registry,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		queueLag:        queueLag,
		confidenceScore: confidenceScore,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartInvoice() {
	m.processInFlight.Inc()
}

// FinishInvoice records one completed processing attempt. Outcome is the
// terminal invoice status: processed, needs_review or failed.
func (m *WorkerMetrics) FinishInvoice(service, outcome string, duration time.Duration) {
	m.processInFlight.Dec()
	m.processTotal.WithLabelValues(service, outcome).Inc()
	m.processDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveConfidence(service string, score float64) {
	m.confidenceScore.WithLabelValues(service).Observe(score)
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}
