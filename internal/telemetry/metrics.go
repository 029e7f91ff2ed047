package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "temple"

// Operation results recorded in the result label.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the Prometheus collectors for one store. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	records    *prometheus.GaugeVec
	repairs    *prometheus.CounterVec
}

// NewMetrics creates collectors registered on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "repository",
				Name:      "operations_total",
				Help:      "Repository operations by partition, operation, and result.",
			},
			[]string{"partition", "operation", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "repository",
				Name:      "operation_duration_seconds",
				Help:      "Repository operation latency.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"partition", "operation"},
		),
		records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "partition",
				Name:      "records",
				Help:      "Records held by a partition after the last write.",
			},
			[]string{"partition"},
		),
		repairs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "partition",
				Name:      "repairs_total",
				Help:      "Repairs applied to stored partition data, by kind.",
			},
			[]string{"partition", "kind"},
		),
	}
	m.registry.MustRegister(m.operations, m.duration, m.records, m.repairs)
	return m
}

// ObserveOperation records one repository operation.
func (m *Metrics) ObserveOperation(partition, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.operations.WithLabelValues(partition, operation, result).Inc()
	m.duration.WithLabelValues(partition, operation).Observe(time.Since(start).Seconds())
}

// SetRecords records the size of a partition.
func (m *Metrics) SetRecords(partition string, n int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(partition).Set(float64(n))
}

// IncRepair counts a repair of the given kind.
func (m *Metrics) IncRepair(partition, kind string) {
	if m == nil {
		return
	}
	m.repairs.WithLabelValues(partition, kind).Inc()
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes the current metrics in the text exposition format to
// path, for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// OperationsCounter returns the operations counter for one label set.
func (m *Metrics) OperationsCounter(partition, operation, result string) prometheus.Counter {
	return m.operations.WithLabelValues(partition, operation, result)
}

// RepairsCounter returns the repairs counter for one label set.
func (m *Metrics) RepairsCounter(partition, kind string) prometheus.Counter {
	return m.repairs.WithLabelValues(partition, kind)
}
