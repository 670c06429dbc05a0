// Package metrics 入库与同步的 prometheus 指标
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 所有方法都可以在nil接收者上调用, 此时不做任何记录
type Metrics struct {
	registry        *prometheus.Registry
	IngestRecords   *prometheus.CounterVec
	IngestBadLines  *prometheus.CounterVec
	IngestFailures  *prometheus.CounterVec
	IngestDuration  *prometheus.HistogramVec
	SyncFlights     *prometheus.CounterVec
	ArchivedRawLogs prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		IngestRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_records_total",
			Help:      "The total number of telemetry records saved",
		}, []string{"source"}),
		IngestBadLines: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_bad_lines_total",
			Help:      "The total number of rejected telemetry lines",
		}, []string{"source"}),
		IngestFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_failures_total",
			Help:      "The total number of failed ingestions",
		}, []string{"reason"}),
		IngestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time taken to ingest one flight log",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		SyncFlights: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_flights_total",
			Help:      "The total number of remote flights handled by cloud sync",
		}, []string{"result"}),
		ArchivedRawLogs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archived_raw_logs_total",
			Help:      "The total number of raw logs written to the archive store",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) IngestSucceeded(source string, records int, badLines int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.IngestRecords.WithLabelValues(source).Add(float64(records))
	m.IngestBadLines.WithLabelValues(source).Add(float64(badLines))
	m.IngestDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (m *Metrics) IngestFailed(source string, reason string, badLines int) {
	if m == nil {
		return
	}
	m.IngestFailures.WithLabelValues(reason).Inc()
	m.IngestBadLines.WithLabelValues(source).Add(float64(badLines))
}

func (m *Metrics) SyncFlight(result string) {
	if m == nil {
		return
	}
	m.SyncFlights.WithLabelValues(result).Inc()
}

func (m *Metrics) RawLogArchived() {
	if m == nil {
		return
	}
	m.ArchivedRawLogs.Inc()
}
