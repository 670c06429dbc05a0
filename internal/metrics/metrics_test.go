package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics("fdr")
	m.IngestSucceeded("upload", 10, 2, 150*time.Millisecond)
	m.IngestSucceeded("upload", 5, 0, 50*time.Millisecond)
	m.IngestFailed("cloud", "no_valid_records", 3)
	m.SyncFlight("imported")
	m.SyncFlight("skipped")
	m.SyncFlight("skipped")

	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"records", testutil.ToFloat64(m.IngestRecords.WithLabelValues("upload")), 15},
		{"bad lines upload", testutil.ToFloat64(m.IngestBadLines.WithLabelValues("upload")), 2},
		{"bad lines cloud", testutil.ToFloat64(m.IngestBadLines.WithLabelValues("cloud")), 3},
		{"failures", testutil.ToFloat64(m.IngestFailures.WithLabelValues("no_valid_records")), 1},
		{"skipped", testutil.ToFloat64(m.SyncFlights.WithLabelValues("skipped")), 2},
	}
	for _, test := range tests {
		if test.value != test.expected {
			t.Errorf("%s = %v; expected %v", test.name, test.value, test.expected)
		}
	}

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(recorder.Body)
	if !strings.Contains(string(body), "fdr_ingest_duration_seconds_count{source=\"upload\"} 2") {
		t.Errorf("histogram missing from exposition")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.IngestSucceeded("upload", 1, 0, time.Second)
	m.IngestFailed("upload", "storage", 0)
	m.SyncFlight("imported")
	m.RawLogArchived()
	if m.Registry() != nil {
		t.Errorf("nil metrics returned a registry")
	}
}
