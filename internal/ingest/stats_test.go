package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"github.com/half-nothing/simple-fdr/internal/testutils"
)

func f(v float64) *float64 { return &v }

func TestSummarizeSkipsNulls(t *testing.T) {
	records := []*operation.FlightRecord{
		{TemperatureC: f(10), SpeedKn: nil},
		{TemperatureC: nil},
		{TemperatureC: f(-4)},
		{TemperatureC: f(30)},
	}
	temperature := Summarize(records, func(r *operation.FlightRecord) *float64 { return r.TemperatureC })
	if temperature.Min != -4 || temperature.Max != 30 || temperature.Avg != 12 {
		t.Errorf("temperature = %+v", temperature)
	}
	speed := Summarize(records, func(r *operation.FlightRecord) *float64 { return r.SpeedKn })
	if speed != (FieldStats{}) {
		t.Errorf("all-null field = %+v; expected zeros", speed)
	}
}

func TestAggregatorStats(t *testing.T) {
	repo := testutils.NewMemoryFlights()
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(26*time.Hour + 5*time.Second)
	flight := &operation.Flight{OwnerId: 1, Name: "s.txt", StartTime: &start, EndTime: &end, RecordCount: 2, TotalDistanceKm: 3.5}
	_ = repo.SaveFlight(ctx, flight)
	_ = repo.SaveRecordsBatch(ctx, []*operation.FlightRecord{
		{FlightId: flight.ID, AltitudeM: f(100)},
		{FlightId: flight.ID, AltitudeM: f(300)},
	})

	aggregator := NewAggregator(repo)
	stats, err := aggregator.Stats(ctx, flight.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.RecordCount != 2 || stats.AltitudeM.Avg != 200 || stats.TurbulenceG != (FieldStats{}) {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Duration != "26:00:05" {
		t.Errorf("duration = %s; expected 26:00:05", stats.Duration)
	}

	empty := &operation.Flight{OwnerId: 1, Name: "empty.txt"}
	_ = repo.SaveFlight(ctx, empty)
	if _, err := aggregator.Stats(ctx, empty.ID); !errors.Is(err, operation.ErrFlightNotFound) {
		t.Errorf("flight without records returned %v", err)
	}
	if _, err := aggregator.Stats(ctx, 999); !errors.Is(err, operation.ErrFlightNotFound) {
		t.Errorf("unknown flight returned %v", err)
	}

	analytics, err := aggregator.Analytics(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if analytics.TotalFlights != 2 || analytics.TotalRecords != 2 || analytics.TotalDistanceKm != 3.5 {
		t.Errorf("analytics = %+v", analytics)
	}
	if analytics.AverageDurationSeconds != (26*time.Hour + 5*time.Second).Seconds() {
		t.Errorf("average duration = %v", analytics.AverageDurationSeconds)
	}
}
