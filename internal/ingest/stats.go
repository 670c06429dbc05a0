package ingest

import (
	"context"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"github.com/half-nothing/simple-fdr/internal/telemetry"
	"github.com/half-nothing/simple-fdr/internal/utils"
)

type FieldStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

type FlightStats struct {
	FlightId     uint       `json:"flight_id"`
	RecordCount  int        `json:"record_count"`
	Duration     string     `json:"duration"`
	DistanceKm   float64    `json:"distance_km"`
	TemperatureC FieldStats `json:"temperature_c"`
	PressureHpa  FieldStats `json:"pressure_hpa"`
	AltitudeM    FieldStats `json:"altitude_m"`
	TurbulenceG  FieldStats `json:"turbulence_g"`
	SpeedKn      FieldStats `json:"speed_kn"`
}

type Analytics struct {
	TotalFlights           int     `json:"total_flights"`
	TotalRecords           int64   `json:"total_records"`
	AverageDurationSeconds float64 `json:"average_duration_seconds"`
	TotalDistanceKm        float64 `json:"total_distance_km"`
}

// Summarize 只统计非空值, 没有任何非空值的字段结果全部为0
func Summarize(records []*operation.FlightRecord, getter func(*operation.FlightRecord) *float64) FieldStats {
	var result FieldStats
	count := 0
	sum := 0.0
	for _, record := range records {
		value := getter(record)
		if value == nil {
			continue
		}
		if count == 0 || *value < result.Min {
			result.Min = *value
		}
		if count == 0 || *value > result.Max {
			result.Max = *value
		}
		sum += *value
		count++
	}
	if count > 0 {
		result.Avg = sum / float64(count)
	}
	return result
}

// FlightDuration 起止时间任一缺失时为0
func FlightDuration(flight *operation.Flight) time.Duration {
	if flight.StartTime == nil || flight.EndTime == nil {
		return 0
	}
	return flight.EndTime.Sub(*flight.StartTime)
}

// ComputeStats records 为空时返回 operation.ErrFlightNotFound
func ComputeStats(flight *operation.Flight, records []*operation.FlightRecord) (*FlightStats, error) {
	if flight == nil || len(records) == 0 {
		return nil, operation.ErrFlightNotFound
	}
	return &FlightStats{
		FlightId:     flight.ID,
		RecordCount:  len(records),
		Duration:     telemetry.FormatDuration(FlightDuration(flight)),
		DistanceKm:   flight.TotalDistanceKm,
		TemperatureC: Summarize(records, func(r *operation.FlightRecord) *float64 { return r.TemperatureC }),
		PressureHpa:  Summarize(records, func(r *operation.FlightRecord) *float64 { return r.PressureHpa }),
		AltitudeM:    Summarize(records, func(r *operation.FlightRecord) *float64 { return r.AltitudeM }),
		TurbulenceG:  Summarize(records, func(r *operation.FlightRecord) *float64 { return r.TurbulenceG }),
		SpeedKn:      Summarize(records, func(r *operation.FlightRecord) *float64 { return r.SpeedKn }),
	}, nil
}

type Aggregator struct {
	flights operation.FlightOperationInterface
}

func NewAggregator(flights operation.FlightOperationInterface) *Aggregator {
	return &Aggregator{flights: flights}
}

// Stats 航班不存在或没有记录时返回 operation.ErrFlightNotFound
func (aggregator *Aggregator) Stats(ctx context.Context, flightId uint) (*FlightStats, error) {
	records, err := aggregator.flights.GetRecordsByFlight(ctx, flightId)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, operation.ErrFlightNotFound
	}
	flight, err := aggregator.flights.GetFlightById(ctx, flightId)
	if err != nil {
		return nil, err
	}
	return ComputeStats(flight, records)
}

// Analytics 用户全部航班的汇总
func (aggregator *Aggregator) Analytics(ctx context.Context, ownerId uint) (*Analytics, error) {
	flights, err := aggregator.flights.GetFlightsByOwner(ctx, ownerId)
	if err != nil {
		return nil, err
	}
	total, err := aggregator.flights.CountRecordsByOwner(ctx, ownerId)
	if err != nil {
		return nil, err
	}
	result := &Analytics{TotalFlights: len(flights), TotalRecords: total}
	timed := 0
	var totalDuration time.Duration
	for _, flight := range flights {
		result.TotalDistanceKm += flight.TotalDistanceKm
		if flight.StartTime != nil && flight.EndTime != nil {
			totalDuration += FlightDuration(flight)
			timed++
		}
	}
	if timed > 0 {
		result.AverageDurationSeconds = utils.RoundTo(totalDuration.Seconds()/float64(timed), 2)
	}
	result.TotalDistanceKm = utils.RoundTo(result.TotalDistanceKm, 2)
	return result, nil
}
