package database

import (
	"context"
	"errors"
	"time"

	. "github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"gorm.io/gorm"
)

const recordInsertBatch = 100

type FlightOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewFlightOperation(db *gorm.DB, queryTimeout time.Duration) *FlightOperation {
	return &FlightOperation{db: db, queryTimeout: queryTimeout}
}

func (flightOperation *FlightOperation) NewFlight(ownerId uint, name string) *Flight {
	return &Flight{
		OwnerId:     ownerId,
		Name:        name,
		RecordCount: 0,
	}
}

func (flightOperation *FlightOperation) SaveFlight(ctx context.Context, flight *Flight) error {
	ctx, cancel := context.WithTimeout(ctx, flightOperation.queryTimeout)
	defer cancel()
	return flightOperation.db.WithContext(ctx).Save(flight).Error
}

func (flightOperation *FlightOperation) SaveRecordsBatch(ctx context.Context, records []*FlightRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, flightOperation.queryTimeout)
	defer cancel()
	return flightOperation.db.WithContext(ctx).CreateInBatches(records, recordInsertBatch).Error
}

func (flightOperation *FlightOperation) GetFlightById(ctx context.Context, id uint) (flight *Flight, err error) {
	flight = &Flight{}
	ctx, cancel := context.WithTimeout(ctx, flightOperation.queryTimeout)
	defer cancel()
	err = flightOperation.db.WithContext(ctx).
		Where("id = ?", id).
		First(flight).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrFlightNotFound
	}
	return
}

func (flightOperation *FlightOperation) GetFlightsByOwner(ctx context.Context, ownerId uint) (flights []*Flight, err error) {
	flights = make([]*Flight, 0)
	ctx, cancel := context.WithTimeout(ctx, flightOperation.queryTimeout)
	defer cancel()
	err = flightOperation.db.WithContext(ctx).
		Where("owner_id = ?", ownerId).
		Order("start_time DESC").
		Order("id DESC").
		Find(&flights).Error
	return
}

func (flightOperation *FlightOperation) GetRecordsByFlight(ctx context.Context, flightId uint) (records []*FlightRecord, err error) {
	records = make([]*FlightRecord, 0)
	ctx, cancel := context.WithTimeout(ctx, flightOperation.queryTimeout)
	defer cancel()
	err = flightOperation.db.WithContext(ctx).
		Where("flight_id = ?", flightId).
		Order("id").
		Find(&records).Error
	return
}

func (flightOperation *FlightOperation) CountRecordsByOwner(ctx context.Context, ownerId uint) (total int64, err error) {
	ctx, cancel := context.WithTimeout(ctx, flightOperation.queryTimeout)
	defer cancel()
	err = flightOperation.db.WithContext(ctx).
		Model(&FlightRecord{}).
		Joins("JOIN flights ON flights.id = flight_records.flight_id").
		Where("flights.owner_id = ?", ownerId).
		Count(&total).Error
	return
}

func (flightOperation *FlightOperation) DeleteRecordsByFlight(ctx context.Context, flightId uint) error {
	ctx, cancel := context.WithTimeout(ctx, flightOperation.queryTimeout)
	defer cancel()
	return flightOperation.db.WithContext(ctx).
		Where("flight_id = ?", flightId).
		Delete(&FlightRecord{}).Error
}

func (flightOperation *FlightOperation) DeleteFlight(ctx context.Context, flight *Flight) error {
	ctx, cancel := context.WithTimeout(ctx, flightOperation.queryTimeout)
	defer cancel()
	result := flightOperation.db.WithContext(ctx).Delete(flight)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// Transaction 事务内的操作共享同一个连接, 单次查询仍受 queryTimeout 限制
func (flightOperation *FlightOperation) Transaction(ctx context.Context, fn func(tx FlightOperationInterface) error) error {
	return flightOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&FlightOperation{db: tx, queryTimeout: flightOperation.queryTimeout})
	})
}
