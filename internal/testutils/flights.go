package testutils

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
)

// MemoryFlights 内存中的航班仓库, Transaction 失败时恢复到事务开始前的快照
type MemoryFlights struct {
	mu       sync.Mutex
	nextId   uint
	flights  map[uint]*operation.Flight
	records  map[uint][]*operation.FlightRecord
	Batches  []int
	FailSave error
	// FailCommit 模拟事务函数成功但提交失败
	FailCommit error
}

func NewMemoryFlights() *MemoryFlights {
	return &MemoryFlights{
		flights: make(map[uint]*operation.Flight),
		records: make(map[uint][]*operation.FlightRecord),
	}
}

func (m *MemoryFlights) NewFlight(ownerId uint, name string) *operation.Flight {
	return &operation.Flight{OwnerId: ownerId, Name: name}
}

func (m *MemoryFlights) SaveFlight(_ context.Context, flight *operation.Flight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	if flight.ID == 0 {
		m.nextId++
		flight.ID = m.nextId
		flight.CreatedAt = time.Now()
	}
	copied := *flight
	m.flights[flight.ID] = &copied
	return nil
}

func (m *MemoryFlights) SaveRecordsBatch(_ context.Context, records []*operation.FlightRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records {
		if _, ok := m.flights[record.FlightId]; !ok {
			return errors.New("record references unknown flight")
		}
		m.records[record.FlightId] = append(m.records[record.FlightId], record)
	}
	m.Batches = append(m.Batches, len(records))
	return nil
}

func (m *MemoryFlights) GetFlightById(_ context.Context, id uint) (*operation.Flight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flight, ok := m.flights[id]
	if !ok {
		return nil, operation.ErrFlightNotFound
	}
	copied := *flight
	return &copied, nil
}

func (m *MemoryFlights) GetFlightsByOwner(_ context.Context, ownerId uint) ([]*operation.Flight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*operation.Flight, 0)
	for _, flight := range m.flights {
		if flight.OwnerId == ownerId {
			copied := *flight
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *MemoryFlights) GetRecordsByFlight(_ context.Context, flightId uint) ([]*operation.FlightRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*operation.FlightRecord(nil), m.records[flightId]...), nil
}

func (m *MemoryFlights) CountRecordsByOwner(_ context.Context, ownerId uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for id, flight := range m.flights {
		if flight.OwnerId == ownerId {
			total += int64(len(m.records[id]))
		}
	}
	return total, nil
}

func (m *MemoryFlights) DeleteRecordsByFlight(_ context.Context, flightId uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, flightId)
	return nil
}

func (m *MemoryFlights) DeleteFlight(_ context.Context, flight *operation.Flight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flights[flight.ID]; !ok {
		return operation.ErrFlightNotFound
	}
	delete(m.flights, flight.ID)
	delete(m.records, flight.ID)
	return nil
}

func (m *MemoryFlights) Transaction(_ context.Context, fn func(tx operation.FlightOperationInterface) error) error {
	m.mu.Lock()
	flights := make(map[uint]*operation.Flight, len(m.flights))
	for id, flight := range m.flights {
		flights[id] = flight
	}
	records := make(map[uint][]*operation.FlightRecord, len(m.records))
	for id, list := range m.records {
		records[id] = list
	}
	m.mu.Unlock()

	err := fn(m)
	if err == nil && m.FailCommit != nil {
		err = m.FailCommit
	}
	if err != nil {
		m.mu.Lock()
		m.flights = flights
		m.records = records
		m.mu.Unlock()
		return err
	}
	return nil
}

// FlightCount 当前保存的航班数
func (m *MemoryFlights) FlightCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.flights)
}

// RecordCount 当前保存的记录总数
func (m *MemoryFlights) RecordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, list := range m.records {
		total += len(list)
	}
	return total
}
