package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
)

// MemoryDevices 内存中的设备仓库
type MemoryDevices struct {
	mu      sync.Mutex
	nextId  uint
	devices map[string]*operation.Device
}

func NewMemoryDevices(devices ...*operation.Device) *MemoryDevices {
	m := &MemoryDevices{devices: make(map[string]*operation.Device)}
	for _, device := range devices {
		_ = m.AddDevice(context.Background(), device)
	}
	return m
}

func (m *MemoryDevices) AddDevice(_ context.Context, device *operation.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextId++
	device.ID = m.nextId
	m.devices[device.DeviceId] = device
	return nil
}

func (m *MemoryDevices) GetDeviceByDeviceId(_ context.Context, deviceId string) (*operation.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	device, ok := m.devices[deviceId]
	if !ok {
		return nil, operation.ErrDeviceNotFound
	}
	return device, nil
}

func (m *MemoryDevices) GetDeviceByPairingCode(_ context.Context, code string) (*operation.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, device := range m.devices {
		if device.PairingCode == code {
			return device, nil
		}
	}
	return nil, operation.ErrPairingCodeNotFound
}

func (m *MemoryDevices) GetDevicesByOwner(_ context.Context, ownerId uint) ([]*operation.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*operation.Device, 0)
	for _, device := range m.devices {
		if device.OwnedBy(ownerId) {
			result = append(result, device)
		}
	}
	return result, nil
}

func (m *MemoryDevices) CountDevicesByOwner(ctx context.Context, ownerId uint) (int64, error) {
	devices, _ := m.GetDevicesByOwner(ctx, ownerId)
	return int64(len(devices)), nil
}

func (m *MemoryDevices) PairDevice(_ context.Context, device *operation.Device, ownerId uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if device.OwnerId != nil {
		return operation.ErrDeviceAlreadyPaired
	}
	now := time.Now()
	device.OwnerId = &ownerId
	device.PairedAt = &now
	return nil
}
