package database

import (
	"context"
	"errors"
	"time"

	. "github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"gorm.io/gorm"
)

type DeviceOperation struct {
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewDeviceOperation(db *gorm.DB, queryTimeout time.Duration) *DeviceOperation {
	return &DeviceOperation{db: db, queryTimeout: queryTimeout}
}

func (deviceOperation *DeviceOperation) AddDevice(ctx context.Context, device *Device) error {
	ctx, cancel := context.WithTimeout(ctx, deviceOperation.queryTimeout)
	defer cancel()
	return deviceOperation.db.WithContext(ctx).Create(device).Error
}

func (deviceOperation *DeviceOperation) GetDeviceByDeviceId(ctx context.Context, deviceId string) (device *Device, err error) {
	device = &Device{}
	ctx, cancel := context.WithTimeout(ctx, deviceOperation.queryTimeout)
	defer cancel()
	err = deviceOperation.db.WithContext(ctx).
		Where("device_id = ?", deviceId).
		First(device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrDeviceNotFound
	}
	return
}

func (deviceOperation *DeviceOperation) GetDeviceByPairingCode(ctx context.Context, code string) (device *Device, err error) {
	device = &Device{}
	ctx, cancel := context.WithTimeout(ctx, deviceOperation.queryTimeout)
	defer cancel()
	err = deviceOperation.db.WithContext(ctx).
		Where("pairing_code = ?", code).
		First(device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrPairingCodeNotFound
	}
	return
}

func (deviceOperation *DeviceOperation) GetDevicesByOwner(ctx context.Context, ownerId uint) (devices []*Device, err error) {
	devices = make([]*Device, 0)
	ctx, cancel := context.WithTimeout(ctx, deviceOperation.queryTimeout)
	defer cancel()
	err = deviceOperation.db.WithContext(ctx).
		Where("owner_id = ?", ownerId).
		Order("id").
		Find(&devices).Error
	return
}

func (deviceOperation *DeviceOperation) CountDevicesByOwner(ctx context.Context, ownerId uint) (total int64, err error) {
	ctx, cancel := context.WithTimeout(ctx, deviceOperation.queryTimeout)
	defer cancel()
	err = deviceOperation.db.WithContext(ctx).
		Model(&Device{}).
		Where("owner_id = ?", ownerId).
		Count(&total).Error
	return
}

// PairDevice 仅当设备尚未绑定时才会更新, 并发配对只有一个能成功
func (deviceOperation *DeviceOperation) PairDevice(ctx context.Context, device *Device, ownerId uint) error {
	ctx, cancel := context.WithTimeout(ctx, deviceOperation.queryTimeout)
	defer cancel()
	now := time.Now()
	result := deviceOperation.db.WithContext(ctx).
		Model(&Device{}).
		Where("id = ? AND owner_id IS NULL", device.ID).
		Updates(map[string]interface{}{"owner_id": ownerId, "paired_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDeviceAlreadyPaired
	}
	device.OwnerId = &ownerId
	device.PairedAt = &now
	return nil
}
