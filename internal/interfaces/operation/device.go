package operation

import (
	"context"
	"errors"
)

var (
	// ErrDeviceNotFound 设备不存在
	ErrDeviceNotFound = errors.New("device does not exist")
	// ErrDeviceAlreadyPaired 设备已经绑定了用户
	ErrDeviceAlreadyPaired = errors.New("device already paired")
	// ErrPairingCodeNotFound 配对码不存在
	ErrPairingCodeNotFound = errors.New("pairing code does not exist")
)

func (device *Device) OwnedBy(uid uint) bool {
	return device.OwnerId != nil && *device.OwnerId == uid
}

// DeviceOperationInterface 设备操作接口定义
type DeviceOperationInterface interface {
	// AddDevice 写入新设备, 当err为nil时表示创建成功
	AddDevice(ctx context.Context, device *Device) (err error)
	// GetDeviceByDeviceId 通过设备标识获取设备, 当err为nil时返回值device有效
	GetDeviceByDeviceId(ctx context.Context, deviceId string) (device *Device, err error)
	// GetDeviceByPairingCode 通过配对码获取设备, 当err为nil时返回值device有效
	GetDeviceByPairingCode(ctx context.Context, code string) (device *Device, err error)
	// GetDevicesByOwner 获取用户名下的全部设备
	GetDevicesByOwner(ctx context.Context, ownerId uint) (devices []*Device, err error)
	// CountDevicesByOwner 统计用户名下的设备数
	CountDevicesByOwner(ctx context.Context, ownerId uint) (total int64, err error)
	// PairDevice 将设备绑定到用户, 设备已被绑定时返回 ErrDeviceAlreadyPaired
	PairDevice(ctx context.Context, device *Device, ownerId uint) (err error)
}
