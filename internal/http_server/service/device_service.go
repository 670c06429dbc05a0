// Package service
package service

import (
	"context"
	"regexp"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
	"github.com/thanhpk/randstr"
	"golang.org/x/crypto/bcrypt"
)

const hexChars = "0123456789abcdef"

var pairingCodePattern = regexp.MustCompile(`^PAIR_[a-f0-9]{10}$`)

type DeviceService struct {
	logger          log.LoggerInterface
	config          *config.GeneralConfig
	emailService    EmailServiceInterface
	userOperation   operation.UserOperationInterface
	deviceOperation operation.DeviceOperationInterface
	now             func() time.Time
}

func NewDeviceService(
	logger log.LoggerInterface,
	config *config.GeneralConfig,
	emailService EmailServiceInterface,
	userOperation operation.UserOperationInterface,
	deviceOperation operation.DeviceOperationInterface,
) *DeviceService {
	return &DeviceService{
		logger:          logger,
		config:          config,
		emailService:    emailService,
		userOperation:   userOperation,
		deviceOperation: deviceOperation,
		now:             time.Now,
	}
}

// newDevice 生成设备标识, 明文密钥与配对码, 密钥只以bcrypt哈希保存
func (deviceService *DeviceService) newDevice(owner *operation.User) (*operation.Device, string, error) {
	deviceKey := randstr.String(32, hexChars)
	hash, err := bcrypt.GenerateFromPassword([]byte(deviceKey), deviceService.config.BcryptCost)
	if err != nil {
		return nil, "", err
	}
	device := &operation.Device{
		DeviceId:      "DEV_" + randstr.String(12, hexChars),
		DeviceKeyHash: string(hash),
		PairingCode:   "PAIR_" + randstr.String(10, hexChars),
	}
	if owner != nil {
		now := deviceService.now()
		device.OwnerId = &owner.ID
		device.PairedAt = &now
	}
	return device, deviceKey, nil
}

func (deviceService *DeviceService) createDevice(ctx context.Context, owner *operation.User) (*ResponseCreateDevice, *ApiStatus) {
	device, deviceKey, err := deviceService.newDevice(owner)
	if err != nil {
		deviceService.logger.ErrorF("DeviceService.createDevice fail to hash device key: %v", err)
		return nil, &ErrDeviceCreateFail
	}
	if err := deviceService.deviceOperation.AddDevice(ctx, device); err != nil {
		deviceService.logger.ErrorF("DeviceService.createDevice fail to save device %s: %v", device.DeviceId, err)
		return nil, &ErrDeviceCreateFail
	}
	return &ResponseCreateDevice{
		Device:      device,
		DeviceKey:   deviceKey,
		PairingCode: device.PairingCode,
	}, nil
}

func (deviceService *DeviceService) CreateDevice(ctx context.Context, req *RequestCreateDevice) *ApiResponse[ResponseCreateDevice] {
	operator, res := GetUserAndCheckPermission[ResponseCreateDevice](deviceService.logger, deviceService.userOperation, ctx, req.Uid, operation.DeviceCreate)
	if res != nil {
		return res
	}
	data, status := deviceService.createDevice(ctx, nil)
	if status != nil {
		return NewApiResponse[ResponseCreateDevice](status, Unsatisfied, nil)
	}
	deviceService.logger.InfoF("DeviceService.CreateDevice device %s created by %s(%d)", data.Device.DeviceId, operator.Username, operator.ID)
	return NewApiResponse(&SuccessCreateDevice, Unsatisfied, data)
}

func (deviceService *DeviceService) AssignDevice(ctx context.Context, req *RequestAssignDevice) *ApiResponse[ResponseCreateDevice] {
	if req.TargetUid == 0 {
		return NewApiResponse[ResponseCreateDevice](&ErrIllegalParam, Unsatisfied, nil)
	}
	operator, res := GetUserAndCheckPermission[ResponseCreateDevice](deviceService.logger, deviceService.userOperation, ctx, req.Uid, operation.DeviceAssign)
	if res != nil {
		return res
	}
	target, res := CallDBFuncAndCheckError[operation.User, ResponseCreateDevice](deviceService.logger, func() (*operation.User, error) {
		return deviceService.userOperation.GetUserByUid(ctx, req.TargetUid)
	})
	if res != nil {
		return res
	}
	data, status := deviceService.createDevice(ctx, target)
	if status != nil {
		return NewApiResponse[ResponseCreateDevice](status, Unsatisfied, nil)
	}
	if _, res := CallDBFuncAndCheckError[interface{}, ResponseCreateDevice](deviceService.logger, func() (*interface{}, error) {
		return nil, deviceService.userOperation.UpdateUserDeviceRequest(ctx, target, operation.HasOwnDevice)
	}); res != nil {
		return res
	}
	if err := deviceService.emailService.SendDeviceAssignedEmail(target, operator, data.Device.DeviceId); err != nil {
		deviceService.logger.WarnF("DeviceService.AssignDevice fail to notify %s(%d): %v", target.Username, target.ID, err)
	}
	deviceService.logger.InfoF("DeviceService.AssignDevice device %s assigned to %s(%d) by %s(%d)",
		data.Device.DeviceId, target.Username, target.ID, operator.Username, operator.ID)
	return NewApiResponse(&SuccessAssignDevice, Unsatisfied, data)
}

func (deviceService *DeviceService) GetDeviceRequests(ctx context.Context, req *RequestDeviceRequests) *ApiResponse[ResponseDeviceRequests] {
	if _, res := GetUserAndCheckPermission[ResponseDeviceRequests](deviceService.logger, deviceService.userOperation, ctx, req.Uid, operation.DeviceShowRequests); res != nil {
		return res
	}
	users, res := CallDBFuncAndCheckError[[]*operation.User, ResponseDeviceRequests](deviceService.logger, func() (*[]*operation.User, error) {
		users, err := deviceService.userOperation.GetUsersByDeviceRequest(ctx, operation.NeedsDevice)
		return &users, err
	})
	if res != nil {
		return res
	}
	data := ResponseDeviceRequests(*users)
	return NewApiResponse(&SuccessGetRequests, Unsatisfied, &data)
}

func (deviceService *DeviceService) GetMyDevices(ctx context.Context, req *RequestMyDevices) *ApiResponse[ResponseMyDevices] {
	devices, res := CallDBFuncAndCheckError[[]*operation.Device, ResponseMyDevices](deviceService.logger, func() (*[]*operation.Device, error) {
		devices, err := deviceService.deviceOperation.GetDevicesByOwner(ctx, req.Uid)
		return &devices, err
	})
	if res != nil {
		return res
	}
	data := ResponseMyDevices(*devices)
	return NewApiResponse(&SuccessGetDevices, Unsatisfied, &data)
}

func (deviceService *DeviceService) PairDevice(ctx context.Context, req *RequestPairDevice) *ApiResponse[ResponsePairDevice] {
	if !pairingCodePattern.MatchString(req.PairingCode) {
		return NewApiResponse[ResponsePairDevice](&ErrPairingCodeFormat, Unsatisfied, nil)
	}
	device, res := CallDBFuncAndCheckError[operation.Device, ResponsePairDevice](deviceService.logger, func() (*operation.Device, error) {
		device, err := deviceService.deviceOperation.GetDeviceByPairingCode(ctx, req.PairingCode)
		if err != nil {
			return nil, err
		}
		if device.OwnerId != nil {
			return nil, operation.ErrDeviceAlreadyPaired
		}
		return device, deviceService.deviceOperation.PairDevice(ctx, device, req.Uid)
	})
	if res != nil {
		return res
	}
	deviceService.logger.InfoF("DeviceService.PairDevice device %s paired to user %d", device.DeviceId, req.Uid)
	return NewApiResponse(&SuccessPairDevice, Unsatisfied, (*ResponsePairDevice)(device))
}
