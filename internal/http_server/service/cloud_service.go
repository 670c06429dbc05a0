// Package service
package service

import (
	"context"
	"errors"
	"regexp"

	"github.com/half-nothing/simple-fdr/internal/cloud"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
)

var deviceIdPattern = regexp.MustCompile(`^DEV_[a-f0-9]{12}$`)

type CloudService struct {
	logger          log.LoggerInterface
	reconciler      *cloud.Reconciler
	userOperation   operation.UserOperationInterface
	deviceOperation operation.DeviceOperationInterface
}

// NewCloudService reconciler 为nil时表示云端同步未启用
func NewCloudService(
	logger log.LoggerInterface,
	reconciler *cloud.Reconciler,
	userOperation operation.UserOperationInterface,
	deviceOperation operation.DeviceOperationInterface,
) *CloudService {
	return &CloudService{
		logger:          logger,
		reconciler:      reconciler,
		userOperation:   userOperation,
		deviceOperation: deviceOperation,
	}
}

// checkDeviceRequirement 申请了设备但名下仍没有设备的普通用户不能同步
func (cloudService *CloudService) checkDeviceRequirement(ctx context.Context, user *operation.User) *ApiResponse[ResponseCloudSync] {
	permission := operation.Permission(user.Permission)
	if permission.IsElevated() || user.DeviceRequest != operation.NeedsDevice {
		return nil
	}
	count, res := CallDBFuncAndCheckError[int64, ResponseCloudSync](cloudService.logger, func() (*int64, error) {
		total, err := cloudService.deviceOperation.CountDevicesByOwner(ctx, user.ID)
		return &total, err
	})
	if res != nil {
		return res
	}
	if *count == 0 {
		return NewApiResponse[ResponseCloudSync](&ErrDeviceRequired, Unsatisfied, nil)
	}
	return nil
}

func (cloudService *CloudService) SyncDevice(ctx context.Context, req *RequestCloudSync) *ApiResponse[ResponseCloudSync] {
	if !deviceIdPattern.MatchString(req.DeviceId) {
		return NewApiResponse[ResponseCloudSync](&ErrDeviceIdFormat, Unsatisfied, nil)
	}
	if cloudService.reconciler == nil {
		return NewApiResponse[ResponseCloudSync](&ErrCloudSyncDisabled, Unsatisfied, nil)
	}
	user, res := CallDBFuncAndCheckError[operation.User, ResponseCloudSync](cloudService.logger, func() (*operation.User, error) {
		return cloudService.userOperation.GetUserByUid(ctx, req.Uid)
	})
	if res != nil {
		return res
	}
	if res := cloudService.checkDeviceRequirement(ctx, user); res != nil {
		return res
	}

	result, err := cloudService.reconciler.SyncDevice(ctx, user.ID, operation.Permission(user.Permission), req.DeviceId)
	switch {
	case errors.Is(err, cloud.ErrForbidden):
		return NewApiResponse[ResponseCloudSync](&ErrNoPermission, Unsatisfied, nil)
	case errors.Is(err, cloud.ErrInboxUnavailable):
		cloudService.logger.ErrorF("CloudService.SyncDevice device %s: %v", req.DeviceId, err)
		return NewApiResponse[ResponseCloudSync](&ErrCloudInboxFail, Unsatisfied, nil)
	case err != nil:
		_, res := CallDBFuncAndCheckError[interface{}, ResponseCloudSync](cloudService.logger, func() (*interface{}, error) {
			return nil, err
		})
		return res
	}
	return NewApiResponse(&SuccessCloudSync, Unsatisfied, (*ResponseCloudSync)(result))
}
