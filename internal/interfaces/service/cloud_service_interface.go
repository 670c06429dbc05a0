// Package service
package service

import (
	"context"

	"github.com/half-nothing/simple-fdr/internal/cloud"
)

var (
	ErrDeviceIdFormat    = ApiStatus{"DEVICE_ID_FORMAT_ERROR", "设备标识格式不正确", BadRequest}
	ErrDeviceRequired    = ApiStatus{"DEVICE_REQUIRED", "账号尚未分配设备", PermissionDenied}
	ErrCloudSyncDisabled = ApiStatus{"CLOUD_SYNC_DISABLED", "云端同步未启用", ServiceUnavailable}
	ErrCloudInboxFail    = ApiStatus{"CLOUD_INBOX_FAIL", "无法访问云端收件箱", BadGateway}
	SuccessCloudSync     = ApiStatus{"CLOUD_SYNC", "同步完成", Ok}
)

type CloudServiceInterface interface {
	SyncDevice(ctx context.Context, req *RequestCloudSync) *ApiResponse[ResponseCloudSync]
}

type RequestCloudSync struct {
	JwtHeader
	DeviceId string `json:"device_id"`
}

type ResponseCloudSync cloud.Result
