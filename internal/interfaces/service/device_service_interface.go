// Package service
package service

import (
	"context"

	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
)

var (
	ErrPairingCodeFormat = ApiStatus{"PAIRING_CODE_FORMAT_ERROR", "配对码格式不正确", BadRequest}
	ErrDeviceCreateFail  = ApiStatus{"DEVICE_CREATE_FAIL", "设备创建失败", ServerInternalError}
	SuccessCreateDevice  = ApiStatus{"CREATE_DEVICE", "设备创建成功", Created}
	SuccessAssignDevice  = ApiStatus{"ASSIGN_DEVICE", "设备分配成功", Created}
	SuccessGetRequests   = ApiStatus{"GET_DEVICE_REQUESTS", "获取设备申请成功", Ok}
	SuccessGetDevices    = ApiStatus{"GET_DEVICES", "获取设备列表成功", Ok}
	SuccessPairDevice    = ApiStatus{"PAIR_DEVICE", "设备配对成功", Ok}
)

type DeviceServiceInterface interface {
	CreateDevice(ctx context.Context, req *RequestCreateDevice) *ApiResponse[ResponseCreateDevice]
	AssignDevice(ctx context.Context, req *RequestAssignDevice) *ApiResponse[ResponseCreateDevice]
	GetDeviceRequests(ctx context.Context, req *RequestDeviceRequests) *ApiResponse[ResponseDeviceRequests]
	GetMyDevices(ctx context.Context, req *RequestMyDevices) *ApiResponse[ResponseMyDevices]
	PairDevice(ctx context.Context, req *RequestPairDevice) *ApiResponse[ResponsePairDevice]
}

type RequestCreateDevice struct {
	JwtHeader
}

// ResponseCreateDevice 设备密钥只在创建时返回一次
type ResponseCreateDevice struct {
	Device      *operation.Device `json:"device"`
	DeviceKey   string            `json:"device_key"`
	PairingCode string            `json:"pairing_code"`
}

type RequestAssignDevice struct {
	JwtHeader
	TargetUid uint `param:"uid"`
}

type RequestDeviceRequests struct {
	JwtHeader
}

type ResponseDeviceRequests []*operation.User

type RequestMyDevices struct {
	JwtHeader
}

type ResponseMyDevices []*operation.Device

type RequestPairDevice struct {
	JwtHeader
	PairingCode string `json:"pairing_code"`
}

type ResponsePairDevice operation.Device
