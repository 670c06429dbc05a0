// Package service
package service

import (
	"context"

	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
)

var (
	ErrWrongUsernameOrPassword = ApiStatus{"WRONG_USERNAME_OR_PASSWORD", "用户名或密码错误", Unauthorized}
	ErrNotFlushToken           = ApiStatus{"NOT_FLUSH_TOKEN", "不是刷新令牌", BadRequest}
	ErrUsernameLength          = ApiStatus{"USERNAME_LENGTH_ERROR", "用户名长度不正确", BadRequest}
	ErrEmailLength             = ApiStatus{"EMAIL_LENGTH_ERROR", "邮箱长度不正确", BadRequest}
	ErrEmailFormat             = ApiStatus{"EMAIL_FORMAT_ERROR", "邮箱格式不正确", BadRequest}
	ErrPasswordLength          = ApiStatus{"PASSWORD_LENGTH_ERROR", "密码长度不正确", BadRequest}
	ErrDeviceRequestInvalid    = ApiStatus{"DEVICE_REQUEST_INVALID", "设备需求只能是 NEEDS_DEVICE 或 HAS_OWN_DEVICE", BadRequest}
	SuccessRegister            = ApiStatus{"REGISTER_SUCCESS", "注册成功", Created}
	SuccessLogin               = ApiStatus{"LOGIN_SUCCESS", "登录成功", Ok}
	SuccessFlushToken          = ApiStatus{"FLUSH_TOKEN_SUCCESS", "刷新令牌成功", Ok}
	SuccessGetProfile          = ApiStatus{"GET_PROFILE_SUCCESS", "获取用户信息成功", Ok}
	SuccessGetUsers            = ApiStatus{"GET_USER_PAGE", "获取用户信息分页成功", Ok}
)

type UserServiceInterface interface {
	UserRegister(ctx context.Context, req *RequestUserRegister) *ApiResponse[ResponseUserRegister]
	UserLogin(ctx context.Context, req *RequestUserLogin) *ApiResponse[ResponseUserLogin]
	FlushToken(ctx context.Context, req *RequestFlushToken) *ApiResponse[ResponseFlushToken]
	GetCurrentProfile(ctx context.Context, req *RequestUserCurrentProfile) *ApiResponse[ResponseUserCurrentProfile]
	GetUserList(ctx context.Context, req *RequestUserList) *ApiResponse[ResponseUserList]
	// SeedAdmin 按配置创建管理员账号, 已存在时跳过
	SeedAdmin(ctx context.Context) error
}

type RequestUserRegister struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	DeviceRequest string `json:"device_request"`
}

type ResponseUserRegister struct {
	User       *operation.User `json:"user"`
	Token      string          `json:"token"`
	FlushToken string          `json:"flush_token"`
}

type RequestUserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResponseUserLogin struct {
	User       *operation.User `json:"user"`
	Token      string          `json:"token"`
	FlushToken string          `json:"flush_token"`
}

type RequestFlushToken struct {
	JwtHeader
	Claims *Claims
}

type ResponseFlushToken struct {
	User       *operation.User `json:"user"`
	Token      string          `json:"token"`
	FlushToken string          `json:"flush_token"`
}

type RequestUserCurrentProfile struct {
	JwtHeader
}

type ResponseUserCurrentProfile struct {
	User        *operation.User `json:"user"`
	DeviceCount int64           `json:"device_count"`
}

type RequestUserList struct {
	JwtHeader
	Page     int `query:"page_number"`
	PageSize int `query:"page_size"`
}

type ResponseUserList struct {
	Items    []*operation.User `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int64             `json:"total"`
}
