// Package service
package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"github.com/labstack/echo/v4"
)

type HttpCode int

const (
	Unsatisfied          HttpCode = 0
	Ok                   HttpCode = 200
	Created              HttpCode = 201
	BadRequest           HttpCode = 400
	Unauthorized         HttpCode = 401
	PermissionDenied     HttpCode = 403
	NotFound             HttpCode = 404
	Conflict             HttpCode = 409
	UnsupportedMediaType HttpCode = 415
	UnprocessableEntity  HttpCode = 422
	ServerInternalError  HttpCode = 500
	BadGateway           HttpCode = 502
	ServiceUnavailable   HttpCode = 503
)

func (hc HttpCode) Code() int {
	return int(hc)
}

type ApiStatus struct {
	StatusName  string
	Description string
	HttpCode    HttpCode
}

type ApiResponse[T any] struct {
	HttpCode int    `json:"-"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Data     *T     `json:"data"`
}

type Claims struct {
	Uid        uint   `json:"uid"`
	Username   string `json:"username"`
	Permission int64  `json:"permission"`
	FlushToken bool   `json:"flushToken"`
	config     *config.JWTConfig
	jwt.RegisteredClaims
}

type JwtHeader struct {
	Uid        uint
	Permission int64
}

func (header *JwtHeader) PermissionSet() operation.Permission {
	return operation.Permission(header.Permission)
}

func NewClaims(config *config.JWTConfig, user *operation.User, flushToken bool) *Claims {
	expiredDuration := config.ExpiresDuration
	if flushToken {
		expiredDuration += config.RefreshDuration
	}
	return &Claims{
		Uid:        user.ID,
		Username:   user.Username,
		Permission: user.Permission,
		FlushToken: flushToken,
		config:     config,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "FdrHttpServer",
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiredDuration)),
		},
	}
}

func (claim *Claims) GenerateKey() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claim)
	tokenString, _ := token.SignedString([]byte(claim.config.Secret))
	return tokenString
}

func (res *ApiResponse[T]) Response(ctx echo.Context) error {
	return ctx.JSON(res.HttpCode, res)
}

var (
	ErrIllegalParam          = ApiStatus{"PARAM_ERROR", "参数不正确", BadRequest}
	ErrLackParam             = ApiStatus{"PARAM_LACK_ERROR", "缺少参数", BadRequest}
	ErrNoPermission          = ApiStatus{"NO_PERMISSION", "无权这么做", PermissionDenied}
	ErrDatabaseFail          = ApiStatus{"DATABASE_ERROR", "服务器内部错误", ServerInternalError}
	ErrUnknownServerError    = ApiStatus{"UNKNOWN_SERVER_ERROR", "服务器内部错误", ServerInternalError}
	ErrUserNotFound          = ApiStatus{"USER_NOT_FOUND", "指定用户不存在", NotFound}
	ErrFlightNotFound        = ApiStatus{"FLIGHT_NOT_FOUND", "航班不存在", NotFound}
	ErrDeviceNotFound        = ApiStatus{"DEVICE_NOT_FOUND", "设备不存在", NotFound}
	ErrPairingCodeNotFound   = ApiStatus{"PAIRING_CODE_NOT_FOUND", "配对码不存在", NotFound}
	ErrDeviceAlreadyPaired   = ApiStatus{"DEVICE_ALREADY_PAIRED", "设备已被绑定", Conflict}
	ErrRegisterFail          = ApiStatus{"REGISTER_FAIL", "注册失败", ServerInternalError}
	ErrIdentifierTaken       = ApiStatus{"USER_EXISTS", "用户已存在", BadRequest}
	ErrMissingOrMalformedJwt = ApiStatus{"MISSING_OR_MALFORMED_JWT", "缺少JWT令牌或者令牌格式错误", BadRequest}
	ErrInvalidOrExpiredJwt   = ApiStatus{"INVALID_OR_EXPIRED_JWT", "无效或过期的JWT令牌", Unauthorized}
	ErrUnknown               = ApiStatus{"UNKNOWN_JWT_ERROR", "未知的JWT解析错误", ServerInternalError}
	ErrRateLimited           = ApiStatus{"RATE_LIMITED", "请求过于频繁", HttpCode(429)}
)

func NewErrorResponse(ctx echo.Context, codeStatus *ApiStatus) error {
	return NewApiResponse[any](codeStatus, Unsatisfied, nil).Response(ctx)
}

func NewApiResponse[T any](codeStatus *ApiStatus, httpCode HttpCode, data *T) *ApiResponse[T] {
	if httpCode == Unsatisfied {
		httpCode = codeStatus.HttpCode
	}
	if httpCode == Unsatisfied {
		httpCode = Ok
	}
	return &ApiResponse[T]{
		HttpCode: httpCode.Code(),
		Code:     codeStatus.StatusName,
		Message:  codeStatus.Description,
		Data:     data,
	}
}

// CallDBFuncAndCheckError 调用数据库操作函数并处理错误
func CallDBFuncAndCheckError[R any, T any](logger log.LoggerInterface, fc func() (*R, error)) (*R, *ApiResponse[T]) {
	result, err := fc()
	switch {
	case errors.Is(err, operation.ErrIdentifierCheck):
		return nil, NewApiResponse[T](&ErrRegisterFail, Unsatisfied, nil)
	case errors.Is(err, operation.ErrIdentifierTaken):
		return nil, NewApiResponse[T](&ErrIdentifierTaken, Unsatisfied, nil)
	case errors.Is(err, operation.ErrUserNotFound):
		return nil, NewApiResponse[T](&ErrUserNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrFlightNotFound):
		return nil, NewApiResponse[T](&ErrFlightNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrDeviceNotFound):
		return nil, NewApiResponse[T](&ErrDeviceNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrPairingCodeNotFound):
		return nil, NewApiResponse[T](&ErrPairingCodeNotFound, Unsatisfied, nil)
	case errors.Is(err, operation.ErrDeviceAlreadyPaired):
		return nil, NewApiResponse[T](&ErrDeviceAlreadyPaired, Unsatisfied, nil)
	case err != nil:
		logger.ErrorF("Error in DB function: %v", err)
		return nil, NewApiResponse[T](&ErrDatabaseFail, Unsatisfied, nil)
	default:
		return result, nil
	}
}

// GetUserAndCheckPermission 从数据库获取用户的实时数据并检查权限
func GetUserAndCheckPermission[T any](
	logger log.LoggerInterface,
	userOperation operation.UserOperationInterface,
	ctx context.Context,
	uid uint,
	perm operation.Permission,
) (*operation.User, *ApiResponse[T]) {
	user, res := CallDBFuncAndCheckError[operation.User, T](logger, func() (*operation.User, error) {
		return userOperation.GetUserByUid(ctx, uid)
	})
	if res != nil {
		return nil, res
	}
	permission := operation.Permission(user.Permission)
	if !permission.HasPermission(perm) {
		return nil, NewApiResponse[T](&ErrNoPermission, Unsatisfied, nil)
	}
	return user, nil
}
