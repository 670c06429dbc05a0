// Package service
package service

import (
	"context"
	"errors"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
)

type UserService struct {
	logger          log.LoggerInterface
	config          *config.HttpServerConfig
	generalConfig   *config.GeneralConfig
	validators      *Validators
	userOperation   operation.UserOperationInterface
	deviceOperation operation.DeviceOperationInterface
}

func NewUserService(
	logger log.LoggerInterface,
	config *config.HttpServerConfig,
	generalConfig *config.GeneralConfig,
	userOperation operation.UserOperationInterface,
	deviceOperation operation.DeviceOperationInterface,
) *UserService {
	return &UserService{
		logger:          logger,
		config:          config,
		generalConfig:   generalConfig,
		validators:      NewValidators(config.Limits),
		userOperation:   userOperation,
		deviceOperation: deviceOperation,
	}
}

func parseDeviceRequest(value string) (operation.DeviceRequest, bool) {
	switch operation.DeviceRequest(value) {
	case "", operation.HasOwnDevice:
		return operation.HasOwnDevice, true
	case operation.NeedsDevice:
		return operation.NeedsDevice, true
	default:
		return "", false
	}
}

func (userService *UserService) issueTokens(user *operation.User) (string, string) {
	token := NewClaims(userService.config.JWT, user, false)
	flushToken := NewClaims(userService.config.JWT, user, true)
	return token.GenerateKey(), flushToken.GenerateKey()
}

func (userService *UserService) UserRegister(ctx context.Context, req *RequestUserRegister) *ApiResponse[ResponseUserRegister] {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return NewApiResponse[ResponseUserRegister](&ErrIllegalParam, Unsatisfied, nil)
	}
	if res := userService.validators.Username.CheckString(req.Username); res != nil {
		return NewApiResponse[ResponseUserRegister](res, Unsatisfied, nil)
	}
	if res := userService.validators.CheckEmail(req.Email); res != nil {
		return NewApiResponse[ResponseUserRegister](res, Unsatisfied, nil)
	}
	if res := userService.validators.Password.CheckString(req.Password); res != nil {
		return NewApiResponse[ResponseUserRegister](res, Unsatisfied, nil)
	}
	request, ok := parseDeviceRequest(req.DeviceRequest)
	if !ok {
		return NewApiResponse[ResponseUserRegister](&ErrDeviceRequestInvalid, Unsatisfied, nil)
	}
	user, err := userService.userOperation.NewUser(req.Username, req.Email, req.Password, request)
	if err != nil {
		userService.logger.ErrorF("UserService.UserRegister fail to create user %s: %v", req.Username, err)
		return NewApiResponse[ResponseUserRegister](&ErrRegisterFail, Unsatisfied, nil)
	}
	if _, res := CallDBFuncAndCheckError[interface{}, ResponseUserRegister](userService.logger, func() (*interface{}, error) {
		return nil, userService.userOperation.AddUser(ctx, user)
	}); res != nil {
		return res
	}
	userService.logger.InfoF("UserService.UserRegister user %s(%d) registered, device request %s", user.Username, user.ID, user.DeviceRequest)
	token, flushToken := userService.issueTokens(user)
	return NewApiResponse(&SuccessRegister, Unsatisfied, &ResponseUserRegister{
		User:       user,
		Token:      token,
		FlushToken: flushToken,
	})
}

func (userService *UserService) UserLogin(ctx context.Context, req *RequestUserLogin) *ApiResponse[ResponseUserLogin] {
	if req.Username == "" || req.Password == "" {
		return NewApiResponse[ResponseUserLogin](&ErrIllegalParam, Unsatisfied, nil)
	}
	user, err := userService.userOperation.GetUserByUsernameOrEmail(ctx, req.Username)
	if errors.Is(err, operation.ErrUserNotFound) {
		return NewApiResponse[ResponseUserLogin](&ErrWrongUsernameOrPassword, Unsatisfied, nil)
	} else if err != nil {
		userService.logger.ErrorF("UserService.UserLogin fail to query user %s: %v", req.Username, err)
		return NewApiResponse[ResponseUserLogin](&ErrDatabaseFail, Unsatisfied, nil)
	}
	if !userService.userOperation.VerifyUserPassword(user, req.Password) {
		return NewApiResponse[ResponseUserLogin](&ErrWrongUsernameOrPassword, Unsatisfied, nil)
	}
	token, flushToken := userService.issueTokens(user)
	return NewApiResponse(&SuccessLogin, Unsatisfied, &ResponseUserLogin{
		User:       user,
		Token:      token,
		FlushToken: flushToken,
	})
}

func (userService *UserService) FlushToken(ctx context.Context, req *RequestFlushToken) *ApiResponse[ResponseFlushToken] {
	if req.Claims == nil || !req.Claims.FlushToken {
		return NewApiResponse[ResponseFlushToken](&ErrNotFlushToken, Unsatisfied, nil)
	}
	user, res := CallDBFuncAndCheckError[operation.User, ResponseFlushToken](userService.logger, func() (*operation.User, error) {
		return userService.userOperation.GetUserByUid(ctx, req.Claims.Uid)
	})
	if res != nil {
		return res
	}
	token, flushToken := userService.issueTokens(user)
	return NewApiResponse(&SuccessFlushToken, Unsatisfied, &ResponseFlushToken{
		User:       user,
		Token:      token,
		FlushToken: flushToken,
	})
}

func (userService *UserService) GetCurrentProfile(ctx context.Context, req *RequestUserCurrentProfile) *ApiResponse[ResponseUserCurrentProfile] {
	user, res := CallDBFuncAndCheckError[operation.User, ResponseUserCurrentProfile](userService.logger, func() (*operation.User, error) {
		return userService.userOperation.GetUserByUid(ctx, req.Uid)
	})
	if res != nil {
		return res
	}
	count, res := CallDBFuncAndCheckError[int64, ResponseUserCurrentProfile](userService.logger, func() (*int64, error) {
		total, err := userService.deviceOperation.CountDevicesByOwner(ctx, user.ID)
		return &total, err
	})
	if res != nil {
		return res
	}
	return NewApiResponse(&SuccessGetProfile, Unsatisfied, &ResponseUserCurrentProfile{User: user, DeviceCount: *count})
}

func (userService *UserService) GetUserList(ctx context.Context, req *RequestUserList) *ApiResponse[ResponseUserList] {
	if req.Page <= 0 || req.PageSize <= 0 || req.PageSize > 100 {
		return NewApiResponse[ResponseUserList](&ErrIllegalParam, Unsatisfied, nil)
	}
	if _, res := GetUserAndCheckPermission[ResponseUserList](userService.logger, userService.userOperation, ctx, req.Uid, operation.UserShowList); res != nil {
		return res
	}
	users, total, err := userService.userOperation.GetUsers(ctx, req.Page, req.PageSize)
	if _, res := CallDBFuncAndCheckError[interface{}, ResponseUserList](userService.logger, func() (*interface{}, error) {
		return nil, err
	}); res != nil {
		return res
	}
	return NewApiResponse(&SuccessGetUsers, Unsatisfied, &ResponseUserList{
		Items:    users,
		Page:     req.Page,
		PageSize: req.PageSize,
		Total:    total,
	})
}

func (userService *UserService) SeedAdmin(ctx context.Context) error {
	if !userService.generalConfig.SeedAdmin() {
		return nil
	}
	username := userService.generalConfig.AdminUsername
	if _, err := userService.userOperation.GetUserByUsernameOrEmail(ctx, username); err == nil {
		userService.logger.DebugF("UserService.SeedAdmin admin account %s already exists", username)
		return nil
	} else if !errors.Is(err, operation.ErrUserNotFound) {
		return err
	}
	user, err := userService.userOperation.NewUser(username, userService.generalConfig.AdminEmail, userService.generalConfig.AdminPassword, operation.HasOwnDevice)
	if err != nil {
		return err
	}
	if err := userService.userOperation.AddUser(ctx, user); err != nil {
		return err
	}
	if err := userService.userOperation.UpdateUserPermission(ctx, user, operation.AllPermissions); err != nil {
		return err
	}
	userService.logger.InfoF("UserService.SeedAdmin admin account %s(%d) created", user.Username, user.ID)
	return nil
}
