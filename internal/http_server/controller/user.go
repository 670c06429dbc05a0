// Package controller
package controller

import (
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type UserControllerInterface interface {
	UserRegister(ctx echo.Context) error
	UserLogin(ctx echo.Context) error
	GetToken(ctx echo.Context) error
	GetCurrentUserProfile(ctx echo.Context) error
	GetUsers(ctx echo.Context) error
}

type UserController struct {
	logger  log.LoggerInterface
	service UserServiceInterface
}

func NewUserController(logger log.LoggerInterface, service UserServiceInterface) *UserController {
	return &UserController{
		logger:  logger,
		service: service,
	}
}

func (controller *UserController) UserRegister(ctx echo.Context) error {
	data := &RequestUserRegister{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("UserController.UserRegister bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.service.UserRegister(ctx.Request().Context(), data).Response(ctx)
}

func (controller *UserController) UserLogin(ctx echo.Context) error {
	data := &RequestUserLogin{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("UserController.UserLogin bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	return controller.service.UserLogin(ctx.Request().Context(), data).Response(ctx)
}

func (controller *UserController) GetToken(ctx echo.Context) error {
	data := &RequestFlushToken{JwtHeader: jwtHeader(ctx), Claims: jwtClaims(ctx)}
	return controller.service.FlushToken(ctx.Request().Context(), data).Response(ctx)
}

func (controller *UserController) GetCurrentUserProfile(ctx echo.Context) error {
	data := &RequestUserCurrentProfile{JwtHeader: jwtHeader(ctx)}
	return controller.service.GetCurrentProfile(ctx.Request().Context(), data).Response(ctx)
}

func (controller *UserController) GetUsers(ctx echo.Context) error {
	data := &RequestUserList{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("UserController.GetUsers bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	return controller.service.GetUserList(ctx.Request().Context(), data).Response(ctx)
}
