// Package controller
package controller

import (
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type DeviceControllerInterface interface {
	CreateDevice(ctx echo.Context) error
	AssignDevice(ctx echo.Context) error
	GetDeviceRequests(ctx echo.Context) error
	GetMyDevices(ctx echo.Context) error
	PairDevice(ctx echo.Context) error
}

type DeviceController struct {
	logger  log.LoggerInterface
	service DeviceServiceInterface
}

func NewDeviceController(logger log.LoggerInterface, service DeviceServiceInterface) *DeviceController {
	return &DeviceController{
		logger:  logger,
		service: service,
	}
}

func (controller *DeviceController) CreateDevice(ctx echo.Context) error {
	data := &RequestCreateDevice{JwtHeader: jwtHeader(ctx)}
	return controller.service.CreateDevice(ctx.Request().Context(), data).Response(ctx)
}

func (controller *DeviceController) AssignDevice(ctx echo.Context) error {
	data := &RequestAssignDevice{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("DeviceController.AssignDevice bind error: %v", err)
		return NewErrorResponse(ctx, &ErrIllegalParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	return controller.service.AssignDevice(ctx.Request().Context(), data).Response(ctx)
}

func (controller *DeviceController) GetDeviceRequests(ctx echo.Context) error {
	data := &RequestDeviceRequests{JwtHeader: jwtHeader(ctx)}
	return controller.service.GetDeviceRequests(ctx.Request().Context(), data).Response(ctx)
}

func (controller *DeviceController) GetMyDevices(ctx echo.Context) error {
	data := &RequestMyDevices{JwtHeader: jwtHeader(ctx)}
	return controller.service.GetMyDevices(ctx.Request().Context(), data).Response(ctx)
}

func (controller *DeviceController) PairDevice(ctx echo.Context) error {
	data := &RequestPairDevice{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("DeviceController.PairDevice bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	return controller.service.PairDevice(ctx.Request().Context(), data).Response(ctx)
}
