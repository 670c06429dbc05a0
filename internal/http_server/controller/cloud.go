// Package controller
package controller

import (
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type CloudControllerInterface interface {
	SyncDevice(ctx echo.Context) error
}

type CloudController struct {
	logger  log.LoggerInterface
	service CloudServiceInterface
}

func NewCloudController(logger log.LoggerInterface, service CloudServiceInterface) *CloudController {
	return &CloudController{
		logger:  logger,
		service: service,
	}
}

func (controller *CloudController) SyncDevice(ctx echo.Context) error {
	data := &RequestCloudSync{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("CloudController.SyncDevice bind error: %v", err)
		return NewErrorResponse(ctx, &ErrLackParam)
	}
	data.JwtHeader = jwtHeader(ctx)
	return controller.service.SyncDevice(ctx.Request().Context(), data).Response(ctx)
}
