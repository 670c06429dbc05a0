// Package controller
package controller

import (
	"errors"
	"net/http"

	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
	"github.com/labstack/echo/v4"
)

type FlightControllerInterface interface {
	UploadFlight(ctx echo.Context) error
	GetFlights(ctx echo.Context) error
	GetAnalytics(ctx echo.Context) error
	GetFlight(ctx echo.Context) error
	GetFlightStats(ctx echo.Context) error
	GetFlightRecords(ctx echo.Context) error
	DeleteFlight(ctx echo.Context) error
}

type FlightController struct {
	logger  log.LoggerInterface
	service FlightServiceInterface
}

func NewFlightController(logger log.LoggerInterface, service FlightServiceInterface) *FlightController {
	return &FlightController{
		logger:  logger,
		service: service,
	}
}

func (controller *FlightController) UploadFlight(ctx echo.Context) error {
	data := &RequestUploadFlight{JwtHeader: jwtHeader(ctx)}
	file, err := ctx.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		controller.logger.ErrorF("FlightController.UploadFlight form file error: %v", err)
		return NewErrorResponse(ctx, &ErrMissingFile)
	}
	data.File = file
	return controller.service.UploadFlight(ctx.Request().Context(), data).Response(ctx)
}

func (controller *FlightController) GetFlights(ctx echo.Context) error {
	data := &RequestFlightList{JwtHeader: jwtHeader(ctx)}
	return controller.service.GetFlights(ctx.Request().Context(), data).Response(ctx)
}

func (controller *FlightController) GetAnalytics(ctx echo.Context) error {
	data := &RequestFlightAnalytics{JwtHeader: jwtHeader(ctx)}
	return controller.service.GetAnalytics(ctx.Request().Context(), data).Response(ctx)
}

func (controller *FlightController) bindFlight(ctx echo.Context) (*RequestFlight, bool) {
	data := &RequestFlight{}
	if err := ctx.Bind(data); err != nil {
		controller.logger.ErrorF("FlightController bind error: %v", err)
		return nil, false
	}
	data.JwtHeader = jwtHeader(ctx)
	return data, true
}

func (controller *FlightController) GetFlight(ctx echo.Context) error {
	data, ok := controller.bindFlight(ctx)
	if !ok {
		return NewErrorResponse(ctx, &ErrIllegalParam)
	}
	return controller.service.GetFlight(ctx.Request().Context(), data).Response(ctx)
}

func (controller *FlightController) GetFlightStats(ctx echo.Context) error {
	data, ok := controller.bindFlight(ctx)
	if !ok {
		return NewErrorResponse(ctx, &ErrIllegalParam)
	}
	return controller.service.GetFlightStats(ctx.Request().Context(), data).Response(ctx)
}

func (controller *FlightController) GetFlightRecords(ctx echo.Context) error {
	data, ok := controller.bindFlight(ctx)
	if !ok {
		return NewErrorResponse(ctx, &ErrIllegalParam)
	}
	return controller.service.GetFlightRecords(ctx.Request().Context(), data).Response(ctx)
}

func (controller *FlightController) DeleteFlight(ctx echo.Context) error {
	data, ok := controller.bindFlight(ctx)
	if !ok {
		return NewErrorResponse(ctx, &ErrIllegalParam)
	}
	return controller.service.DeleteFlight(ctx.Request().Context(), data).Response(ctx)
}
