// Package http_server
package http_server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/half-nothing/simple-fdr/internal/cloud"
	"github.com/half-nothing/simple-fdr/internal/http_server/controller"
	mid "github.com/half-nothing/simple-fdr/internal/http_server/middleware"
	impl "github.com/half-nothing/simple-fdr/internal/http_server/service"
	"github.com/half-nothing/simple-fdr/internal/http_server/service/store"
	"github.com/half-nothing/simple-fdr/internal/ingest"
	. "github.com/half-nothing/simple-fdr/internal/interfaces"
	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
	"github.com/half-nothing/simple-fdr/internal/interfaces/service"
	"github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/samber/slog-echo"
)

type HttpServerShutdownCallback struct {
	serverHandler *echo.Echo
}

func NewHttpServerShutdownCallback(serverHandler *echo.Echo) *HttpServerShutdownCallback {
	return &HttpServerShutdownCallback{
		serverHandler: serverHandler,
	}
}

func (hc *HttpServerShutdownCallback) Invoke(ctx context.Context) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return hc.serverHandler.Shutdown(timeoutCtx)
}

// Services 路由使用的全部业务服务
type Services struct {
	User   service.UserServiceInterface
	Flight service.FlightServiceInterface
	Device service.DeviceServiceInterface
	Cloud  service.CloudServiceInterface
}

// NewServices 按配置组装归档存储, 入库流水线, 云端同步与业务服务
func NewServices(applicationContent *ApplicationContent) *Services {
	config := applicationContent.ConfigManager().Config()
	logger := applicationContent.Logger()
	httpConfig := config.Server.HttpServer
	metrics := applicationContent.Metrics()

	userOperation := applicationContent.Operations().UserOperation()
	flightOperation := applicationContent.Operations().FlightOperation()
	deviceOperation := applicationContent.Operations().DeviceOperation()

	storeService := store.NewStoreService(logger, httpConfig.Store, metrics)
	var archiver ingest.Archiver
	if storeService != nil {
		archiver = storeService
	}
	ingestor := ingest.NewIngestor(logger, config.Ingest, flightOperation, archiver, metrics)

	var reconciler *cloud.Reconciler
	if config.CloudInbox.Enabled {
		client := cloud.NewHttpInboxClient(config.CloudInbox)
		reconciler = cloud.NewReconciler(logger, client, ingestor, deviceOperation, config.CloudInbox.SyncDuration, metrics)
		logger.InfoF("Cloud inbox sync enabled, inbox at %s", config.CloudInbox.BaseUrl)
	}

	emailService := impl.NewEmailService(logger, httpConfig.Email)

	return &Services{
		User:   impl.NewUserService(logger, httpConfig, config.Server.General, userOperation, deviceOperation),
		Flight: impl.NewFlightService(logger, ingestor, flightOperation, storeService),
		Device: impl.NewDeviceService(logger, config.Server.General, emailService, userOperation, deviceOperation),
		Cloud:  impl.NewCloudService(logger, reconciler, userOperation, deviceOperation),
	}
}

// NewEcho 创建挂载全部中间件与路由的 echo 实例, stop 关闭时停止限流器的回收协程
func NewEcho(applicationContent *ApplicationContent, services *Services, stop <-chan struct{}) *echo.Echo {
	config := applicationContent.ConfigManager().Config()
	logger := applicationContent.Logger()
	httpConfig := config.Server.HttpServer

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetOutput(io.Discard)
	e.Logger.SetLevel(log.OFF)

	switch httpConfig.ProxyType {
	case 0:
		e.IPExtractor = echo.ExtractIPDirect()
	case 1:
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	case 2:
		e.IPExtractor = echo.ExtractIPFromRealIPHeader()
	default:
		logger.WarnF("Invalid proxy type %d, using default (direct)", httpConfig.ProxyType)
		e.IPExtractor = echo.ExtractIPDirect()
	}

	if httpConfig.SSL.ForceSSL {
		e.Use(middleware.HTTPSRedirect())
	}

	if httpConfig.RequestDuration > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{Timeout: httpConfig.RequestDuration}))
	}
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(ctx echo.Context, err error, stack []byte) error {
			logger.ErrorF("Recovered from a fatal error: %v, stack: %s", err, string(stack))
			return err
		},
	}))

	loggerConfig := slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	}
	e.Use(slogecho.NewWithConfig(slog.Default(), loggerConfig))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            httpConfig.SSL.HstsExpiredTime,
		HSTSExcludeSubdomains: !httpConfig.SSL.IncludeDomain,
	}))
	e.Use(middleware.CORS())
	if httpConfig.BodyLimit != "" {
		e.Use(middleware.BodyLimit(httpConfig.BodyLimit))
	}
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))

	limiter := mid.NewTokenBucketLimiter(
		httpConfig.Limits.RateLimit,
		httpConfig.Limits.RateLimitDuration,
		httpConfig.Limits.IdleDuration,
	)
	if httpConfig.Limits.IdleDuration > 0 {
		limiter.StartCleanup(stop, httpConfig.Limits.IdleDuration)
	}

	if metricsConfig := httpConfig.Metrics; metricsConfig.Enabled && applicationContent.Metrics() != nil {
		e.GET(metricsConfig.Path, echo.WrapHandler(applicationContent.Metrics().Handler()))
	}

	jwtConfig := echojwt.Config{
		SigningKey:    []byte(httpConfig.JWT.Secret),
		TokenLookup:   "header:Authorization:Bearer ",
		SigningMethod: "HS512",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var data *service.ApiResponse[any]
			switch {
			case errors.Is(err, echojwt.ErrJWTMissing):
				data = service.NewApiResponse[any](&service.ErrMissingOrMalformedJwt, service.Unsatisfied, nil)
			case errors.Is(err, echojwt.ErrJWTInvalid):
				data = service.NewApiResponse[any](&service.ErrInvalidOrExpiredJwt, service.Unsatisfied, nil)
			default:
				data = service.NewApiResponse[any](&service.ErrUnknown, service.Unsatisfied, nil)
			}
			return data.Response(c)
		},
	}
	jwtMiddleware := echojwt.WithConfig(jwtConfig)

	userController := controller.NewUserController(logger, services.User)
	flightController := controller.NewFlightController(logger, services.Flight)
	deviceController := controller.NewDeviceController(logger, services.Device)
	cloudController := controller.NewCloudController(logger, services.Cloud)

	apiGroup := e.Group("/api", mid.RateLimitMiddleware(limiter, mid.IPKeyFunc))
	apiGroup.POST("/sessions", userController.UserLogin)
	apiGroup.GET("/sessions", userController.GetToken, jwtMiddleware)
	apiGroup.GET("/profile", userController.GetCurrentUserProfile, jwtMiddleware)

	userGroup := apiGroup.Group("/users")
	userGroup.POST("", userController.UserRegister)
	userGroup.GET("", userController.GetUsers, jwtMiddleware)

	flightGroup := apiGroup.Group("/flights", jwtMiddleware)
	flightGroup.POST("", flightController.UploadFlight)
	flightGroup.GET("", flightController.GetFlights)
	flightGroup.GET("/analytics", flightController.GetAnalytics)
	flightGroup.GET("/:id", flightController.GetFlight)
	flightGroup.GET("/:id/stats", flightController.GetFlightStats)
	flightGroup.GET("/:id/records", flightController.GetFlightRecords)
	flightGroup.DELETE("/:id", flightController.DeleteFlight)

	deviceGroup := apiGroup.Group("/devices", jwtMiddleware)
	deviceGroup.GET("", deviceController.GetMyDevices)
	deviceGroup.POST("/pair", deviceController.PairDevice)

	adminGroup := apiGroup.Group("/admin", jwtMiddleware)
	adminGroup.POST("/devices", deviceController.CreateDevice)
	adminGroup.POST("/users/:uid/devices", deviceController.AssignDevice)
	adminGroup.GET("/device-requests", deviceController.GetDeviceRequests)

	apiGroup.POST("/cloud/sync", cloudController.SyncDevice, jwtMiddleware)

	return e
}

// StartHttpServer 阻塞直到服务关闭, 正常关闭时返回nil
func StartHttpServer(applicationContent *ApplicationContent) error {
	config := applicationContent.ConfigManager().Config()
	logger := applicationContent.Logger()
	httpConfig := config.Server.HttpServer

	services := NewServices(applicationContent)
	if err := services.User.SeedAdmin(context.Background()); err != nil {
		logger.ErrorF("Fail to seed admin account: %v", err)
	}

	stop := make(chan struct{})
	e := NewEcho(applicationContent, services, stop)

	applicationContent.Cleaner().Add(NewHttpServerShutdownCallback(e))
	applicationContent.Cleaner().Add(global.CallableFunc(func(context.Context) error {
		close(stop)
		return nil
	}))

	protocol := "http"
	if httpConfig.SSL.Enable {
		protocol = "https"
	}
	logger.InfoF("Starting %s server on %s", protocol, httpConfig.Address)
	logger.InfoF("Rate limit: %d requests per %v", httpConfig.Limits.RateLimit, httpConfig.Limits.RateLimitDuration)

	var err error
	if httpConfig.SSL.Enable {
		err = e.StartTLS(httpConfig.Address, httpConfig.SSL.CertFile, httpConfig.SSL.KeyFile)
	} else {
		err = e.Start(httpConfig.Address)
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
