package main

import (
	"flag"
	"fmt"

	"github.com/half-nothing/simple-fdr/internal/base"
	"github.com/half-nothing/simple-fdr/internal/database"
	"github.com/half-nothing/simple-fdr/internal/http_server"
	"github.com/half-nothing/simple-fdr/internal/interfaces"
	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
	"github.com/half-nothing/simple-fdr/internal/metrics"
)

func recoverFromError() {
	if r := recover(); r != nil {
		fmt.Printf("It looks like there are some serious errors, the details are as follows: %v", r)
	}
}

func main() {
	flag.Parse()

	defer recoverFromError()

	logger := base.NewLogger()
	logger.Init(*global.DebugMode)

	logger.InfoF("Flight data recorder backend v%s initializing...", global.AppVersion)

	cleaner := base.NewCleaner(logger)
	cleaner.Init()
	defer cleaner.Clean()

	configManager := base.NewManager(logger)
	config := configManager.Config()

	shutdownCallback, databaseOperation, err := database.ConnectDatabase(logger, config, *global.DebugMode)
	if err != nil {
		logger.FatalF("Error occurred while initializing operation, details: %v", err)
		return
	}

	cleaner.Add(shutdownCallback)

	var m *metrics.Metrics
	if metricsConfig := config.Server.HttpServer.Metrics; metricsConfig.Enabled {
		m = metrics.NewMetrics(metricsConfig.Namespace)
		logger.InfoF("Prometheus metrics exposed at %s", metricsConfig.Path)
	}

	applicationContent := interfaces.NewApplicationContent(configManager, cleaner, logger, databaseOperation, m)

	if !config.Server.HttpServer.Enabled {
		logger.Warn("Http server is disabled, nothing to serve")
		return
	}

	if err := http_server.StartHttpServer(applicationContent); err != nil {
		logger.FatalF("Http server error: %v", err)
		return
	}

	// 服务已被清理器关闭, 等待清理器退出进程
	select {}
}
