// Package config
package config

import (
	"fmt"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
)

type HttpServerConfig struct {
	Enabled         bool             `json:"enabled"`
	Host            string           `json:"host"`
	Port            uint             `json:"port"`
	Address         string           `json:"-"`
	ProxyType       int              `json:"proxy_type"` // 0: 直连, 1: X-Forwarded-For, 2: X-Real-IP
	BodyLimit       string           `json:"body_limit"`
	RequestTimeout  string           `json:"request_timeout"`
	RequestDuration time.Duration    `json:"-"`
	Store           *HttpServerStore `json:"store"`
	Limits          *HttpServerLimit `json:"limits"`
	Email           *EmailConfig     `json:"email"`
	JWT             *JWTConfig       `json:"jwt"`
	SSL             *SSLConfig       `json:"ssl"`
	Metrics         *MetricsConfig   `json:"metrics"`
}

func defaultHttpServerConfig() *HttpServerConfig {
	return &HttpServerConfig{
		Enabled:        true,
		Host:           "0.0.0.0",
		Port:           6820,
		ProxyType:      0,
		BodyLimit:      "20MB",
		RequestTimeout: "2m",
		Store:          defaultHttpServerStore(),
		Limits:         defaultHttpServerLimit(),
		Email:          defaultEmailConfig(),
		JWT:            defaultJWTConfig(),
		SSL:            defaultSSLConfig(),
		Metrics:        defaultMetricsConfig(),
	}
}

func (config *HttpServerConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if !config.Enabled {
		return ValidPass()
	}
	if result := checkPort(config.Port); result.IsFail() {
		return result
	}

	config.Address = fmt.Sprintf("%s:%d", config.Host, config.Port)

	if config.BodyLimit == "" {
		logger.WarnF("body_limit is empty, where the length of the request body is not restricted. This is a very dangerous behavior")
	}

	if result := parseDuration("http_server.request_timeout", config.RequestTimeout, &config.RequestDuration); result.IsFail() {
		return result
	}

	if result := config.SSL.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Limits.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Email.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.JWT.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Store.checkValid(logger); result.IsFail() {
		return result
	}
	if result := config.Metrics.checkValid(logger); result.IsFail() {
		return result
	}
	return ValidPass()
}
