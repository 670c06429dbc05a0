// Package config
package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
)

// CloudInboxConfig 远端设备收件箱配置
type CloudInboxConfig struct {
	Enabled         bool          `json:"enabled"`
	BaseUrl         string        `json:"base_url"`
	SyncToken       string        `json:"sync_token"`
	RequestTimeout  string        `json:"request_timeout"` // 单次 HTTP 请求(含单个分片下载)超时
	RequestDuration time.Duration `json:"-"`
	SyncTimeout     string        `json:"sync_timeout"` // 一次同步调用的总时限
	SyncDuration    time.Duration `json:"-"`
}

func defaultCloudInboxConfig() *CloudInboxConfig {
	return &CloudInboxConfig{
		Enabled:        false,
		BaseUrl:        "http://127.0.0.1:8787",
		SyncToken:      "",
		RequestTimeout: "15s",
		SyncTimeout:    "90s",
	}
}

func (config *CloudInboxConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if !config.Enabled {
		return ValidPass()
	}
	config.BaseUrl = strings.TrimRight(config.BaseUrl, "/")
	if parsed, err := url.Parse(config.BaseUrl); err != nil {
		return ValidFailWith(errors.New("invalid json field cloud_inbox.base_url"), err)
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ValidFail(errors.New("invalid json field cloud_inbox.base_url, scheme must be http or https"))
	}
	if config.SyncToken == "" {
		logger.Warn("cloud_inbox.sync_token is empty, requests to the inbox will not be authenticated")
	}
	if result := parseDuration("cloud_inbox.request_timeout", config.RequestTimeout, &config.RequestDuration); result.IsFail() {
		return result
	}
	if result := parseDuration("cloud_inbox.sync_timeout", config.SyncTimeout, &config.SyncDuration); result.IsFail() {
		return result
	}
	if config.RequestDuration == 0 || config.SyncDuration == 0 {
		return ValidFail(errors.New("cloud_inbox timeouts must larger than 0"))
	}
	if config.SyncDuration < config.RequestDuration {
		logger.WarnF("cloud_inbox.sync_timeout(%s) is shorter than request_timeout(%s)", config.SyncTimeout, config.RequestTimeout)
	}
	return ValidPass()
}
