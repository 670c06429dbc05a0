// Package config
package config

import (
	"errors"
	"fmt"

	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
)

type Config struct {
	ConfigVersion string            `json:"config_version"`
	Server        *ServerConfig     `json:"server"`
	Database      *DatabaseConfig   `json:"database"`
	Ingest        *IngestConfig     `json:"ingest"`
	CloudInbox    *CloudInboxConfig `json:"cloud_inbox"`
}

func DefaultConfig() *Config {
	return &Config{
		ConfigVersion: ConfVersion.String(),
		Server:        defaultServerConfig(),
		Database:      defaultDatabaseConfig(),
		Ingest:        defaultIngestConfig(),
		CloudInbox:    defaultCloudInboxConfig(),
	}
}

func (c *Config) CheckValid(logger log.LoggerInterface) *ValidResult {
	if version, err := newVersion(c.ConfigVersion); err != nil {
		return ValidFailWith(errors.New("version string parse fail"), err)
	} else if result := ConfVersion.checkVersion(version); result != AllMatch {
		return ValidFail(fmt.Errorf("config version mismatch, expected %s, got %s", ConfVersion.String(), version.String()))
	}
	if c.Server == nil || c.Database == nil || c.Ingest == nil || c.CloudInbox == nil {
		return ValidFail(errors.New("configuration file is missing a top level section"))
	}
	if result := c.Database.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.Ingest.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.CloudInbox.checkValid(logger); result.IsFail() {
		return result
	}
	if result := c.Server.checkValid(logger); result.IsFail() {
		return result
	}
	// 同步接口同样受 http_server.request_timeout 约束, 实际时限取两者较小值
	if httpServer := c.Server.HttpServer; c.CloudInbox.Enabled && httpServer.Enabled &&
		httpServer.RequestDuration > 0 && c.CloudInbox.SyncDuration > httpServer.RequestDuration {
		logger.WarnF("cloud_inbox.sync_timeout(%s) exceeds http_server.request_timeout(%s), sync requests will be cut off at %s",
			c.CloudInbox.SyncTimeout, httpServer.RequestTimeout, httpServer.RequestTimeout)
	}
	return ValidPass()
}
