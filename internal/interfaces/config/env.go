// Package config
package config

import "github.com/half-nothing/simple-fdr/internal/interfaces/global"

// ApplyEnvironment 使用环境变量覆盖配置文件中的敏感字段, lookup 通常为 os.LookupEnv
func (c *Config) ApplyEnvironment(lookup func(key string) (string, bool)) []string {
	applied := make([]string, 0)
	override := func(key string, target *string) {
		if value, ok := lookup(key); ok && value != "" {
			*target = value
			applied = append(applied, key)
		}
	}
	if c.Server != nil && c.Server.HttpServer != nil {
		if c.Server.HttpServer.JWT != nil {
			override(global.EnvJwtSecret, &c.Server.HttpServer.JWT.Secret)
		}
		if c.Server.HttpServer.Store != nil {
			override(global.EnvStoreAccessKey, &c.Server.HttpServer.Store.AccessKey)
		}
		if c.Server.HttpServer.Email != nil {
			override(global.EnvEmailPassword, &c.Server.HttpServer.Email.Password)
		}
	}
	if c.Server != nil && c.Server.General != nil {
		override(global.EnvAdminPassword, &c.Server.General.AdminPassword)
	}
	if c.Database != nil {
		override(global.EnvDatabasePassword, &c.Database.Password)
	}
	if c.CloudInbox != nil {
		override(global.EnvCloudSyncToken, &c.CloudInbox.SyncToken)
	}
	return applied
}
