// Package global
package global

import (
	"flag"
)

var (
	DebugMode      = flag.Bool("debug", false, "Enable debug mode")
	ConfigFilePath = flag.String("config", "./config.json", "Path to configuration file")
	EnvFilePath    = flag.String("env", ".env", "Path to dotenv file with secret overrides")
	LogFilePath    = flag.String("log_file", "", "Also write logs to this file")
	NoLogColor     = flag.Bool("no_color", false, "Disable colored console log output")
)

const (
	AppVersion    = "0.3.0"
	ConfigVersion = "0.3.0"

	DefaultFilePermissions     = 0644
	DefaultDirectoryPermission = 0755

	EnvJwtSecret        = "FDR_JWT_SECRET"
	EnvDatabasePassword = "FDR_DATABASE_PASSWORD"
	EnvCloudSyncToken   = "FDR_CLOUD_SYNC_TOKEN"
	EnvStoreAccessKey   = "FDR_STORE_ACCESS_KEY"
	EnvEmailPassword    = "FDR_EMAIL_PASSWORD"
	EnvAdminPassword    = "FDR_ADMIN_PASSWORD"
)
