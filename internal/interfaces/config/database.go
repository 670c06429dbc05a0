// Package config
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type DatabaseType string

const (
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
	SQLite     DatabaseType = "sqlite3"
)

var allowedDatabaseType = []DatabaseType{MySQL, PostgreSQL, SQLite}

type DatabaseConfig struct {
	Type                 string        `json:"type"`
	DBType               DatabaseType  `json:"-"`
	Database             string        `json:"database"`
	Host                 string        `json:"host"`
	Port                 int           `json:"port"`
	Username             string        `json:"username"`
	Password             string        `json:"password"`
	EnableSSL            bool          `json:"enable_ssl"`
	TimeZone             string        `json:"time_zone"`
	ConnectIdleTimeout   string        `json:"connect_idle_timeout"` // 连接空闲超时时间
	ConnectIdleDuration  time.Duration `json:"-"`
	QueryTimeout         string        `json:"query_timeout"` // 每次查询超时时间
	QueryDuration        time.Duration `json:"-"`
	ServerMaxConnections int           `json:"server_max_connections"` // 最大连接池大小
}

func defaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type:                 string(SQLite),
		Database:             "fdr.db",
		TimeZone:             "UTC",
		ConnectIdleTimeout:   "1h",
		QueryTimeout:         "10s",
		ServerMaxConnections: 32,
	}
}

func (config *DatabaseConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	config.DBType = DatabaseType(config.Type)
	if !slices.Contains(allowedDatabaseType, config.DBType) {
		return ValidFail(fmt.Errorf("database type %s is not allowed, support database is %v, please check the configuration file", config.DBType, allowedDatabaseType))
	}
	if config.ServerMaxConnections <= 0 {
		return ValidFail(fmt.Errorf("invalid json field database.server_max_connections %d, value must larger than 0", config.ServerMaxConnections))
	}
	if result := parseDuration("database.connect_idle_timeout", config.ConnectIdleTimeout, &config.ConnectIdleDuration); result.IsFail() {
		return result
	}
	if result := parseDuration("database.query_timeout", config.QueryTimeout, &config.QueryDuration); result.IsFail() {
		return result
	}
	return ValidPass()
}

func (config *DatabaseConfig) GetConnection(logger log.LoggerInterface) gorm.Dialector {
	switch config.DBType {
	case MySQL:
		return mySQLConnection(logger, config)
	case PostgreSQL:
		return postgreSQLConnection(logger, config)
	case SQLite:
		return sqliteConnection(logger, config)
	default:
		return nil
	}
}

func mySQLConnection(logger log.LoggerInterface, db *DatabaseConfig) gorm.Dialector {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=%s&tls=%t",
		db.Username,
		db.Password,
		db.Host,
		db.Port,
		db.Database,
		url.QueryEscape(db.TimeZone),
		db.EnableSSL,
	)
	logger.DebugF("Mysql Connection DSN %s", strings.Replace(dsn, ":"+db.Password+"@", ":***@", 1))
	return mysql.Open(dsn)
}

func postgreSQLConnection(logger log.LoggerInterface, db *DatabaseConfig) gorm.Dialector {
	sslMode := "disable"
	if db.EnableSSL {
		sslMode = "require"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		db.Host,
		db.Username,
		db.Password,
		db.Database,
		db.Port,
		sslMode,
		db.TimeZone,
	)
	logger.DebugF("PostgreSQL Connection DSN %s", strings.Replace(dsn, "password="+db.Password, "password=***", 1))
	return postgres.Open(dsn)
}

// sqlite 需要显式打开外键约束, 否则航班删除时不会级联删除记录
func sqliteConnection(_ log.LoggerInterface, db *DatabaseConfig) gorm.Dialector {
	dsn := db.Database
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	} else if !strings.Contains(dsn, "_foreign_keys") {
		dsn += "&_foreign_keys=on"
	}
	return sqlite.Open(dsn)
}
