package database

import (
	"context"
	"fmt"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DBCloseCallback struct {
	logger log.LoggerInterface
	db     *gorm.DB
}

func NewDBCloseCallback(logger log.LoggerInterface, db *gorm.DB) *DBCloseCallback {
	return &DBCloseCallback{logger: logger, db: db}
}

func (dc *DBCloseCallback) Invoke(_ context.Context) error {
	dc.logger.Info("Closing database connection")
	db, err := dc.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// Migrate 建表并维护外键, 删除航班时记录级联删除
func Migrate(db *gorm.DB) error {
	return db.Migrator().AutoMigrate(&operation.User{}, &operation.Flight{}, &operation.FlightRecord{}, &operation.Device{})
}

// NewOperations 基于已打开的连接构造全部仓库
func NewOperations(db *gorm.DB, queryTimeout time.Duration, generalConfig *config.GeneralConfig) *operation.DatabaseOperations {
	return operation.NewDatabaseOperations(
		NewUserOperation(db, queryTimeout, generalConfig),
		NewFlightOperation(db, queryTimeout),
		NewDeviceOperation(db, queryTimeout),
	)
}

func ConnectDatabase(lg log.LoggerInterface, config *config.Config, debug bool) (global.Callable, *operation.DatabaseOperations, error) {
	connection := config.Database.GetConnection(lg)

	connectionConfig := gorm.Config{}
	connectionConfig.PrepareStmt = true

	if debug {
		connectionConfig.Logger = logger.Default.LogMode(logger.Error)
	} else {
		connectionConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(connection, &connectionConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("error occured while connecting to database: %v", err)
	}

	if err = Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("error occured while migrating database: %v", err)
	}

	dbPool, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("error occured while creating database pool: %v", err)
	}

	maxOpenConnections := config.Database.ServerMaxConnections * 4 / 5 // 不超过数据库最大连接的80%
	maxIdleConnections := maxOpenConnections / 5                       // 空闲连接约为最大连接的20%
	if config.Database.DBType == "sqlite3" {
		// sqlite 只允许一个写连接
		maxOpenConnections, maxIdleConnections = 1, 1
	}

	dbPool.SetMaxIdleConns(maxIdleConnections)
	dbPool.SetMaxOpenConns(maxOpenConnections)
	dbPool.SetConnMaxLifetime(config.Database.ConnectIdleDuration)

	if err = dbPool.Ping(); err != nil {
		return nil, nil, fmt.Errorf("error occured while pinging database: %v", err)
	}
	lg.Info("Database initialized and connection established")

	return NewDBCloseCallback(lg, db), NewOperations(db, config.Database.QueryDuration, config.Server.General), nil
}
