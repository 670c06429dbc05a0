// Package store
package store

import (
	configpkg "github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/service"
)

// NewStoreService 根据配置选择归档后端, 未启用归档时返回nil
func NewStoreService(logger log.LoggerInterface, config *configpkg.HttpServerStore, recorder ArchiveRecorder) service.StoreServiceInterface {
	if !config.ArchiveRawLogs {
		return nil
	}
	localStore := NewLocalStoreService(logger, config, recorder)
	switch config.StoreType {
	case configpkg.ALiYunOssStore:
		logger.Info("Using aliyun oss as raw log archive")
		return NewALiYunOssStoreService(logger, config, localStore, recorder)
	case configpkg.TencentCosStore:
		logger.Info("Using tencent cos as raw log archive")
		return NewTencentCosStoreService(logger, config, localStore, recorder)
	default:
		logger.Info("Using local storage as raw log archive")
		return localStore
	}
}
