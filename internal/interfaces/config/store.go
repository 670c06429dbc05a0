// Package config
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
)

type StoreType int

const (
	LocalStore StoreType = iota
	ALiYunOssStore
	TencentCosStore
)

// HttpServerStore 原始飞行日志归档配置
type HttpServerStore struct {
	ArchiveRawLogs  bool      `json:"archive_raw_logs"`  // 是否归档上传或同步得到的原始日志
	StoreType       StoreType `json:"store_type"`        // 文件存储类型, 0: 本地存储, 1: 阿里云OSS存储, 2: 腾讯云对象存储
	Region          string    `json:"region"`            // 云存储地域
	Bucket          string    `json:"bucket"`            // 云存储桶名
	AccessId        string    `json:"access_id"`         // 访问id
	AccessKey       string    `json:"access_key"`        // 访问秘钥
	CdnDomain       string    `json:"cdn_domain"`        // 自定义加速域名
	UseInternalUrl  bool      `json:"use_internal_url"`  // 上传使用内部域名
	LocalStorePath  string    `json:"local_store_path"`  // 本地存储路径
	RemoteStorePath string    `json:"remote_store_path"` // 远程存储路径
	ArchivePrefix   string    `json:"archive_prefix"`    // 归档文件目录前缀
	KeepLocalCopy   bool      `json:"keep_local_copy"`   // 使用云存储时是否同时保留本地副本
}

func defaultHttpServerStore() *HttpServerStore {
	return &HttpServerStore{
		ArchiveRawLogs: true,
		StoreType:      LocalStore,
		LocalStorePath: "uploads",
		ArchivePrefix:  "flights",
		KeepLocalCopy:  false,
	}
}

func (config *HttpServerStore) checkValid(logger log.LoggerInterface) *ValidResult {
	if !config.ArchiveRawLogs {
		logger.Info("Raw log archive disabled")
		return ValidPass()
	}
	if config.LocalStorePath == "" {
		return ValidFail(errors.New("invalid json field http_server.store.local_store_path, path cannot be empty"))
	}
	switch config.StoreType {
	case LocalStore:
		config.KeepLocalCopy = true
	case ALiYunOssStore, TencentCosStore:
		if config.Region == "" {
			return ValidFail(errors.New("invalid json field http_server.store.region, region cannot be empty"))
		}
		if config.Bucket == "" {
			return ValidFail(errors.New("invalid json field http_server.store.bucket, bucket cannot be empty"))
		}
		if config.AccessId == "" {
			return ValidFail(errors.New("invalid json field http_server.store.access_id, access_id cannot be empty"))
		}
		if config.AccessKey == "" {
			return ValidFail(errors.New("invalid json field http_server.store.access_key, access_key cannot be empty"))
		}
	default:
		return ValidFail(fmt.Errorf("invalid json field http_server.store.store_type %d, only support 0, 1, 2", config.StoreType))
	}
	if config.KeepLocalCopy {
		dir := filepath.Join(filepath.Clean(config.LocalStorePath), config.ArchivePrefix)
		if err := os.MkdirAll(dir, global.DefaultDirectoryPermission); err != nil {
			return ValidFailWith(fmt.Errorf("error while creating local store path(%s)", dir), err)
		}
	}
	return ValidPass()
}
