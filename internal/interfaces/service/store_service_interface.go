// Package service
package service

import (
	"context"
)

// StoreServiceInterface 原始飞行日志归档存储
type StoreServiceInterface interface {
	// ArchiveRawLog 以随机文件名保存原始日志, 返回访问路径
	ArchiveRawLog(ctx context.Context, name string, content []byte) (path string, err error)
	// RemoveRawLog 删除归档, 文件不存在时不报错
	RemoveRawLog(ctx context.Context, path string) error
}
