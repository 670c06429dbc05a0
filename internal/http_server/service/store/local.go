// Package store
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
)

var ErrIllegalArchivePath = errors.New("illegal archive path")

// ArchiveRecorder 归档计数, 由 metrics 包实现
type ArchiveRecorder interface {
	RawLogArchived()
}

// newArchiveKey 生成 <prefix>/<uuid>.txt 形式的归档键, 原始文件名不参与命名
func newArchiveKey(prefix string) string {
	return path.Join(prefix, uuid.NewString()+".txt")
}

// checkArchiveKey 拒绝绝对路径和跳出归档目录的键
func checkArchiveKey(prefix string, key string) error {
	if key == "" || strings.Contains(key, "\\") || path.IsAbs(key) {
		return ErrIllegalArchivePath
	}
	cleaned := path.Clean(key)
	if cleaned != key || strings.HasPrefix(cleaned, "../") || cleaned == ".." {
		return ErrIllegalArchivePath
	}
	if prefix != "" && !strings.HasPrefix(cleaned, path.Clean(prefix)+"/") {
		return ErrIllegalArchivePath
	}
	return nil
}

type LocalStoreService struct {
	logger   log.LoggerInterface
	config   *config.HttpServerStore
	recorder ArchiveRecorder
}

func NewLocalStoreService(logger log.LoggerInterface, config *config.HttpServerStore, recorder ArchiveRecorder) *LocalStoreService {
	return &LocalStoreService{
		logger:   logger,
		config:   config,
		recorder: recorder,
	}
}

func (store *LocalStoreService) localPath(key string) string {
	return filepath.Join(filepath.Clean(store.config.LocalStorePath), filepath.FromSlash(key))
}

func (store *LocalStoreService) writeKey(key string, content []byte) error {
	dst := store.localPath(key)
	if err := os.MkdirAll(filepath.Dir(dst), global.DefaultDirectoryPermission); err != nil {
		return err
	}
	file, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, global.DefaultFilePermissions)
	if err != nil {
		return err
	}
	if _, err := file.Write(content); err != nil {
		_ = file.Close()
		_ = os.Remove(dst)
		return err
	}
	return file.Close()
}

func (store *LocalStoreService) removeKey(key string) error {
	if err := os.Remove(store.localPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (store *LocalStoreService) ArchiveRawLog(_ context.Context, name string, content []byte) (string, error) {
	key := newArchiveKey(store.config.ArchivePrefix)
	if err := store.writeKey(key, content); err != nil {
		store.logger.ErrorF("LocalStoreService.ArchiveRawLog fail to write %s for %s: %v", key, name, err)
		return "", fmt.Errorf("write archive: %w", err)
	}
	if store.recorder != nil {
		store.recorder.RawLogArchived()
	}
	store.logger.DebugF("LocalStoreService.ArchiveRawLog %s archived as %s (%d bytes)", name, key, len(content))
	return key, nil
}

func (store *LocalStoreService) RemoveRawLog(_ context.Context, key string) error {
	if err := checkArchiveKey(store.config.ArchivePrefix, key); err != nil {
		return err
	}
	if err := store.removeKey(key); err != nil {
		store.logger.ErrorF("LocalStoreService.RemoveRawLog fail to remove %s: %v", key, err)
		return err
	}
	return nil
}
