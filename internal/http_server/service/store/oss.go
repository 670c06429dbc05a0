// Package store
package store

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
)

type ALiYunOssStoreService struct {
	logger     log.LoggerInterface
	localStore *LocalStoreService
	config     *config.HttpServerStore
	recorder   ArchiveRecorder
	client     *oss.Client
}

func NewALiYunOssStoreService(
	logger log.LoggerInterface,
	config *config.HttpServerStore,
	localStore *LocalStoreService,
	recorder ArchiveRecorder,
) *ALiYunOssStoreService {
	service := &ALiYunOssStoreService{logger: logger, localStore: localStore, config: config, recorder: recorder}
	cfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.AccessId, config.AccessKey)).
		WithRegion(config.Region).
		WithUseInternalEndpoint(config.UseInternalUrl)
	service.client = oss.NewClient(cfg)
	return service
}

func (store *ALiYunOssStoreService) ArchiveRawLog(ctx context.Context, name string, content []byte) (string, error) {
	key := newArchiveKey(store.config.ArchivePrefix)
	if store.config.KeepLocalCopy {
		if err := store.localStore.writeKey(key, content); err != nil {
			store.logger.ErrorF("ALiYunOssStoreService.ArchiveRawLog fail to keep local copy of %s: %v", name, err)
			return "", fmt.Errorf("write archive: %w", err)
		}
	}

	putRequest := &oss.PutObjectRequest{
		Bucket:       oss.Ptr(store.config.Bucket),
		Key:          oss.Ptr(path.Join(store.config.RemoteStorePath, key)),
		StorageClass: oss.StorageClassStandard,
		ContentType:  oss.Ptr("text/plain"),
		Body:         bytes.NewReader(content),
	}
	if _, err := store.client.PutObject(ctx, putRequest); err != nil {
		store.logger.ErrorF("ALiYunOssStoreService.ArchiveRawLog upload %s to remote storage error: %v", name, err)
		if store.config.KeepLocalCopy {
			_ = store.localStore.removeKey(key)
		}
		return "", fmt.Errorf("upload archive: %w", err)
	}
	if store.recorder != nil {
		store.recorder.RawLogArchived()
	}
	return key, nil
}

func (store *ALiYunOssStoreService) RemoveRawLog(ctx context.Context, key string) error {
	if err := checkArchiveKey(store.config.ArchivePrefix, key); err != nil {
		return err
	}
	delRequest := &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(store.config.Bucket),
		Key:    oss.Ptr(path.Join(store.config.RemoteStorePath, key)),
	}
	if _, err := store.client.DeleteObject(ctx, delRequest); err != nil {
		store.logger.ErrorF("ALiYunOssStoreService.RemoveRawLog delete %s from remote storage error: %v", key, err)
		return err
	}
	if store.config.KeepLocalCopy {
		return store.localStore.removeKey(key)
	}
	return nil
}
