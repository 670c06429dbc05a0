// Package store
package store

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/tencentyun/cos-go-sdk-v5"
)

type TencentCosStoreService struct {
	logger     log.LoggerInterface
	localStore *LocalStoreService
	config     *config.HttpServerStore
	recorder   ArchiveRecorder
	client     *cos.Client
}

func NewTencentCosStoreService(
	logger log.LoggerInterface,
	config *config.HttpServerStore,
	localStore *LocalStoreService,
	recorder ArchiveRecorder,
) *TencentCosStoreService {
	service := &TencentCosStoreService{logger: logger, localStore: localStore, config: config, recorder: recorder}
	bucketUrl, _ := url.Parse(fmt.Sprintf("https://%s.cos.%s.myqcloud.com", config.Bucket, strings.ToLower(config.Region)))
	serviceUrl, _ := url.Parse(fmt.Sprintf("https://cos.%s.myqcloud.com", strings.ToLower(config.Region)))
	baseUrl := &cos.BaseURL{BucketURL: bucketUrl, ServiceURL: serviceUrl}
	service.client = cos.NewClient(baseUrl, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  config.AccessId,
			SecretKey: config.AccessKey,
		},
	})
	return service
}

func (store *TencentCosStoreService) ArchiveRawLog(ctx context.Context, name string, content []byte) (string, error) {
	key := newArchiveKey(store.config.ArchivePrefix)
	if store.config.KeepLocalCopy {
		if err := store.localStore.writeKey(key, content); err != nil {
			store.logger.ErrorF("TencentCosStoreService.ArchiveRawLog fail to keep local copy of %s: %v", name, err)
			return "", fmt.Errorf("write archive: %w", err)
		}
	}

	options := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: "text/plain"},
	}
	if _, err := store.client.Object.Put(ctx, path.Join(store.config.RemoteStorePath, key), bytes.NewReader(content), options); err != nil {
		store.logger.ErrorF("TencentCosStoreService.ArchiveRawLog upload %s to remote storage error: %v", name, err)
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

func (store *TencentCosStoreService) RemoveRawLog(ctx context.Context, key string) error {
	if err := checkArchiveKey(store.config.ArchivePrefix, key); err != nil {
		return err
	}
	if _, err := store.client.Object.Delete(ctx, path.Join(store.config.RemoteStorePath, key)); err != nil {
		store.logger.ErrorF("TencentCosStoreService.RemoveRawLog delete %s from remote storage error: %v", key, err)
		return err
	}
	if store.config.KeepLocalCopy {
		return store.localStore.removeKey(key)
	}
	return nil
}
