// Package config
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
)

// IngestConfig 飞行日志解析与入库参数
type IngestConfig struct {
	ExpectedColumns     int      `json:"expected_columns"`      // 每条数据行最少列数
	BatchSize           int      `json:"batch_size"`            // 每批写入的记录数
	PreviewLength       int      `json:"preview_length"`        // 首个错误行预览的最大字符数
	PeekBytes           int      `json:"peek_bytes"`            // 二进制检测读取的字节数
	MaxNameLength       int      `json:"max_name_length"`       // 航班名称最大长度
	MaxLineLength       int      `json:"max_line_length"`       // 单行最大字节数
	UploadFallbackName  string   `json:"upload_fallback_name"`  // 上传文件名为空时使用的名称
	AllowedExtensions   []string `json:"allowed_extensions"`    // 允许上传的扩展名, 不含点
	AllowedContentTypes []string `json:"allowed_content_types"` // 允许上传的 Content-Type
}

func defaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		ExpectedColumns:    14,
		BatchSize:          500,
		PreviewLength:      200,
		PeekBytes:          4096,
		MaxNameLength:      255,
		MaxLineLength:      1024 * 1024,
		UploadFallbackName: "upload.txt",
		AllowedExtensions:  []string{"txt", "csv"},
		AllowedContentTypes: []string{
			"text/plain",
			"text/csv",
			"application/csv",
			"application/vnd.ms-excel",
			"application/octet-stream",
		},
	}
}

func (config *IngestConfig) checkValid(_ log.LoggerInterface) *ValidResult {
	if config.ExpectedColumns < 14 {
		return ValidFail(fmt.Errorf("invalid json field ingest.expected_columns, value must be at least 14, got %d", config.ExpectedColumns))
	}
	if config.BatchSize <= 0 {
		return ValidFail(errors.New("invalid json field ingest.batch_size, value must larger than 0"))
	}
	if config.PreviewLength <= 0 {
		return ValidFail(errors.New("invalid json field ingest.preview_length, value must larger than 0"))
	}
	if config.PeekBytes <= 0 {
		return ValidFail(errors.New("invalid json field ingest.peek_bytes, value must larger than 0"))
	}
	if config.MaxNameLength <= 0 {
		return ValidFail(errors.New("invalid json field ingest.max_name_length, value must larger than 0"))
	}
	if config.MaxLineLength < 1024 {
		return ValidFail(errors.New("invalid json field ingest.max_line_length, value must be at least 1024"))
	}
	if config.UploadFallbackName == "" {
		config.UploadFallbackName = "upload.txt"
	}
	if len(config.AllowedExtensions) == 0 {
		return ValidFail(errors.New("invalid json field ingest.allowed_extensions, cannot be empty"))
	}
	for i, ext := range config.AllowedExtensions {
		config.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	for i, contentType := range config.AllowedContentTypes {
		config.AllowedContentTypes[i] = strings.ToLower(strings.TrimSpace(contentType))
	}
	return ValidPass()
}
