package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"mime"
	"path"
	"slices"
	"strings"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
)

// SanitizeName 去除路径部分与首尾空白, 并限制长度
func SanitizeName(name string, fallback string, maxLength int) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		name = fallback
	}
	if maxLength > 0 {
		runes := []rune(name)
		if len(runes) > maxLength {
			name = string(runes[:maxLength])
		}
	}
	return name
}

// Extension 返回小写扩展名, 不含点, 没有扩展名时返回空串
func Extension(name string) string {
	ext := path.Ext(name)
	if len(ext) <= 1 {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// ValidateUpload 检查扩展名, Content-Type 以及前 PeekBytes 字节中是否含有 NUL
// 返回的 Reader 包含全部原始内容
func ValidateUpload(cfg *config.IngestConfig, name string, contentType string, content io.Reader) (io.Reader, error) {
	if content == nil {
		return nil, ErrMissingFile
	}
	safeName := SanitizeName(name, "", cfg.MaxNameLength)
	ext := Extension(safeName)
	if ext == "" || !slices.Contains(cfg.AllowedExtensions, ext) {
		return nil, fmt.Errorf("%w, allowed: %s", ErrUnsupportedExtension, strings.Join(cfg.AllowedExtensions, ", "))
	}

	contentType = strings.TrimSpace(contentType)
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || !slices.Contains(cfg.AllowedContentTypes, strings.ToLower(mediaType)) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
		}
	}

	reader := bufio.NewReaderSize(content, cfg.PeekBytes)
	head, err := reader.Peek(cfg.PeekBytes)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	if bytes.IndexByte(head, 0) >= 0 {
		return nil, ErrBinaryContent
	}
	return reader, nil
}
