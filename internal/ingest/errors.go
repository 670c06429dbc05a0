// Package ingest 飞行日志入库流水线与统计
package ingest

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFile            = errors.New("missing file")
	ErrEmptyContent           = errors.New("file is empty, header line is missing")
	ErrUnsupportedExtension   = errors.New("unsupported file extension")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrBinaryContent          = errors.New("file does not look like plain text")
	ErrNoValidRecords         = errors.New("no valid records found, check the column layout and separators")
	ErrLineTooLong            = errors.New("line exceeds maximum length")
	ErrArchiveFailed          = errors.New("fail to archive raw log")
)

// Diagnostic 首个坏行的诊断信息
type Diagnostic struct {
	LineNumber int    `json:"line_number"`
	Preview    string `json:"preview"`
	Reason     string `json:"reason"`
}

// IngestError 整体入库失败, 携带坏行统计
type IngestError struct {
	Kind         error
	BadLines     int
	FirstBadLine *Diagnostic
}

func (e *IngestError) Error() string {
	if e.FirstBadLine == nil {
		return fmt.Sprintf("%v (bad lines: %d)", e.Kind, e.BadLines)
	}
	return fmt.Sprintf("%v (bad lines: %d, first at line %d: %s)", e.Kind, e.BadLines, e.FirstBadLine.LineNumber, e.FirstBadLine.Reason)
}

func (e *IngestError) Unwrap() error {
	return e.Kind
}

// FailureReason 将错误归类为固定的指标标签
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingFile):
		return "missing_file"
	case errors.Is(err, ErrEmptyContent):
		return "empty_content"
	case errors.Is(err, ErrUnsupportedExtension), errors.Is(err, ErrUnsupportedContentType), errors.Is(err, ErrBinaryContent):
		return "rejected_upload"
	case errors.Is(err, ErrNoValidRecords):
		return "no_valid_records"
	case errors.Is(err, ErrLineTooLong):
		return "line_too_long"
	case errors.Is(err, ErrArchiveFailed):
		return "archive"
	default:
		return "storage"
	}
}
