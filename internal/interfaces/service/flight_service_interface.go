// Package service
package service

import (
	"context"
	"mime/multipart"

	"github.com/half-nothing/simple-fdr/internal/ingest"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
)

var (
	ErrMissingFile            = ApiStatus{"MISSING_FILE", "缺少上传文件", BadRequest}
	ErrEmptyContent           = ApiStatus{"EMPTY_FILE", "文件为空或缺少表头", BadRequest}
	ErrUnsupportedExtension   = ApiStatus{"FILE_EXT_UNSUPPORTED", "不支持的文件类型, 仅支持 .txt 与 .csv", UnsupportedMediaType}
	ErrUnsupportedContentType = ApiStatus{"CONTENT_TYPE_UNSUPPORTED", "不支持的 Content-Type", UnsupportedMediaType}
	ErrBinaryContent          = ApiStatus{"FILE_NOT_TEXT", "文件看起来不是纯文本", UnsupportedMediaType}
	ErrLineTooLong            = ApiStatus{"LINE_TOO_LONG", "文件中存在过长的行", BadRequest}
	ErrNoValidRecords         = ApiStatus{"NO_VALID_RECORDS", "没有找到任何有效记录, 请检查列数与分隔符", UnprocessableEntity}
	ErrArchiveFail            = ApiStatus{"ARCHIVE_FAIL", "原始日志归档失败", ServerInternalError}
	SuccessUploadFlight       = ApiStatus{"UPLOAD_FLIGHT", "飞行日志上传成功", Created}
	SuccessGetFlights         = ApiStatus{"GET_FLIGHTS", "获取航班列表成功", Ok}
	SuccessGetFlight          = ApiStatus{"GET_FLIGHT", "获取航班成功", Ok}
	SuccessGetFlightStats     = ApiStatus{"GET_FLIGHT_STATS", "获取航班统计成功", Ok}
	SuccessGetFlightRecords   = ApiStatus{"GET_FLIGHT_RECORDS", "获取航班记录成功", Ok}
	SuccessGetAnalytics       = ApiStatus{"GET_ANALYTICS", "获取飞行汇总成功", Ok}
	SuccessDeleteFlight       = ApiStatus{"DELETE_FLIGHT", "删除航班成功", Ok}
)

type FlightServiceInterface interface {
	UploadFlight(ctx context.Context, req *RequestUploadFlight) *ApiResponse[ResponseUploadFlight]
	GetFlights(ctx context.Context, req *RequestFlightList) *ApiResponse[ResponseFlightList]
	GetAnalytics(ctx context.Context, req *RequestFlightAnalytics) *ApiResponse[ResponseFlightAnalytics]
	GetFlight(ctx context.Context, req *RequestFlight) *ApiResponse[ResponseFlight]
	GetFlightStats(ctx context.Context, req *RequestFlight) *ApiResponse[ResponseFlightStats]
	GetFlightRecords(ctx context.Context, req *RequestFlight) *ApiResponse[ResponseFlightRecords]
	DeleteFlight(ctx context.Context, req *RequestFlight) *ApiResponse[ResponseDeleteFlight]
}

type RequestUploadFlight struct {
	JwtHeader
	File *multipart.FileHeader
}

// ResponseUploadFlight 入库结果, NO_VALID_RECORDS 时 Flight 为空但诊断字段有效
type ResponseUploadFlight struct {
	Flight              *operation.Flight `json:"flight"`
	RecordsSaved        int               `json:"records_saved"`
	BadLines            int               `json:"bad_lines"`
	FirstBadLineNumber  *int              `json:"first_bad_line_number"`
	FirstBadLinePreview *string           `json:"first_bad_line_preview"`
	FirstBadLineReason  *string           `json:"first_bad_line_reason"`
}

func NewResponseUploadFlight(flight *operation.Flight, saved, badLines int, diagnostic *ingest.Diagnostic) *ResponseUploadFlight {
	response := &ResponseUploadFlight{
		Flight:       flight,
		RecordsSaved: saved,
		BadLines:     badLines,
	}
	if diagnostic != nil {
		response.FirstBadLineNumber = &diagnostic.LineNumber
		response.FirstBadLinePreview = &diagnostic.Preview
		response.FirstBadLineReason = &diagnostic.Reason
	}
	return response
}

type RequestFlightList struct {
	JwtHeader
}

type ResponseFlightList []*operation.Flight

type RequestFlightAnalytics struct {
	JwtHeader
}

type ResponseFlightAnalytics ingest.Analytics

type RequestFlight struct {
	JwtHeader
	FlightId uint `param:"id"`
}

type ResponseFlight operation.Flight

type ResponseFlightStats ingest.FlightStats

type ResponseFlightRecords []*operation.FlightRecord

type ResponseDeleteFlight bool
