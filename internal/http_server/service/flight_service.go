// Package service
package service

import (
	"context"
	"errors"

	"github.com/half-nothing/simple-fdr/internal/ingest"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
)

type FlightService struct {
	logger          log.LoggerInterface
	ingestor        *ingest.Ingestor
	aggregator      *ingest.Aggregator
	flightOperation operation.FlightOperationInterface
	storeService    StoreServiceInterface
}

// NewFlightService storeService 为nil时表示未启用原始日志归档
func NewFlightService(
	logger log.LoggerInterface,
	ingestor *ingest.Ingestor,
	flightOperation operation.FlightOperationInterface,
	storeService StoreServiceInterface,
) *FlightService {
	return &FlightService{
		logger:          logger,
		ingestor:        ingestor,
		aggregator:      ingest.NewAggregator(flightOperation),
		flightOperation: flightOperation,
		storeService:    storeService,
	}
}

// ingestErrorStatus 将入库错误映射为接口状态, 未识别的错误返回nil
func ingestErrorStatus(err error) *ApiStatus {
	switch {
	case errors.Is(err, ingest.ErrMissingFile):
		return &ErrMissingFile
	case errors.Is(err, ingest.ErrEmptyContent):
		return &ErrEmptyContent
	case errors.Is(err, ingest.ErrUnsupportedExtension):
		return &ErrUnsupportedExtension
	case errors.Is(err, ingest.ErrUnsupportedContentType):
		return &ErrUnsupportedContentType
	case errors.Is(err, ingest.ErrBinaryContent):
		return &ErrBinaryContent
	case errors.Is(err, ingest.ErrLineTooLong):
		return &ErrLineTooLong
	case errors.Is(err, ingest.ErrNoValidRecords):
		return &ErrNoValidRecords
	case errors.Is(err, ingest.ErrArchiveFailed):
		return &ErrArchiveFail
	default:
		return nil
	}
}

func (flightService *FlightService) UploadFlight(ctx context.Context, req *RequestUploadFlight) *ApiResponse[ResponseUploadFlight] {
	if req.File == nil {
		return NewApiResponse[ResponseUploadFlight](&ErrMissingFile, Unsatisfied, nil)
	}
	file, err := req.File.Open()
	if err != nil {
		flightService.logger.ErrorF("FlightService.UploadFlight open form file error: %v", err)
		return NewApiResponse[ResponseUploadFlight](&ErrMissingFile, Unsatisfied, nil)
	}
	defer func() { _ = file.Close() }()

	cfg := flightService.ingestor.Config()
	content, err := ingest.ValidateUpload(cfg, req.File.Filename, req.File.Header.Get("Content-Type"), file)
	if err != nil {
		status := ingestErrorStatus(err)
		if status == nil {
			flightService.logger.ErrorF("FlightService.UploadFlight read upload %q error: %v", req.File.Filename, err)
			return NewApiResponse[ResponseUploadFlight](&ErrUnknownServerError, Unsatisfied, nil)
		}
		flightService.logger.InfoF("FlightService.UploadFlight upload %q from user %d rejected: %v", req.File.Filename, req.Uid, err)
		return NewApiResponse[ResponseUploadFlight](status, Unsatisfied, nil)
	}

	report, err := flightService.ingestor.Ingest(ctx, &ingest.Request{
		Owner:   req.Uid,
		Name:    req.File.Filename,
		Source:  ingest.SourceUpload,
		Content: content,
	})
	if err != nil {
		status := ingestErrorStatus(err)
		if status == nil {
			flightService.logger.ErrorF("FlightService.UploadFlight ingest error for user %d: %v", req.Uid, err)
			return NewApiResponse[ResponseUploadFlight](&ErrDatabaseFail, Unsatisfied, nil)
		}
		var ingestErr *ingest.IngestError
		if errors.As(err, &ingestErr) {
			return NewApiResponse(status, Unsatisfied, NewResponseUploadFlight(nil, 0, ingestErr.BadLines, ingestErr.FirstBadLine))
		}
		return NewApiResponse[ResponseUploadFlight](status, Unsatisfied, nil)
	}
	return NewApiResponse(&SuccessUploadFlight, Unsatisfied,
		NewResponseUploadFlight(report.Flight, report.RecordsSaved, report.BadLines, report.FirstBadLine))
}

func (flightService *FlightService) GetFlights(ctx context.Context, req *RequestFlightList) *ApiResponse[ResponseFlightList] {
	flights, res := CallDBFuncAndCheckError[[]*operation.Flight, ResponseFlightList](flightService.logger, func() (*[]*operation.Flight, error) {
		flights, err := flightService.flightOperation.GetFlightsByOwner(ctx, req.Uid)
		return &flights, err
	})
	if res != nil {
		return res
	}
	data := ResponseFlightList(*flights)
	return NewApiResponse(&SuccessGetFlights, Unsatisfied, &data)
}

func (flightService *FlightService) GetAnalytics(ctx context.Context, req *RequestFlightAnalytics) *ApiResponse[ResponseFlightAnalytics] {
	analytics, res := CallDBFuncAndCheckError[ingest.Analytics, ResponseFlightAnalytics](flightService.logger, func() (*ingest.Analytics, error) {
		return flightService.aggregator.Analytics(ctx, req.Uid)
	})
	if res != nil {
		return res
	}
	return NewApiResponse(&SuccessGetAnalytics, Unsatisfied, (*ResponseFlightAnalytics)(analytics))
}

// accessibleFlight 获取航班并检查访问权限, 仅所有者或管理员可访问
func accessibleFlight[T any](
	flightService *FlightService,
	ctx context.Context,
	req *RequestFlight,
) (*operation.Flight, *ApiResponse[T]) {
	if req.FlightId == 0 {
		return nil, NewApiResponse[T](&ErrIllegalParam, Unsatisfied, nil)
	}
	flight, res := CallDBFuncAndCheckError[operation.Flight, T](flightService.logger, func() (*operation.Flight, error) {
		return flightService.flightOperation.GetFlightById(ctx, req.FlightId)
	})
	if res != nil {
		return nil, res
	}
	if !flight.AccessibleBy(req.Uid, req.PermissionSet()) {
		return nil, NewApiResponse[T](&ErrNoPermission, Unsatisfied, nil)
	}
	return flight, nil
}

func (flightService *FlightService) GetFlight(ctx context.Context, req *RequestFlight) *ApiResponse[ResponseFlight] {
	flight, res := accessibleFlight[ResponseFlight](flightService, ctx, req)
	if res != nil {
		return res
	}
	return NewApiResponse(&SuccessGetFlight, Unsatisfied, (*ResponseFlight)(flight))
}

func (flightService *FlightService) GetFlightStats(ctx context.Context, req *RequestFlight) *ApiResponse[ResponseFlightStats] {
	if _, res := accessibleFlight[ResponseFlightStats](flightService, ctx, req); res != nil {
		return res
	}
	stats, res := CallDBFuncAndCheckError[ingest.FlightStats, ResponseFlightStats](flightService.logger, func() (*ingest.FlightStats, error) {
		return flightService.aggregator.Stats(ctx, req.FlightId)
	})
	if res != nil {
		return res
	}
	return NewApiResponse(&SuccessGetFlightStats, Unsatisfied, (*ResponseFlightStats)(stats))
}

func (flightService *FlightService) GetFlightRecords(ctx context.Context, req *RequestFlight) *ApiResponse[ResponseFlightRecords] {
	if _, res := accessibleFlight[ResponseFlightRecords](flightService, ctx, req); res != nil {
		return res
	}
	records, res := CallDBFuncAndCheckError[[]*operation.FlightRecord, ResponseFlightRecords](flightService.logger, func() (*[]*operation.FlightRecord, error) {
		records, err := flightService.flightOperation.GetRecordsByFlight(ctx, req.FlightId)
		return &records, err
	})
	if res != nil {
		return res
	}
	data := ResponseFlightRecords(*records)
	return NewApiResponse(&SuccessGetFlightRecords, Unsatisfied, &data)
}

func (flightService *FlightService) DeleteFlight(ctx context.Context, req *RequestFlight) *ApiResponse[ResponseDeleteFlight] {
	flight, res := accessibleFlight[ResponseDeleteFlight](flightService, ctx, req)
	if res != nil {
		return res
	}
	if _, res := CallDBFuncAndCheckError[interface{}, ResponseDeleteFlight](flightService.logger, func() (*interface{}, error) {
		return nil, flightService.flightOperation.Transaction(ctx, func(tx operation.FlightOperationInterface) error {
			if err := tx.DeleteRecordsByFlight(ctx, flight.ID); err != nil {
				return err
			}
			return tx.DeleteFlight(ctx, flight)
		})
	}); res != nil {
		return res
	}
	if flight.ArchivePath != "" && flightService.storeService != nil {
		if err := flightService.storeService.RemoveRawLog(ctx, flight.ArchivePath); err != nil {
			flightService.logger.WarnF("FlightService.DeleteFlight fail to remove archive %s of flight %d: %v", flight.ArchivePath, flight.ID, err)
		}
	}
	flightService.logger.InfoF("FlightService.DeleteFlight flight %d deleted by user %d", flight.ID, req.Uid)
	data := ResponseDeleteFlight(true)
	return NewApiResponse(&SuccessDeleteFlight, Unsatisfied, &data)
}
