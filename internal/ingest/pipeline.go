package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"github.com/half-nothing/simple-fdr/internal/telemetry"
	"github.com/half-nothing/simple-fdr/internal/utils"
)

const (
	SourceUpload = "upload"
	SourceCloud  = "cloud"
)

// Archiver 原始日志归档, 由存储服务实现
type Archiver interface {
	// ArchiveRawLog 保存原始日志, 返回可访问路径
	ArchiveRawLog(ctx context.Context, name string, content []byte) (path string, err error)
	// RemoveRawLog 删除已归档的原始日志
	RemoveRawLog(ctx context.Context, path string) error
}

// Recorder 入库指标, 由 metrics 包实现
type Recorder interface {
	IngestSucceeded(source string, records int, badLines int, elapsed time.Duration)
	IngestFailed(source string, reason string, badLines int)
}

// Report 一次成功入库的结果
type Report struct {
	Flight       *operation.Flight
	RecordsSaved int
	BadLines     int
	FirstBadLine *Diagnostic
}

type Request struct {
	Owner   uint
	Name    string
	Source  string
	Content io.Reader
	// BeforeCommit 在事务提交前调用, 返回错误时整个入库回滚
	BeforeCommit func(ctx context.Context, report *Report) error
}

type Ingestor struct {
	logger   log.LoggerInterface
	config   *config.IngestConfig
	flights  operation.FlightOperationInterface
	archiver Archiver
	recorder Recorder
	now      func() time.Time
}

// NewIngestor archiver 与 recorder 可以为nil
func NewIngestor(
	logger log.LoggerInterface,
	config *config.IngestConfig,
	flights operation.FlightOperationInterface,
	archiver Archiver,
	recorder Recorder,
) *Ingestor {
	return &Ingestor{
		logger:   logger,
		config:   config,
		flights:  flights,
		archiver: archiver,
		recorder: recorder,
		now:      time.Now,
	}
}

func (ingestor *Ingestor) Config() *config.IngestConfig {
	return ingestor.config
}

// Ingest 在单个事务内完成航班创建, 逐行解析, 分批写入与航班收尾
func (ingestor *Ingestor) Ingest(ctx context.Context, request *Request) (*Report, error) {
	if request.Content == nil {
		return nil, ErrMissingFile
	}
	source := request.Source
	if source == "" {
		source = SourceUpload
	}
	start := time.Now()
	name := SanitizeName(request.Name, ingestor.config.UploadFallbackName, ingestor.config.MaxNameLength)

	reader := request.Content
	var raw *bytes.Buffer
	if ingestor.archiver != nil {
		raw = &bytes.Buffer{}
		reader = io.TeeReader(reader, raw)
	}

	var report *Report
	archivePath := ""
	err := ingestor.flights.Transaction(ctx, func(tx operation.FlightOperationInterface) error {
		flight := tx.NewFlight(request.Owner, name)
		if err := tx.SaveFlight(ctx, flight); err != nil {
			return err
		}
		result, err := ingestor.process(ctx, tx, flight, reader)
		if err != nil {
			return err
		}
		if ingestor.archiver != nil {
			path, err := ingestor.archiver.ArchiveRawLog(ctx, name, raw.Bytes())
			if err != nil {
				return fmt.Errorf("%w: %w", ErrArchiveFailed, err)
			}
			archivePath = path
			flight.ArchivePath = path
			if err := tx.SaveFlight(ctx, flight); err != nil {
				return err
			}
		}
		if request.BeforeCommit != nil {
			if err := request.BeforeCommit(ctx, result); err != nil {
				return err
			}
		}
		report = result
		return nil
	})

	if err != nil {
		if archivePath != "" {
			if removeErr := ingestor.archiver.RemoveRawLog(context.WithoutCancel(ctx), archivePath); removeErr != nil {
				ingestor.logger.WarnF("Ingestor.Ingest fail to remove archived log %s after rollback: %v", archivePath, removeErr)
			}
		}
		badLines := 0
		var ingestErr *IngestError
		if errors.As(err, &ingestErr) {
			badLines = ingestErr.BadLines
		}
		if ingestor.recorder != nil {
			ingestor.recorder.IngestFailed(source, FailureReason(err), badLines)
		}
		return nil, err
	}

	if ingestor.recorder != nil {
		ingestor.recorder.IngestSucceeded(source, report.RecordsSaved, report.BadLines, time.Since(start))
	}
	ingestor.logger.InfoF("Ingestor.Ingest flight %d (%s) saved for user %d, %d records, %d bad lines, %.2f km",
		report.Flight.ID, name, request.Owner, report.RecordsSaved, report.BadLines, report.Flight.TotalDistanceKm)
	return report, nil
}

func (ingestor *Ingestor) process(
	ctx context.Context,
	tx operation.FlightOperationInterface,
	flight *operation.Flight,
	reader io.Reader,
) (*Report, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, min(64*1024, ingestor.config.MaxLineLength)), ingestor.config.MaxLineLength)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, ingestor.scanError(err, 1)
		}
		return nil, ErrEmptyContent
	}

	batch := make([]*operation.FlightRecord, 0, ingestor.config.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := tx.SaveRecordsBatch(ctx, batch); err != nil {
			return err
		}
		batch = make([]*operation.FlightRecord, 0, ingestor.config.BatchSize)
		return nil
	}
	trigger := utils.NewOverflowTrigger(ingestor.config.BatchSize, flush)

	accumulator := telemetry.NewAccumulator()
	var first, last *telemetry.Sample
	saved := 0
	badLines := 0
	var firstBad *Diagnostic
	lineNumber := 1

	for scanner.Scan() {
		lineNumber++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sample, err := telemetry.ParseLine(scanner.Text(), ingestor.config.ExpectedColumns)
		if errors.Is(err, telemetry.ErrBlankLine) {
			continue
		}
		if err != nil {
			badLines++
			var parseErr *telemetry.ParseError
			preview := ""
			if errors.As(err, &parseErr) {
				preview = Preview(parseErr.Line, ingestor.config.PreviewLength)
			}
			if firstBad == nil {
				firstBad = &Diagnostic{LineNumber: lineNumber, Preview: preview, Reason: err.Error()}
				ingestor.logger.WarnF("Ingestor.Ingest bad line %d in %s: %v | preview=%q", lineNumber, flight.Name, err, preview)
			} else {
				ingestor.logger.DebugF("Ingestor.Ingest bad line %d in %s: %v", lineNumber, flight.Name, err)
			}
			continue
		}

		accumulator.Add(sample.Latitude, sample.Longitude)
		batch = append(batch, toRecord(flight.ID, sample))
		saved++
		if first == nil {
			first = sample
		}
		last = sample
		if err := trigger.Tick(); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, ingestor.scanError(err, lineNumber+1)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if saved == 0 {
		return nil, &IngestError{Kind: ErrNoValidRecords, BadLines: badLines, FirstBadLine: firstBad}
	}

	flight.StartTime, flight.EndTime = ingestor.anchor(first, last)
	flight.RecordCount = saved
	flight.TotalDistanceKm = accumulator.RoundedKm()
	if err := tx.SaveFlight(ctx, flight); err != nil {
		return nil, err
	}

	return &Report{
		Flight:       flight,
		RecordsSaved: saved,
		BadLines:     badLines,
		FirstBadLine: firstBad,
	}, nil
}

func (ingestor *Ingestor) scanError(err error, lineNumber int) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return fmt.Errorf("%w: line %d is longer than %d bytes", ErrLineTooLong, lineNumber, ingestor.config.MaxLineLength)
	}
	return err
}

// anchor 日志没有日期, 起止时间都挂在当天; 结束早于开始视为跨越午夜
func (ingestor *Ingestor) anchor(first, last *telemetry.Sample) (*time.Time, *time.Time) {
	now := ingestor.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := midnight.Add(first.TimeOfDay)
	end := midnight.Add(last.TimeOfDay)
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return &start, &end
}

func toRecord(flightId uint, sample *telemetry.Sample) *operation.FlightRecord {
	return &operation.FlightRecord{
		FlightId:     flightId,
		Time:         sample.Clock(),
		Latitude:     sample.Latitude,
		Longitude:    sample.Longitude,
		TemperatureC: sample.TemperatureC,
		PressureHpa:  sample.PressureHpa,
		AltitudeM:    sample.AltitudeM,
		ImuX:         sample.ImuX,
		ImuY:         sample.ImuY,
		ImuZ:         sample.ImuZ,
		TurbulenceG:  sample.TurbulenceG,
		SpeedKn:      sample.SpeedKn,
	}
}

// Preview 超过 limit 个字符时截断并追加省略号
func Preview(line string, limit int) string {
	if utf8.RuneCountInString(line) <= limit {
		return line
	}
	runes := []rune(line)
	return string(runes[:limit]) + "..."
}
