package cloud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/half-nothing/simple-fdr/internal/ingest"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
)

const (
	ResultImported = "imported"
	ResultSkipped  = "skipped"
)

var (
	// ErrForbidden 调用者既不是设备所有者也不是管理员
	ErrForbidden = errors.New("device is not owned by caller")
	// ErrInboxUnavailable 无法获取待导入航班列表
	ErrInboxUnavailable = errors.New("cloud inbox unavailable")
)

// SyncRecorder 同步指标, 由 metrics 包实现
type SyncRecorder interface {
	SyncFlight(result string)
}

// Result 一次同步调用的导入/跳过计数
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Reconciler struct {
	logger      log.LoggerInterface
	client      InboxClient
	ingestor    *ingest.Ingestor
	devices     operation.DeviceOperationInterface
	syncTimeout time.Duration
	recorder    SyncRecorder
}

func NewReconciler(
	logger log.LoggerInterface,
	client InboxClient,
	ingestor *ingest.Ingestor,
	devices operation.DeviceOperationInterface,
	syncTimeout time.Duration,
	recorder SyncRecorder,
) *Reconciler {
	return &Reconciler{
		logger:      logger,
		client:      client,
		ingestor:    ingestor,
		devices:     devices,
		syncTimeout: syncTimeout,
		recorder:    recorder,
	}
}

// RequireOwnedDevice 设备不存在返回 operation.ErrDeviceNotFound, 无权访问返回 ErrForbidden
func RequireOwnedDevice(
	ctx context.Context,
	devices operation.DeviceOperationInterface,
	uid uint,
	permission operation.Permission,
	deviceId string,
) (*operation.Device, error) {
	device, err := devices.GetDeviceByDeviceId(ctx, deviceId)
	if err != nil {
		return nil, err
	}
	if !device.OwnedBy(uid) && !permission.IsElevated() {
		return nil, ErrForbidden
	}
	return device, nil
}

func ChunkName(seq int) string {
	return fmt.Sprintf("%06d.log", seq)
}

// SyncDevice 拉取设备的全部待导入航班并逐个入库, 单个航班失败只计为跳过
func (r *Reconciler) SyncDevice(ctx context.Context, uid uint, permission operation.Permission, deviceId string) (*Result, error) {
	if _, err := RequireOwnedDevice(ctx, r.devices, uid, permission, deviceId); err != nil {
		return nil, err
	}

	if r.syncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.syncTimeout)
		defer cancel()
	}

	runId := uuid.NewString()
	pending, err := r.client.ListPending(ctx, deviceId)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInboxUnavailable, err)
	}
	r.logger.InfoF("Reconciler.SyncDevice[%s] device %s has %d pending flights", runId, deviceId, len(pending))

	result := &Result{}
	for _, flight := range pending {
		if err := r.syncFlight(ctx, runId, uid, deviceId, flight); err != nil {
			r.logger.WarnF("Reconciler.SyncDevice[%s] skip flight %s of %s: %v", runId, flight.FlightId, deviceId, err)
			result.Skipped++
			r.record(ResultSkipped)
			continue
		}
		result.Imported++
		r.record(ResultImported)
	}
	r.logger.InfoF("Reconciler.SyncDevice[%s] device %s finished, imported %d, skipped %d", runId, deviceId, result.Imported, result.Skipped)
	return result, nil
}

func (r *Reconciler) syncFlight(ctx context.Context, runId string, uid uint, deviceId string, flight PendingFlight) error {
	if flight.Chunks <= 0 {
		return fmt.Errorf("invalid chunk count %d", flight.Chunks)
	}
	content, err := r.reassemble(ctx, deviceId, flight)
	if err != nil {
		return err
	}
	acked := false
	_, err = r.ingestor.Ingest(ctx, &ingest.Request{
		Owner:   uid,
		Name:    fmt.Sprintf("cloud_%s_%s.txt", deviceId, flight.FlightId),
		Source:  ingest.SourceCloud,
		Content: strings.NewReader(content),
		BeforeCommit: func(ctx context.Context, _ *ingest.Report) error {
			if err := r.client.Acknowledge(ctx, deviceId, flight.FlightId); err != nil {
				return err
			}
			acked = true
			return nil
		},
	})
	// 确认后提交失败, 远端已不再保留该航班, 只能从设备重新导出
	if err != nil && acked {
		r.logger.ErrorF("Reconciler.SyncDevice[%s] flight %s of %s acknowledged but not stored: %v", runId, flight.FlightId, deviceId, err)
	}
	return err
}

func (r *Reconciler) reassemble(ctx context.Context, deviceId string, flight PendingFlight) (string, error) {
	var builder strings.Builder
	for seq := 1; seq <= flight.Chunks; seq++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		part, err := r.client.DownloadChunk(ctx, deviceId, flight.FlightId, ChunkName(seq))
		if err != nil {
			return "", err
		}
		builder.WriteString(part)
		if !strings.HasSuffix(part, "\n") {
			builder.WriteByte('\n')
		}
	}
	return builder.String(), nil
}

func (r *Reconciler) record(result string) {
	if r.recorder != nil {
		r.recorder.SyncFlight(result)
	}
}
