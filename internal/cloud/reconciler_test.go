package cloud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/half-nothing/simple-fdr/internal/ingest"
	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"github.com/half-nothing/simple-fdr/internal/testutils"
)

const deviceId = "DEV_0123456789ab"

type fakeInbox struct {
	pending []PendingFlight
	chunks  map[string]string
	acked   []string
	calls   int
	failAck bool
}

func (f *fakeInbox) ListPending(context.Context, string) ([]PendingFlight, error) {
	f.calls++
	return f.pending, nil
}

func (f *fakeInbox) DownloadChunk(_ context.Context, _ string, flightId, chunkName string) (string, error) {
	f.calls++
	content, ok := f.chunks[flightId+"/"+chunkName]
	if !ok {
		return "", ErrChunkNotFound
	}
	if content == "" {
		return "", ErrEmptyChunk
	}
	return content, nil
}

func (f *fakeInbox) Acknowledge(_ context.Context, _ string, flightId string) error {
	f.calls++
	if f.failAck {
		return errors.New("ack rejected")
	}
	f.acked = append(f.acked, flightId)
	return nil
}

type fakeSyncRecorder map[string]int

func (r fakeSyncRecorder) SyncFlight(result string) { r[result]++ }

func dataLine(second int) string {
	return fmt.Sprintf("12:00:%02d 48.0 17.0 20 1000 100 0 0 1 0 0 0 0 90", second)
}

func newReconciler(inbox *fakeInbox) (*Reconciler, *testutils.MemoryFlights, fakeSyncRecorder) {
	owner := uint(1)
	devices := testutils.NewMemoryDevices(&operation.Device{DeviceId: deviceId, OwnerId: &owner, PairingCode: "PAIR_0000000000"})
	flights := testutils.NewMemoryFlights()
	cfg := &config.IngestConfig{
		ExpectedColumns: 14, BatchSize: 500, PreviewLength: 200, PeekBytes: 4096,
		MaxNameLength: 255, MaxLineLength: 4096, UploadFallbackName: "cloud.txt",
	}
	logger := testutils.NewRecordLogger()
	ingestor := ingest.NewIngestor(logger, cfg, flights, nil, nil)
	recorder := fakeSyncRecorder{}
	return NewReconciler(logger, inbox, ingestor, devices, 0, recorder), flights, recorder
}

func TestSyncDeviceIsolatesFailures(t *testing.T) {
	inbox := &fakeInbox{
		pending: []PendingFlight{
			{FlightId: "broken", Chunks: 3},
			{FlightId: "good", Chunks: 2},
			{FlightId: "zero", Chunks: 0},
			{FlightId: "garbage", Chunks: 1},
		},
		chunks: map[string]string{
			"broken/000001.log":  "header\n" + dataLine(0),
			"broken/000002.log":  "",
			"broken/000003.log":  dataLine(2),
			"good/000001.log":    "header\n" + dataLine(0),
			"good/000002.log":    dataLine(1) + "\n",
			"garbage/000001.log": "header\nnot a record\n",
		},
	}
	reconciler, flights, recorder := newReconciler(inbox)

	result, err := reconciler.SyncDevice(context.Background(), 1, 0, deviceId)
	if err != nil {
		t.Fatalf("SyncDevice returned %v", err)
	}
	if result.Imported != 1 || result.Skipped != 3 {
		t.Errorf("result = %+v; expected 1 imported, 3 skipped", result)
	}
	if len(inbox.acked) != 1 || inbox.acked[0] != "good" {
		t.Errorf("acked = %v; expected only good", inbox.acked)
	}
	stored, _ := flights.GetFlightsByOwner(context.Background(), 1)
	if len(stored) != 1 || stored[0].Name != "cloud_"+deviceId+"_good.txt" || stored[0].RecordCount != 2 {
		t.Errorf("stored flights = %+v", stored)
	}
	if recorder[ResultImported] != 1 || recorder[ResultSkipped] != 3 {
		t.Errorf("recorder = %v", recorder)
	}
}

func TestSyncDeviceAckFailureRollsBack(t *testing.T) {
	inbox := &fakeInbox{
		pending: []PendingFlight{{FlightId: "f1", Chunks: 1}},
		chunks:  map[string]string{"f1/000001.log": "header\n" + dataLine(0)},
		failAck: true,
	}
	reconciler, flights, _ := newReconciler(inbox)
	result, err := reconciler.SyncDevice(context.Background(), 1, 0, deviceId)
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 0 || result.Skipped != 1 || flights.FlightCount() != 0 {
		t.Errorf("result = %+v, flights = %d; expected rollback", result, flights.FlightCount())
	}
}

func TestSyncDeviceCommitFailureAfterAck(t *testing.T) {
	tests := []struct {
		name       string
		failCommit error
		errors     int
		imported   int
	}{
		{"commit succeeds", nil, 0, 1},
		{"commit fails after ack", errors.New("connection lost"), 1, 0},
	}
	for _, test := range tests {
		inbox := &fakeInbox{
			pending: []PendingFlight{{FlightId: "f1", Chunks: 1}},
			chunks:  map[string]string{"f1/000001.log": "header\n" + dataLine(0)},
		}
		reconciler, flights, _ := newReconciler(inbox)
		flights.FailCommit = test.failCommit
		logger := reconciler.logger.(*testutils.RecordLogger)

		result, err := reconciler.SyncDevice(context.Background(), 1, 0, deviceId)
		if err != nil {
			t.Errorf("%s: SyncDevice returned %v", test.name, err)
			continue
		}
		if len(inbox.acked) != 1 {
			t.Errorf("%s: acked = %v; expected f1", test.name, inbox.acked)
		}
		if result.Imported != test.imported || flights.FlightCount() != test.imported {
			t.Errorf("%s: imported %d, stored %d; expected %d", test.name, result.Imported, flights.FlightCount(), test.imported)
		}
		if logger.Count("ERROR") != test.errors {
			t.Errorf("%s: ERROR count = %d; expected %d", test.name, logger.Count("ERROR"), test.errors)
		}
	}
}

func TestSyncDeviceOwnership(t *testing.T) {
	tests := []struct {
		name       string
		uid        uint
		permission operation.Permission
		device     string
		expected   error
		calls      int
	}{
		{"stranger", 2, 0, deviceId, ErrForbidden, 0},
		{"unknown device", 1, 0, "DEV_ffffffffffff", operation.ErrDeviceNotFound, 0},
		{"admin bypass", 2, operation.AdminEntry, deviceId, nil, 1},
	}
	for _, test := range tests {
		inbox := &fakeInbox{}
		reconciler, _, _ := newReconciler(inbox)
		_, err := reconciler.SyncDevice(context.Background(), test.uid, test.permission, test.device)
		if !errors.Is(err, test.expected) {
			t.Errorf("%s: got %v; expected %v", test.name, err, test.expected)
		}
		if inbox.calls != test.calls {
			t.Errorf("%s: inbox called %d times; expected %d", test.name, inbox.calls, test.calls)
		}
	}
}

func TestChunkName(t *testing.T) {
	if ChunkName(1) != "000001.log" || ChunkName(123456) != "123456.log" {
		t.Errorf("ChunkName produced %s / %s", ChunkName(1), ChunkName(123456))
	}
	if !strings.HasSuffix(ChunkName(42), ".log") {
		t.Errorf("missing suffix")
	}
}
