package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/testutils"
)

const header = "time lat lon temp press alt ix iy iz turb r1 r2 r3 speed"

func line(clock string, lat, lon string) string {
	return fmt.Sprintf("%s %s %s 20,5 1013.25 300 0.1 0.2 0.9 0.05 0 0 0 110", clock, lat, lon)
}

func testConfig() *config.IngestConfig {
	return &config.IngestConfig{
		ExpectedColumns:     14,
		BatchSize:           500,
		PreviewLength:       200,
		PeekBytes:           4096,
		MaxNameLength:       255,
		MaxLineLength:       64 * 1024,
		UploadFallbackName:  "upload.txt",
		AllowedExtensions:   []string{"txt", "csv"},
		AllowedContentTypes: []string{"text/plain", "text/csv", "application/octet-stream"},
	}
}

type fakeArchiver struct {
	archived map[string][]byte
	removed  []string
	fail     error
}

func (a *fakeArchiver) ArchiveRawLog(_ context.Context, name string, content []byte) (string, error) {
	if a.fail != nil {
		return "", a.fail
	}
	path := "flights/" + name
	a.archived[path] = append([]byte(nil), content...)
	return path, nil
}

func (a *fakeArchiver) RemoveRawLog(_ context.Context, path string) error {
	a.removed = append(a.removed, path)
	delete(a.archived, path)
	return nil
}

type fakeRecorder struct {
	succeeded int
	failures  []string
}

func (r *fakeRecorder) IngestSucceeded(string, int, int, time.Duration) { r.succeeded++ }
func (r *fakeRecorder) IngestFailed(_ string, reason string, _ int) {
	r.failures = append(r.failures, reason)
}

func newTestIngestor(archiver Archiver) (*Ingestor, *testutils.MemoryFlights, *testutils.RecordLogger, *fakeRecorder) {
	repo := testutils.NewMemoryFlights()
	logger := testutils.NewRecordLogger()
	recorder := &fakeRecorder{}
	ingestor := NewIngestor(logger, testConfig(), repo, archiver, recorder)
	ingestor.now = func() time.Time { return time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC) }
	return ingestor, repo, logger, recorder
}

func TestIngestWellFormed(t *testing.T) {
	ingestor, repo, _, recorder := newTestIngestor(nil)
	content := strings.Join([]string{
		header,
		line("10:00:00", "48.0", "17.0"),
		"",
		line("10:00:01", "48,05", "17.0"),
		line("10:00:02", "48.1", "17.0"),
	}, "\n")

	report, err := ingestor.Ingest(context.Background(), &Request{Owner: 7, Name: "../../logs/trip.txt", Content: strings.NewReader(content)})
	if err != nil {
		t.Fatalf("Ingest returned %v", err)
	}
	if report.RecordsSaved != 3 || report.BadLines != 0 || report.FirstBadLine != nil {
		t.Errorf("report = %+v; expected 3 saved, 0 bad", report)
	}
	flight := report.Flight
	if flight.Name != "trip.txt" || flight.OwnerId != 7 {
		t.Errorf("flight name/owner = %s/%d", flight.Name, flight.OwnerId)
	}
	if flight.TotalDistanceKm != 11.12 {
		t.Errorf("distance = %v; expected 11.12", flight.TotalDistanceKm)
	}
	expectedStart := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if !flight.StartTime.Equal(expectedStart) || !flight.EndTime.Equal(expectedStart.Add(2*time.Second)) {
		t.Errorf("start/end = %v/%v", flight.StartTime, flight.EndTime)
	}
	stored, err := repo.GetFlightById(context.Background(), flight.ID)
	if err != nil || stored.RecordCount != 3 {
		t.Errorf("stored flight = %+v, %v", stored, err)
	}
	records, _ := repo.GetRecordsByFlight(context.Background(), flight.ID)
	if len(records) != 3 || records[1].Time != "10:00:01" || *records[1].Latitude != 48.05 {
		t.Errorf("stored records do not match input")
	}
	if recorder.succeeded != 1 {
		t.Errorf("recorder.succeeded = %d", recorder.succeeded)
	}
}

func TestIngestFirstBadLineReporting(t *testing.T) {
	ingestor, _, logger, _ := newTestIngestor(nil)
	lines := []string{header}
	for i := 2; i <= 10; i++ {
		switch i {
		case 5:
			lines = append(lines, "broken line five "+strings.Repeat("x", 300))
		case 9:
			lines = append(lines, "broken nine")
		default:
			lines = append(lines, line(fmt.Sprintf("10:00:%02d", i), "48.0", "17.0"))
		}
	}

	report, err := ingestor.Ingest(context.Background(), &Request{Owner: 1, Name: "a.txt", Content: strings.NewReader(strings.Join(lines, "\n"))})
	if err != nil {
		t.Fatalf("Ingest returned %v", err)
	}
	if report.BadLines != 2 || report.RecordsSaved != 7 {
		t.Errorf("bad=%d saved=%d; expected 2 and 7", report.BadLines, report.RecordsSaved)
	}
	diagnostic := report.FirstBadLine
	if diagnostic == nil || diagnostic.LineNumber != 5 {
		t.Fatalf("first bad line = %+v; expected line 5", diagnostic)
	}
	if !strings.HasPrefix(diagnostic.Preview, "broken line five") || !strings.HasSuffix(diagnostic.Preview, "...") {
		t.Errorf("preview %q is not the truncated line 5", diagnostic.Preview)
	}
	if len([]rune(diagnostic.Preview)) != 203 {
		t.Errorf("preview length = %d; expected 200 plus ellipsis", len([]rune(diagnostic.Preview)))
	}
	if logger.Count("WARN") != 1 {
		t.Errorf("WARN count = %d; expected only the first bad line", logger.Count("WARN"))
	}
}

func TestIngestRejectsNonFiniteCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon string
	}{
		{"nan latitude", "NaN", "17.0"},
		{"inf longitude", "48.05", "Inf"},
		{"negative infinity latitude", "-Infinity", "17.0"},
	}
	for _, test := range tests {
		ingestor, _, _, _ := newTestIngestor(nil)
		content := strings.Join([]string{
			header,
			line("10:00:00", "48.0", "17.0"),
			line("10:00:01", test.lat, test.lon),
			line("10:00:02", "48.1", "17.0"),
		}, "\n")
		report, err := ingestor.Ingest(context.Background(), &Request{Owner: 1, Name: "a.txt", Content: strings.NewReader(content)})
		if err != nil {
			t.Errorf("%s: Ingest returned %v", test.name, err)
			continue
		}
		if report.BadLines != 1 || report.RecordsSaved != 2 {
			t.Errorf("%s: bad=%d saved=%d; expected 1 and 2", test.name, report.BadLines, report.RecordsSaved)
		}
		if report.FirstBadLine == nil || report.FirstBadLine.LineNumber != 3 {
			t.Errorf("%s: first bad line = %+v; expected line 3", test.name, report.FirstBadLine)
		}
		if report.Flight.TotalDistanceKm != 11.12 {
			t.Errorf("%s: distance = %v; expected 11.12", test.name, report.Flight.TotalDistanceKm)
		}
		if _, err := json.Marshal(report.Flight); err != nil {
			t.Errorf("%s: flight is not serializable: %v", test.name, err)
		}
	}
}

func TestIngestNoValidRecordsRollsBack(t *testing.T) {
	archiver := &fakeArchiver{archived: map[string][]byte{}}
	ingestor, repo, _, recorder := newTestIngestor(archiver)
	content := header + "\nbad one\nbad two\n"

	_, err := ingestor.Ingest(context.Background(), &Request{Owner: 1, Name: "bad.txt", Content: strings.NewReader(content)})
	if !errors.Is(err, ErrNoValidRecords) {
		t.Fatalf("Ingest returned %v; expected ErrNoValidRecords", err)
	}
	var ingestErr *IngestError
	if !errors.As(err, &ingestErr) || ingestErr.BadLines != 2 || ingestErr.FirstBadLine.LineNumber != 2 {
		t.Errorf("diagnostics = %+v", ingestErr)
	}
	if repo.FlightCount() != 0 || repo.RecordCount() != 0 {
		t.Errorf("rollback left %d flights and %d records", repo.FlightCount(), repo.RecordCount())
	}
	if len(archiver.archived) != 0 {
		t.Errorf("archive written for failed ingestion")
	}
	if len(recorder.failures) != 1 || recorder.failures[0] != "no_valid_records" {
		t.Errorf("recorded failures = %v", recorder.failures)
	}
}

func TestIngestEmptyContent(t *testing.T) {
	ingestor, repo, _, _ := newTestIngestor(nil)
	_, err := ingestor.Ingest(context.Background(), &Request{Owner: 1, Name: "e.txt", Content: strings.NewReader("")})
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Ingest returned %v; expected ErrEmptyContent", err)
	}
	if repo.FlightCount() != 0 {
		t.Errorf("draft flight left behind")
	}
	if _, err := ingestor.Ingest(context.Background(), &Request{Owner: 1, Name: "e.txt"}); !errors.Is(err, ErrMissingFile) {
		t.Errorf("nil content returned %v; expected ErrMissingFile", err)
	}
}

func TestIngestBatchesFlush(t *testing.T) {
	ingestor, repo, _, _ := newTestIngestor(nil)
	ingestor.config.BatchSize = 2
	lines := []string{header}
	for i := 0; i < 5; i++ {
		lines = append(lines, line(fmt.Sprintf("11:00:%02d", i), "48.0", "17.0"))
	}
	if _, err := ingestor.Ingest(context.Background(), &Request{Owner: 1, Name: "b.txt", Content: strings.NewReader(strings.Join(lines, "\n"))}); err != nil {
		t.Fatal(err)
	}
	expected := []int{2, 2, 1}
	if fmt.Sprint(repo.Batches) != fmt.Sprint(expected) {
		t.Errorf("batches = %v; expected %v", repo.Batches, expected)
	}
}

func TestIngestArchiveAndHook(t *testing.T) {
	archiver := &fakeArchiver{archived: map[string][]byte{}}
	ingestor, repo, _, _ := newTestIngestor(archiver)
	content := header + "\n" + line("23:59:58", "48.0", "17.0") + "\n" + line("00:00:02", "48.0", "17.0")

	report, err := ingestor.Ingest(context.Background(), &Request{Owner: 1, Name: "n.txt", Content: strings.NewReader(content)})
	if err != nil {
		t.Fatal(err)
	}
	if report.Flight.ArchivePath != "flights/n.txt" || string(archiver.archived["flights/n.txt"]) != content {
		t.Errorf("archive path %q or content mismatch", report.Flight.ArchivePath)
	}
	if FlightDuration(report.Flight) != 4*time.Second {
		t.Errorf("midnight crossing duration = %v; expected 4s", FlightDuration(report.Flight))
	}

	hookErr := errors.New("ack failed")
	_, err = ingestor.Ingest(context.Background(), &Request{
		Owner:   1,
		Name:    "h.txt",
		Content: strings.NewReader(content),
		BeforeCommit: func(context.Context, *Report) error {
			return hookErr
		},
	})
	if !errors.Is(err, hookErr) {
		t.Errorf("Ingest returned %v; expected hook error", err)
	}
	if repo.FlightCount() != 1 {
		t.Errorf("hook failure did not roll back, %d flights", repo.FlightCount())
	}
	if len(archiver.removed) != 1 || archiver.removed[0] != "flights/h.txt" {
		t.Errorf("archive not removed after rollback: %v", archiver.removed)
	}
}

func TestIngestArchiveFailure(t *testing.T) {
	archiver := &fakeArchiver{archived: map[string][]byte{}, fail: errors.New("bucket down")}
	ingestor, repo, _, _ := newTestIngestor(archiver)
	content := header + "\n" + line("10:00:00", "48.0", "17.0")
	_, err := ingestor.Ingest(context.Background(), &Request{Owner: 1, Name: "a.txt", Content: strings.NewReader(content)})
	if !errors.Is(err, ErrArchiveFailed) {
		t.Errorf("Ingest returned %v; expected ErrArchiveFailed", err)
	}
	if repo.FlightCount() != 0 {
		t.Errorf("archive failure left a flight behind")
	}
}

func TestIngestLineTooLong(t *testing.T) {
	ingestor, _, _, _ := newTestIngestor(nil)
	ingestor.config.MaxLineLength = 1024
	content := header + "\n" + strings.Repeat("9", 4096)
	if _, err := ingestor.Ingest(context.Background(), &Request{Owner: 1, Name: "l.txt", Content: strings.NewReader(content)}); !errors.Is(err, ErrLineTooLong) {
		t.Errorf("Ingest returned %v; expected ErrLineTooLong", err)
	}
}
