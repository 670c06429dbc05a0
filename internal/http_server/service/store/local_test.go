package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/testutils"
)

type countRecorder struct{ count int }

func (r *countRecorder) RawLogArchived() { r.count++ }

func newLocalStore(t *testing.T) (*LocalStoreService, *countRecorder, string) {
	dir := t.TempDir()
	recorder := &countRecorder{}
	cfg := &config.HttpServerStore{
		ArchiveRawLogs: true,
		LocalStorePath: dir,
		ArchivePrefix:  "flights",
	}
	return NewLocalStoreService(testutils.NewRecordLogger(), cfg, recorder), recorder, dir
}

func TestLocalArchiveRoundTrip(t *testing.T) {
	store, recorder, dir := newLocalStore(t)
	ctx := context.Background()

	key, err := store.ArchiveRawLog(ctx, "../../etc/passwd", []byte("header\n"))
	if err != nil {
		t.Fatalf("ArchiveRawLog: %v", err)
	}
	if !strings.HasPrefix(key, "flights/") || !strings.HasSuffix(key, ".txt") || strings.Contains(key, "passwd") {
		t.Errorf("archive key %q does not follow flights/<uuid>.txt", key)
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	if err != nil || string(data) != "header\n" {
		t.Errorf("archived content = %q, %v", data, err)
	}
	if recorder.count != 1 {
		t.Errorf("recorder count = %d; expected 1", recorder.count)
	}

	if err := store.RemoveRawLog(ctx, key); err != nil {
		t.Fatalf("RemoveRawLog: %v", err)
	}
	if err := store.RemoveRawLog(ctx, key); err != nil {
		t.Errorf("second RemoveRawLog = %v; expected nil for missing file", err)
	}
}

func TestCheckArchiveKey(t *testing.T) {
	tests := []struct {
		key string
		ok  bool
	}{
		{"flights/a.txt", true},
		{"flights/../secret.txt", false},
		{"../flights/a.txt", false},
		{"/flights/a.txt", false},
		{"other/a.txt", false},
		{"flights\\a.txt", false},
		{"", false},
	}
	for _, tt := range tests {
		err := checkArchiveKey("flights", tt.key)
		if (err == nil) != tt.ok {
			t.Errorf("checkArchiveKey(%q) = %v; expected ok=%v", tt.key, err, tt.ok)
		}
	}
}

func TestNewStoreServiceDisabled(t *testing.T) {
	cfg := &config.HttpServerStore{ArchiveRawLogs: false}
	if s := NewStoreService(testutils.NewRecordLogger(), cfg, nil); s != nil {
		t.Errorf("NewStoreService returned %T for disabled archive", s)
	}
}
