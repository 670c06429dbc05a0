package base

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestLoggerLevels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		debug     bool
		wantDebug bool
	}{
		{false, false},
		{true, true},
	}
	for _, test := range tests {
		console := &bytes.Buffer{}
		logger := NewLogger()
		logger.setup(test.debug, console, nil)

		logger.DebugF("debug %d", 1)
		logger.InfoF("info %d", 2)
		logger.FatalF("fatal %d", 3)

		out := console.String()
		if got := strings.Contains(out, "debug 1"); got != test.wantDebug {
			t.Errorf("debug=%v: debug line present = %v; expected %v", test.debug, got, test.wantDebug)
		}
		if !strings.Contains(out, "info 2") {
			t.Errorf("debug=%v: info line missing in %q", test.debug, out)
		}
		if !strings.Contains(out, "level=FATAL") {
			t.Errorf("debug=%v: fatal level name missing in %q", test.debug, out)
		}
	}
}

func TestLoggerWritesFile(t *testing.T) {
	color.NoColor = true
	console := &bytes.Buffer{}
	file := &bytes.Buffer{}
	logger := NewLogger()
	logger.setup(false, console, file)

	logger.Warn("archive failed", "flight", 7)

	if !strings.Contains(console.String(), "flight=7") {
		t.Errorf("console output %q does not contain attribute", console.String())
	}
	if !strings.Contains(file.String(), `"level":"WARN"`) || !strings.Contains(file.String(), `"flight":7`) {
		t.Errorf("file output %q is not the expected json line", file.String())
	}
	if err := logger.ShutdownCallback().Invoke(context.Background()); err != nil {
		t.Errorf("ShutdownCallback without file returned %v", err)
	}
}
