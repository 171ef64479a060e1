package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("analyzing sketch") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("raw model output") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("raw model output") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("Applied 2 operations")

	out := buf.String()
	if !strings.Contains(out, "Applied 2 operations") {
		t.Errorf("progress output missing message: %q", out)
	}
	if !strings.Contains(out, "s)") {
		t.Errorf("progress output missing elapsed time: %q", out)
	}
}

func TestLoggerContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext should return the logger stored in context")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}
}
