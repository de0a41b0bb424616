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
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("installing", "package", "web") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("fetch", "package", "web") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("fetch", "package", "web") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
}

func TestLogElapsed(t *testing.T) {
	var buf bytes.Buffer
	logElapsed(newLogger(&buf, log.InfoLevel), time.Now().Add(-5*time.Millisecond), "planned", "root", "web")

	out := buf.String()
	if !strings.Contains(out, "planned") || !strings.Contains(out, "root=web") || !strings.Contains(out, "elapsed=") {
		t.Errorf("output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("loggerFromContext without a logger returned nil")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
}
