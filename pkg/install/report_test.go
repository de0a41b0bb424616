package install

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogReporter(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  []string
	}{
		{"started", Event{Kind: PackageStarted, Package: "web"}, []string{"installing", "package=web"}},
		{"marker lookup failed", Event{Kind: PackageStarted, Package: "web", Err: errors.New("redis: connection refused")}, []string{"marker lookup failed", "package=web", "connection refused", "installing"}},
		{"already installed", Event{Kind: PackageFinished, Package: "lib-a", AlreadyInstalled: true}, []string{"already installed", "package=lib-a"}},
		{"failed", Event{Kind: PackageFailed, Package: "zlib", Reason: "clone_failed", Err: errors.New("exit 128")}, []string{"failed", "reason=clone_failed", "exit 128"}},
		{"skipped", Event{Kind: PackageSkipped, Package: "web", Reason: "failed_dependency", Cause: "zlib"}, []string{"skipped", "cause=zlib"}},
		{"command failed", Event{Kind: CommandFailed, Package: "web", Command: "make", ExitCode: 2}, []string{"command failed", "cmd=make", "exit=2"}},
		{"debug hidden", Event{Kind: CommandStarted, Package: "web", Command: "make"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			LogReporter{Logger: log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})}.Report(tt.event)
			out := buf.String()
			if tt.want == nil && out != "" {
				t.Errorf("unexpected output %q", out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
		})
	}
}

func TestEventKindString(t *testing.T) {
	if got := PackageSkipped.String(); got != "package_skipped" {
		t.Errorf("PackageSkipped.String() = %q", got)
	}
	if got := EventKind(99).String(); got != "unknown" {
		t.Errorf("EventKind(99).String() = %q", got)
	}
}
