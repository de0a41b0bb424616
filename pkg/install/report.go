package install

import (
	"time"

	"github.com/charmbracelet/log"
)

// EventKind identifies an installer event.
type EventKind int

const (
	GroupStarted EventKind = iota
	PackageStarted
	PackageFinished
	PackageFailed
	PackageSkipped
	CommandStarted
	CommandFailed
)

var eventNames = [...]string{
	"group_started", "package_started", "package_finished", "package_failed",
	"package_skipped", "command_started", "command_failed",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event describes one step of an install run.
type Event struct {
	Kind             EventKind
	Time             time.Time
	Group            int
	Package          string
	Command          string
	ExitCode         int
	AlreadyInstalled bool
	Reason           string // Failure or skip reason
	Cause            string // For skips: the failed dependency
	Output           []byte // Captured command output, for CommandFailed
	Err              error // For PackageStarted: the failed marker lookup, if any
}

// Reporter receives installer events. Report is called from multiple
// goroutines and must be safe for concurrent use.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

// Report calls f(e).
func (f ReporterFunc) Report(e Event) { f(e) }

// NopReporter discards all events.
type NopReporter struct{}

// Report implements Reporter.
func (NopReporter) Report(Event) {}

// LogReporter writes events to a structured logger.
type LogReporter struct {
	Logger *log.Logger
}

// Report implements Reporter.
func (r LogReporter) Report(e Event) {
	l := r.Logger
	if l == nil {
		l = log.Default()
	}
	switch e.Kind {
	case GroupStarted:
		l.Debug("group", "index", e.Group)
	case PackageStarted:
		if e.Err != nil {
			l.Warn("marker lookup failed, reinstalling", "package", e.Package, "err", e.Err)
		}
		l.Info("installing", "package", e.Package)
	case PackageFinished:
		if e.AlreadyInstalled {
			l.Info("already installed", "package", e.Package)
		} else {
			l.Info("installed", "package", e.Package)
		}
		if e.Err != nil {
			l.Warn("marker not saved", "package", e.Package, "err", e.Err)
		}
	case PackageFailed:
		l.Error("failed", "package", e.Package, "reason", e.Reason, "err", e.Err)
	case PackageSkipped:
		l.Warn("skipped", "package", e.Package, "reason", e.Reason, "cause", e.Cause)
	case CommandStarted:
		l.Debug("running", "package", e.Package, "cmd", e.Command)
	case CommandFailed:
		l.Warn("command failed", "package", e.Package, "cmd", e.Command, "exit", e.ExitCode, "err", e.Err)
	}
}

var (
	_ Reporter = NopReporter{}
	_ Reporter = LogReporter{}
	_ Reporter = ReporterFunc(nil)
)
