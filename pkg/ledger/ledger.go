// Package ledger records the per-package outcome of one install run.
//
// Every package in the plan enters the ledger as [Pending]. Statuses only
// move forward:
//
//	Pending -> InProgress -> Succeeded | Failed
//	Pending -> Succeeded | Failed | Skipped
//
// Succeeded, Failed and Skipped are terminal. An illegal transition returns
// [ErrInvalidTransition] and leaves the entry unchanged.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when a status change would move an entry
// backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnknownPackage is returned for names that were never added.
var ErrUnknownPackage = errors.New("unknown package")

// Skip reasons.
const (
	ReasonFailedDependency = "failed_dependency"
	ReasonCancelled        = "cancelled"
)

// CommandResult is the outcome of one install command.
type CommandResult struct {
	Command  string `json:"command"`
	ExitCode int    `json:"exit_code"`
	Output   string `json:"output,omitempty"`
	Err      string `json:"error,omitempty"`
}

// Failed reports whether the command did not complete with exit code zero.
func (c CommandResult) Failed() bool { return c.ExitCode != 0 || c.Err != "" }

// Entry is the ledger record of one package.
type Entry struct {
	Name             string          `json:"name"`
	Status           Status          `json:"status"`
	Reason           string          `json:"reason,omitempty"`
	Cause            string          `json:"cause,omitempty"`
	AlreadyInstalled bool            `json:"already_installed,omitempty"`
	Commands         []CommandResult `json:"commands,omitempty"`
	StartedAt        time.Time       `json:"started_at,omitzero"`
	FinishedAt       time.Time       `json:"finished_at,omitzero"`
}

// Duration returns how long the package took, or zero if it never ran.
func (e Entry) Duration() time.Duration {
	if e.StartedAt.IsZero() || e.FinishedAt.IsZero() {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// Graph is the view of the dependency graph needed for skip propagation.
type Graph interface {
	// TransitiveDependents returns every package that depends on name
	// directly or indirectly.
	TransitiveDependents(name string) []string
}

// Ledger is safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	runID   string
	order   []string
	entries map[string]*Entry
	now     func() time.Time
}

// New creates an empty ledger. An empty runID is replaced by a random UUID.
func New(runID string) *Ledger {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Ledger{
		runID:   runID,
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// RunID identifies the run this ledger belongs to.
func (l *Ledger) RunID() string { return l.runID }

// Add registers name as Pending. Adding a name twice is an error.
func (l *Ledger) Add(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[name]; ok {
		return fmt.Errorf("package %q already in ledger", name)
	}
	l.entries[name] = &Entry{Name: name, Status: Pending}
	l.order = append(l.order, name)
	return nil
}

// Start moves name to InProgress.
func (l *Ledger) Start(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, err := l.transition(name, InProgress)
	if err != nil {
		return err
	}
	e.StartedAt = l.now()
	return nil
}

// Succeed moves name to Succeeded. alreadyInstalled marks packages that were
// satisfied by an earlier run without being cloned again.
func (l *Ledger) Succeed(name string, alreadyInstalled bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, err := l.transition(name, Succeeded)
	if err != nil {
		return err
	}
	e.AlreadyInstalled = alreadyInstalled
	e.FinishedAt = l.now()
	return nil
}

// Fail moves name to Failed with the given reason, typically an error code.
func (l *Ledger) Fail(name, reason string, cause error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, err := l.transition(name, Failed)
	if err != nil {
		return err
	}
	e.Reason = reason
	if cause != nil {
		e.Cause = cause.Error()
	}
	e.FinishedAt = l.now()
	return nil
}

// Skip moves a Pending name to Skipped.
func (l *Ledger) Skip(name, reason, cause string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.skip(name, reason, cause)
}

func (l *Ledger) skip(name, reason, cause string) error {
	e, err := l.transition(name, Skipped)
	if err != nil {
		return err
	}
	e.Reason = reason
	e.Cause = cause
	e.FinishedAt = l.now()
	return nil
}

// AddCommand appends a command result to name's entry.
func (l *Ledger) AddCommand(name string, r CommandResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPackage, name)
	}
	e.Commands = append(e.Commands, r)
	return nil
}

// SkipDependents marks every still-Pending transitive dependent of failed
// as Skipped and returns their names. The dependents are read and updated
// under one lock, so no dependent can start in between.
func (l *Ledger) SkipDependents(g Graph, failed string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var skipped []string
	for _, name := range g.TransitiveDependents(failed) {
		e, ok := l.entries[name]
		if !ok || e.Status != Pending {
			continue
		}
		if l.skip(name, ReasonFailedDependency, failed) == nil {
			skipped = append(skipped, name)
		}
	}
	return skipped
}

// SkipPending marks every Pending entry as Skipped and returns their names.
func (l *Ledger) SkipPending(reason string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var skipped []string
	for _, name := range l.order {
		if l.entries[name].Status == Pending {
			_ = l.skip(name, reason, "")
			skipped = append(skipped, name)
		}
	}
	return skipped
}

// Status returns the current status of name.
func (l *Ledger) Status(name string) (Status, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[name]
	if !ok {
		return Pending, false
	}
	return e.Status, true
}

// Get returns a copy of name's entry.
func (l *Ledger) Get(name string) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[name]
	if !ok {
		return Entry{}, false
	}
	return clone(e), true
}

// Entries returns copies of all entries in the order they were added.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.order))
	for i, name := range l.order {
		out[i] = clone(l.entries[name])
	}
	return out
}

func (l *Ledger) transition(name string, to Status) (*Entry, error) {
	e, ok := l.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, name)
	}
	if !e.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, name, e.Status, to)
	}
	e.Status = to
	return e, nil
}

func clone(e *Entry) Entry {
	c := *e
	c.Commands = slices.Clone(e.Commands)
	return c
}
