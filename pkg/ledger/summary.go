package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Summary groups the entries of a finished run by outcome.
type Summary struct {
	RunID     string  `json:"run_id"`
	Succeeded []Entry `json:"succeeded"`
	Failed    []Entry `json:"failed"`
	Skipped   []Entry `json:"skipped"`
	Pending   []Entry `json:"pending,omitempty"` // Non-empty only if the run was interrupted mid-way
}

// Total returns the number of packages in the run.
func (s *Summary) Total() int {
	return len(s.Succeeded) + len(s.Failed) + len(s.Skipped) + len(s.Pending)
}

// AlreadyInstalled counts succeeded packages that were not reinstalled.
func (s *Summary) AlreadyInstalled() int {
	n := 0
	for _, e := range s.Succeeded {
		if e.AlreadyInstalled {
			n++
		}
	}
	return n
}

// OK reports whether every package succeeded.
func (s *Summary) OK() bool {
	return len(s.Failed) == 0 && len(s.Skipped) == 0 && len(s.Pending) == 0
}

func (s *Summary) String() string {
	return fmt.Sprintf("%d succeeded (%d already installed), %d failed, %d skipped",
		len(s.Succeeded), s.AlreadyInstalled(), len(s.Failed), len(s.Skipped))
}

// Summary returns the current entries grouped by status, each group in
// ledger order.
func (l *Ledger) Summary() *Summary {
	s := &Summary{RunID: l.runID}
	for _, e := range l.Entries() {
		switch e.Status {
		case Succeeded:
			s.Succeeded = append(s.Succeeded, e)
		case Failed:
			s.Failed = append(s.Failed, e)
		case Skipped:
			s.Skipped = append(s.Skipped, e)
		default:
			s.Pending = append(s.Pending, e)
		}
	}
	return s
}

type snapshot struct {
	RunID   string    `json:"run_id"`
	SavedAt time.Time `json:"saved_at"`
	Entries []Entry   `json:"entries"`
}

// Save writes the ledger to path as JSON, creating parent directories.
func (l *Ledger) Save(path string) error {
	data, err := json.MarshalIndent(snapshot{
		RunID:   l.runID,
		SavedAt: l.now().UTC(),
		Entries: l.Entries(),
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Load reads a ledger written by Save.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", path, err)
	}
	l := New(snap.RunID)
	for i := range snap.Entries {
		e := snap.Entries[i]
		if _, dup := l.entries[e.Name]; dup {
			return nil, fmt.Errorf("decode ledger %s: duplicate entry %q", path, e.Name)
		}
		l.entries[e.Name] = &e
		l.order = append(l.order, e.Name)
	}
	return l, nil
}
