package ledger

import "fmt"

// Status is the lifecycle state of one package within a run.
type Status int

const (
	Pending Status = iota
	InProgress
	Succeeded
	Failed
	Skipped
)

var statusNames = [...]string{"pending", "in_progress", "succeeded", "failed", "skipped"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// Terminal reports whether s can no longer change.
func (s Status) Terminal() bool {
	return s == Succeeded || s == Failed || s == Skipped
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case Pending:
		return next != Pending
	case InProgress:
		return next == Succeeded || next == Failed
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}
