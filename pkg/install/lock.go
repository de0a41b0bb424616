package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is the name of the lock file held in the install root while a
// run is in progress.
const LockFile = ".beer.lock"

// ErrLocked is returned when another run holds the install root.
var ErrLocked = errors.New("install root is locked by another run")

// lockRoot takes an exclusive lock on root without waiting.
func lockRoot(root string) (*flock.Flock, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create install root: %w", err)
	}
	lock := flock.New(filepath.Join(root, LockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock install root: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, root)
	}
	return lock, nil
}
