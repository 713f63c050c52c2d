package scan

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked indicates another invocation already holds the run lock.
var ErrLocked = errors.New("another run is already in progress")

// RunLock guards the cache directory so only one invocation mutates the
// caches at a time.
type RunLock struct {
	lock *flock.Flock
}

// AcquireRunLock takes the lock file at path without blocking. A held lock
// fails fast; waiting would just stack runs behind each other.
func AcquireRunLock(path string) (*RunLock, error) {
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
	}
	return &RunLock{lock: lock}, nil
}

// Release drops the lock.
func (l *RunLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
