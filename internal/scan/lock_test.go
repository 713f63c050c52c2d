package scan

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestRunLockExcludesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkarr.lock")

	first, err := AcquireRunLock(path)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, err := AcquireRunLock(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("second acquire: got %v, want ErrLocked", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	second, err := AcquireRunLock(path)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = second.Release()
}

func TestRunLockReleaseOnNil(t *testing.T) {
	var lock *RunLock
	if err := lock.Release(); err != nil {
		t.Fatalf("nil release: %v", err)
	}
}
