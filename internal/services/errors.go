// Package services defines the shared error taxonomy for external
// collaborators (probe tool, library APIs, cache files).
package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProbe marks stream-inspection failures: tool missing, timeout,
	// non-zero exit, malformed output.
	ErrProbe = errors.New("probe error")
	// ErrAPI marks library-management API failures (network, non-2xx).
	ErrAPI = errors.New("api error")
	// ErrCacheIO marks persisted cache read/write failures.
	ErrCacheIO = errors.New("cache io error")

	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrAPI
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error should abort the whole run. Per the
// error-handling design only configuration problems qualify; probe, API and
// cache failures are reported per file and the run continues.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
