package hmd

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDeviceUnavailable means no headset is attached, the runtime could
	// not initialise or the session has been closed.
	ErrDeviceUnavailable = errors.New("hmd: device unavailable")
	// ErrAllocationFailed covers windows, GL contexts, swap chains and
	// mirror textures that could not be created.
	ErrAllocationFailed = errors.New("hmd: allocation failed")
	// ErrSubmissionFailed is returned for a frame the compositor rejected.
	ErrSubmissionFailed = errors.New("hmd: frame submission failed")
)

// ProgrammingError is the panic value for API misuse, such as drawing into
// the render target outside the acquire/commit window.
type ProgrammingError struct {
	Op     string
	Reason string
}

func (e *ProgrammingError) Error() string {
	return fmt.Sprintf("hmd: programming error in %s: %s", e.Op, e.Reason)
}

// Misuse panics with a *ProgrammingError.
func Misuse(op, format string, args ...interface{}) {
	panic(&ProgrammingError{Op: op, Reason: fmt.Sprintf(format, args...)})
}
