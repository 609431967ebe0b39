package cli

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUsage   = 2
)

// exitError carries the process exit code for err. Reported errors were
// already shown to the user through the notification bus.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &exitError{code: ExitUsage, err: fmt.Errorf(format, args...)}
}

func reported(err error, code int) error {
	return &exitError{code: code, err: err, reported: true}
}

// exitCode maps err to a process exit code and reports whether it still
// needs printing.
func exitCode(err error) (int, bool) {
	if err == nil {
		return ExitOK, false
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code, !ee.reported
	}
	return ExitRuntime, true
}
