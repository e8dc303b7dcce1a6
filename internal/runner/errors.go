package runner

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// notFoundError signals that the runner executable could not be started
// because it is missing or not executable.
type notFoundError struct {
	bin string
	err error
}

func (e notFoundError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("runner not found: %s: %v", e.bin, e.err)
	}
	return "runner not found: " + e.bin
}

func (e notFoundError) Unwrap() error   { return e.err }
func (e notFoundError) StatusCode() int { return http.StatusInternalServerError }

// ErrNotFound constructs a notFoundError for bin.
func ErrNotFound(bin string, cause error) error { return notFoundError{bin: bin, err: cause} }

// IsNotFound reports whether err indicates a missing runner executable.
func IsNotFound(err error) bool {
	var e notFoundError
	return errors.As(err, &e)
}

// exitError signals that the runner ran but exited with a non-zero status.
type exitError struct {
	code   int
	stderr string
}

func (e exitError) Error() string {
	if e.stderr == "" {
		return fmt.Sprintf("runner exited with status %d", e.code)
	}
	return fmt.Sprintf("runner exited with status %d: %s", e.code, e.stderr)
}

func (e exitError) StatusCode() int { return http.StatusInternalServerError }

// ErrExit constructs an exitError. stderr should already be trimmed.
func ErrExit(code int, stderr string) error { return exitError{code: code, stderr: stderr} }

// ExitCode returns the runner exit status carried by err, if any.
func ExitCode(err error) (int, bool) {
	var e exitError
	if errors.As(err, &e) {
		return e.code, true
	}
	return 0, false
}

// timeoutError signals that the configured run timeout elapsed.
type timeoutError struct{ after time.Duration }

func (e timeoutError) Error() string   { return fmt.Sprintf("runner timed out after %s", e.after) }
func (e timeoutError) StatusCode() int { return http.StatusGatewayTimeout }

// ErrTimeout constructs a timeoutError.
func ErrTimeout(after time.Duration) error { return timeoutError{after: after} }

// IsTimeout reports whether err indicates the run timeout elapsed.
func IsTimeout(err error) bool {
	var e timeoutError
	return errors.As(err, &e)
}

// canceledError signals that the caller's context ended before the runner did.
// The child process has been killed.
type canceledError struct{ cause error }

func (e canceledError) Error() string { return "runner canceled: " + e.cause.Error() }
func (e canceledError) Unwrap() error { return e.cause }

// ErrCanceled constructs a canceledError wrapping cause.
func ErrCanceled(cause error) error { return canceledError{cause: cause} }

// IsCanceled reports whether the run was abandoned by its caller.
func IsCanceled(err error) bool {
	var e canceledError
	return errors.As(err, &e)
}
