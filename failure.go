package pipeable

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Failure is the uniform envelope every stage error is normalized into
// before it crosses a chain boundary. It wraps the underlying error with
// information about where and when the failure occurred, what data was
// being processed, and whether the failure was due to timeout or
// cancellation.
//
// The original error is always recoverable through Unwrap, so errors.Is
// and errors.As work against the cause chain. A Failure is never wrapped
// in another Failure: nested chain evaluations surface a single level of
// wrapping to their caller.
type Failure struct {
	InputData any
	Timestamp time.Time
	Err       error
	Path      []Name
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, providing a detailed error message.
func (f *Failure) Error() string {
	location := strings.Join(f.Path, " -> ")
	if location == "" {
		location = "chain"
	}

	if f.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", location, f.Duration, f.Err)
	}
	if f.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", location, f.Duration, f.Err)
	}
	return fmt.Sprintf("%s failed after %v: %v", location, f.Duration, f.Err)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
func (f *Failure) Unwrap() error {
	return f.Err
}

// IsTimeout returns true if the failure was caused by a timeout.
func (f *Failure) IsTimeout() bool {
	return f.Timeout || errors.Is(f.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the failure was caused by cancellation.
func (f *Failure) IsCanceled() bool {
	return f.Canceled || errors.Is(f.Err, context.Canceled)
}

// wrapFailure normalizes err into a *Failure attributed to the given stage.
// An err that already carries a *Failure is returned untouched so causes
// are wrapped exactly once.
func wrapFailure(err error, name Name, input any, duration time.Duration) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	return &Failure{
		Path:      []Name{name},
		InputData: input,
		Err:       err,
		Timestamp: time.Now(),
		Duration:  duration,
		Timeout:   errors.Is(err, context.DeadlineExceeded),
		Canceled:  errors.Is(err, context.Canceled),
	}
}

// castFailure reports a binding rule handing back a value of the wrong
// type for the stage that follows.
func castFailure[Out any](name Name, raw any) *Failure {
	var want Out
	return &Failure{
		Path:      []Name{name},
		InputData: raw,
		Err:       fmt.Errorf("binding produced %T, want %T", raw, want),
		Timestamp: time.Now(),
	}
}

// recoverFromPanic converts a panic inside an operator into a *Failure so
// callers see one failure channel regardless of how a stage misbehaves.
func recoverFromPanic(err *error, name Name, input any) {
	if r := recover(); r != nil {
		*err = &Failure{
			Path:      []Name{name},
			InputData: input,
			Err:       fmt.Errorf("panic in %q: %v", name, r),
			Timestamp: time.Now(),
		}
	}
}
