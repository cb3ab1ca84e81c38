package pipeable

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Catch is an optional terminal handler converting an intercepted
// *Failure into a recovery value, a different error, or a side effect.
// The zero value is the ignore handler: it recovers every failure into an
// absent result.
//
// Handlers built with ThenReturn, ThenGet, ThenRecover, ThenIgnore,
// ThenPrint, and ThenPrintTo never produce an error, so call sites using
// them need no further error handling for chain failures.
type Catch[Out any] struct {
	handler func(*Failure) (Out, bool, error)
}

// Handle applies the catch to an intercepted failure. The boolean reports
// presence of the recovery value.
func (c Catch[Out]) Handle(f *Failure) (Out, bool, error) {
	if c.handler == nil {
		var zero Out
		return zero, false, nil
	}
	return c.handler(f)
}

// Then creates the general handler: fn maps the failure to a result and
// may itself return an error, enabling deliberate rethrow as a different
// type. That error propagates to the chain's caller unwrapped.
func Then[Out any](fn func(*Failure) (Out, error)) Catch[Out] {
	return Catch[Out]{handler: func(f *Failure) (Out, bool, error) {
		out, err := fn(f)
		if err != nil {
			var zero Out
			return zero, false, err
		}
		return out, true, nil
	}}
}

// ThenReturn creates a handler that recovers every failure into a fixed
// value, regardless of which failure was raised.
func ThenReturn[Out any](value Out) Catch[Out] {
	return Catch[Out]{handler: func(*Failure) (Out, bool, error) {
		return value, true, nil
	}}
}

// ThenGet creates a handler that recovers into a freshly computed value.
// A nil supplier recovers into absence.
func ThenGet[Out any](fn func() Out) Catch[Out] {
	return Catch[Out]{handler: func(*Failure) (Out, bool, error) {
		if fn == nil {
			var zero Out
			return zero, false, nil
		}
		return fn(), true, nil
	}}
}

// ThenRecover creates a handler that computes the recovery value from the
// failure itself, never raising.
func ThenRecover[Out any](fn func(*Failure) Out) Catch[Out] {
	return Catch[Out]{handler: func(f *Failure) (Out, bool, error) {
		return fn(f), true, nil
	}}
}

// ThenRethrow creates a handler that unwraps the failure and returns the
// original cause, undoing the uniform-envelope step so the caller sees
// the error type the operator actually raised.
func ThenRethrow[Out any]() Catch[Out] {
	return Catch[Out]{handler: func(f *Failure) (Out, bool, error) {
		var zero Out
		cause := f.Unwrap()
		if cause == nil {
			return zero, false, f
		}
		return zero, false, cause
	}}
}

// ThenIgnore creates the empty handler: no inner function, every failure
// recovers into an absent result.
func ThenIgnore[Out any]() Catch[Out] {
	return Catch[Out]{}
}

// ThenPrint creates a side-effecting handler that prints the failure and
// its cause chain to standard error, then recovers into absence.
func ThenPrint[Out any]() Catch[Out] {
	return ThenPrintTo[Out](os.Stderr)
}

// ThenPrintTo is ThenPrint with an explicit destination.
func ThenPrintTo[Out any](w io.Writer) Catch[Out] {
	return Catch[Out]{handler: func(f *Failure) (Out, bool, error) {
		fmt.Fprintln(w, f.Error())
		for cause := f.Unwrap(); cause != nil; cause = errors.Unwrap(cause) {
			fmt.Fprintf(w, "caused by: %v\n", cause)
		}
		var zero Out
		return zero, false, nil
	}}
}
