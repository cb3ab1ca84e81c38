// Package pipeable provides a chained-transformation abstraction for Go:
// a value flows through an ordered sequence of unary operators, with
// automatic short-circuiting on absent input and a single, uniform failure
// envelope for every error raised along the way.
//
// # Overview
//
// A chain reads like a linear data pipeline with no per-stage nil checks.
// Each stage is an Operator created by an adapter function (Transform,
// Apply, Effect, Maybe, ...), and chains are composed with Join or the
// pipeline Builder. Absence is an explicit comma-ok carried by Pipe[T]:
// an absent value skips ordinary operators entirely, while operators built
// with the null-safe adapters (NullSafe, OrElse, OrElseGet) still run and
// can substitute a value.
//
// # Core Concepts
//
// Key components:
//   - Pipe[T]: the minimal value carrier, possibly absent
//   - Operator[In, Out]: a named, fallible, unary transformation
//   - BindingRule: the pluggable per-stage policy (skip-on-absent, lifting)
//   - Failure: the one envelope every stage error is normalized into
//   - Catch: terminal recovery strategies (ThenReturn, ThenRethrow, ...)
//   - Pipeline: a frozen, reusable chain that itself satisfies the
//     Operator contract
//
// Execution is synchronous, single-threaded, and fail-fast: the first
// stage error stops the chain, and either a supplied Catch converts it or
// a single *Failure surfaces to the caller with the original cause intact.
//
// # Quick Start
//
//	length := pipeable.Transform("length", func(_ context.Context, s string) int {
//	    return len(s)
//	})
//	double := pipeable.Transform("double", func(_ context.Context, n int) int {
//	    return n * 2
//	})
//	itoa := pipeable.Transform("itoa", func(_ context.Context, n int) string {
//	    return strconv.Itoa(n)
//	})
//
//	chain := pipeable.Join3("chain", length, double, itoa)
//	result, err := pipeable.Eval(context.Background(), pipeable.Of("Hello"), chain)
//	// result: "10", err: nil
//
// # Error Handling
//
// Every error raised by a stage is wrapped exactly once in a *Failure
// carrying the stage path, the input that caused it, and timing details.
// An error that is already a *Failure is never wrapped again, so nested
// chains present a single level of wrapping to their caller:
//
//	result, err := pipeline.Process(ctx, data)
//	if err != nil {
//	    var failure *pipeable.Failure
//	    if errors.As(err, &failure) {
//	        log.Printf("failed at %s: %v", strings.Join(failure.Path, " -> "), failure.Err)
//	    }
//	}
package pipeable

// Name identifies operators, pipelines, and binding stages.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    ParseOrderName    Name = "parse-order"
//	    ValidateTotalName Name = "validate-total"
//	)
type Name = string

// Pipeable is the capability of carrying a value through a chain.
// The boolean reports presence: an absent value short-circuits every
// ordinary operator downstream.
//
// Pipe[T] is the minimal implementation. A domain type can satisfy
// Pipeable of itself by returning its own value:
//
//	type Order struct{ ID string }
//
//	func (o Order) Value() (Order, bool) { return o, true }
//
// Self-carrying results are recognized during chain evaluation and are
// threaded through as-is rather than wrapped again.
type Pipeable[T any] interface {
	Value() (T, bool)
}
