package pipeable

import "context"

// Transform creates an Operator from a pure transformation function.
// Transform is the simplest adapter - use it when your operation always
// succeeds and always produces a value.
//
// Ideal for:
//   - Data formatting (uppercase, trimming)
//   - Mathematical calculations that can't error
//   - Field mapping or restructuring
//
// If your transformation might fail, use Apply instead. If it may decline
// to produce a value, use Maybe.
//
// Example:
//
//	uppercase := pipeable.Transform("uppercase", func(_ context.Context, s string) string {
//	    return strings.ToUpper(s)
//	})
func Transform[In, Out any](name Name, fn func(context.Context, In) Out) Operator[In, Out] {
	return Operator[In, Out]{
		name: name,
		fn: func(ctx context.Context, in In, _ bool) (Out, bool, error) {
			return fn(ctx, in), true, nil
		},
	}
}
