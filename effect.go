package pipeable

import "context"

// Effect creates an Operator that performs a side effect without
// modifying the data. The function receives the value for inspection; any
// returned error stops the chain, otherwise the original value passes
// through unchanged.
//
// Use Effect for:
//   - Logging important events or data states
//   - Recording metrics
//   - Writing audit trails
//   - Validating without transformation
//
// Example:
//
//	audit := pipeable.Effect("audit_payment", func(ctx context.Context, p Payment) error {
//	    return auditLog.Record(ctx, p)
//	})
func Effect[T any](name Name, fn func(context.Context, T) error) Operator[T, T] {
	return Operator[T, T]{
		name: name,
		fn: func(ctx context.Context, value T, _ bool) (T, bool, error) {
			if err := fn(ctx, value); err != nil {
				var zero T
				return zero, false, err
			}
			return value, true, nil
		},
	}
}
