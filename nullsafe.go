package pipeable

import "context"

// NullSafe creates an Operator that runs even when its input is absent.
// The function receives the presence flag alongside the value, so absence
// is distinguishable from a legitimate zero value. Null-safety is purely
// a tag consulted by the binding rule; it changes nothing about how the
// operator itself executes.
//
// NullSafe is the escape hatch for stages whose whole purpose is to
// handle absence: default substitution, absence logging, and the like.
//
// Example:
//
//	fallback := pipeable.NullSafe("fallback", func(_ context.Context, s string, ok bool) (string, error) {
//	    if !ok {
//	        return "default", nil
//	    }
//	    return s, nil
//	})
func NullSafe[In, Out any](name Name, fn func(context.Context, In, bool) (Out, error)) Operator[In, Out] {
	return Operator[In, Out]{
		name:     name,
		nullSafe: true,
		fn: func(ctx context.Context, in In, ok bool) (Out, bool, error) {
			out, err := fn(ctx, in, ok)
			if err != nil {
				var zero Out
				return zero, false, err
			}
			return out, true, nil
		},
	}
}

// OrElse returns a null-safe operator substituting def when the carried
// value is absent. A present value passes through untouched.
func OrElse[T any](name Name, def T) Operator[T, T] {
	return NullSafe(name, func(_ context.Context, value T, ok bool) (T, error) {
		if !ok {
			return def, nil
		}
		return value, nil
	})
}

// OrElseGet is OrElse with a lazily computed default. The supplier runs
// only when the carried value is absent; a nil supplier substitutes the
// zero value.
func OrElseGet[T any](name Name, fn func() T) Operator[T, T] {
	return NullSafe(name, func(_ context.Context, value T, ok bool) (T, error) {
		if !ok {
			if fn == nil {
				var zero T
				return zero, nil
			}
			return fn(), nil
		}
		return value, nil
	})
}
