package pipeable

import "context"

// Maybe creates an Operator whose function may decline to produce a
// value. A false comma-ok introduces absence: every ordinary operator
// downstream is skipped, exactly as if the chain had started absent.
//
// Use Maybe when absence is a normal outcome rather than an error:
//   - Map or cache lookups
//   - Optional field extraction
//   - Filtering a value out of the rest of the chain
//
// Example:
//
//	lookup := pipeable.Maybe("lookup_user", func(_ context.Context, id string) (User, bool) {
//	    u, found := directory[id]
//	    return u, found
//	})
func Maybe[In, Out any](name Name, fn func(context.Context, In) (Out, bool)) Operator[In, Out] {
	return Operator[In, Out]{
		name: name,
		fn: func(ctx context.Context, in In, _ bool) (Out, bool, error) {
			out, ok := fn(ctx, in)
			if !ok {
				var zero Out
				return zero, false, nil
			}
			return out, true, nil
		},
	}
}
