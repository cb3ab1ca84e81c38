package pipeable

import "context"

// Apply creates an Operator from a function that transforms data and may
// return an error. Apply is the workhorse adapter - use it when your
// transformation might fail due to validation, parsing, or business rule
// violations.
//
// On error, the chain stops immediately and the error surfaces wrapped in
// a *Failure with the operator's name on the path. An error that is
// already a *Failure (for example from a nested chain) passes through
// without another layer of wrapping.
//
// Apply is ideal for:
//   - Data validation with transformation
//   - Parsing operations that might fail
//   - Business rule enforcement
//
// For pure transformations that can't fail, use Transform.
//
// Example:
//
//	parseJSON := pipeable.Apply("parse_json", func(_ context.Context, raw string) (Data, error) {
//	    var data Data
//	    if err := json.Unmarshal([]byte(raw), &data); err != nil {
//	        return Data{}, fmt.Errorf("invalid JSON: %w", err)
//	    }
//	    return data, nil
//	})
func Apply[In, Out any](name Name, fn func(context.Context, In) (Out, error)) Operator[In, Out] {
	return Operator[In, Out]{
		name: name,
		fn: func(ctx context.Context, in In, _ bool) (Out, bool, error) {
			out, err := fn(ctx, in)
			if err != nil {
				var zero Out
				return zero, false, err
			}
			return out, true, nil
		},
	}
}
