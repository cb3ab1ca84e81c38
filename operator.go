package pipeable

import (
	"context"
	"time"
)

// Operator defines a named, fallible, unary transformation from one chain
// stage's value to the next. Operators are immutable values created
// through the adapter functions (Transform, Apply, Effect, Maybe,
// NullSafe, OrElse, OrElseGet) or by freezing a Pipeline; the fn field is
// intentionally private so every operator shares the same graceful error
// handling and naming discipline.
//
// An operator marked null-safe still runs when its input is absent; any
// other operator is skipped by the default binding rule and the absence
// propagates downstream.
type Operator[In, Out any] struct {
	fn       func(context.Context, In, bool) (Out, bool, error)
	name     Name
	nullSafe bool
}

// Name returns the name of the operator for debugging and error reporting.
func (o Operator[In, Out]) Name() Name {
	return o.name
}

// IsNullSafe reports whether the operator runs on absent input.
func (o Operator[In, Out]) IsNullSafe() bool {
	return o.nullSafe
}

// invoke applies the underlying function gracefully: any returned error
// or panic surfaces as exactly one *Failure.
func (o Operator[In, Out]) invoke(ctx context.Context, in In, ok bool) (out Out, present bool, err error) {
	defer recoverFromPanic(&err, o.name, in)

	start := time.Now()
	out, present, err = o.fn(ctx, in, ok)
	if err != nil {
		var zero Out
		return zero, false, wrapFailure(err, o.name, in, time.Since(start))
	}
	return out, present, nil
}

// OperateToResult produces the raw result of applying the operator to the
// carried value of p, consulting rule for the skip-on-absent policy. A nil
// rule selects DefaultBinding and a nil or absent p represents absence.
// The boolean reports presence of the result.
func (o Operator[In, Out]) OperateToResult(ctx context.Context, rule BindingRule, p Pipeable[In]) (Out, bool, error) {
	if rule == nil {
		rule = DefaultBinding
	}
	value, ok := readPipe(p)
	raw, present, err := rule.Operate(ctx, o.asStage(), value, ok)
	var zero Out
	if err != nil || !present {
		return zero, false, err
	}
	out, cast := raw.(Out)
	if !cast {
		return zero, false, castFailure[Out](o.name, raw)
	}
	return out, true, nil
}

// OperateToPipe is the same evaluation lifted back into pipe form for
// feeding the next stage. A raw result that is itself Pipeable is threaded
// through rather than wrapped again.
func (o Operator[In, Out]) OperateToPipe(ctx context.Context, rule BindingRule, p Pipeable[In]) (Pipe[Out], error) {
	if rule == nil {
		rule = DefaultBinding
	}
	value, ok := readPipe(p)
	raw, present, err := rule.OperateToPipe(ctx, o.asStage(), value, ok)
	if err != nil || !present {
		return Empty[Out](), err
	}
	out, cast := raw.(Out)
	if !cast {
		return Empty[Out](), castFailure[Out](o.name, raw)
	}
	return Of(out), nil
}

func (o Operator[In, Out]) asStage() Stage {
	return opStage[In, Out]{op: o}
}

// opStage is the erased, binding-facing view of a typed operator.
type opStage[In, Out any] struct {
	op Operator[In, Out]
}

func (s opStage[In, Out]) Name() Name {
	return s.op.name
}

func (s opStage[In, Out]) IsNullSafe() bool {
	return s.op.nullSafe
}

func (s opStage[In, Out]) Invoke(ctx context.Context, value any, ok bool) (any, bool, error) {
	var in In
	if ok {
		in = value.(In)
	}
	out, present, err := s.op.invoke(ctx, in, ok)
	if err != nil || !present {
		return nil, false, err
	}
	return out, true, nil
}

func (s opStage[In, Out]) Lift(value any, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	out := value.(Out)
	// Results that carry themselves re-enter the chain as-is instead of
	// being wrapped in a fresh pipe.
	if p, selfCarrying := any(out).(Pipeable[Out]); selfCarrying {
		v, present := p.Value()
		if !present {
			return nil, false
		}
		return v, true
	}
	return out, true
}
