package pipeable

import "context"

// Stage is the erased view of an operator that binding rules work
// against. Chain evaluation hands each stage to the active BindingRule in
// order; the rule decides whether the stage runs and how its result
// re-enters pipe form.
type Stage interface {
	// Name identifies the stage in failures, logs, and traces.
	Name() Name

	// IsNullSafe reports whether the stage must run on absent input.
	IsNullSafe() bool

	// Invoke applies the stage's operator gracefully: any error or panic
	// comes back as a *Failure. It carries no skip policy of its own.
	Invoke(ctx context.Context, value any, ok bool) (any, bool, error)

	// Lift re-enters pipe space. Results that are themselves pipeable are
	// unwrapped instead of wrapped again.
	Lift(value any, ok bool) (any, bool)
}

// BindingRule is the stateless strategy consulted at each stage boundary.
// It decides whether a stage is skipped on absent input and how a raw
// result is lifted back into pipe form for the next stage.
//
// Exactly one rule is active per evaluation; DefaultBinding is used
// wherever no override is supplied. A custom rule can log every stage,
// substitute default values, or change the skip predicate entirely.
// LoggingBinding is a shipped example.
type BindingRule interface {
	// Operate produces the stage's raw result. The boolean reports
	// presence of both the input and the result.
	Operate(ctx context.Context, stage Stage, value any, ok bool) (any, bool, error)

	// OperateToPipe produces the stage's result lifted for the next stage.
	OperateToPipe(ctx context.Context, stage Stage, value any, ok bool) (any, bool, error)
}

// DefaultBinding is the built-in rule: absent input skips any stage that
// is not null-safe, everything else is invoked gracefully. It is a
// stateless singleton, safe for concurrent reuse.
var DefaultBinding BindingRule = defaultBinding{}

type defaultBinding struct{}

func (defaultBinding) Operate(ctx context.Context, stage Stage, value any, ok bool) (any, bool, error) {
	if !ok && !stage.IsNullSafe() {
		return nil, false, nil
	}
	return stage.Invoke(ctx, value, ok)
}

func (d defaultBinding) OperateToPipe(ctx context.Context, stage Stage, value any, ok bool) (any, bool, error) {
	raw, present, err := d.Operate(ctx, stage, value, ok)
	if err != nil {
		return nil, false, err
	}
	out, outOK := stage.Lift(raw, present)
	return out, outOK, nil
}
