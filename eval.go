package pipeable

import (
	"context"
	"errors"
)

// Eval threads a pipeable value through one operator and returns the raw
// result. Because a built Pipeline is itself an Operator, this single
// generic entry point covers chains of any length; there is no per-arity
// overload family. An absent final result yields the zero value of Out -
// use EvalPipe when absence must stay observable.
//
// Eval consults DefaultBinding. To inject a different rule, use
// Operator.OperateToResult directly or build a Pipeline with WithBinding.
func Eval[In, Out any](ctx context.Context, src Pipeable[In], op Operator[In, Out]) (Out, error) {
	out, _, err := op.OperateToResult(ctx, DefaultBinding, src)
	return out, err
}

// EvalPipe is Eval with the result lifted back into pipe form, preserving
// absence.
func EvalPipe[In, Out any](ctx context.Context, src Pipeable[In], op Operator[In, Out]) (Pipe[Out], error) {
	return op.OperateToPipe(ctx, DefaultBinding, src)
}

// EvalCatch is Eval with a terminal catch handler: a *Failure raised by
// the chain is handed to catcher, whose return value becomes the result.
// Errors that are not chain failures propagate untouched.
func EvalCatch[In, Out any](ctx context.Context, src Pipeable[In], op Operator[In, Out], catcher Catch[Out]) (Out, error) {
	out, _, err := op.OperateToResult(ctx, DefaultBinding, src)
	if err == nil {
		return out, nil
	}

	var failure *Failure
	if !errors.As(err, &failure) {
		var zero Out
		return zero, err
	}
	recovered, _, handlerErr := catcher.Handle(failure)
	if handlerErr != nil {
		var zero Out
		return zero, handlerErr
	}
	return recovered, nil
}

// Join composes two operators into one, running the standard chain
// algorithm between them. Longer fixed chains can use Join3 and Join4;
// anything bigger reads better through the Builder.
func Join[A, B, C any](name Name, first Operator[A, B], second Operator[B, C]) Operator[A, C] {
	return Next(StartingWith(first), second).Build(name).Operator()
}

// Join3 composes three operators into one.
func Join3[A, B, C, D any](name Name, op1 Operator[A, B], op2 Operator[B, C], op3 Operator[C, D]) Operator[A, D] {
	return Next(Next(StartingWith(op1), op2), op3).Build(name).Operator()
}

// Join4 composes four operators into one.
func Join4[A, B, C, D, E any](name Name, op1 Operator[A, B], op2 Operator[B, C], op3 Operator[C, D], op4 Operator[D, E]) Operator[A, E] {
	return Next(Next(Next(StartingWith(op1), op2), op3), op4).Build(name).Operator()
}
