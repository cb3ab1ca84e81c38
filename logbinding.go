package pipeable

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LoggingBinding is a BindingRule decorator that logs every stage
// boundary through zerolog before delegating to the wrapped rule: skips
// on absent input at debug level, completed stages at debug level with
// their elapsed time, and failed stages at error level.
//
// It is the shipped example of a non-default rule; the skip policy and
// lifting behavior stay whatever the wrapped rule decides.
//
// Example:
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	line := pipeable.StartingWith(parse).
//	    WithBinding(pipeable.NewLoggingBinding(logger, nil)).
//	    Build("traced-chain")
type LoggingBinding struct {
	next BindingRule
	log  zerolog.Logger
}

// NewLoggingBinding wraps next with stage logging. A nil next delegates
// to DefaultBinding.
func NewLoggingBinding(log zerolog.Logger, next BindingRule) *LoggingBinding {
	if next == nil {
		next = DefaultBinding
	}
	return &LoggingBinding{log: log, next: next}
}

// Operate implements BindingRule.
func (b *LoggingBinding) Operate(ctx context.Context, stage Stage, value any, ok bool) (any, bool, error) {
	if !ok && !stage.IsNullSafe() {
		b.log.Debug().
			Str("stage", stage.Name()).
			Msg("stage skipped on absent input")
		return b.next.Operate(ctx, stage, value, ok)
	}

	start := time.Now()
	out, present, err := b.next.Operate(ctx, stage, value, ok)
	logStage(b.log, stage, present, err, time.Since(start))
	return out, present, err
}

// OperateToPipe implements BindingRule.
func (b *LoggingBinding) OperateToPipe(ctx context.Context, stage Stage, value any, ok bool) (any, bool, error) {
	if !ok && !stage.IsNullSafe() {
		b.log.Debug().
			Str("stage", stage.Name()).
			Msg("stage skipped on absent input")
		return b.next.OperateToPipe(ctx, stage, value, ok)
	}

	start := time.Now()
	out, present, err := b.next.OperateToPipe(ctx, stage, value, ok)
	logStage(b.log, stage, present, err, time.Since(start))
	return out, present, err
}

func logStage(log zerolog.Logger, stage Stage, present bool, err error, elapsed time.Duration) {
	if err != nil {
		log.Error().
			Err(err).
			Str("stage", stage.Name()).
			Dur("elapsed", elapsed).
			Msg("stage failed")
		return
	}
	log.Debug().
		Str("stage", stage.Name()).
		Bool("present", present).
		Dur("elapsed", elapsed).
		Msg("stage complete")
}
