package pipeable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Pipeline.
const (
	// Metrics.
	PipelineProcessedTotal  = metricz.Key("pipeline.processed.total")
	PipelineSuccessesTotal  = metricz.Key("pipeline.successes.total")
	PipelineFailuresTotal   = metricz.Key("pipeline.failures.total")
	PipelineRecoveredTotal  = metricz.Key("pipeline.recovered.total")
	PipelineStagesCompleted = metricz.Key("pipeline.stages.completed")
	PipelineStagesTotal     = metricz.Key("pipeline.stages.total")
	PipelineDurationMs      = metricz.Key("pipeline.duration.ms")

	// Spans.
	PipelineProcessSpan = tracez.Key("pipeline.process")
	PipelineStageSpan   = tracez.Key("pipeline.stage")

	// Tags.
	PipelineTagStageCount  = tracez.Tag("pipeline.stage_count")
	PipelineTagStageNumber = tracez.Tag("pipeline.stage_number")
	PipelineTagStageName   = tracez.Tag("pipeline.stage_name")
	PipelineTagSkipped     = tracez.Tag("pipeline.skipped")
	PipelineTagSuccess     = tracez.Tag("pipeline.success")
	PipelineTagError       = tracez.Tag("pipeline.error")

	// Hook event keys.
	PipelineEventStageComplete = hookz.Key("pipeline.stage_complete")
	PipelineEventAllComplete   = hookz.Key("pipeline.all_complete")
	PipelineEventRecovered     = hookz.Key("pipeline.recovered")
)

// PipelineEvent represents a pipeline processing event.
// It is emitted via hookz as stages complete, when the whole chain
// finishes, and when a catch handler recovers a failure.
type PipelineEvent struct {
	Name            Name          // Pipeline name
	StageName       Name          // Name of the stage operator
	StageNumber     int           // Current stage number (1-based)
	TotalStages     int           // Total number of stages
	Skipped         bool          // Stage was skipped on absent input
	Success         bool          // Whether the stage (or chain) succeeded
	Err             error         // Error if the stage failed
	Duration        time.Duration // How long this stage took
	CompletedStages int           // Stages completed (for all_complete)
	TotalDuration   time.Duration // Total chain time (for all_complete)
	Timestamp       time.Time     // When the event occurred
}

// Pipeline is a frozen, named, reusable chain of operators plus an
// optional terminal catch handler. It runs the same evaluation protocol
// as Eval, generalized over its stage list: stages run strictly left to
// right, each intermediate result lifted back into pipe form, with one
// failure-handling boundary around the whole chain.
//
// A Pipeline with no stages is degenerate: applying it always yields an
// absent result.
//
// Pipelines are built with StartingWith/Next/Build and are safe for
// concurrent use once built. A Pipeline satisfies the Operator contract
// through Operator(), so chains compose into larger chains.
//
// # Observability
//
// Pipeline provides metrics, tracing, and events:
//
// Metrics:
//   - pipeline.processed.total: Counter of runs
//   - pipeline.successes.total: Counter of successful completions
//   - pipeline.failures.total: Counter of failed runs
//   - pipeline.recovered.total: Counter of failures recovered by the catch
//   - pipeline.stages.completed: Gauge of stages completed
//   - pipeline.stages.total: Gauge of total stages
//   - pipeline.duration.ms: Gauge of total run duration
//
// Traces:
//   - pipeline.process: Parent span for the run
//   - pipeline.stage: Child span per stage
//
// Events (via hooks):
//   - pipeline.stage_complete: Fired as each stage completes or is skipped
//   - pipeline.all_complete: Fired when all stages succeed
//   - pipeline.recovered: Fired when the catch handler absorbs a failure
//
// Example with hooks:
//
//	line := pipeable.Next(
//	    pipeable.StartingWith(parseOrder),
//	    validateTotal,
//	).Build("order-chain")
//
//	line.OnStageComplete(func(_ context.Context, event pipeable.PipelineEvent) error {
//	    log.Printf("stage %d/%d %s (skipped=%v)",
//	        event.StageNumber, event.TotalStages, event.StageName, event.Skipped)
//	    return nil
//	})
type Pipeline[In, Out any] struct {
	name    Name
	stages  []Stage
	catcher *Catch[Out]
	binding BindingRule
	clock   clockz.Clock
	mu      sync.RWMutex
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[PipelineEvent]
}

// NewPipeline creates a Pipeline with no stages; applying it always
// yields an absent result. Use StartingWith/Next/Build for anything real.
func NewPipeline[In, Out any](name Name) *Pipeline[In, Out] {
	return newPipeline[In, Out](name, nil, nil, nil)
}

func newPipeline[In, Out any](name Name, stages []Stage, catcher *Catch[Out], binding BindingRule) *Pipeline[In, Out] {
	frozen := make([]Stage, len(stages))
	copy(frozen, stages)

	metrics := metricz.New()
	metrics.Counter(PipelineProcessedTotal)
	metrics.Counter(PipelineSuccessesTotal)
	metrics.Counter(PipelineFailuresTotal)
	metrics.Counter(PipelineRecoveredTotal)
	metrics.Gauge(PipelineStagesCompleted)
	metrics.Gauge(PipelineStagesTotal)
	metrics.Gauge(PipelineDurationMs)

	return &Pipeline[In, Out]{
		name:    name,
		stages:  frozen,
		catcher: catcher,
		binding: binding,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[PipelineEvent](),
	}
}

// WithBinding sets the BindingRule consulted at each stage boundary.
// A nil rule restores DefaultBinding.
func (l *Pipeline[In, Out]) WithBinding(rule BindingRule) *Pipeline[In, Out] {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.binding = rule
	return l
}

// WithClock sets the clock used for timestamps and durations.
// Primarily a test hook.
func (l *Pipeline[In, Out]) WithClock(clock clockz.Clock) *Pipeline[In, Out] {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = clock
	return l
}

func (l *Pipeline[In, Out]) getClock() clockz.Clock {
	if l.clock == nil {
		return clockz.RealClock
	}
	return l.clock
}

// Process executes the chain on a present input value.
// An absent final result yields the zero value of Out; use ProcessPipe
// when absence must stay observable.
func (l *Pipeline[In, Out]) Process(ctx context.Context, in In) (Out, error) {
	out, _, err := l.run(ctx, in, true)
	return out, err
}

// ProcessPipe executes the chain from any pipeable source, preserving
// absence in the result. A nil or absent source threads absence through
// the chain exactly as a null-carried value would.
func (l *Pipeline[In, Out]) ProcessPipe(ctx context.Context, src Pipeable[In]) (Pipe[Out], error) {
	value, ok := readPipe(src)
	out, present, err := l.run(ctx, value, ok)
	if err != nil || !present {
		return Empty[Out](), err
	}
	return Of(out), nil
}

// Operator freezes the pipeline into an Operator, closing chains under
// composition. The composed operator is always null-safe: absence enters
// the pipeline and each stage's binding rule decides individually, so a
// null-safe stage anywhere in the chain still sees an absent input that
// arrived from the outer chain. A pipeline with no null-safe stages
// threads absence through untouched, which an outer skip would have
// produced anyway.
func (l *Pipeline[In, Out]) Operator() Operator[In, Out] {
	return Operator[In, Out]{
		name:     l.name,
		nullSafe: true,
		fn: func(ctx context.Context, in In, ok bool) (Out, bool, error) {
			var value any
			if ok {
				value = in
			}
			return l.run(ctx, value, ok)
		},
	}
}

// run is the chain evaluator: stages 1..N-1 through the binding rule's
// OperateToPipe, the final stage through Operate, one failure boundary
// with the optional catch at the end.
func (l *Pipeline[In, Out]) run(ctx context.Context, value any, ok bool) (out Out, present bool, err error) {
	defer recoverFromPanic(&err, l.name, value)

	l.mu.RLock()
	stages := l.stages
	catcher := l.catcher
	rule := l.binding
	clock := l.getClock()
	l.mu.RUnlock()

	if rule == nil {
		rule = DefaultBinding
	}
	if ctx == nil {
		ctx = context.Background()
	}

	l.metrics.Counter(PipelineProcessedTotal).Inc()
	l.metrics.Gauge(PipelineStagesTotal).Set(float64(len(stages)))
	start := clock.Now()

	ctx, span := l.tracer.StartSpan(ctx, PipelineProcessSpan)
	defer func() {
		l.metrics.Gauge(PipelineDurationMs).Set(float64(clock.Since(start).Milliseconds()))
		if err == nil {
			span.SetTag(PipelineTagSuccess, "true")
			l.metrics.Counter(PipelineSuccessesTotal).Inc()
		} else {
			span.SetTag(PipelineTagSuccess, "false")
			span.SetTag(PipelineTagError, err.Error())
			l.metrics.Counter(PipelineFailuresTotal).Inc()
		}
		span.Finish()
	}()
	span.SetTag(PipelineTagStageCount, fmt.Sprintf("%d", len(stages)))

	var zero Out
	if len(stages) == 0 {
		return zero, false, nil
	}

	input := value
	stagesCompleted := 0

	for i, st := range stages {
		select {
		case <-ctx.Done():
			err = l.absorb(ctx, &Failure{
				Err:       ctx.Err(),
				InputData: value,
				Path:      []Name{l.name},
				Timeout:   errors.Is(ctx.Err(), context.DeadlineExceeded),
				Canceled:  errors.Is(ctx.Err(), context.Canceled),
				Timestamp: clock.Now(),
				Duration:  clock.Since(start),
			}, catcher, clock, &out, &present)
			return out, present, err
		default:
		}

		skippable := !ok && !st.IsNullSafe()

		stageCtx, stageSpan := l.tracer.StartSpan(ctx, PipelineStageSpan)
		stageSpan.SetTag(PipelineTagStageNumber, fmt.Sprintf("%d", i+1))
		stageSpan.SetTag(PipelineTagStageName, st.Name())
		stageSpan.SetTag(PipelineTagSkipped, fmt.Sprintf("%t", skippable))

		stageStart := clock.Now()
		var stageErr error
		if i < len(stages)-1 {
			value, ok, stageErr = rule.OperateToPipe(stageCtx, st, value, ok)
		} else {
			value, ok, stageErr = rule.Operate(stageCtx, st, value, ok)
		}
		stageDuration := clock.Since(stageStart)
		stageSpan.Finish()

		_ = l.hooks.Emit(ctx, PipelineEventStageComplete, PipelineEvent{ //nolint:errcheck
			Name:        l.name,
			StageName:   st.Name(),
			StageNumber: i + 1,
			TotalStages: len(stages),
			Skipped:     skippable,
			Success:     stageErr == nil,
			Err:         stageErr,
			Duration:    stageDuration,
			Timestamp:   clock.Now(),
		})

		if stageErr != nil {
			failure := wrapFailure(stageErr, st.Name(), input, stageDuration)
			failure.Path = append([]Name{l.name}, failure.Path...)
			err = l.absorb(ctx, failure, catcher, clock, &out, &present)
			return out, present, err
		}

		stagesCompleted++
		l.metrics.Gauge(PipelineStagesCompleted).Set(float64(stagesCompleted))
		input = value
	}

	_ = l.hooks.Emit(ctx, PipelineEventAllComplete, PipelineEvent{ //nolint:errcheck
		Name:            l.name,
		TotalStages:     len(stages),
		CompletedStages: stagesCompleted,
		TotalDuration:   clock.Since(start),
		Success:         true,
		Timestamp:       clock.Now(),
	})

	if !ok {
		return zero, false, nil
	}
	typed, cast := value.(Out)
	if !cast {
		err = l.absorb(ctx, castFailure[Out](l.name, value), catcher, clock, &out, &present)
		return out, present, err
	}
	return typed, true, nil
}

// absorb routes a chain failure through the catch handler when one is
// present; otherwise the failure propagates unchanged.
func (l *Pipeline[In, Out]) absorb(ctx context.Context, failure *Failure, catcher *Catch[Out], clock clockz.Clock, out *Out, present *bool) error {
	if catcher == nil {
		return failure
	}

	recovered, recoveredOK, handlerErr := catcher.Handle(failure)
	if handlerErr != nil {
		return handlerErr
	}

	l.metrics.Counter(PipelineRecoveredTotal).Inc()
	_ = l.hooks.Emit(ctx, PipelineEventRecovered, PipelineEvent{ //nolint:errcheck
		Name:      l.name,
		Err:       failure,
		Success:   true,
		Timestamp: clock.Now(),
	})

	*out = recovered
	*present = recoveredOK
	return nil
}

// Name returns the name of this pipeline.
func (l *Pipeline[In, Out]) Name() Name {
	return l.name
}

// Len returns the number of stages in the pipeline.
func (l *Pipeline[In, Out]) Len() int {
	return len(l.stages)
}

// Names returns the names of all stages in order.
func (l *Pipeline[In, Out]) Names() []Name {
	names := make([]Name, len(l.stages))
	for i, st := range l.stages {
		names[i] = st.Name()
	}
	return names
}

// Metrics returns the metrics registry for this pipeline.
func (l *Pipeline[In, Out]) Metrics() *metricz.Registry {
	return l.metrics
}

// Tracer returns the tracer for this pipeline.
func (l *Pipeline[In, Out]) Tracer() *tracez.Tracer {
	return l.tracer
}

// Close gracefully shuts down observability components.
func (l *Pipeline[In, Out]) Close() error {
	if l.tracer != nil {
		l.tracer.Close()
	}
	l.hooks.Close()
	return nil
}

// OnStageComplete registers a handler called asynchronously as each stage
// completes, whether it ran, failed, or was skipped on absent input.
func (l *Pipeline[In, Out]) OnStageComplete(handler func(context.Context, PipelineEvent) error) error {
	_, err := l.hooks.Hook(PipelineEventStageComplete, handler)
	return err
}

// OnAllComplete registers a handler called asynchronously after every
// stage has completed without error.
func (l *Pipeline[In, Out]) OnAllComplete(handler func(context.Context, PipelineEvent) error) error {
	_, err := l.hooks.Hook(PipelineEventAllComplete, handler)
	return err
}

// OnRecovered registers a handler called asynchronously when the catch
// handler absorbs a chain failure.
func (l *Pipeline[In, Out]) OnRecovered(handler func(context.Context, PipelineEvent) error) error {
	_, err := l.hooks.Hook(PipelineEventRecovered, handler)
	return err
}
