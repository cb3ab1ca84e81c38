package pipeable

// Builder accumulates the ordered stage list of a Pipeline. Builders are
// immutable: every extension returns a fresh Builder with its own copy of
// the stage sequence, so a captured builder stays independently usable no
// matter how its descendants grow.
//
// Because Go methods cannot introduce new type parameters, extension that
// changes the chain's result type is the package-level Next function:
//
//	b := pipeable.StartingWith(length)   // *Builder[string, int]
//	b2 := pipeable.Next(b, double)       // *Builder[string, int]
//	b3 := pipeable.Next(b2, itoa)        // *Builder[string, string]
//	chain := b3.Build("format-length")
type Builder[In, Out any] struct {
	stages  []Stage
	binding BindingRule
}

// StartingWith begins a builder from its first operator.
func StartingWith[In, Out any](op Operator[In, Out]) *Builder[In, Out] {
	return &Builder[In, Out]{stages: []Stage{op.asStage()}}
}

// Next extends a builder with one more operator whose input type matches
// the builder's current result type. The stage sequence is copied, never
// aliased: pipelines built from the receiver before this call are
// unaffected.
func Next[In, Mid, Out any](b *Builder[In, Mid], op Operator[Mid, Out]) *Builder[In, Out] {
	stages := make([]Stage, len(b.stages), len(b.stages)+1)
	copy(stages, b.stages)
	return &Builder[In, Out]{
		stages:  append(stages, op.asStage()),
		binding: b.binding,
	}
}

// WithBinding returns a builder whose pipelines consult rule at each
// stage boundary instead of DefaultBinding.
func (b *Builder[In, Out]) WithBinding(rule BindingRule) *Builder[In, Out] {
	stages := make([]Stage, len(b.stages))
	copy(stages, b.stages)
	return &Builder[In, Out]{stages: stages, binding: rule}
}

// Build freezes the builder into a named Pipeline with no catch handler:
// a chain failure propagates to the caller as a *Failure.
func (b *Builder[In, Out]) Build(name Name) *Pipeline[In, Out] {
	return newPipeline[In, Out](name, b.stages, nil, b.binding)
}

// BuildWith freezes the builder into a named Pipeline whose failures are
// routed through catcher.
func (b *Builder[In, Out]) BuildWith(name Name, catcher Catch[Out]) *Pipeline[In, Out] {
	c := catcher
	return newPipeline[In, Out](name, b.stages, &c, b.binding)
}
