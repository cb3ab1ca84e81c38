package pipeable

// Pipe is the minimal Pipeable implementation: a value plus a presence
// flag. It has no identity beyond its carried value and owns no
// resources. The zero value is an absent pipe.
type Pipe[T any] struct {
	value T
	ok    bool
}

// Of wraps a value in a present pipe.
func Of[T any](value T) Pipe[T] {
	return Pipe[T]{value: value, ok: true}
}

// Empty returns an absent pipe. Ordinary operators downstream of an
// absent pipe are skipped without running.
func Empty[T any]() Pipe[T] {
	return Pipe[T]{}
}

// FromPtr adapts a pointer: nil becomes an absent pipe, anything else is
// dereferenced into a present one.
func FromPtr[T any](p *T) Pipe[T] {
	if p == nil {
		return Empty[T]()
	}
	return Of(*p)
}

// FromFunc builds a pipe from a zero-argument supplier. The supplier is
// invoked eagerly, exactly once, at construction. A nil supplier yields
// an absent pipe.
func FromFunc[T any](fn func() T) Pipe[T] {
	if fn == nil {
		return Empty[T]()
	}
	return Of(fn())
}

// As collapses any Pipeable into a Pipe, reading its carried value once.
// A nil Pipeable yields an absent pipe.
func As[T any](p Pipeable[T]) Pipe[T] {
	if p == nil {
		return Empty[T]()
	}
	v, ok := p.Value()
	if !ok {
		return Empty[T]()
	}
	return Of(v)
}

// Value implements Pipeable.
func (p Pipe[T]) Value() (T, bool) {
	return p.value, p.ok
}

// OrZero returns the carried value, or the zero value when absent.
func (p Pipe[T]) OrZero() T {
	return p.value
}

// readPipe erases a typed pipeable into the value/presence pair the
// binding layer threads between stages.
func readPipe[T any](p Pipeable[T]) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.Value()
	if !ok {
		return nil, false
	}
	return v, true
}
