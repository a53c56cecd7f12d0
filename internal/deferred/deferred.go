// Where: internal/deferred/deferred.go
// What: Lazily started, memoized asynchronous values.
// Why: Several pipeline stages await the same remote result; the call must run once.
package deferred

import (
	"context"
	"sync"
)

// Op produces the value of a deferred computation.
type Op[T any] func(ctx context.Context) (T, error)

// Value is a single-assignment future. The operation starts at most once, on the
// first Start or Get, and every caller observes the same result.
type Value[T any] struct {
	op    Op[T]
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// New returns a Value that runs op on first access.
func New[T any](op Op[T]) *Value[T] {
	return &Value[T]{op: op, done: make(chan struct{})}
}

// Resolved returns a Value that is already complete with v.
func Resolved[T any](v T) *Value[T] {
	d := &Value[T]{done: make(chan struct{}), value: v}
	d.once.Do(func() { close(d.done) })
	return d
}

// Failed returns a Value that is already complete with err.
func Failed[T any](err error) *Value[T] {
	d := &Value[T]{done: make(chan struct{}), err: err}
	d.once.Do(func() { close(d.done) })
	return d
}

// Start triggers the operation in the background if it has not run yet.
// ctx is handed to the operation; later callers' contexts only bound their wait.
func (d *Value[T]) Start(ctx context.Context) {
	d.once.Do(func() {
		go func() {
			defer close(d.done)
			d.value, d.err = d.op(ctx)
		}()
	})
}

// Get starts the operation if needed and waits for its result or ctx cancellation.
func (d *Value[T]) Get(ctx context.Context) (T, error) {
	d.Start(ctx)
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done reports whether the value has completed.
func (d *Value[T]) Done() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Then derives a Value from src. fn runs once, after src resolves successfully;
// a failure of src is passed through unchanged.
func Then[T, U any](src *Value[T], fn func(T) (U, error)) *Value[U] {
	return New(func(ctx context.Context) (U, error) {
		v, err := src.Get(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}
