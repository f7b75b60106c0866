package store

import "fmt"

// Result is the settled outcome of an intent: either a value or an error.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{value: v} }

// Err wraps a failure. A nil err is not a valid failure and yields a zero Ok.
func Err[T any](err error) Result[T] { return Result[T]{err: err} }

// IsOk reports whether the intent succeeded.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Err returns the failure, or nil on success.
func (r Result[T]) Err() error { return r.err }

// Get returns the value and the error in the usual Go shape.
func (r Result[T]) Get() (T, error) { return r.value, r.err }

// Unwrap returns the value and panics on failure. Use it only where the
// intent is known to have succeeded.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(fmt.Sprintf("store: Unwrap on failed result: %v", r.err))
	}
	return r.value
}

// UnwrapOr returns the value on success, otherwise fallback.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Match calls onOk or onErr depending on the outcome.
func (r Result[T]) Match(onOk func(T), onErr func(error)) {
	if r.err != nil {
		onErr(r.err)
		return
	}
	onOk(r.value)
}
