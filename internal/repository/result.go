// Package repository implements the cache-coordinated synchronization layer:
// stale-while-revalidate feed reads, concurrent local/remote search with
// remote-wins dedup, retention eviction, and the omni-search aggregator.
package repository

// Result is a discriminated success/failure value. Feed calls emit zero or
// more of these over a channel; single-shot calls return one.
type Result[T any] struct {
	Data T
	Err  error
}

// Ok wraps a successful value.
func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// Fail wraps an error.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// IsOK reports whether the result carries data rather than an error.
func (r Result[T]) IsOK() bool {
	return r.Err == nil
}
