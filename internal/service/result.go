package service

// Field is a best-effort joined value. Enrichment fills one Field per
// join so a single failed lookup degrades only that field; the render
// layer picks the fallback text.
type Field[T any] struct {
	Value T
	Err   error
}

func Ok[T any](v T) Field[T] { return Field[T]{Value: v} }

func Failed[T any](err error) Field[T] { return Field[T]{Err: err} }

// Or returns the value, or the fallback if the lookup failed.
func (f Field[T]) Or(fallback T) T {
	if f.Err != nil {
		return fallback
	}
	return f.Value
}
