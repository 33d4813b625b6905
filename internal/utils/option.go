package utils

// Option carries a value that may be absent. It separates "the call ran and
// returned an empty value" from "there is no value at all".
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an absent value of type T.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it was present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}
