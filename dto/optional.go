package dto

import "encoding/json"

// Optional tracks whether a JSON field was present in the request body, and
// if so whether it carried an explicit null. This replaces runtime key
// inspection for partial updates: absent fields are left untouched, explicit
// nulls clear nullable columns.
type Optional[T any] struct {
	Value   T
	Present bool
	Null    bool
}

// UnmarshalJSON is only invoked for keys that exist in the payload, which is
// what makes presence tracking work.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON round-trips the wrapped value; absent and null both encode as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Get returns the value and whether a usable (present, non-null) value exists.
func (o Optional[T]) Get() (T, bool) {
	var zero T
	if !o.Present || o.Null {
		return zero, false
	}
	return o.Value, true
}

// ShouldClear reports whether the field was provided as an explicit null.
func (o Optional[T]) ShouldClear() bool {
	return o.Present && o.Null
}

// Some wraps a value as a present Optional. Mostly used by tests.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

// Null returns a present-but-null Optional. Mostly used by tests.
func Null[T any]() Optional[T] {
	return Optional[T]{Present: true, Null: true}
}
