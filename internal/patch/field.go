// internal/patch/field.go
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state JSON value: absent, explicitly null, or set.
// Absent fields never appear in an update; null clears the column.
type Field[T any] struct {
	Defined bool
	Null    bool
	Value   T
}

// Set builds a defined field, mainly for tests and internal callers.
func Set[T any](v T) Field[T] {
	return Field[T]{Defined: true, Value: v}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Defined = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Defined || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Get returns the value and whether it is usable (defined and non-null).
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Defined && !f.Null
}
