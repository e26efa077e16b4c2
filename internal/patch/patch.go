// Package patch models partial updates decoded from JSON bodies.
//
// A Field distinguishes a key that was absent from one that carried null, so
// callers can tell "leave unchanged" apart from "clear the column". A Builder
// collects only the present fields into the column map handed to GORM.
package patch

import "encoding/json"

type Field[T any] struct {
	Set   bool
	Value *T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// IsNull reports a present key with a null value.
func (f Field[T]) IsNull() bool {
	return f.Set && f.Value == nil
}

func (f Field[T]) IsSet() bool {
	return f.Set
}

// Interface returns the value for a column assignment; null maps to SQL NULL.
func (f Field[T]) Interface() interface{} {
	if f.Value == nil {
		return nil
	}
	return *f.Value
}

type Optional interface {
	IsSet() bool
	Interface() interface{}
}

type Builder struct {
	assignments map[string]interface{}
}

func NewBuilder() *Builder {
	return &Builder{assignments: make(map[string]interface{})}
}

// Add records the column only when the field was present in the body.
func (b *Builder) Add(column string, f Optional) *Builder {
	if f.IsSet() {
		b.assignments[column] = f.Interface()
	}
	return b
}

func (b *Builder) Empty() bool {
	return len(b.assignments) == 0
}

func (b *Builder) Has(column string) bool {
	_, ok := b.assignments[column]
	return ok
}

// Map returns a copy of the accumulated assignments.
func (b *Builder) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(b.assignments))
	for k, v := range b.assignments {
		out[k] = v
	}
	return out
}
