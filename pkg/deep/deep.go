// Package deep provides the structural copy and comparison used to take
// and check snapshots of reactive state.
package deep

import (
	"reflect"

	"github.com/huandu/go-clone"
)

// Cloner lets a type provide its own deep copy.
//
// Clone must return a value that shares no mutable memory (pointers, maps,
// slices) with the receiver.
type Cloner[T any] interface {
	Clone() T
}

// Copy returns a deep copy of v. Values implementing Cloner[T] copy
// themselves; everything else is copied structurally, recursing into maps,
// slices, pointers, interfaces and struct fields, unexported ones included.
func Copy[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}

	cp, ok := clone.Clone(v).(T)
	if !ok {
		// Only a nil interface value lands here.
		var zero T
		return zero
	}
	return cp
}

// Equal reports whether a and b are structurally equal: maps compare by
// key regardless of order, slices element by element in order, scalars by
// value. Pointers are followed, never compared by address.
func Equal[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}
