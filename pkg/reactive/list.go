package reactive

import (
	"slices"
	"sync"
)

// List is an observable sequence. Like Object, a List keeps its identity:
// Replace and Splice edit the same container in place.
type List[T any] struct {
	base signalBase

	items []T
	mu    sync.RWMutex
}

// NewList creates a List holding a copy of initial.
func NewList[T any](initial []T) *List[T] {
	return &List[T]{
		base:  newSignalBase(),
		items: slices.Clone(initial),
	}
}

// Get returns a copy of the elements and subscribes the current listener.
// The copy is never nil.
func (l *List[T]) Get() []T {
	track(&l.base)
	return l.Peek()
}

// Peek returns a copy of the elements without subscribing.
func (l *List[T]) Peek() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// At returns the element at index i and subscribes the current listener.
func (l *List[T]) At(i int) (T, bool) {
	track(&l.base)
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Len returns the number of elements and subscribes the current listener.
func (l *List[T]) Len() int {
	track(&l.base)
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// SetAt replaces the element at index i. Out-of-range indexes are ignored.
func (l *List[T]) SetAt(i int, item T) {
	l.mu.Lock()
	ok := i >= 0 && i < len(l.items)
	if ok {
		l.items[i] = item
	}
	l.mu.Unlock()

	if ok {
		l.base.notifySubscribers()
	}
}

// Append adds items to the end.
func (l *List[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	l.mu.Lock()
	l.items = append(l.items, items...)
	l.mu.Unlock()

	l.base.notifySubscribers()
}

// RemoveAt removes the element at index i. Out-of-range indexes are ignored.
func (l *List[T]) RemoveAt(i int) {
	l.Splice(i, 1)
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place, and returns the removed elements. start is clamped to
// [0, Len]; deleteCount is clamped to what is available.
func (l *List[T]) Splice(start, deleteCount int, items ...T) []T {
	l.mu.Lock()
	n := len(l.items)
	start = min(max(start, 0), n)
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := slices.Clone(l.items[start : start+deleteCount])
	l.items = slices.Replace(l.items, start, start+deleteCount, items...)
	l.mu.Unlock()

	if deleteCount > 0 || len(items) > 0 {
		l.base.notifySubscribers()
	}
	return removed
}

// Clear removes every element.
func (l *List[T]) Clear() {
	l.mu.Lock()
	clear(l.items)
	l.items = l.items[:0]
	l.mu.Unlock()

	l.base.notifySubscribers()
}

// Replace removes every element and inserts items in order, in place.
func (l *List[T]) Replace(items []T) {
	l.mu.Lock()
	changed := len(l.items) > 0 || len(items) > 0
	clear(l.items)
	l.items = append(l.items[:0], items...)
	l.mu.Unlock()

	if changed {
		l.base.notifySubscribers()
	}
}

// Mutate passes the live elements to fn, stores the slice it returns, and
// notifies subscribers.
func (l *List[T]) Mutate(fn func(items []T) []T) {
	l.mu.Lock()
	l.items = fn(l.items)
	l.mu.Unlock()

	l.base.notifySubscribers()
}

// ID returns the unique identifier for this list.
func (l *List[T]) ID() uint64 {
	return l.base.id
}

func (l *List[T]) source() *signalBase {
	if l == nil {
		return nil
	}
	return &l.base
}
