package reactive

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached computation that tracks its dependencies automatically.
// When any dependency changes, the memo is invalidated and recomputes on the
// next read. Memos are lazy: nothing runs until Get or Peek is called, and
// any number of dependency changes before a read cost one recomputation.
//
// A Memo can itself be read inside other memos and watchers.
type Memo[T any] struct {
	base signalBase

	compute func() T

	value   T
	valueMu sync.RWMutex

	// valid is false until the first computation and after every
	// invalidation.
	valid atomic.Bool

	sources   []*signalBase
	sourcesMu sync.Mutex

	// computeMu serializes computations. computingGID holds the goroutine
	// running compute, or 0; a read from that same goroutine is circular.
	computeMu    sync.Mutex
	computingGID atomic.Uint64
}

// NewMemo creates a memo. compute is not called until the first read.
func NewMemo[T any](compute func() T) *Memo[T] {
	return &Memo[T]{
		base:    newSignalBase(),
		compute: compute,
	}
}

// Get returns the memo's value, recomputing if necessary, and subscribes the
// current listener.
func (m *Memo[T]) Get() T {
	track(&m.base)
	return m.Peek()
}

// Peek returns the memo's value without subscribing.
// It still recomputes when the cached value is stale, and waits for a
// computation in flight on another goroutine.
func (m *Memo[T]) Peek() T {
	if !m.valid.Load() || m.computingGID.Load() != 0 {
		m.recompute()
	}
	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// MarkDirty invalidates the memo and propagates to its subscribers.
func (m *Memo[T]) MarkDirty() {
	if m.valid.CompareAndSwap(true, false) {
		m.base.notifySubscribers()
	}
}

func (m *Memo[T]) derived() {}

// ID returns the unique identifier for this memo.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// Invalidated reports whether the next read will recompute.
func (m *Memo[T]) Invalidated() bool {
	return !m.valid.Load()
}

func (m *Memo[T]) source() *signalBase {
	if m == nil {
		return nil
	}
	return &m.base
}

func (m *Memo[T]) addSource(source *signalBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()

	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

func (m *Memo[T]) recompute() {
	gid := getGoroutineID()
	if m.computingGID.Load() == gid {
		return
	}

	m.computeMu.Lock()
	defer m.computeMu.Unlock()
	if m.valid.Load() {
		return
	}
	m.computingGID.Store(gid)
	defer m.computingGID.Store(0)

	m.sourcesMu.Lock()
	for _, source := range m.sources {
		source.unsubscribe(m)
	}
	m.sources = m.sources[:0]
	m.sourcesMu.Unlock()

	// Marked valid before computing so a dependency written mid-computation
	// invalidates the result instead of being lost.
	m.valid.Store(true)

	old := setCurrentListener(m)
	newValue := m.compute()
	setCurrentListener(old)

	m.valueMu.Lock()
	m.value = newValue
	m.valueMu.Unlock()
}

var _ tracker = (*Memo[int])(nil)
