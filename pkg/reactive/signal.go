package reactive

import "sync"

// signalBase provides type-erased subscriber management.
// It is embedded in every container and in Memo[T].
type signalBase struct {
	id uint64

	subs  []Listener
	subMu sync.RWMutex
}

func newSignalBase() signalBase {
	return signalBase{id: nextID()}
}

// subscribe adds a listener, deduplicating by listener ID.
func (s *signalBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}
	s.subs = append(s.subs, l)
}

func (s *signalBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs[i] = s.subs[len(s.subs)-1]
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

// subscriberCount returns the number of current subscribers.
func (s *signalBase) subscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subs)
}

// notifySubscribers notifies every subscriber, or queues them when a batch
// is open. Subscribers are copied first so no lock is held while notifying.
func (s *signalBase) notifySubscribers() {
	s.subMu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.subMu.RUnlock()

	if len(subs) == 0 {
		return
	}
	Batch(func() {
		for _, sub := range subs {
			queuePendingUpdate(sub)
		}
	})
}

// Signal is a reactive single-slot value container.
// Reading it inside a Memo or Watch subscribes that scope to its changes.
type Signal[T any] struct {
	base signalBase

	value T
	mu    sync.RWMutex

	// equal decides whether Set changed the value. nil means defaultEquals.
	equal func(T, T) bool
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		base:  newSignalBase(),
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	// Track after releasing the value lock.
	track(&s.base)
	return value
}

// Peek returns the current value without subscribing.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and notifies subscribers if it differs from the current one.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Replace overwrites the held value. For a single slot this is Set; it
// exists so Signal satisfies the same restore contract as Object and List.
func (s *Signal[T]) Replace(value T) {
	s.Set(value)
}

// Update atomically reads and replaces the value.
//
// fn must return a new value rather than edit the old one in place:
// an in-place edit compares equal to itself and notifies nobody. Use Mutate
// for in-place edits.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	oldValue := s.value
	newValue := fn(oldValue)
	changed := !s.equals(oldValue, newValue)
	if changed {
		s.value = newValue
	}
	s.mu.Unlock()

	if changed {
		s.base.notifySubscribers()
	}
}

// Mutate edits the held value in place and always notifies subscribers.
//
//	user.Mutate(func(u *User) { u.Address.City = "Leeds" })
func (s *Signal[T]) Mutate(fn func(*T)) {
	s.mu.Lock()
	fn(&s.value)
	s.mu.Unlock()

	s.base.notifySubscribers()
}

// WithEquals configures the equality function used by Set and Update.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) source() *signalBase {
	if s == nil {
		return nil
	}
	return &s.base
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}
