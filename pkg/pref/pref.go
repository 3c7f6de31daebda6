// Package pref provides reactive user preferences and the application UI
// store.
//
// A preference is a named reactive value with a default. It can be
// persisted through a Persister and merged with values arriving from
// elsewhere (another tab, a server copy) using a merge strategy.
//
// Example:
//
//	theme := pref.New("theme", "light")
//	theme.Set("dark")
//	if err := theme.Save(ctx, persister); err != nil {
//	    return err
//	}
//
//	// With merge strategy
//	settings := pref.New("settings", Settings{}, pref.MergeWith(pref.DBWins))
package pref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vango-dev/statekit/pkg/reactive"
)

// MergeStrategy determines how conflicts are resolved when local and remote values differ.
type MergeStrategy int

const (
	// DBWins uses the remote value and discards the local one.
	DBWins MergeStrategy = iota

	// LocalWins keeps the local value.
	LocalWins

	// Prompt defers to the user. Until a prompt UI exists it behaves as LWW.
	Prompt

	// LWW uses last-write-wins with timestamps.
	LWW
)

// String returns the strategy name.
func (m MergeStrategy) String() string {
	switch m {
	case DBWins:
		return "db-wins"
	case LocalWins:
		return "local-wins"
	case Prompt:
		return "prompt"
	case LWW:
		return "lww"
	default:
		return fmt.Sprintf("MergeStrategy(%d)", int(m))
	}
}

// PrefOption is a functional option for configuring preferences.
type PrefOption func(*prefConfig)

type prefConfig struct {
	mergeStrategy   MergeStrategy
	conflictHandler func(local, remote any) any
	persist         bool
}

// MergeWith sets the merge strategy for conflict resolution.
func MergeWith(strategy MergeStrategy) PrefOption {
	return func(c *prefConfig) {
		c.mergeStrategy = strategy
	}
}

// OnConflict sets a custom conflict handler.
// The handler receives local and remote values and returns the resolved value.
func OnConflict(handler func(local, remote any) any) PrefOption {
	return func(c *prefConfig) {
		c.conflictHandler = handler
	}
}

// Transient keeps the preference out of persistence: Save and Load become
// no-ops. Useful for state that should reset on every start.
func Transient() PrefOption {
	return func(c *prefConfig) {
		c.persist = false
	}
}

// Pref is a named reactive preference.
type Pref[T any] struct {
	key      string
	value    *reactive.Signal[T]
	defaults T
	config   prefConfig

	mu        sync.RWMutex
	updatedAt time.Time

	onChange func(key string, value any, updatedAt time.Time)
}

// New creates a new preference with the given key and default value.
func New[T any](key string, defaultValue T, opts ...PrefOption) *Pref[T] {
	config := prefConfig{
		mergeStrategy: LWW,
		persist:       true,
	}
	for _, opt := range opts {
		opt(&config)
	}

	// updatedAt stays zero until the first local Set, so a persisted or
	// remote value always beats an untouched default under LWW.
	return &Pref[T]{
		key:      key,
		value:    reactive.NewSignal(defaultValue),
		defaults: defaultValue,
		config:   config,
	}
}

// Get returns the current value and subscribes the current listener.
func (p *Pref[T]) Get() T {
	return p.value.Get()
}

// Peek returns the current value without subscribing.
func (p *Pref[T]) Peek() T {
	return p.value.Peek()
}

// Signal exposes the underlying reactive value.
func (p *Pref[T]) Signal() *reactive.Signal[T] {
	return p.value
}

// Set updates the value, stamps it, and calls the change handler.
func (p *Pref[T]) Set(value T) {
	p.mu.Lock()
	p.updatedAt = time.Now()
	updatedAt := p.updatedAt
	onChange := p.onChange
	p.mu.Unlock()

	p.value.Set(value)

	if onChange != nil {
		onChange(p.key, value, updatedAt)
	}
}

// Reset restores the default value.
func (p *Pref[T]) Reset() {
	p.Set(p.defaults)
}

// Default returns the default value.
func (p *Pref[T]) Default() T {
	return p.defaults
}

// Key returns the preference key.
func (p *Pref[T]) Key() string {
	return p.key
}

// UpdatedAt returns when the preference was last updated. It is zero for
// an untouched default.
func (p *Pref[T]) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}

// OnChange registers a handler called after every local Set.
// Values merged in through SetFromRemote do not trigger it.
func (p *Pref[T]) OnChange(fn func(key string, value any, updatedAt time.Time)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// SetFromRemote merges a value from another source using the configured
// merge strategy.
func (p *Pref[T]) SetFromRemote(value T, remoteUpdatedAt time.Time) {
	p.mu.Lock()
	resolved := p.resolveConflict(p.value.Peek(), value, p.updatedAt, remoteUpdatedAt)
	resolvedT, ok := resolved.(T)
	if ok && remoteUpdatedAt.After(p.updatedAt) {
		p.updatedAt = remoteUpdatedAt
	}
	p.mu.Unlock()

	if ok {
		p.value.Set(resolvedT)
	}
}

func (p *Pref[T]) resolveConflict(local, remote any, localTime, remoteTime time.Time) any {
	if p.config.conflictHandler != nil {
		return p.config.conflictHandler(local, remote)
	}

	switch p.config.mergeStrategy {
	case DBWins:
		return remote
	case LocalWins:
		return local
	case LWW, Prompt:
		if remoteTime.After(localTime) {
			return remote
		}
		return local
	default:
		return local
	}
}

// Save writes the preference to persister under its key.
func (p *Pref[T]) Save(ctx context.Context, persister Persister) error {
	if !p.config.persist {
		return nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("pref %q: encode: %w", p.key, err)
	}
	if err := persister.Save(ctx, p.key, data); err != nil {
		return fmt.Errorf("pref %q: save: %w", p.key, err)
	}
	return nil
}

// Load merges the persisted value, if any, through SetFromRemote.
// A missing record leaves the preference untouched and is not an error.
func (p *Pref[T]) Load(ctx context.Context, persister Persister) error {
	if !p.config.persist {
		return nil
	}
	data, err := persister.Load(ctx, p.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pref %q: load: %w", p.key, err)
	}

	var rec record[T]
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("pref %q: decode: %w", p.key, err)
	}
	p.SetFromRemote(rec.Value, rec.UpdatedAt)
	return nil
}

// record is the persisted form of a preference.
type record[T any] struct {
	Key       string    `json:"key"`
	Value     T         `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON implements json.Marshaler.
func (p *Pref[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(record[T]{
		Key:       p.key,
		Value:     p.value.Peek(),
		UpdatedAt: p.UpdatedAt(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. It replaces key, value and
// timestamp without merging; use Load to merge.
func (p *Pref[T]) UnmarshalJSON(data []byte) error {
	var rec record[T]
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	p.mu.Lock()
	p.key = rec.Key
	p.updatedAt = rec.UpdatedAt
	if p.value == nil {
		p.value = reactive.NewSignal(rec.Value)
		p.config = prefConfig{mergeStrategy: LWW, persist: true}
	}
	p.mu.Unlock()

	p.value.Set(rec.Value)
	return nil
}
