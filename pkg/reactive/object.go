package reactive

import (
	"maps"
	"slices"
	"sync"
)

// Object is an observable keyed container, the reactive counterpart of a
// plain record. An Object's identity never changes: every mutation,
// including Replace, edits the same container, so observers attached to it
// stay valid.
//
// Values are stored as given. Editing a nested map or slice obtained from
// Field does not notify anyone; use Mutate or SetField for that.
type Object struct {
	base signalBase

	fields map[string]any
	mu     sync.RWMutex
}

// NewObject creates an Object holding a shallow copy of initial.
func NewObject(initial map[string]any) *Object {
	fields := make(map[string]any, len(initial))
	maps.Copy(fields, initial)
	return &Object{
		base:   newSignalBase(),
		fields: fields,
	}
}

// Get returns a shallow copy of all fields and subscribes the current
// listener.
func (o *Object) Get() map[string]any {
	track(&o.base)
	return o.Peek()
}

// Peek returns a shallow copy of all fields without subscribing.
func (o *Object) Peek() map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return maps.Clone(o.fields)
}

// Field returns one field and subscribes the current listener.
func (o *Object) Field(key string) (any, bool) {
	track(&o.base)
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.fields[key]
	return v, ok
}

// Keys returns the field names in sorted order and subscribes the current
// listener.
func (o *Object) Keys() []string {
	track(&o.base)
	o.mu.RLock()
	defer o.mu.RUnlock()
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of fields and subscribes the current listener.
func (o *Object) Len() int {
	track(&o.base)
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.fields)
}

// SetField stores value under key and notifies subscribers.
func (o *Object) SetField(key string, value any) {
	o.mu.Lock()
	o.fields[key] = value
	o.mu.Unlock()

	o.base.notifySubscribers()
}

// DeleteField removes key. Subscribers are notified only if the key existed.
func (o *Object) DeleteField(key string) {
	o.mu.Lock()
	_, ok := o.fields[key]
	delete(o.fields, key)
	o.mu.Unlock()

	if ok {
		o.base.notifySubscribers()
	}
}

// Clear removes every field.
func (o *Object) Clear() {
	o.mu.Lock()
	clear(o.fields)
	o.mu.Unlock()

	o.base.notifySubscribers()
}

// Assign copies every entry of values into the object, keeping fields
// that values does not mention.
func (o *Object) Assign(values map[string]any) {
	o.mu.Lock()
	maps.Copy(o.fields, values)
	o.mu.Unlock()

	o.base.notifySubscribers()
}

// Replace clears every field and then assigns values, so keys absent from
// values are removed rather than left stale. Subscribers see one change.
func (o *Object) Replace(values map[string]any) {
	Batch(func() {
		o.Clear()
		o.Assign(values)
	})
}

// Mutate runs fn on the live field map and notifies subscribers.
// fn must not retain the map.
func (o *Object) Mutate(fn func(fields map[string]any)) {
	o.mu.Lock()
	fn(o.fields)
	o.mu.Unlock()

	o.base.notifySubscribers()
}

// ID returns the unique identifier for this object.
func (o *Object) ID() uint64 {
	return o.base.id
}

func (o *Object) source() *signalBase {
	if o == nil {
		return nil
	}
	return &o.base
}
