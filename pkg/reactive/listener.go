package reactive

// Listener is anything that can be notified when a dependency changes.
// Memos and watchers implement it.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	// For memos, this invalidates the cached value.
	// For watchers, this re-runs the observer.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// tracker is a listener that records the sources it read so it can drop
// its subscriptions before recomputing.
type tracker interface {
	Listener
	addSource(source *signalBase)
}

// derived marks listeners that only invalidate cached state. They are
// notified before any watcher runs.
type derived interface {
	Listener
	derived()
}

// track subscribes the current listener, if any, to source.
func track(source *signalBase) {
	listener := getCurrentListener()
	if listener == nil {
		return
	}
	source.subscribe(listener)
	if t, ok := listener.(tracker); ok {
		t.addSource(source)
	}
}
