package reactive

import (
	"sync"
	"sync/atomic"
)

// watcher re-runs an observer function whenever something it read changes.
type watcher struct {
	id uint64
	fn func()

	sources   []*signalBase
	sourcesMu sync.Mutex

	running atomic.Bool
	rerun   atomic.Bool
	stopped atomic.Bool
}

// Watch runs fn immediately with dependency tracking, then again each time
// one of the containers or memos it read changes. Changes made inside a
// Batch trigger one re-run when the batch completes. A change made while fn
// is running schedules exactly one more run.
//
// The returned function stops the watcher and drops its subscriptions.
func Watch(fn func()) (stop func()) {
	w := &watcher{id: nextID(), fn: fn}
	w.run()
	return w.stop
}

func (w *watcher) MarkDirty() {
	if w.stopped.Load() {
		return
	}
	if w.running.Load() {
		w.rerun.Store(true)
		return
	}
	w.run()
}

func (w *watcher) ID() uint64 {
	return w.id
}

func (w *watcher) addSource(source *signalBase) {
	w.sourcesMu.Lock()
	defer w.sourcesMu.Unlock()

	for _, s := range w.sources {
		if s == source {
			return
		}
	}
	w.sources = append(w.sources, source)
}

func (w *watcher) dropSources() {
	w.sourcesMu.Lock()
	defer w.sourcesMu.Unlock()

	for _, source := range w.sources {
		source.unsubscribe(w)
	}
	w.sources = w.sources[:0]
}

func (w *watcher) run() {
	if !w.running.CompareAndSwap(false, true) {
		w.rerun.Store(true)
		return
	}

	for {
		w.rerun.Store(false)
		w.dropSources()
		if w.stopped.Load() {
			w.running.Store(false)
			return
		}
		w.runOnce()

		if w.rerun.Load() {
			continue
		}
		w.running.Store(false)
		// A notification may have landed between the check and the store.
		if !w.rerun.Load() || !w.running.CompareAndSwap(false, true) {
			return
		}
	}
}

func (w *watcher) runOnce() {
	old := setCurrentListener(w)
	defer setCurrentListener(old)
	w.fn()
}

func (w *watcher) stop() {
	if w.stopped.Swap(true) {
		return
	}
	w.dropSources()
}

var _ tracker = (*watcher)(nil)
