package reactive

import "log/slog"

// DebugMode enables debug logging of named transactions.
// Set it at startup; it is not synchronised.
var DebugMode bool

// Batch groups updates into a single notification phase. Listeners
// notified inside fn are collected, deduplicated, and notified once when
// the outermost batch completes.
//
//	Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	})
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates notifies queued listeners in two phases. Derived
// listeners (memos) are invalidated first, with the batch held open so
// their own subscribers are queued too. Watchers run last, once each, and
// so never observe a stale memo.
func processPendingUpdates() {
	var effects []Listener
	seen := make(map[uint64]bool)

	incrementBatchDepth()
	for {
		updates := drainPendingUpdates()
		if len(updates) == 0 {
			break
		}
		for _, listener := range updates {
			id := listener.ID()
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, ok := listener.(derived); ok {
				listener.MarkDirty()
				continue
			}
			effects = append(effects, listener)
		}
	}
	decrementBatchDepth()

	for _, listener := range effects {
		listener.MarkDirty()
	}
}

// Untracked runs fn without recording reads as dependencies.
// For a single read, Peek is clearer.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// Tx is an alias for Batch.
func Tx(fn func()) {
	Batch(fn)
}

// TxNamed runs fn as a batch and, in DebugMode, logs its boundaries.
func TxNamed(name string, fn func()) {
	if DebugMode {
		slog.Debug("reactive: tx start", "tx", name)
		defer slog.Debug("reactive: tx end", "tx", name)
	}
	Batch(fn)
}
