package resetref

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/statekit/pkg/deep"
	"github.com/vango-dev/statekit/pkg/reactive"
)

// Cell is an observable container whose contents can be restored in place.
// *reactive.Signal[T], *reactive.Object and *reactive.List[E] satisfy it.
type Cell[T any] interface {
	// Get returns the current contents and subscribes the current listener.
	Get() T
	// Peek returns the current contents without subscribing.
	Peek() T
	// Replace overwrites the contents without replacing the container.
	Replace(T)
}

// Ref wraps a Cell together with a deep copy of its initial contents.
type Ref[T any] struct {
	cell Cell[T]

	// snapshot is a signal so that Resync invalidates the dirty memo. It
	// never compares equal, so every Set notifies.
	snapshot *reactive.Signal[T]
	dirty    *reactive.Memo[bool]

	cfg config[T]
}

// New wraps cell and snapshots its current contents. It fails with
// ErrInvalidArgument if cell is nil or is not a container of the reactive
// runtime.
func New[T any](cell Cell[T], opts ...Option[T]) (*Ref[T], error) {
	if !reactive.IsReactive(cell) {
		return nil, fmt.Errorf("%w: must pass an observable reference or reactive container, got %T",
			ErrInvalidArgument, cell)
	}

	cfg := config[T]{equal: deep.Equal[T]}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.equal == nil {
		cfg.equal = deep.Equal[T]
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.hasCustomDefault {
		cfg.customDefault = deep.Copy(cfg.customDefault)
	}

	r := &Ref[T]{
		cell: cell,
		snapshot: reactive.NewSignal(deep.Copy(cell.Peek())).
			WithEquals(func(T, T) bool { return false }),
		cfg: cfg,
	}
	r.dirty = reactive.NewMemo(func() bool {
		return !r.cfg.equal(r.cell.Get(), r.snapshot.Get())
	})
	return r, nil
}

// IsDirty reports whether the cell's contents differ from the snapshot.
// The result is memoized and recomputed on the first read after a change.
func (r *Ref[T]) IsDirty() bool {
	return r.dirty.Get()
}

// Dirty returns the memo behind IsDirty, for use in other derived values.
func (r *Ref[T]) Dirty() *reactive.Memo[bool] {
	return r.dirty
}

// Reset restores the custom default, if one was given, or else the
// snapshot. The cell receives a fresh deep copy and keeps its identity.
func (r *Ref[T]) Reset() {
	target := r.snapshot.Peek()
	if r.cfg.hasCustomDefault {
		target = r.cfg.customDefault
	}
	r.cell.Replace(deep.Copy(target))

	r.cfg.logger.Debug("resetref: reset",
		"name", r.cfg.name,
		"custom_default", r.cfg.hasCustomDefault)
}

// Resync takes the cell's current contents as the new snapshot and then
// resets. Without a custom default the reset changes nothing visible; with
// one, the cell is overwritten by the default.
func (r *Ref[T]) Resync() {
	reactive.Batch(func() {
		r.snapshot.Set(deep.Copy(r.cell.Peek()))
		r.Reset()
	})

	r.cfg.logger.Debug("resetref: resync", "name", r.cfg.name)
}

// Snapshot returns a deep copy of the current baseline and subscribes the
// current listener to baseline changes.
func (r *Ref[T]) Snapshot() T {
	return deep.Copy(r.snapshot.Get())
}

// HasCustomDefault reports whether Reset restores a custom default.
func (r *Ref[T]) HasCustomDefault() bool {
	return r.cfg.hasCustomDefault
}

// Cell returns the wrapped container.
func (r *Ref[T]) Cell() Cell[T] {
	return r.cell
}

// Name returns the label set with WithName.
func (r *Ref[T]) Name() string {
	return r.cfg.name
}

// ForSignal wraps a single-slot signal. It saves spelling out T, which Go
// cannot infer through the Cell interface.
func ForSignal[T any](s *reactive.Signal[T], opts ...Option[T]) (*Ref[T], error) {
	return New[T](s, opts...)
}

// ForObject wraps a keyed container.
func ForObject(o *reactive.Object, opts ...Option[map[string]any]) (*Ref[map[string]any], error) {
	return New[map[string]any](o, opts...)
}

// ForList wraps a sequence container.
func ForList[E any](l *reactive.List[E], opts ...Option[[]E]) (*Ref[[]E], error) {
	return New[[]E](l, opts...)
}
