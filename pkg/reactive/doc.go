// Package reactive provides the fine-grained reactive runtime used by statekit.
//
// Dependencies are tracked at runtime: reading a container inside a tracked
// scope (a Memo computation or a Watch body) subscribes that scope to the
// container's changes.
//
// # Containers
//
// Signal[T] is a single mutable slot:
//
//	name := reactive.NewSignal("Harry")
//	name.Get()       // tracked read
//	name.Set("Ron")  // notifies subscribers
//
// Object is an observable keyed container. Its identity is stable: all
// mutations, including Replace, happen in place so existing observers keep
// working:
//
//	form := reactive.NewObject(map[string]any{"name": "Harry"})
//	form.SetField("name", "Ron")
//	form.Replace(map[string]any{"name": "Harry"}) // clear, then assign
//
// List[T] is an observable sequence with in-place Splice:
//
//	tags := reactive.NewList([]string{"a", "b"})
//	tags.Append("c")
//	tags.Replace([]string{"a", "b"})
//
// # Derived values
//
// Memo[T] is lazy: it is invalidated when a dependency changes and
// recomputes on the next read, so many writes collapse into one computation.
//
//	dirty := reactive.NewMemo(func() bool { return form.Len() > 1 })
//
// Watch runs an observer now and again after each invalidation:
//
//	stop := reactive.Watch(func() { log.Println(dirty.Get()) })
//	defer stop()
//
// # Thread Safety
//
// Every container is safe for concurrent use. The tracking context is
// per-goroutine, so a goroutine spawned inside a Memo or Watch body does not
// inherit its subscriptions.
package reactive
