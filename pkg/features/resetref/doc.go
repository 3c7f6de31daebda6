// Package resetref tracks a reactive container against a snapshot of its
// initial contents so it can be reset, dirty-checked, and re-baselined.
//
// # Basic Usage
//
//	form := reactive.NewObject(map[string]any{"name": "Harry", "lastName": "Potter"})
//	ref, err := resetref.New[map[string]any](form)
//	if err != nil {
//	    return err
//	}
//
//	form.SetField("name", "Ron")
//	ref.IsDirty() // true
//	ref.Reset()   // form is {name: Harry, lastName: Potter} again, same container
//
// After a successful save, Resync makes the current contents the new
// baseline:
//
//	if err := save(form.Peek()); err == nil {
//	    ref.Resync()
//	}
//
// # Containers
//
// Any container of the reactive runtime with Get, Peek and Replace can be
// wrapped: *reactive.Signal[T] (the slot is overwritten), *reactive.Object
// (cleared, then reassigned), and *reactive.List[E] (spliced in place).
// Reset never swaps the container itself, so observers attached to it keep
// receiving updates.
//
// # Custom Defaults
//
// WithCustomDefault makes Reset restore a different value than the
// snapshot. IsDirty still compares against the snapshot, so right after
// such a reset it reports true whenever the default differs from the
// snapshot.
package resetref
