package reactive

// Source is implemented by every container and memo of this runtime.
// It cannot be implemented outside the package, so holding a Source proves
// a value is observable.
type Source interface {
	ID() uint64
	source() *signalBase
}

var (
	_ Source = (*Signal[int])(nil)
	_ Source = (*Object)(nil)
	_ Source = (*List[int])(nil)
	_ Source = (*Memo[int])(nil)
)

// IsReactive reports whether v is a container or memo of this runtime.
// A typed nil pointer is not reactive.
func IsReactive(v any) bool {
	s, ok := v.(Source)
	if !ok {
		return false
	}
	return s.source() != nil
}

// Subscribers returns how many listeners currently observe v.
// It returns 0 for values that are not reactive.
func Subscribers(v any) int {
	if !IsReactive(v) {
		return 0
	}
	return v.(Source).source().subscriberCount()
}
