package resetref

import "log/slog"

// Option configures a Ref.
type Option[T any] func(*config[T])

type config[T any] struct {
	customDefault    T
	hasCustomDefault bool
	equal            func(a, b T) bool
	name             string
	logger           *slog.Logger
}

// WithCustomDefault makes Reset restore d instead of the snapshot.
// d is deep-copied when the option is applied, so later edits to d by the
// caller have no effect.
func WithCustomDefault[T any](d T) Option[T] {
	return func(c *config[T]) {
		c.customDefault = d
		c.hasCustomDefault = true
	}
}

// WithEquals replaces the structural comparison used by IsDirty.
func WithEquals[T any](fn func(a, b T) bool) Option[T] {
	return func(c *config[T]) {
		c.equal = fn
	}
}

// WithName labels the Ref in log records.
func WithName[T any](name string) Option[T] {
	return func(c *config[T]) {
		c.name = name
	}
}

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *config[T]) {
		c.logger = logger
	}
}
