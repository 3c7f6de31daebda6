// Package delay provides a cancellable sleep with an optional follow-up.
package delay

import (
	"context"
	"time"
)

// Delay waits for d and then runs callback, if non-nil, returning its
// error. It returns ctx.Err() without running callback when ctx ends first.
// A non-positive d still yields to ctx before running callback.
func Delay(ctx context.Context, d time.Duration, callback func(context.Context) error) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if callback == nil {
		return nil
	}
	return callback(ctx)
}

// Sleep waits for d or until ctx ends.
func Sleep(ctx context.Context, d time.Duration) error {
	return Delay(ctx, d, nil)
}
