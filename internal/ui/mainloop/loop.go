// Package mainloop provides the single control thread on which all tab,
// pane and window state is mutated.
package mainloop

import (
	"context"
	"time"
)

// Loop schedules work onto the control thread.
type Loop interface {
	// Post queues fn to run on the control thread. Posted functions run in
	// the order they were posted.
	Post(fn func())

	// Go runs fn off the control thread. fn must Post any state mutation.
	Go(fn func())

	// AfterFunc runs fn on the control thread after d.
	AfterFunc(d time.Duration, fn func()) Timer

	// Now returns the loop's current time.
	Now() time.Time
}

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Call posts fn to the loop and waits for it to finish.
// It must not be called from the control thread itself.
func Call(ctx context.Context, loop Loop, fn func()) error {
	done := make(chan struct{})
	loop.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CallErr is Call for functions that can fail. It returns the context
// error when ctx ends first, otherwise the error of fn.
func CallErr(ctx context.Context, loop Loop, fn func() error) error {
	var fnErr error
	if err := Call(ctx, loop, func() { fnErr = fn() }); err != nil {
		return err
	}
	return fnErr
}

// CallValue is Call for functions that produce a value.
func CallValue[T any](ctx context.Context, loop Loop, fn func() T) (T, error) {
	var out T
	err := Call(ctx, loop, func() { out = fn() })
	return out, err
}
