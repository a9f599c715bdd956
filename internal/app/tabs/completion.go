package tabs

import (
	"context"

	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// Completion is a one-shot result handle settled by the state machine.
// It is owned by the control thread; only Wait may be used elsewhere.
type Completion struct {
	done    bool
	err     error
	waiters []func(error)
}

func newCompletion() *Completion {
	return &Completion{}
}

func settledCompletion(err error) *Completion {
	return &Completion{done: true, err: err}
}

// Done reports whether the completion has settled.
func (c *Completion) Done() bool {
	return c.done
}

// Err returns the settled error, nil on success or while pending.
func (c *Completion) Err() error {
	return c.err
}

// Then calls fn once the completion settles, immediately if it already has.
func (c *Completion) Then(fn func(err error)) {
	if c.done {
		fn(c.err)
		return
	}
	c.waiters = append(c.waiters, fn)
}

func (c *Completion) resolve() {
	c.settle(nil)
}

func (c *Completion) cancel(err error) {
	c.settle(err)
}

func (c *Completion) settle(err error) {
	if c.done {
		return
	}
	c.done = true
	c.err = err
	waiters := c.waiters
	c.waiters = nil
	for _, fn := range waiters {
		fn(err)
	}
}

// Wait blocks until the completion settles or ctx is done.
// It must not be called from the control thread.
func (c *Completion) Wait(ctx context.Context, loop mainloop.Loop) error {
	ch := make(chan error, 1)
	loop.Post(func() {
		c.Then(func(err error) { ch <- err })
	})
	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
