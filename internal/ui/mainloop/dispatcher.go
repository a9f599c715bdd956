package mainloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/tabshell/internal/logging"
)

// Dispatcher is the production Loop: a single goroutine draining an
// unbounded FIFO of posted functions.
type Dispatcher struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	closed  bool
	workers sync.WaitGroup
	ctx     context.Context
}

// NewDispatcher creates a dispatcher. Call Run to start processing.
func NewDispatcher(ctx context.Context) *Dispatcher {
	return &Dispatcher{
		wake: make(chan struct{}, 1),
		ctx:  ctx,
	}
}

// Post implements Loop.
func (d *Dispatcher) Post(fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Go implements Loop.
func (d *Dispatcher) Go(fn func()) {
	d.workers.Add(1)
	go func() {
		defer d.workers.Done()
		defer d.recoverPanic("worker")
		fn()
	}()
}

// AfterFunc implements Loop.
func (d *Dispatcher) AfterFunc(dur time.Duration, fn func()) Timer {
	t := &dispatchTimer{}
	t.timer = time.AfterFunc(dur, func() {
		d.Post(func() {
			if t.state.CompareAndSwap(timerPending, timerFired) {
				fn()
			}
		})
	})
	return t
}

// Now implements Loop.
func (d *Dispatcher) Now() time.Time {
	return time.Now()
}

// Run processes posted functions until ctx is canceled.
// Remaining queued work is dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Debug().Msg("control loop started")

	for {
		d.mu.Lock()
		batch := d.queue
		d.queue = nil
		d.mu.Unlock()

		for _, fn := range batch {
			d.runOne(fn)
		}

		select {
		case <-ctx.Done():
			d.mu.Lock()
			d.closed = true
			d.queue = nil
			d.mu.Unlock()
			log.Debug().Msg("control loop stopped")
			return ctx.Err()
		case <-d.wake:
		}
	}
}

// Wait blocks until every Go worker has returned.
func (d *Dispatcher) Wait() {
	d.workers.Wait()
}

func (d *Dispatcher) runOne(fn func()) {
	defer d.recoverPanic("task")
	fn()
}

func (d *Dispatcher) recoverPanic(kind string) {
	if r := recover(); r != nil {
		logging.FromContext(d.ctx).Error().
			Str("kind", kind).
			Interface("panic", r).
			Msg("recovered panic on control loop")
	}
}

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

type dispatchTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *dispatchTimer) Stop() bool {
	t.timer.Stop()
	return t.state.CompareAndSwap(timerPending, timerStopped)
}
