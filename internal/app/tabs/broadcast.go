package tabs

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// EventKind identifies the event payload.
type EventKind string

const (
	// EventReplaceState carries the full per-window snapshot.
	EventReplaceState EventKind = "replace-state"
	// EventUpdateState carries one tab's new state.
	EventUpdateState EventKind = "update-state"
	// EventBackgroundTabs carries the background pool listing.
	EventBackgroundTabs EventKind = "update-background-tabs"
)

// Event is one message on a window's state channel.
type Event struct {
	Kind    EventKind            `json:"kind"`
	Replace *entity.ReplaceState `json:"replace,omitempty"`
	Update  *entity.UpdateState  `json:"update,omitempty"`

	BackgroundTabs []entity.BackgroundTab `json:"backgroundTabs,omitempty"`
}

type subscriber struct {
	id      int
	fn      func(Event)
	onClose func()
}

// Channel fans a window's state events out to its UI surfaces.
// Subscribers are called synchronously on the control thread, in
// subscription order, right after the mutation that produced the event.
type Channel struct {
	subs   []*subscriber
	nextID int
	closed bool
}

func newChannel() *Channel {
	return &Channel{}
}

// Subscribe registers fn and returns a function that removes it.
// Must be called on the control thread.
func (c *Channel) Subscribe(fn func(Event)) (cancel func()) {
	return c.subscribe(fn, nil)
}

func (c *Channel) subscribe(fn func(Event), onClose func()) func() {
	if c.closed {
		if onClose != nil {
			onClose()
		}
		return func() {}
	}
	c.nextID++
	sub := &subscriber{id: c.nextID, fn: fn, onClose: onClose}
	c.subs = append(c.subs, sub)
	return func() { c.unsubscribe(sub.id) }
}

func (c *Channel) unsubscribe(id int) {
	for i, sub := range c.subs {
		if sub.id == id {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			if sub.onClose != nil {
				sub.onClose()
			}
			return
		}
	}
}

// Len returns the number of subscribers.
func (c *Channel) Len() int {
	return len(c.subs)
}

func (c *Channel) publish(ev Event) {
	if c.closed {
		return
	}
	// Subscribers may unsubscribe while being called.
	subs := append([]*subscriber(nil), c.subs...)
	for _, sub := range subs {
		sub.fn(ev)
	}
}

func (c *Channel) close() {
	if c.closed {
		return
	}
	c.closed = true
	subs := c.subs
	c.subs = nil
	for _, sub := range subs {
		if sub.onClose != nil {
			sub.onClose()
		}
	}
}

// resyncRetry is how long an overflowed stream waits before retrying its resync.
const resyncRetry = 50 * time.Millisecond

// Stream delivers a window's events to a goroutine off the control thread.
//
// Sends never block the control thread. When the buffer is full the stream
// drops events and, as soon as there is room again, sends one replace-state
// snapshot taken at that moment, so a slow reader skips intermediate states
// but always converges on the current one.
type Stream struct {
	loop   mainloop.Loop
	events chan Event
	resync func() Event
	cancel func()

	overflowed bool
	retry      mainloop.Timer
	closed     bool
	dropped    atomic.Int64
	closeOnce  sync.Once
}

// Stream subscribes a buffered stream to the channel.
// Must be called on the control thread.
func (c *Channel) Stream(loop mainloop.Loop, depth int, resync func() Event) *Stream {
	if depth <= 0 {
		depth = 64
	}
	s := &Stream{
		loop:   loop,
		events: make(chan Event, depth),
		resync: resync,
	}
	s.cancel = c.subscribe(s.deliver, s.shutdown)
	return s
}

// Events returns the receive side of the stream. It is closed when the
// stream or its window closes.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Dropped returns how many events were dropped because the reader lagged.
func (s *Stream) Dropped() int64 {
	return s.dropped.Load()
}

// Close unsubscribes the stream. Safe to call from any goroutine.
func (s *Stream) Close() {
	s.closeOnce.Do(func() {
		s.loop.Post(s.cancel)
	})
}

func (s *Stream) deliver(ev Event) {
	if s.closed {
		return
	}
	if s.overflowed {
		s.dropped.Add(1)
		s.flushResync()
		return
	}
	select {
	case s.events <- ev:
	default:
		s.dropped.Add(1)
		s.overflowed = true
		s.scheduleRetry()
	}
}

func (s *Stream) flushResync() {
	if s.closed || !s.overflowed {
		return
	}
	// Only the control thread sends, so free space here stays free.
	if len(s.events) == cap(s.events) {
		s.scheduleRetry()
		return
	}
	select {
	case s.events <- s.resync():
		s.overflowed = false
		if s.retry != nil {
			s.retry.Stop()
			s.retry = nil
		}
	default:
		s.scheduleRetry()
	}
}

func (s *Stream) scheduleRetry() {
	if s.retry != nil {
		return
	}
	s.retry = s.loop.AfterFunc(resyncRetry, func() {
		s.retry = nil
		s.flushResync()
	})
}

func (s *Stream) shutdown() {
	if s.closed {
		return
	}
	s.closed = true
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
	close(s.events)
}
