package mainloop

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Loop for tests. Posted work runs only when the
// test calls Drain or Advance, Go runs inline, and timers follow a virtual
// clock moved by Advance.
type Manual struct {
	mu     sync.Mutex
	queue  []func()
	now    time.Time
	timers []*manualTimer
	seq    int

	holdWorkers bool
	workers     []func()
}

// NewManual returns a Manual loop whose clock starts at a fixed instant.
func NewManual() *Manual {
	return &Manual{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Post implements Loop.
func (m *Manual) Post(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// Go implements Loop. fn runs synchronously unless workers are held.
func (m *Manual) Go(fn func()) {
	m.mu.Lock()
	if m.holdWorkers {
		m.workers = append(m.workers, fn)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	fn()
}

// HoldWorkers makes Go queue its functions until RunWorkers is called.
// Tests use it to model collaborators that have not answered yet.
func (m *Manual) HoldWorkers(hold bool) {
	m.mu.Lock()
	m.holdWorkers = hold
	m.mu.Unlock()
}

// RunWorkers runs the functions queued by Go while workers were held.
func (m *Manual) RunWorkers() int {
	m.mu.Lock()
	workers := m.workers
	m.workers = nil
	m.mu.Unlock()
	for _, fn := range workers {
		fn()
	}
	return len(workers)
}

// AfterFunc implements Loop.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{loop: m, when: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Now implements Loop.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Drain runs queued work, including work queued while draining, until the
// queue is empty. It returns the number of functions run.
func (m *Manual) Drain() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return n
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
		n++
	}
}

// Advance drains, then moves the clock forward by d, firing due timers in
// deadline order and draining after each.
func (m *Manual) Advance(d time.Duration) {
	m.Drain()
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		t := m.nextDue(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = t.when
		t.fired = true
		m.removeTimer(t)
		m.mu.Unlock()

		t.fn()
		m.Drain()
	}
}

// PendingTimers returns how many timers are armed.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].when.Equal(m.timers[j].when) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].when.Before(m.timers[j].when)
	})
	if m.timers[0].when.After(target) {
		return nil
	}
	return m.timers[0]
}

func (m *Manual) removeTimer(t *manualTimer) {
	for i, other := range m.timers {
		if other == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}

type manualTimer struct {
	loop  *Manual
	when  time.Time
	seq   int
	fn    func()
	fired bool
}

func (t *manualTimer) Stop() bool {
	t.loop.mu.Lock()
	defer t.loop.mu.Unlock()
	if t.fired {
		return false
	}
	for _, other := range t.loop.timers {
		if other == t {
			t.loop.removeTimer(t)
			return true
		}
	}
	return false
}
