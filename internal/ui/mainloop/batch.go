package mainloop

import "sync"

// DirtySet collects keys marked from any goroutine and hands them to a
// handler in one control-thread task. Marks arriving before that task runs
// join the same batch.
type DirtySet[K comparable] struct {
	loop   Loop
	handle func(keys []K)

	mu      sync.Mutex
	keys    []K
	seen    map[K]struct{}
	posted  bool
	stopped bool
}

// NewDirtySet returns a set flushing into handle on loop.
func NewDirtySet[K comparable](loop Loop, handle func(keys []K)) *DirtySet[K] {
	if loop == nil || handle == nil {
		panic("mainloop.NewDirtySet: loop and handler are required")
	}
	return &DirtySet[K]{loop: loop, handle: handle, seen: make(map[K]struct{})}
}

// Mark adds key to the next batch. Keys keep first-mark order.
func (d *DirtySet[K]) Mark(key K) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if _, ok := d.seen[key]; !ok {
		d.seen[key] = struct{}{}
		d.keys = append(d.keys, key)
	}
	post := !d.posted
	d.posted = true
	d.mu.Unlock()

	if post {
		d.loop.Post(d.flush)
	}
}

func (d *DirtySet[K]) flush() {
	d.mu.Lock()
	keys := d.keys
	d.keys = nil
	d.seen = make(map[K]struct{})
	d.posted = false
	stopped := d.stopped
	d.mu.Unlock()

	if !stopped && len(keys) > 0 {
		d.handle(keys)
	}
}

// Pending reports how many keys wait for the next flush.
func (d *DirtySet[K]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.keys)
}

// Stop discards queued keys and ignores later marks.
func (d *DirtySet[K]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.keys = nil
	d.seen = make(map[K]struct{})
	d.mu.Unlock()
}
