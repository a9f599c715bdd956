package tabs

import (
	"time"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// LiveReloader turns bursts of drive change notifications into reloads.
//
// The first change reloads at once and arms a cooldown window. Changes seen
// during the cooldown collapse into a single trailing reload when the window
// expires, which re-arms the cooldown.
type LiveReloader struct {
	loop   mainloop.Loop
	window time.Duration
	reload func()

	cooling bool
	pending bool
	stopped bool
	timer   mainloop.Timer
	watcher port.DriveWatcher
}

// NewLiveReloader returns a reloader that calls reload on the control thread.
func NewLiveReloader(loop mainloop.Loop, window time.Duration, reload func()) *LiveReloader {
	return &LiveReloader{loop: loop, window: window, reload: reload}
}

// Trigger records one change notification.
func (r *LiveReloader) Trigger() {
	if r.stopped {
		return
	}
	if r.cooling {
		r.pending = true
		return
	}
	r.fire()
}

func (r *LiveReloader) fire() {
	r.reload()
	r.cooling = true
	r.timer = r.loop.AfterFunc(r.window, r.expire)
}

func (r *LiveReloader) expire() {
	r.timer = nil
	if r.stopped {
		return
	}
	r.cooling = false
	if r.pending {
		r.pending = false
		r.fire()
	}
}

// attach binds the drive watch feeding this reloader. A reloader stopped
// while the watch was being set up closes it instead.
func (r *LiveReloader) attach(w port.DriveWatcher) bool {
	if r.stopped {
		_ = w.Close()
		return false
	}
	r.watcher = w
	return true
}

// Stop cancels any trailing reload and closes the drive watch.
func (r *LiveReloader) Stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	r.pending = false
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.watcher != nil {
		_ = r.watcher.Close()
		r.watcher = nil
	}
}

// Stopped reports whether Stop was called.
func (r *LiveReloader) Stopped() bool {
	return r.stopped
}
