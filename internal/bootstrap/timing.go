// Package bootstrap assembles the tabshell runtime from its configuration.
package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/tabshell/internal/logging"
)

// StartupTimer records how long each startup phase took.
// Safe for concurrent use.
type StartupTimer struct {
	mu     sync.Mutex
	now    func() time.Time
	start  time.Time
	last   time.Time
	phases []phase
}

type phase struct {
	name string
	dur  time.Duration
}

// NewStartupTimer creates a timer starting from now.
func NewStartupTimer() *StartupTimer {
	return newStartupTimer(time.Now)
}

func newStartupTimer(now func() time.Time) *StartupTimer {
	t := now()
	return &StartupTimer{now: now, start: t, last: t}
}

// Mark records the time since the previous mark under name.
func (t *StartupTimer) Mark(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.phases = append(t.phases, phase{name: name, dur: now.Sub(t.last)})
	t.last = now
}

// Total returns the time since the timer was created.
func (t *StartupTimer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.start)
}

// Phases returns the recorded phase durations by name.
func (t *StartupTimer) Phases() map[string]time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]time.Duration, len(t.phases))
	for _, p := range t.phases {
		out[p.name] += p.dur
	}
	return out
}

// Log writes every phase in the order it was marked at the given level.
func (t *StartupTimer) Log(ctx context.Context, level zerolog.Level) {
	t.mu.Lock()
	defer t.mu.Unlock()

	log := logging.FromContext(ctx)
	event := log.WithLevel(level).Dur("total", t.now().Sub(t.start))
	for _, p := range t.phases {
		event = event.Dur(p.name, p.dur)
	}
	event.Msg("startup timing")
}
