package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time { return c.t }

func (c *stepClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestStartupTimer_MarksPhases(t *testing.T) {
	clock := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	timer := newStartupTimer(clock.now)

	clock.advance(30 * time.Millisecond)
	timer.Mark("database")
	clock.advance(120 * time.Millisecond)
	timer.Mark("content_host")

	phases := timer.Phases()
	assert.Equal(t, 30*time.Millisecond, phases["database"])
	assert.Equal(t, 120*time.Millisecond, phases["content_host"])
	assert.Equal(t, 150*time.Millisecond, timer.Total())
}

func TestStartupTimer_RepeatedPhaseAccumulates(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0)}
	timer := newStartupTimer(clock.now)

	clock.advance(time.Second)
	timer.Mark("window")
	clock.advance(2 * time.Second)
	timer.Mark("window")

	assert.Equal(t, 3*time.Second, timer.Phases()["window"])
}

func TestStartupTimer_LogDoesNotPanic(t *testing.T) {
	timer := NewStartupTimer()
	timer.Mark("loop")
	assert.NotPanics(t, func() { timer.Log(context.Background(), 0) })
}
