package tabs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/tabshell/internal/ui/mainloop"
)

func TestLiveReloader_CollapsesBursts(t *testing.T) {
	loop := mainloop.NewManual()
	reloads := 0
	r := NewLiveReloader(loop, time.Second, func() { reloads++ })

	r.Trigger()
	assert.Equal(t, 1, reloads, "first change reloads at once")

	r.Trigger()
	r.Trigger()
	r.Trigger()
	assert.Equal(t, 1, reloads)

	loop.Advance(time.Second)
	assert.Equal(t, 2, reloads, "one trailing reload")

	loop.Advance(time.Second)
	assert.Equal(t, 2, reloads)

	r.Trigger()
	assert.Equal(t, 3, reloads)
}

func TestLiveReloader_StopCancelsTrailingReload(t *testing.T) {
	loop := mainloop.NewManual()
	reloads := 0
	r := NewLiveReloader(loop, time.Second, func() { reloads++ })
	w := &fakeWatcher{}
	assert.True(t, r.attach(w))

	r.Trigger()
	r.Trigger()
	r.Stop()
	loop.Advance(time.Second)

	assert.Equal(t, 1, reloads)
	assert.True(t, w.closed)
	assert.True(t, r.Stopped())
	assert.Equal(t, 0, loop.PendingTimers())

	r.Trigger()
	assert.Equal(t, 1, reloads)
}

func TestLiveReloader_AttachAfterStopClosesWatch(t *testing.T) {
	r := NewLiveReloader(mainloop.NewManual(), time.Second, func() {})
	r.Stop()

	w := &fakeWatcher{}
	assert.False(t, r.attach(w))
	assert.True(t, w.closed)
}
