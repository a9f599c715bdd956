package tabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

func updateEvent(index int) Event {
	return Event{Kind: EventUpdateState, Update: &entity.UpdateState{Index: index}}
}

func TestChannel_DeliversInSubscriptionOrder(t *testing.T) {
	c := newChannel()
	var got []string
	c.Subscribe(func(Event) { got = append(got, "first") })
	c.Subscribe(func(Event) { got = append(got, "second") })

	c.publish(updateEvent(0))
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestChannel_UnsubscribeDuringPublish(t *testing.T) {
	c := newChannel()
	calls := 0
	var cancel func()
	cancel = c.Subscribe(func(Event) {
		calls++
		cancel()
	})
	other := 0
	c.Subscribe(func(Event) { other++ })

	c.publish(updateEvent(0))
	c.publish(updateEvent(1))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
	assert.Equal(t, 1, c.Len())
}

func TestChannel_Close(t *testing.T) {
	c := newChannel()
	calls := 0
	c.Subscribe(func(Event) { calls++ })
	c.close()
	c.publish(updateEvent(0))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, c.Len())

	c.Subscribe(func(Event) { calls++ })
	c.publish(updateEvent(0))
	assert.Equal(t, 0, calls)
}

func TestStream_ResyncsAfterOverflow(t *testing.T) {
	loop := mainloop.NewManual()
	c := newChannel()
	resyncs := 0
	st := c.Stream(loop, 2, func() Event {
		resyncs++
		return Event{Kind: EventReplaceState, Replace: &entity.ReplaceState{}}
	})

	for i := range 5 {
		c.publish(updateEvent(i))
	}
	assert.Equal(t, int64(3), st.Dropped())
	assert.Equal(t, 0, resyncs)

	first := <-st.Events()
	second := <-st.Events()
	assert.Equal(t, 0, first.Update.Index)
	assert.Equal(t, 1, second.Update.Index)

	loop.Advance(resyncRetry)
	require.Equal(t, 1, resyncs)
	ev := <-st.Events()
	assert.Equal(t, EventReplaceState, ev.Kind)

	c.publish(updateEvent(9))
	ev = <-st.Events()
	assert.Equal(t, 9, ev.Update.Index, "delivery resumes after the resync")
}

func TestStream_OverflowFlushesOnNextEvent(t *testing.T) {
	loop := mainloop.NewManual()
	c := newChannel()
	st := c.Stream(loop, 1, func() Event {
		return Event{Kind: EventReplaceState, Replace: &entity.ReplaceState{}}
	})

	c.publish(updateEvent(0))
	c.publish(updateEvent(1))
	<-st.Events()

	// Room again: the next event is replaced by a snapshot.
	c.publish(updateEvent(2))
	ev := <-st.Events()
	assert.Equal(t, EventReplaceState, ev.Kind)
	assert.Equal(t, int64(2), st.Dropped())
	assert.Equal(t, 0, loop.PendingTimers())
}

func TestStream_Close(t *testing.T) {
	loop := mainloop.NewManual()
	c := newChannel()
	st := c.Stream(loop, 4, func() Event { return Event{Kind: EventReplaceState} })
	c.publish(updateEvent(0))

	st.Close()
	st.Close()
	loop.Drain()

	assert.Equal(t, 0, c.Len())
	ev, ok := <-st.Events()
	require.True(t, ok)
	assert.Equal(t, 0, ev.Update.Index)
	_, ok = <-st.Events()
	assert.False(t, ok)
}

func TestManagerStream_PrimedAndClosedWithWindow(t *testing.T) {
	h := newHarness(t)
	a := h.create("https://a.test/", CreateOptions{})

	st, err := h.m.Stream(h.win, 8)
	require.NoError(t, err)
	ev := <-st.Events()
	require.Equal(t, EventReplaceState, ev.Kind)
	require.Len(t, ev.Replace.Tabs, 1)
	assert.Equal(t, a.ID(), ev.Replace.Tabs[0].ID)

	h.m.Remove(h.ctx, h.win, a)
	h.loop.Drain()

	var kinds []EventKind
	for ev := range st.Events() {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, EventReplaceState)

	_, err = h.m.Stream(h.win, 8)
	assert.ErrorIs(t, err, ErrWindowNotFound)
}

func TestManager_OnStateChanged(t *testing.T) {
	h := newHarness(t)
	var changed []entity.WindowID
	h.m.OnStateChanged(func(win port.Window) { changed = append(changed, win.ID()) })

	h.create("https://a.test/", CreateOptions{})
	require.NotEmpty(t, changed)
	assert.Equal(t, h.win.ID(), changed[0])
}
