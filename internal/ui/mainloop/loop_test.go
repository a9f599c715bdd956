package mainloop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_AdvanceFiresTimersInOrder(t *testing.T) {
	loop := NewManual()
	var order []string

	loop.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	loop.AfterFunc(time.Second, func() {
		order = append(order, "a")
		loop.Post(func() { order = append(order, "a-post") })
	})

	loop.Advance(500 * time.Millisecond)
	assert.Empty(t, order)

	loop.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "a-post", "b"}, order)
	assert.Equal(t, 0, loop.PendingTimers())
}

func TestManual_StopPreventsFire(t *testing.T) {
	loop := NewManual()
	fired := false
	timer := loop.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	loop.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestDispatcher_RunsPostedWorkInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(ctx)
	go func() { _ = d.Run(ctx) }()

	var got []int
	for i := 0; i < 10; i++ {
		v := i
		d.Post(func() { got = append(got, v) })
	}
	require.NoError(t, Call(ctx, d, func() {}))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestDispatcher_TimerStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(ctx)
	go func() { _ = d.Run(ctx) }()

	var fired atomic.Bool
	timer := d.AfterFunc(20*time.Millisecond, func() { fired.Store(true) })
	assert.True(t, timer.Stop())

	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired.Load())

	done := make(chan struct{})
	d.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestCallValue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(ctx)
	go func() { _ = d.Run(ctx) }()

	v, err := CallValue(ctx, d, func() int { return 42 })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCallErr(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(ctx)
	go func() { _ = d.Run(ctx) }()

	ran := false
	require.NoError(t, CallErr(ctx, d, func() error { ran = true; return nil }))
	assert.True(t, ran)

	boom := errors.New("boom")
	assert.ErrorIs(t, CallErr(ctx, d, func() error { return boom }), boom)
}

func TestCallErr_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CallErr(ctx, NewManual(), func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
