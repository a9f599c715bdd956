package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	repomocks "github.com/bnema/tabshell/internal/domain/repository/mocks"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

type testWindow struct {
	port.Window
	id  entity.WindowID
	app bool
}

func (w *testWindow) ID() entity.WindowID { return w.id }
func (w *testWindow) IsAppWindow() bool   { return w.app }

type testProvider struct {
	windows  []port.Window
	urls     map[entity.WindowID][]string
	onChange []func(port.Window)
}

func (p *testProvider) Windows() []port.Window { return p.windows }
func (p *testProvider) TakeSnapshot(win port.Window) []string {
	return p.urls[win.ID()]
}
func (p *testProvider) OnStateChanged(fn func(port.Window)) {
	p.onChange = append(p.onChange, fn)
}

func (p *testProvider) changed() {
	for _, fn := range p.onChange {
		fn(p.windows[0])
	}
}

func newTestService(t *testing.T) (*Service, *testProvider, *repomocks.MockSettingsRepository, *mainloop.Manual) {
	t.Helper()
	loop := mainloop.NewManual()
	provider := &testProvider{
		windows: []port.Window{
			&testWindow{id: "w1"},
			&testWindow{id: "w2", app: true},
			&testWindow{id: "w3"},
		},
		urls: map[entity.WindowID][]string{
			"w1": {"https://a.test/", "https://b.test/"},
			"w2": {"https://app.test/"},
		},
	}
	settings := repomocks.NewMockSettingsRepository(t)
	s := NewService(loop, provider, settings, time.Second)
	s.Start(context.Background())
	return s, provider, settings, loop
}

func TestService_DebouncesBursts(t *testing.T) {
	s, provider, settings, loop := newTestService(t)
	s.SetReady()

	settings.EXPECT().
		Set(mock.Anything, repository.SettingSessionSnapshot, `[["https://a.test/","https://b.test/"]]`).
		Return(nil).
		Once()

	provider.changed()
	provider.changed()
	loop.Drain()
	loop.Advance(500 * time.Millisecond)
	provider.changed()
	loop.Advance(900 * time.Millisecond)
	settings.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)

	loop.Advance(200 * time.Millisecond)
	assert.Equal(t, 0, loop.PendingTimers())
}

func TestService_WaitsUntilReady(t *testing.T) {
	s, provider, settings, loop := newTestService(t)

	provider.changed()
	loop.Advance(2 * time.Second)
	settings.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)

	settings.EXPECT().Set(mock.Anything, repository.SettingSessionSnapshot, mock.Anything).Return(nil).Once()
	s.SetReady()
	s.SetReady()
}

func TestService_SaveNow(t *testing.T) {
	s, provider, settings, loop := newTestService(t)
	s.SetReady()
	provider.changed()
	loop.Drain()

	settings.EXPECT().Set(mock.Anything, repository.SettingSessionSnapshot, mock.Anything).Return(nil).Once()

	done := make(chan error, 1)
	go func() { done <- s.Stop(context.Background()) }()

	deadline := time.After(2 * time.Second)
	for {
		loop.Drain()
		select {
		case err := <-done:
			require.NoError(t, err)
			assert.Equal(t, 0, loop.PendingTimers(), "the pending debounce is canceled")
			return
		case <-deadline:
			t.Fatal("SaveNow did not finish")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestService_Restore(t *testing.T) {
	s, _, settings, _ := newTestService(t)
	ctx := context.Background()

	settings.EXPECT().Get(mock.Anything, repository.SettingSessionSnapshot).Return(`[["https://a.test/"],["https://c.test/"]]`, nil).Once()
	windows, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"https://a.test/"}, {"https://c.test/"}}, windows)

	settings.EXPECT().Get(mock.Anything, repository.SettingSessionSnapshot).Return("", nil).Once()
	windows, err = s.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, windows)

	settings.EXPECT().Get(mock.Anything, repository.SettingSessionSnapshot).Return("{", nil).Once()
	_, err = s.Restore(ctx)
	assert.Error(t, err)
}

func TestService_StaleWritesAreSkipped(t *testing.T) {
	s, _, settings, _ := newTestService(t)
	ctx := context.Background()

	settings.EXPECT().Set(mock.Anything, repository.SettingSessionSnapshot, `[["https://new.test/"]]`).Return(nil).Once()
	require.NoError(t, s.write(ctx, 2, [][]string{{"https://new.test/"}}))
	require.NoError(t, s.write(ctx, 1, [][]string{{"https://old.test/"}}))
}
