package model

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/app/api"
	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/cli/styles"
	"github.com/bnema/tabshell/internal/domain/entity"
)

type fakeCommander struct {
	mu   sync.Mutex
	reqs []api.CommandRequest
	err  error
}

func (f *fakeCommander) Command(_ context.Context, _ entity.WindowID, req api.CommandRequest) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return nil, f.err
}

func (f *fakeCommander) last(t *testing.T) api.CommandRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.reqs)
	return f.reqs[len(f.reqs)-1]
}

type fakeSource struct {
	events []tabs.Event
	err    error
}

func (f *fakeSource) Next() (tabs.Event, error) {
	if len(f.events) == 0 {
		if f.err != nil {
			return tabs.Event{}, f.err
		}
		return tabs.Event{}, io.EOF
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func replace(tabStates ...entity.TabState) tabs.Event {
	return tabs.Event{Kind: tabs.EventReplaceState, Replace: &entity.ReplaceState{Tabs: tabStates}}
}

func newTestStrip(t *testing.T, src *fakeSource) (TabStripModel, *fakeCommander) {
	t.Helper()
	cmds := &fakeCommander{}
	m := NewTabStripModel(context.Background(), styles.NewTheme(), "w1", cmds, src)
	return m, cmds
}

func update(t *testing.T, m TabStripModel, msg tea.Msg) (TabStripModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(TabStripModel)
	require.True(t, ok)
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T) (TabStripModel, *fakeCommander) {
	t.Helper()
	m, cmds := newTestStrip(t, &fakeSource{})
	m, _ = update(t, m, stateEventMsg{event: replace(
		entity.TabState{ID: "a", Title: "Alpha", URL: "https://a.test/"},
		entity.TabState{ID: "b", Title: "Beta", URL: "https://b.test/", IsActive: true},
		entity.TabState{ID: "c", Title: "Gamma", URL: "https://c.test/"},
	)})
	return m, cmds
}

func TestTabStrip_ReplaceStateSelectsActiveTab(t *testing.T) {
	m, _ := loaded(t)

	assert.Len(t, m.State().Tabs, 3)
	assert.Equal(t, 1, m.table.Cursor())
	assert.Contains(t, m.View(), "Beta")
}

func TestTabStrip_UpdateStateReplacesOneTab(t *testing.T) {
	m, _ := loaded(t)

	m, _ = update(t, m, stateEventMsg{event: tabs.Event{
		Kind:   tabs.EventUpdateState,
		Update: &entity.UpdateState{Index: 2, State: entity.TabState{ID: "c", Title: "Gamma 2", IsLoading: true}},
	}})
	assert.Equal(t, "Gamma 2", m.State().Tabs[2].Title)
	assert.True(t, m.loading())

	// Out of range updates are ignored.
	m, _ = update(t, m, stateEventMsg{event: tabs.Event{
		Kind:   tabs.EventUpdateState,
		Update: &entity.UpdateState{Index: 9, State: entity.TabState{Title: "nope"}},
	}})
	assert.Len(t, m.State().Tabs, 3)
}

func TestTabStrip_BackgroundTabsShowInStatus(t *testing.T) {
	m, _ := loaded(t)
	m, _ = update(t, m, stateEventMsg{event: tabs.Event{
		Kind:           tabs.EventBackgroundTabs,
		BackgroundTabs: []entity.BackgroundTab{{URL: "https://bg.test/"}},
	}})
	assert.Len(t, m.bg, 1)
	assert.Contains(t, m.View(), styles.IconBg+" 1")
}

func TestTabStrip_KeysSendCommandsForSelectedTab(t *testing.T) {
	tests := []struct {
		name    string
		msg     tea.KeyMsg
		command string
		index   *int
		to      *int
	}{
		{"enter activates", tea.KeyMsg{Type: tea.KeyEnter}, "set-active", intPtr(1), nil},
		{"x closes", runes("x"), "close-tab", intPtr(1), nil},
		{"p pins", runes("p"), "toggle-pinned", intPtr(1), nil},
		{"m mutes", runes("m"), "toggle-muted", intPtr(1), nil},
		{"r reloads", runes("r"), "reload", intPtr(1), nil},
		{"b minimizes", runes("b"), "minimize-to-bg", intPtr(1), nil},
		{"< moves left", runes("<"), "reorder-tab", intPtr(1), intPtr(0)},
		{"> moves right", runes(">"), "reorder-tab", intPtr(1), intPtr(2)},
		{"u reopens", runes("u"), "reopen-closed", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmds := loaded(t)
			_, cmd := update(t, m, tt.msg)
			require.NotNil(t, cmd)

			msg := cmd()
			done, ok := msg.(commandDoneMsg)
			require.True(t, ok)
			assert.NoError(t, done.err)

			req := cmds.last(t)
			assert.Equal(t, tt.command, req.Command)
			assert.Equal(t, tt.index, req.Index)
			assert.Equal(t, tt.to, req.To)
		})
	}
}

func TestTabStrip_NewTabIsActivated(t *testing.T) {
	m, cmds := loaded(t)
	_, cmd := update(t, m, runes("t"))
	require.NotNil(t, cmd)
	cmd()

	req := cmds.last(t)
	assert.Equal(t, "create-tab", req.Command)
	require.NotNil(t, req.SetActive)
	assert.True(t, *req.SetActive)
}

func TestTabStrip_CursorMovesWithArrowKeys(t *testing.T) {
	m, cmds := loaded(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.table.Cursor())

	_, cmd := update(t, m, runes("x"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, intPtr(2), cmds.last(t).Index)
}

func TestTabStrip_MoveRightAtEndDoesNothing(t *testing.T) {
	m, cmds := loaded(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	_, _ = update(t, m, runes(">"))
	assert.Empty(t, cmds.reqs)
}

func TestTabStrip_CommandErrorIsShown(t *testing.T) {
	m, _ := loaded(t)
	m, _ = update(t, m, commandDoneMsg{command: "reload", err: errors.New("boom")})
	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "reload: boom")

	m, _ = update(t, m, commandDoneMsg{command: "reload"})
	assert.NoError(t, m.Err())
}

func TestTabStrip_StreamEndQuits(t *testing.T) {
	m, _ := newTestStrip(t, &fakeSource{})
	msg := m.waitForEvent()
	ended, ok := msg.(streamEndedMsg)
	require.True(t, ok)
	assert.NoError(t, ended.err)

	m, cmd := update(t, m, ended)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, "window closed", m.status)
}

func TestTabStrip_StreamErrorIsKept(t *testing.T) {
	m, _ := newTestStrip(t, &fakeSource{err: errors.New("reset")})
	ended, ok := m.waitForEvent().(streamEndedMsg)
	require.True(t, ok)

	m, _ = update(t, m, ended)
	assert.EqualError(t, m.Err(), "reset")
}

func TestTabStrip_ConnectingViewBeforeFirstEvent(t *testing.T) {
	m, _ := newTestStrip(t, &fakeSource{})
	assert.Contains(t, m.View(), "connecting to w1")
}

func TestTabStrip_WindowResize(t *testing.T) {
	m, _ := loaded(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Equal(t, 120, m.help.Width)
}

func intPtr(v int) *int { return &v }
