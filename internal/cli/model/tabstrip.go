// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/tabshell/internal/app/api"
	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/cli/styles"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	// chromeLines is the space taken by the strip, status and help.
	chromeLines = 7
)

// Commander runs tab commands in a window.
type Commander interface {
	Command(ctx context.Context, win entity.WindowID, req api.CommandRequest) (json.RawMessage, error)
}

// EventSource yields a window's state events until the window closes.
type EventSource interface {
	Next() (tabs.Event, error)
}

// TabStripModel is a live view of one window's tabs that can drive them.
type TabStripModel struct {
	table   table.Model
	help    help.Model
	keys    styles.TabStripKeyMap
	spinner spinner.Model

	state    entity.ReplaceState
	bg       []entity.BackgroundTab
	loaded   bool
	showHelp bool
	status   string
	err      error
	width    int
	height   int

	ctx    context.Context
	win    entity.WindowID
	cmds   Commander
	events EventSource
	theme  *styles.Theme
}

// NewTabStripModel creates a tab strip for win fed by events.
func NewTabStripModel(ctx context.Context, theme *styles.Theme, win entity.WindowID, cmds Commander, events EventSource) TabStripModel {
	logging.FromContext(ctx).Debug().Str("window_id", string(win)).Msg("creating tab strip model")

	return TabStripModel{
		table:   styles.NewTabTable(theme, nil, defaultWidth, defaultHeight-chromeLines),
		help:    styles.NewStyledHelp(theme),
		keys:    styles.DefaultTabStripKeyMap(),
		spinner: styles.NewLoadingSpinner(theme),
		ctx:     ctx,
		win:     win,
		cmds:    cmds,
		events:  events,
		theme:   theme,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

// stateEventMsg carries one event from the window's stream.
type stateEventMsg struct {
	event tabs.Event
}

// streamEndedMsg is sent when the stream ends; err is nil when the window closed.
type streamEndedMsg struct {
	err error
}

// commandDoneMsg is sent when a command returns.
type commandDoneMsg struct {
	command string
	err     error
}

// Init implements tea.Model.
func (m TabStripModel) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent, m.spinner.Tick)
}

func (m TabStripModel) waitForEvent() tea.Msg {
	ev, err := m.events.Next()
	if errors.Is(err, io.EOF) {
		return streamEndedMsg{}
	}
	if err != nil {
		return streamEndedMsg{err: err}
	}
	return stateEventMsg{event: ev}
}

// Update implements tea.Model.
func (m TabStripModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(styles.TabTableColumns(m.width))
		m.table.SetWidth(m.width)
		m.table.SetHeight(max(m.height-chromeLines, 3))
		m.help.Width = m.width
		return m, nil

	case stateEventMsg:
		m.apply(msg.event)
		return m, m.waitForEvent

	case streamEndedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "window closed"
		}
		return m, tea.Quit

	case commandDoneMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("%s: %w", msg.command, msg.err)
		} else {
			m.err = nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m TabStripModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	index := m.table.Cursor()
	hasTab := index >= 0 && index < len(m.state.Tabs)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.New):
		setActive := true
		return m, m.run(api.CommandRequest{Command: "create-tab", SetActive: &setActive})
	case key.Matches(msg, m.keys.Next):
		return m, m.run(api.CommandRequest{Command: "change-active-by", Offset: 1})
	case key.Matches(msg, m.keys.Prev):
		return m, m.run(api.CommandRequest{Command: "change-active-by", Offset: -1})
	case key.Matches(msg, m.keys.Reopen):
		return m, m.run(api.CommandRequest{Command: "reopen-closed"})
	}

	if hasTab {
		if req, ok := m.tabCommand(msg, index); ok {
			return m, m.run(req)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// tabCommand maps a key acting on the selected tab to its command.
func (m TabStripModel) tabCommand(msg tea.KeyMsg, index int) (api.CommandRequest, bool) {
	at := func(name string) api.CommandRequest {
		return api.CommandRequest{Command: name, Index: &index}
	}
	switch {
	case key.Matches(msg, m.keys.Activate):
		return at("set-active"), true
	case key.Matches(msg, m.keys.Close):
		return at("close-tab"), true
	case key.Matches(msg, m.keys.Pin):
		return at("toggle-pinned"), true
	case key.Matches(msg, m.keys.Mute):
		return at("toggle-muted"), true
	case key.Matches(msg, m.keys.Reload):
		return at("reload"), true
	case key.Matches(msg, m.keys.Back):
		return at("go-back"), true
	case key.Matches(msg, m.keys.Forward):
		return at("go-forward"), true
	case key.Matches(msg, m.keys.Minimize):
		return at("minimize-to-bg"), true
	case key.Matches(msg, m.keys.MoveLeft):
		if index == 0 {
			return api.CommandRequest{}, false
		}
		req := at("reorder-tab")
		to := index - 1
		req.To = &to
		return req, true
	case key.Matches(msg, m.keys.MoveRight):
		if index >= len(m.state.Tabs)-1 {
			return api.CommandRequest{}, false
		}
		req := at("reorder-tab")
		to := index + 1
		req.To = &to
		return req, true
	}
	return api.CommandRequest{}, false
}

func (m TabStripModel) run(req api.CommandRequest) tea.Cmd {
	ctx, win, cmds := m.ctx, m.win, m.cmds
	return func() tea.Msg {
		_, err := cmds.Command(ctx, win, req)
		if err != nil {
			logging.FromContext(ctx).Debug().Err(err).Str("command", req.Command).Msg("tab command failed")
		}
		return commandDoneMsg{command: req.Command, err: err}
	}
}

// apply folds one state event into the view.
func (m *TabStripModel) apply(ev tabs.Event) {
	switch ev.Kind {
	case tabs.EventReplaceState:
		if ev.Replace == nil {
			return
		}
		m.state = *ev.Replace
		m.refreshRows()
		if !m.loaded {
			m.loaded = true
			if i := m.activeIndex(); i >= 0 {
				m.table.SetCursor(i)
			}
		}
	case tabs.EventUpdateState:
		if ev.Update == nil || ev.Update.Index < 0 || ev.Update.Index >= len(m.state.Tabs) {
			return
		}
		m.state.Tabs[ev.Update.Index] = ev.Update.State
		m.refreshRows()
	case tabs.EventBackgroundTabs:
		m.bg = ev.BackgroundTabs
	}
}

func (m *TabStripModel) refreshRows() {
	m.table.SetRows(styles.TabRows(m.state.Tabs))
	if c := m.table.Cursor(); c >= len(m.state.Tabs) && len(m.state.Tabs) > 0 {
		m.table.SetCursor(len(m.state.Tabs) - 1)
	}
}

func (m TabStripModel) activeIndex() int {
	for i, t := range m.state.Tabs {
		if t.IsActive {
			return i
		}
	}
	return -1
}

func (m TabStripModel) loading() bool {
	for _, t := range m.state.Tabs {
		if t.IsLoading {
			return true
		}
	}
	return false
}

// View implements tea.Model.
func (m TabStripModel) View() string {
	if !m.loaded {
		return "\n  " + m.spinner.View() + " " + m.theme.Subtle.Render("connecting to "+string(m.win)) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.theme.RenderTabStrip(m.state.Tabs, m.width))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	var status []string
	status = append(status, m.theme.WindowBadge(string(m.win)))
	status = append(status, m.theme.CountBadge(len(m.state.Tabs), "tab"))
	if len(m.bg) > 0 {
		status = append(status, m.theme.MutedBadge(styles.IconBg+" "+fmt.Sprint(len(m.bg))))
	}
	if m.loading() {
		status = append(status, m.spinner.View())
	}
	if m.status != "" {
		status = append(status, m.theme.Subtle.Render(m.status))
	}
	b.WriteString(strings.Join(status, " "))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.ErrorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Err returns the last error shown: a failed command or a broken stream.
func (m TabStripModel) Err() error {
	return m.err
}

// State returns the last known window state.
func (m TabStripModel) State() entity.ReplaceState {
	return m.state
}
