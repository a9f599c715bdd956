package tabs

import (
	"context"
	"strings"

	"github.com/bnema/tabshell/internal/application/port"
	urlutil "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/logging"
)

// Chrome returns the window chrome the manager drives.
func (m *Manager) Chrome() port.ShellChrome { return m.chrome }

// FocusShell gives keyboard focus to the chrome of win.
func (m *Manager) FocusShell(win port.Window) {
	if win = port.TopWindow(win); win != nil && !win.IsDestroyed() {
		win.FocusShell()
	}
}

// FocusPage gives keyboard focus to the active page of win.
func (m *Manager) FocusPage(win port.Window) {
	t, err := m.Active(win)
	if err != nil {
		return
	}
	if p, err := t.ActivePane(); err == nil {
		p.Focus()
	}
}

// loadInActive loads target in the active tab of win, opening a tab if
// the window has none.
func (m *Manager) loadInActive(ctx context.Context, win port.Window, target string) {
	if t, err := m.Active(win); err == nil {
		if p, err := t.ActivePane(); err == nil {
			p.LoadURL(target)
			return
		}
	}
	if _, err := m.Create(ctx, win, target, CreateOptions{SetActive: true}); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to open location")
	}
}

// ShowTabContextMenu pops up the context menu of the tab at index.
func (m *Manager) ShowTabContextMenu(ctx context.Context, win port.Window, index int) error {
	s, err := m.lookup(win)
	if err != nil {
		return err
	}
	tab, ok := s.at(index)
	if !ok {
		return ErrTabNotFound
	}
	m.menu.Popup(s.win, m.tabMenuItems(ctx, s.win, tab))
	return nil
}

func (m *Manager) tabMenuItems(ctx context.Context, win port.Window, tab *Tab) []port.MenuItem {
	logErr := func(err error, msg string) {
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg(msg)
		}
	}
	pinLabel := "Pin Tab"
	if tab.isPinned {
		pinLabel = "Unpin Tab"
	}
	muteLabel := "Mute Tab"
	if p := tab.activePane; p != nil && p.alive() && p.surface.IsAudioMuted() {
		muteLabel = "Unmute Tab"
	}

	return []port.MenuItem{
		{Label: pinLabel, Click: func() { logErr(m.TogglePinned(ctx, win, tab), "toggle pinned failed") }},
		{Label: "Pop Out Tab", Click: func() { m.PopOutTab(ctx, tab) }},
		{Label: "Duplicate Tab", Click: func() {
			_, err := m.Create(ctx, win, tab.locationURL(), CreateOptions{SetActive: true, AdjacentActive: true})
			logErr(err, "duplicate tab failed")
		}},
		{Label: muteLabel, Click: func() {
			if p, err := tab.ActivePane(); err == nil {
				p.ToggleMuted()
			}
		}},
		{Label: "Minimize to Background", Click: func() { logErr(m.MinimizeToBg(ctx, win, tab), "minimize failed") }},
		{Separator: true},
		{Label: "Close Tab", Click: func() { m.Remove(ctx, win, tab) }},
		{Label: "Close Other Tabs", Click: func() { m.RemoveAllExcept(ctx, win, tab) }},
		{Label: "Close Tabs to the Right", Click: func() {
			if i := m.IndexOf(win, tab); i >= 0 {
				m.RemoveAllToRightOf(ctx, win, i)
			}
		}},
		{Separator: true},
		{Label: "New Tab", Click: func() {
			_, err := m.Create(ctx, win, "", CreateOptions{SetActive: true, FocusLocationBar: true})
			logErr(err, "new tab failed")
		}},
		{Label: "Reopen Closed Tab", Click: func() {
			_, err := m.ReopenLastRemoved(ctx, win)
			logErr(err, "reopen failed")
		}},
	}
}

// ShowLocationBarMenu pops up the edit menu of the location bar. When the
// clipboard holds text it offers to open it directly.
func (m *Manager) ShowLocationBarMenu(ctx context.Context, win port.Window) {
	clip := m.clipboard
	if clip == nil {
		m.popupLocationBarMenu(ctx, win, "")
		return
	}
	m.loop.Go(func() {
		text, err := clip.ReadText(ctx)
		if err != nil {
			logging.FromContext(ctx).Debug().Err(err).Msg("clipboard read failed")
			text = ""
		}
		m.loop.Post(func() { m.popupLocationBarMenu(ctx, win, text) })
	})
}

func (m *Manager) popupLocationBarMenu(ctx context.Context, win port.Window, clip string) {
	if win == nil || win.IsDestroyed() {
		return
	}
	items := []port.MenuItem{
		{Label: "Cut", Role: "cut"},
		{Label: "Copy", Role: "copy"},
		{Label: "Paste", Role: "paste"},
	}
	if text := strings.TrimSpace(clip); text != "" {
		in := urlutil.ExamineLocationInput(text, m.cfg.SearchURL)
		label := "Paste and Search"
		if in.IsProbablyURL {
			label = "Paste and Go"
		}
		target := in.Target()
		items = append(items, port.MenuItem{Label: label, Click: func() { m.loadInActive(ctx, win, target) }})
	}
	m.menu.Popup(win, items)
}
