package tabs

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	urlutil "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/logging"
)

// CreateOptions controls where a new tab goes and whether it takes focus.
type CreateOptions struct {
	// SetActive makes the new tab the window's active tab.
	SetActive bool
	// SetActiveBySettings activates the tab when new tabs open in the foreground.
	SetActiveBySettings bool
	// AdjacentActive inserts the tab right after the active tab.
	AdjacentActive bool
	// Pinned inserts the tab at the end of the pinned prefix.
	Pinned bool
	// TabIndex is an explicit insert position, clamped outside the pinned prefix.
	TabIndex *int
	// FocusLocationBar focuses the window's location bar after creation.
	FocusLocationBar bool
}

// --- creation ---

// tabWindow resolves win to a top-level window that can hold tabs.
// App windows are bound to one origin, so tabs go to an ordinary window.
func (m *Manager) tabWindow(ctx context.Context, win port.Window) (port.Window, error) {
	win = port.TopWindow(win)
	if win != nil && !win.IsAppWindow() && !win.IsDestroyed() {
		return win, nil
	}
	w, err := m.windows.GetOrCreateNonAppWindow(ctx)
	if err != nil {
		return nil, fmt.Errorf("get non-app window: %w", err)
	}
	return port.TopWindow(w), nil
}

// Create opens targetURL in a new tab of win. An empty URL opens the
// default new-tab URL, reusing the window's preloaded tab when possible.
func (m *Manager) Create(ctx context.Context, win port.Window, targetURL string, opts CreateOptions) (*Tab, error) {
	win, err := m.tabWindow(ctx, win)
	if err != nil {
		return nil, err
	}
	if targetURL == "" {
		targetURL = m.cfg.NewTabURL
	}
	if urlutil.Scheme(targetURL) == "javascript" {
		return nil, ErrUnsupportedURL
	}

	s := m.set(win)
	wctx := m.windowCtx(win)

	var tab *Tab
	needsLoad := false
	if targetURL == m.cfg.NewTabURL && !opts.Pinned && s.preloaded != nil {
		tab = s.preloaded
		s.preloaded = nil
		tab.isHidden = false
		tab.creationTime = m.loop.Now()
	} else {
		tab, err = newTab(wctx, m, win, tabOptions{pinned: opts.Pinned})
		if err != nil {
			return nil, err
		}
		tab.requestedURL = targetURL
		needsLoad = true
	}
	if m.nextScriptCloseable {
		tab.isScriptClosable = true
		m.nextScriptCloseable = false
	}

	s.insert(m.insertIndex(s, opts), tab)
	// Loading starts after insertion: surface events fired during the load
	// look the tab up in its window.
	if needsLoad {
		tab.activePane.LoadURL(targetURL)
	}

	if opts.SetActive || (opts.SetActiveBySettings && m.cfg.NewTabsInForeground) || s.active() == nil {
		m.setActive(s, tab)
	} else {
		m.emitReplaceState(s)
	}
	if opts.FocusLocationBar {
		win.SendCommand(port.CommandFocusLocation)
	}
	m.schedulePreload(s)
	if tab.isPinned {
		m.SavePins(ctx, win)
	}

	logging.FromContext(tab.ctx).Debug().
		Str("url", logging.TruncateURL(targetURL, 80)).
		Bool("reused_preload", !needsLoad).
		Int("index", s.indexOf(tab)).
		Msg("tab created")
	return tab, nil
}

func (m *Manager) insertIndex(s *windowTabs, opts CreateOptions) int {
	pinned := s.numPinned()
	switch {
	case opts.Pinned:
		return pinned
	case opts.TabIndex != nil:
		return min(max(*opts.TabIndex, pinned), len(s.tabs))
	case opts.AdjacentActive:
		if a := s.active(); a != nil {
			return max(s.indexOf(a)+1, pinned)
		}
	}
	return len(s.tabs)
}

// schedulePreload (re)starts the debounce that creates the window's hidden
// new-tab page.
func (m *Manager) schedulePreload(s *windowTabs) {
	if s.preloadTimer != nil {
		s.preloadTimer.Stop()
	}
	s.preloadTimer = m.loop.AfterFunc(m.cfg.PreloadDelay, func() {
		s.preloadTimer = nil
		if s.closed || s.preloaded != nil {
			return
		}
		t, err := newTab(m.windowCtx(s.win), m, s.win, tabOptions{hidden: true})
		if err != nil {
			logging.FromContext(m.ctx).Warn().Err(err).Msg("failed to preload tab")
			return
		}
		t.requestedURL = m.cfg.NewTabURL
		t.activePane.LoadURL(m.cfg.NewTabURL)
		s.preloaded = t
	})
}

// CreateBg opens targetURL in a hidden tab of the background pool.
func (m *Manager) CreateBg(ctx context.Context, targetURL string) (*Tab, error) {
	if targetURL == "" {
		targetURL = m.cfg.NewTabURL
	}
	tab, err := newTab(m.ctx, m, nil, tabOptions{hidden: true})
	if err != nil {
		return nil, err
	}
	tab.requestedURL = targetURL
	m.bgTabs = append(m.bgTabs, tab)
	tab.activePane.LoadURL(targetURL)
	m.notifyBackgroundTabs()
	logging.FromContext(ctx).Debug().Str("tab_id", string(tab.id)).Msg("background tab created")
	return tab, nil
}

// OpenOrFocus activates the tab of win already showing targetURL, or opens it.
func (m *Manager) OpenOrFocus(ctx context.Context, win port.Window, targetURL string) (*Tab, error) {
	if s, err := m.lookup(win); err == nil {
		for _, t := range s.tabs {
			if t.url() == targetURL {
				m.setActive(s, t)
				return t, nil
			}
		}
	}
	return m.Create(ctx, win, targetURL, CreateOptions{SetActive: true})
}

// --- removal ---

// Remove closes tab after giving its pages a chance to veto unloading.
// The completion is canceled with ErrRemovalCanceled when the user stays.
func (m *Manager) Remove(ctx context.Context, win port.Window, tab *Tab) *Completion {
	s, err := m.lookup(win)
	if err == nil && s.indexOf(tab) < 0 {
		err = ErrTabNotFound
	}
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("remove: tab not in window")
		return settledCompletion(err)
	}

	c := newCompletion()
	m.confirmUnload(ctx, tab, func(leave bool) {
		if !leave {
			c.cancel(ErrRemovalCanceled)
			return
		}
		if tab.alive() && s.indexOf(tab) >= 0 {
			m.removeNow(ctx, s, tab)
		}
		c.resolve()
	})
	return c
}

// confirmUnload dispatches beforeunload to the tab's idle panes. A veto asks
// the user; no answer within UnloadTimeout counts as no veto.
func (m *Manager) confirmUnload(ctx context.Context, tab *Tab, done func(leave bool)) {
	var surfaces []port.ContentSurface
	for _, p := range tab.panes {
		if p.alive() && !p.surface.IsLoading() && !p.surface.IsWaitingForResponse() {
			surfaces = append(surfaces, p.surface)
		}
	}
	if len(surfaces) == 0 {
		done(true)
		return
	}

	win := tab.window
	settled := false
	finish := func(veto bool) {
		if settled {
			return
		}
		settled = true
		if !veto || win == nil || win.IsDestroyed() {
			done(true)
			return
		}
		m.dialog.ConfirmLeave(ctx, win, done)
	}

	timer := m.loop.AfterFunc(m.cfg.UnloadTimeout, func() {
		if !settled {
			logging.FromContext(tab.ctx).Debug().Msg("beforeunload timed out")
		}
		finish(false)
	})
	m.loop.Go(func() {
		vetoes := make([]bool, len(surfaces))
		g, gctx := errgroup.WithContext(ctx)
		for i, surface := range surfaces {
			g.Go(func() error {
				veto, err := surface.DispatchBeforeUnload(gctx)
				if err != nil {
					logging.FromContext(ctx).Debug().Err(err).Msg("beforeunload failed")
					return nil
				}
				vetoes[i] = veto
				return nil
			})
		}
		_ = g.Wait()
		veto := false
		for _, v := range vetoes {
			veto = veto || v
		}
		m.loop.Post(func() {
			timer.Stop()
			finish(veto)
		})
	})
}

func (m *Manager) removeNow(ctx context.Context, s *windowTabs, tab *Tab) {
	index := s.indexOf(tab)
	wasActive := tab.isActive
	wasPinned := tab.isPinned

	s.pushClosed(tab.locationURL())
	s.removeAt(index)
	tab.destroy()

	if wasPinned {
		m.SavePins(ctx, s.win)
	}
	if len(s.tabs) == 0 {
		logging.FromContext(m.windowCtx(s.win)).Debug().Msg("last tab removed, closing window")
		m.emitReplaceState(s)
		s.win.Close()
		return
	}
	if wasActive {
		m.setActive(s, s.tabs[min(index, len(s.tabs)-1)])
		return
	}
	m.emitReplaceState(s)
}

// removeEmptyTab drops a tab whose last pane was removed.
func (m *Manager) removeEmptyTab(t *Tab) {
	if t.window == nil {
		m.closeBgTab(t)
		return
	}
	if s, err := m.lookup(t.window); err == nil && s.preloaded == t {
		s.preloaded = nil
		t.destroy()
		return
	}
	m.Remove(t.ctx, t.window, t)
}

// RemoveAllExcept closes every tab of win but keep.
func (m *Manager) RemoveAllExcept(ctx context.Context, win port.Window, keep *Tab) {
	for _, t := range m.Tabs(win) {
		if t != keep {
			m.Remove(ctx, win, t)
		}
	}
}

// RemoveAllToRightOf closes the tabs of win after index.
func (m *Manager) RemoveAllToRightOf(ctx context.Context, win port.Window, index int) {
	tabs := m.Tabs(win)
	for i := len(tabs) - 1; i > index; i-- {
		m.Remove(ctx, win, tabs[i])
	}
}

// ReopenLastRemoved opens the most recently closed URL of win again.
func (m *Manager) ReopenLastRemoved(ctx context.Context, win port.Window) (*Tab, error) {
	s, err := m.lookup(win)
	if err != nil {
		return nil, err
	}
	u, ok := s.popClosed()
	if !ok {
		return nil, nil
	}
	return m.Create(ctx, win, u, CreateOptions{SetActive: true})
}

// scriptCloseSelf honors window.close() from tabs opened for scripts and
// from internal pages.
func (m *Manager) scriptCloseSelf(ctx context.Context, p *Pane) {
	t := p.tab
	if !t.isScriptClosable && urlutil.Scheme(p.URL()) != entity.InternalScheme {
		logging.FromContext(ctx).Debug().Msg("ignoring window.close from a tab not opened by script")
		return
	}
	if t.window == nil {
		m.closeBgTab(t)
		return
	}
	m.Remove(ctx, t.window, t)
}

// --- background pool ---

// MinimizeToBg moves tab from win to the background pool, unpinning it.
// A window is never left without tabs: a new one is opened if needed.
func (m *Manager) MinimizeToBg(ctx context.Context, win port.Window, tab *Tab) error {
	s, err := m.lookup(win)
	if err != nil {
		return err
	}
	index := s.indexOf(tab)
	if index < 0 {
		logging.FromContext(ctx).Warn().Msg("minimize: tab not in window")
		return ErrTabNotFound
	}

	wasActive := tab.isActive
	wasPinned := tab.isPinned
	tab.deactivate()
	s.removeAt(index)
	tab.isPinned = false
	tab.isHidden = true
	tab.window = nil
	m.bgTabs = append(m.bgTabs, tab)

	switch {
	case len(s.tabs) == 0:
		if _, err := m.Create(ctx, s.win, "", CreateOptions{SetActive: true}); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("failed to open replacement tab")
		}
	case wasActive:
		m.setActive(s, s.tabs[min(index, len(s.tabs)-1)])
	default:
		m.emitReplaceState(s)
	}
	if wasPinned {
		m.SavePins(ctx, s.win)
	}
	s.win.SendCommand(port.CommandMinimizeToBgAnim)
	m.notifyBackgroundTabs()
	return nil
}

// RestoreBgTabByIndex moves a background tab into win as its active tab.
// Restored tabs always go at the end, unpinned.
func (m *Manager) RestoreBgTabByIndex(ctx context.Context, win port.Window, index int) (*Tab, error) {
	if index < 0 || index >= len(m.bgTabs) {
		logging.FromContext(ctx).Warn().Int("index", index).Msg("restore: no background tab at index")
		return nil, ErrTabNotFound
	}
	win, err := m.tabWindow(ctx, win)
	if err != nil {
		return nil, err
	}
	tab := m.bgTabs[index]
	m.bgTabs = append(m.bgTabs[:index], m.bgTabs[index+1:]...)

	s := m.set(win)
	tab.window = win
	tab.isHidden = false
	tab.isPinned = false
	tab.creationTime = m.loop.Now()
	s.tabs = append(s.tabs, tab)
	m.setActive(s, tab)
	m.notifyBackgroundTabs()
	return tab, nil
}

// CloseBgTab destroys the background tab at index.
func (m *Manager) CloseBgTab(index int) error {
	if index < 0 || index >= len(m.bgTabs) {
		return ErrTabNotFound
	}
	m.closeBgTab(m.bgTabs[index])
	return nil
}

func (m *Manager) closeBgTab(t *Tab) {
	for i, bg := range m.bgTabs {
		if bg == t {
			m.bgTabs = append(m.bgTabs[:i], m.bgTabs[i+1:]...)
			break
		}
	}
	t.destroy()
	m.notifyBackgroundTabs()
}

// BackgroundTabs returns the background pool.
func (m *Manager) BackgroundTabs() []*Tab {
	return append([]*Tab(nil), m.bgTabs...)
}

// GetBackgroundTabs lists the background pool for the UI.
func (m *Manager) GetBackgroundTabs() []entity.BackgroundTab {
	out := make([]entity.BackgroundTab, 0, len(m.bgTabs))
	for _, t := range m.bgTabs {
		out = append(out, entity.BackgroundTab{URL: t.locationURL(), Title: t.title()})
	}
	return out
}

// --- moving tabs between windows ---

// TransferTabToWindow moves tab with all its panes to target. The source
// window closes when it has no tabs left.
func (m *Manager) TransferTabToWindow(ctx context.Context, tab *Tab, target port.Window) error {
	target = port.TopWindow(target)
	if target == nil || target.IsDestroyed() {
		return ErrWindowNotFound
	}
	src, err := m.lookup(tab.window)
	if err != nil {
		return err
	}
	index := src.indexOf(tab)
	if index < 0 {
		return ErrTabNotFound
	}
	if src.win.ID() == target.ID() {
		return nil
	}

	wasActive := tab.isActive
	src.removeAt(index)
	tab.transferWindow(target)

	dst := m.set(target)
	if tab.isPinned {
		dst.insert(dst.numPinned(), tab)
	} else {
		dst.tabs = append(dst.tabs, tab)
	}
	if dst.active() == nil {
		m.setActive(dst, tab)
	} else {
		m.emitReplaceState(dst)
	}

	switch {
	case len(src.tabs) == 0:
		m.emitReplaceState(src)
		src.win.Close()
	case wasActive:
		m.setActive(src, src.tabs[min(index, len(src.tabs)-1)])
	default:
		m.emitReplaceState(src)
	}
	if tab.isPinned {
		m.SavePins(ctx, src.win)
		m.SavePins(ctx, target)
	}
	logging.FromContext(tab.ctx).Debug().Str("target_window", string(target.ID())).Msg("tab transferred")
	return nil
}

// PopOutTab moves tab into a new window.
func (m *Manager) PopOutTab(ctx context.Context, tab *Tab) *Completion {
	c := newCompletion()
	m.loop.Go(func() {
		win, err := m.windows.CreateShellWindow(ctx)
		m.loop.Post(func() {
			if err != nil {
				logging.FromContext(ctx).Warn().Err(err).Msg("failed to create window for pop-out")
				c.cancel(fmt.Errorf("create window: %w", err))
				return
			}
			if !tab.alive() {
				c.cancel(ErrDestroyed)
				return
			}
			if err := m.TransferTabToWindow(ctx, tab, win); err != nil {
				c.cancel(err)
				return
			}
			c.resolve()
		})
	})
	return c
}

// --- selection ---

// SetActive makes tab the active tab of win.
func (m *Manager) SetActive(win port.Window, tab *Tab) error {
	s, err := m.lookup(win)
	if err != nil {
		return err
	}
	if s.indexOf(tab) < 0 {
		logging.FromContext(m.ctx).Warn().Msg("set active: tab not in window")
		return ErrTabNotFound
	}
	m.setActive(s, tab)
	return nil
}

func (m *Manager) setActive(s *windowTabs, tab *Tab) {
	if prev := s.active(); prev != nil && prev != tab {
		s.lastSelected = s.indexOf(prev)
		prev.deactivate()
	}
	if !tab.isActive {
		tab.activate()
	}
	m.chrome.SetCurrentLocation(s.win, tab.url())
	m.emitReplaceState(s)
}

// ChangeActiveBy moves the selection by offset, wrapping around.
func (m *Manager) ChangeActiveBy(win port.Window, offset int) {
	s, err := m.lookup(win)
	if err != nil || len(s.tabs) < 2 {
		return
	}
	i := s.indexOf(s.active())
	if i < 0 {
		return
	}
	n := len(s.tabs)
	i = ((i+offset)%n + n) % n
	m.setActive(s, s.tabs[i])
}

// ChangeActiveTo selects the tab at index.
func (m *Manager) ChangeActiveTo(win port.Window, index int) {
	s, err := m.lookup(win)
	if err != nil {
		return
	}
	if t, ok := s.at(index); ok {
		m.setActive(s, t)
	}
}

// ChangeActiveToLast selects the last tab.
func (m *Manager) ChangeActiveToLast(win port.Window) {
	s, err := m.lookup(win)
	if err != nil || len(s.tabs) == 0 {
		return
	}
	m.setActive(s, s.tabs[len(s.tabs)-1])
}

// GetPreviousTabIndex returns the index of the previously selected tab.
func (m *Manager) GetPreviousTabIndex(win port.Window) int {
	s, err := m.lookup(win)
	if err != nil {
		return -1
	}
	return s.lastSelected
}

// --- ordering and pins ---

// Reorder moves the tab at oldIndex to newIndex, keeping pinned and
// unpinned tabs on their side of the boundary.
func (m *Manager) Reorder(win port.Window, oldIndex, newIndex int) error {
	s, err := m.lookup(win)
	if err != nil {
		return err
	}
	tab, ok := s.at(oldIndex)
	if !ok {
		return ErrTabNotFound
	}
	pinned := s.numPinned()
	if tab.isPinned {
		newIndex = min(max(newIndex, 0), pinned-1)
	} else {
		newIndex = min(max(newIndex, pinned), len(s.tabs)-1)
	}
	if newIndex != oldIndex {
		s.removeAt(oldIndex)
		s.insert(newIndex, tab)
	}
	m.emitReplaceState(s)
	if tab.isPinned {
		m.SavePins(m.ctx, s.win)
	}
	return nil
}

// TogglePinned pins or unpins tab, moving it to the pinned boundary.
func (m *Manager) TogglePinned(ctx context.Context, win port.Window, tab *Tab) error {
	s, err := m.lookup(win)
	if err != nil {
		return err
	}
	index := s.indexOf(tab)
	if index < 0 {
		logging.FromContext(ctx).Warn().Msg("toggle pinned: tab not in window")
		return ErrTabNotFound
	}
	s.removeAt(index)
	tab.isPinned = !tab.isPinned
	s.insert(s.numPinned(), tab)

	m.SavePins(ctx, s.win)
	m.emitReplaceState(s)
	return nil
}

// SavePins persists the URLs of the pinned tabs of win. Writes are
// serialized; only the latest pending list is written.
func (m *Manager) SavePins(ctx context.Context, win port.Window) {
	if m.settings == nil {
		return
	}
	s, err := m.lookup(win)
	if err != nil {
		return
	}
	data, err := json.Marshal(s.pinnedURLs())
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to encode pinned tabs")
		return
	}
	m.pendingPins = string(data)
	m.hasPendingPins = true
	if !m.pinsWriting {
		m.writePins(ctx)
	}
}

func (m *Manager) writePins(ctx context.Context) {
	value := m.pendingPins
	m.hasPendingPins = false
	m.pinsWriting = true
	settings := m.settings
	m.loop.Go(func() {
		err := settings.Set(ctx, repository.SettingPinnedTabs, value)
		m.loop.Post(func() {
			m.pinsWriting = false
			if err != nil {
				logging.FromContext(ctx).Warn().Err(err).Msg("failed to save pinned tabs")
			}
			if m.hasPendingPins {
				m.writePins(ctx)
			}
		})
	})
}

// LoadPins opens the saved pinned tabs in win.
func (m *Manager) LoadPins(ctx context.Context, win port.Window) *Completion {
	if m.settings == nil {
		return settledCompletion(nil)
	}
	c := newCompletion()
	settings := m.settings
	m.loop.Go(func() {
		raw, err := settings.Get(ctx, repository.SettingPinnedTabs)
		m.loop.Post(func() {
			if err != nil {
				logging.FromContext(ctx).Warn().Err(err).Msg("failed to load pinned tabs")
				c.cancel(err)
				return
			}
			var urls []string
			if raw != "" {
				if err := json.Unmarshal([]byte(raw), &urls); err != nil {
					logging.FromContext(ctx).Warn().Err(err).Msg("invalid pinned tabs setting")
					c.cancel(fmt.Errorf("decode pinned tabs: %w", err))
					return
				}
			}
			for _, u := range urls {
				if u == "" {
					continue
				}
				if _, err := m.Create(ctx, win, u, CreateOptions{Pinned: true}); err != nil {
					logging.FromContext(ctx).Warn().Err(err).Str("url", u).Msg("failed to restore pinned tab")
				}
			}
			c.resolve()
		})
	})
	return c
}

// --- session snapshots ---

// TakeSnapshot returns the URLs of the unpinned tabs of win.
func (m *Manager) TakeSnapshot(win port.Window) []string {
	s, err := m.lookup(win)
	if err != nil {
		return nil
	}
	urls := make([]string, 0, len(s.tabs))
	for _, t := range s.tabs {
		if !t.isPinned {
			if u := t.locationURL(); u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}

// InitializeFromSnapshot opens one tab per snapshot URL in win.
func (m *Manager) InitializeFromSnapshot(ctx context.Context, win port.Window, urls []string) error {
	for _, u := range urls {
		if _, err := m.Create(ctx, win, u, CreateOptions{}); err != nil {
			return fmt.Errorf("restore %s: %w", logging.TruncateURL(u, 80), err)
		}
	}
	return nil
}
