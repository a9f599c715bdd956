// Package tabs manages the tabs and panes of the shell windows: their
// lifecycle, ordering, selection and the per-window state broadcast.
//
// Every Manager, Tab and Pane method runs on the control thread of the
// Manager's loop unless documented otherwise.
package tabs

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/application/usecase"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	urlutil "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// Manager owns the tab sets of all windows and the background tab pool.
type Manager struct {
	ctx  context.Context
	loop mainloop.Loop

	host    port.ContentHost
	windows port.WindowSystem

	prompts     port.Prompts
	permPrompts port.Overlay
	modals      port.Overlay
	chrome      port.ShellChrome
	dialog      port.Dialog
	menu        port.Menu
	clipboard   port.Clipboard
	drives      port.DriveService

	settings    repository.SettingsRepository
	bookmarks   repository.BookmarkRepository
	folderSync  repository.FolderSyncRepository
	permissions repository.PermissionRepository

	zoomUC    *usecase.ManageZoomUseCase
	historyUC *usecase.RecordHistoryUseCase
	imagesUC  *usecase.SavePageImagesUseCase

	newID port.IDGenerator
	cfg   Config

	sets        map[entity.WindowID]*windowTabs
	bgTabs      []*Tab
	noRedirects map[string]struct{}

	visitedProfile      bool
	nextScriptCloseable bool

	pendingPins    string
	hasPendingPins bool
	pinsWriting    bool

	stateListeners []func(win port.Window)
}

// NewManager creates a Manager and registers it for window and drive events.
// Must be called on the control thread.
func NewManager(ctx context.Context, cfg ManagerConfig) (*Manager, error) {
	switch {
	case cfg.Loop == nil:
		return nil, errors.New("tabs: loop is required")
	case cfg.Host == nil:
		return nil, errors.New("tabs: content host is required")
	case cfg.Windows == nil:
		return nil, errors.New("tabs: window system is required")
	}

	m := &Manager{
		ctx:         logging.WithComponent(ctx, "tabs"),
		loop:        cfg.Loop,
		host:        cfg.Host,
		windows:     cfg.Windows,
		prompts:     cfg.Prompts,
		permPrompts: cfg.PermissionPrompts,
		modals:      cfg.Modals,
		chrome:      cfg.Chrome,
		dialog:      cfg.Dialog,
		menu:        cfg.Menu,
		clipboard:   cfg.Clipboard,
		drives:      cfg.Drives,
		settings:    cfg.Settings,
		bookmarks:   cfg.Bookmarks,
		folderSync:  cfg.FolderSync,
		permissions: cfg.Permissions,
		zoomUC:      cfg.ZoomUC,
		historyUC:   cfg.HistoryUC,
		imagesUC:    cfg.ImagesUC,
		newID:       cfg.NewID,
		cfg:         cfg.Tabs.withDefaults(),
		sets:        make(map[entity.WindowID]*windowTabs),
		noRedirects: make(map[string]struct{}),
	}
	if m.prompts == nil {
		m.prompts = nopOverlay{}
	}
	if m.permPrompts == nil {
		m.permPrompts = nopOverlay{}
	}
	if m.modals == nil {
		m.modals = nopOverlay{}
	}
	if m.chrome == nil {
		m.chrome = nopChrome{}
	}
	if m.dialog == nil {
		m.dialog = nopDialog{}
	}
	if m.menu == nil {
		m.menu = nopMenu{}
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}

	m.windows.SetCallbacks(&port.WindowSystemCallbacks{
		OnWindowClosed: func(id entity.WindowID) {
			m.loop.Post(func() { m.windowClosed(id) })
		},
		OnWindowResized: func(id entity.WindowID) {
			m.loop.Post(func() { m.windowResized(id) })
		},
	})
	if m.drives != nil {
		m.drives.SetCallbacks(&port.DriveCallbacks{
			OnDriveUpdated: func(driveURL string) {
				m.loop.Post(func() { m.driveUpdated(driveURL) })
			},
			OnDaemonStatusChanged: func(bool) {
				m.loop.Post(m.daemonStatusChanged)
			},
		})
	}

	logging.FromContext(m.ctx).Debug().Str("new_tab_url", m.cfg.NewTabURL).Msg("tab manager created")
	return m, nil
}

// Loop returns the control loop the manager runs on.
func (m *Manager) Loop() mainloop.Loop { return m.loop }

// Config returns the current tunables.
func (m *Manager) Config() Config { return m.cfg }

// OnStateChanged registers fn to run after every state event of any window.
func (m *Manager) OnStateChanged(fn func(win port.Window)) {
	m.stateListeners = append(m.stateListeners, fn)
}

// --- window sets ---

// set returns the tab set of win's top-level window, creating it on first use.
func (m *Manager) set(win port.Window) *windowTabs {
	win = port.TopWindow(win)
	if win == nil {
		return nil
	}
	s, ok := m.sets[win.ID()]
	if !ok {
		s = newWindowTabs(win)
		m.sets[win.ID()] = s
	}
	return s
}

// lookup returns the existing tab set of win's top-level window.
func (m *Manager) lookup(win port.Window) (*windowTabs, error) {
	win = port.TopWindow(win)
	if win == nil {
		return nil, ErrWindowNotFound
	}
	s, ok := m.sets[win.ID()]
	if !ok || s.closed {
		return nil, ErrWindowNotFound
	}
	return s, nil
}

func (m *Manager) windowCtx(win port.Window) context.Context {
	return logging.WithWindowID(m.ctx, string(win.ID()))
}

// Windows returns the windows that have a tab set.
func (m *Manager) Windows() []port.Window {
	out := make([]port.Window, 0, len(m.sets))
	for _, s := range m.sets {
		out = append(out, s.win)
	}
	return out
}

// Tabs returns the ordered tabs of win.
func (m *Manager) Tabs(win port.Window) []*Tab {
	s, err := m.lookup(win)
	if err != nil {
		return nil
	}
	return append([]*Tab(nil), s.tabs...)
}

// TabAt returns the tab at index in win.
func (m *Manager) TabAt(win port.Window, index int) (*Tab, error) {
	s, err := m.lookup(win)
	if err != nil {
		return nil, err
	}
	t, ok := s.at(index)
	if !ok {
		return nil, ErrTabNotFound
	}
	return t, nil
}

// IndexOf returns the position of t in win, or -1.
func (m *Manager) IndexOf(win port.Window, t *Tab) int {
	s, err := m.lookup(win)
	if err != nil {
		return -1
	}
	return s.indexOf(t)
}

// Active returns the active tab of win.
func (m *Manager) Active(win port.Window) (*Tab, error) {
	s, err := m.lookup(win)
	if err != nil {
		return nil, err
	}
	if t := s.active(); t != nil {
		return t, nil
	}
	return nil, ErrTabNotFound
}

// FindTab returns the tab with the given ID across windows and the
// background pool.
func (m *Manager) FindTab(id entity.TabID) (*Tab, bool) {
	for _, s := range m.sets {
		for _, t := range s.tabs {
			if t.id == id {
				return t, true
			}
		}
	}
	for _, t := range m.bgTabs {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// FindPaneBySurface returns the pane owning surface.
func (m *Manager) FindPaneBySurface(surface port.ContentSurface) (*Pane, bool) {
	match := func(t *Tab) (*Pane, bool) {
		for _, p := range t.panes {
			if p.surface == surface {
				return p, true
			}
		}
		return nil, false
	}
	for _, s := range m.sets {
		for _, t := range s.tabs {
			if p, ok := match(t); ok {
				return p, true
			}
		}
	}
	for _, t := range m.bgTabs {
		if p, ok := match(t); ok {
			return p, true
		}
	}
	return nil, false
}

// windowResized re-lays out the active tab of the window.
func (m *Manager) windowResized(id entity.WindowID) {
	s, ok := m.sets[id]
	if !ok || s.closed {
		return
	}
	if t := s.active(); t != nil {
		t.resize()
	}
}

func (m *Manager) windowClosed(id entity.WindowID) {
	s, ok := m.sets[id]
	if !ok {
		return
	}
	delete(m.sets, id)
	s.closed = true
	if s.preloadTimer != nil {
		s.preloadTimer.Stop()
		s.preloadTimer = nil
	}
	if s.preloaded != nil {
		s.preloaded.destroy()
		s.preloaded = nil
	}
	for _, t := range s.tabs {
		t.destroy()
	}
	s.tabs = nil
	s.events.close()
	logging.FromContext(m.windowCtx(s.win)).Debug().Msg("window tab set closed")
}

// --- broadcast ---

// Subscribe registers fn for the state events of win.
func (m *Manager) Subscribe(win port.Window, fn func(Event)) (func(), error) {
	s, err := m.lookup(win)
	if err != nil {
		return nil, err
	}
	return s.events.Subscribe(fn), nil
}

// Stream opens a buffered event stream for win, primed with a
// replace-state snapshot.
func (m *Manager) Stream(win port.Window, depth int) (*Stream, error) {
	s, err := m.lookup(win)
	if err != nil {
		return nil, err
	}
	resync := func() Event { return m.replaceEvent(s) }
	st := s.events.Stream(m.loop, depth, resync)
	st.deliver(resync())
	return st, nil
}

// ReplaceState returns the full state snapshot of win.
func (m *Manager) ReplaceState(win port.Window) (*entity.ReplaceState, error) {
	s, err := m.lookup(win)
	if err != nil {
		return nil, err
	}
	return m.replaceState(s), nil
}

func (m *Manager) replaceState(s *windowTabs) *entity.ReplaceState {
	st := &entity.ReplaceState{
		Tabs:                   make([]entity.TabState, 0, len(s.tabs)),
		IsFullscreen:           s.win.IsFullscreen(),
		IsShellInterfaceHidden: s.win.IsShellInterfaceHidden(),
		IsDaemonActive:         m.drives != nil && m.drives.IsDaemonActive(),
	}
	for _, t := range s.tabs {
		st.Tabs = append(st.Tabs, t.State())
	}
	return st
}

func (m *Manager) replaceEvent(s *windowTabs) Event {
	return Event{Kind: EventReplaceState, Replace: m.replaceState(s)}
}

func (m *Manager) emitReplaceState(s *windowTabs) {
	if s == nil || s.closed {
		return
	}
	s.events.publish(m.replaceEvent(s))
	m.stateChanged(s.win)
}

// EmitReplaceState broadcasts the full state of win.
func (m *Manager) EmitReplaceState(win port.Window) {
	s, err := m.lookup(win)
	if err != nil {
		return
	}
	m.emitReplaceState(s)
}

func (m *Manager) emitUpdateState(win port.Window, t *Tab) {
	s, err := m.lookup(win)
	if err != nil {
		return
	}
	index := s.indexOf(t)
	if index == -1 {
		logging.FromContext(t.ctx).Warn().Msg("update-state for a tab not in its window")
		return
	}
	s.events.publish(Event{
		Kind:   EventUpdateState,
		Update: &entity.UpdateState{Index: index, State: t.State()},
	})
	m.stateChanged(s.win)
}

func (m *Manager) stateChanged(win port.Window) {
	for _, fn := range m.stateListeners {
		fn(win)
	}
}

// notifyBackgroundTabs pushes the background pool listing to every window.
func (m *Manager) notifyBackgroundTabs() {
	listing := m.GetBackgroundTabs()
	for _, s := range m.sets {
		s.events.publish(Event{Kind: EventBackgroundTabs, BackgroundTabs: listing})
	}
}

// --- collaborator lookups (off the control thread) ---

// lookupBookmark reports whether pageURL is bookmarked. Failures read as false.
func (m *Manager) lookupBookmark(ctx context.Context, pageURL string) bool {
	if m.bookmarks == nil || pageURL == "" {
		return false
	}
	b, err := m.bookmarks.GetByURL(ctx, pageURL)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("bookmark lookup failed")
		return false
	}
	return b != nil
}

// lookupDrive resolves the drive of a drive URL with its folder-sync path.
// Failures read as no drive.
func (m *Manager) lookupDrive(ctx context.Context, pageURL string) (*entity.DriveInfo, string) {
	if m.drives == nil || urlutil.Scheme(pageURL) != entity.DriveScheme {
		return nil, ""
	}
	log := logging.FromContext(ctx)
	key, err := m.drives.ResolveName(ctx, pageURL)
	if err != nil || key == "" {
		log.Debug().Err(err).Msg("drive name resolution failed")
		return nil, ""
	}
	info, err := m.drives.GetDriveInfo(ctx, key)
	if err != nil || info == nil {
		log.Debug().Err(err).Msg("drive info fetch failed")
		return nil, ""
	}
	if peers, err := m.drives.PeerCount(ctx, key); err == nil {
		info.Peers = peers
	}
	var path string
	if m.folderSync != nil {
		if path, err = m.folderSync.GetPath(ctx, key); err != nil {
			log.Debug().Err(err).Msg("folder sync lookup failed")
			path = ""
		}
	}
	return info, path
}

// --- drive events ---

func (m *Manager) driveUpdated(driveURL string) {
	host := urlutil.Hostname(driveURL)
	origin := entity.Origin(driveURL)
	refresh := func(t *Tab) {
		for _, p := range t.panes {
			d := p.driveInfo
			if d == nil {
				continue
			}
			if d.Key == host || entity.Origin(p.URL()) == origin {
				p.RefreshState()
			}
		}
	}
	for _, s := range m.sets {
		for _, t := range s.tabs {
			refresh(t)
		}
	}
}

func (m *Manager) daemonStatusChanged() {
	for _, s := range m.sets {
		m.emitReplaceState(s)
	}
}

// --- settings ---

// SetNewTabURL changes the default new-tab URL. Preloaded tabs are
// discarded and recreated against the new URL.
func (m *Manager) SetNewTabURL(u string) {
	if u == "" || u == m.cfg.NewTabURL {
		return
	}
	m.cfg.NewTabURL = u
	for _, s := range m.sets {
		if s.preloaded != nil {
			s.preloaded.destroy()
			s.preloaded = nil
		}
		m.schedulePreload(s)
	}
	logging.FromContext(m.ctx).Info().Str("url", u).Msg("new tab url changed")
}

// SetNewTabsInForeground changes whether opened tabs take focus.
func (m *Manager) SetNewTabsInForeground(v bool) { m.cfg.NewTabsInForeground = v }

// SetAutoRedirectToDrive changes whether https pages redirect to their drive.
func (m *Manager) SetAutoRedirectToDrive(v bool) { m.cfg.AutoRedirectToDrive = v }

// AddToNoRedirects stops automatic drive redirects for the URL's hostname.
func (m *Manager) AddToNoRedirects(pageURL string) {
	if host := urlutil.Hostname(pageURL); host != "" {
		m.noRedirects[strings.ToLower(host)] = struct{}{}
	}
}

func (m *Manager) isNoRedirect(host string) bool {
	_, ok := m.noRedirects[strings.ToLower(host)]
	return ok
}

// MarkNextTabScriptCloseable lets the next created tab close itself via
// window.close().
func (m *Manager) MarkNextTabScriptCloseable() {
	m.nextScriptCloseable = true
}
