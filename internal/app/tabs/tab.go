package tabs

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/layout"
)

// Tab is one browser tab: an ordered set of panes arranged by a layout,
// exactly one of which is active.
type Tab struct {
	id     entity.TabID
	m      *Manager
	ctx    context.Context
	life   lifecycle
	window port.Window // nil while in the background pool

	panes       []*Pane
	activePane  *Pane
	lastFocused *Pane
	layout      *layout.Layout

	isActive         bool
	isPinned         bool
	isHidden         bool
	isScriptClosable bool
	creationTime     time.Time
	// requestedURL is the URL the tab was opened with, used until a
	// navigation is observed.
	requestedURL string

	activeWaiters []*Completion
}

type tabOptions struct {
	pinned bool
	hidden bool
}

// PaneOptions positions a new pane relative to an existing one.
type PaneOptions struct {
	// After is the pane the new pane follows. Empty appends a new column.
	After entity.PaneID
	// Split is SplitHorizontal to stack the new pane under After inside its
	// column; anything else opens a new column after After's column.
	Split entity.SplitDirection
}

func newTab(ctx context.Context, m *Manager, win port.Window, opts tabOptions) (*Tab, error) {
	id := entity.TabID(m.newID())
	t := &Tab{
		id:           id,
		m:            m,
		ctx:          logging.WithTabID(ctx, string(id)),
		window:       win,
		layout:       layout.New(),
		isPinned:     opts.pinned,
		isHidden:     opts.hidden,
		creationTime: m.loop.Now(),
	}
	t.layout.OnChanged(t.resize)

	if _, err := t.CreatePane(PaneOptions{}); err != nil {
		return nil, err
	}
	logging.FromContext(t.ctx).Debug().Bool("hidden", opts.hidden).Msg("tab created")
	return t, nil
}

// ID returns the tab ID.
func (t *Tab) ID() entity.TabID { return t.id }

// Window returns the window the tab belongs to, nil for background tabs.
func (t *Tab) Window() port.Window { return t.window }

// IsActive reports whether the tab is its window's active tab.
func (t *Tab) IsActive() bool { return t.isActive }

// IsPinned reports whether the tab is pinned.
func (t *Tab) IsPinned() bool { return t.isPinned }

// IsHidden reports whether the tab is preloaded or in the background pool.
func (t *Tab) IsHidden() bool { return t.isHidden }

// IsDestroyed reports whether the tab was destroyed.
func (t *Tab) IsDestroyed() bool { return t.life == lifeDestroyed }

// CreationTime returns when the tab was created or last restored.
func (t *Tab) CreationTime() time.Time { return t.creationTime }

// Layout returns the tab's pane layout.
func (t *Tab) Layout() *layout.Layout { return t.layout }

// Panes returns the tab's panes in creation order.
func (t *Tab) Panes() []*Pane {
	return append([]*Pane(nil), t.panes...)
}

// ActivePane returns the active pane.
func (t *Tab) ActivePane() (*Pane, error) {
	if t.activePane == nil {
		return nil, ErrNoActivePane
	}
	return t.activePane, nil
}

// FindPane returns the pane with the given ID.
func (t *Tab) FindPane(id entity.PaneID) (*Pane, bool) {
	for _, p := range t.panes {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

func (t *Tab) alive() bool { return t.life == lifeAlive }

func (t *Tab) url() string {
	if t.activePane == nil {
		return ""
	}
	return t.activePane.URL()
}

// locationURL is the best known address of the tab, including a load
// that has not committed yet.
func (t *Tab) locationURL() string {
	if u := t.url(); u != "" {
		return u
	}
	if t.activePane != nil && t.activePane.loadingURL != "" {
		return t.activePane.loadingURL
	}
	return t.requestedURL
}

func (t *Tab) title() string {
	if t.activePane == nil {
		return ""
	}
	return t.activePane.Title()
}

// State returns the broadcast state of the tab: its active pane's state
// plus the tab-level flags.
func (t *Tab) State() entity.TabState {
	if t.activePane == nil {
		return entity.TabState{
			ID:              t.id,
			IsActive:        t.isActive,
			IsPinned:        t.isPinned,
			TabCreationTime: t.creationTime.UnixMilli(),
		}
	}
	return t.activePane.State()
}

func (t *Tab) emitUpdateState() {
	if !t.alive() || t.isHidden || t.window == nil {
		return
	}
	t.m.emitUpdateState(t.window, t)
}

// AwaitActive returns a completion resolved when the tab next becomes
// active, or canceled with ErrDestroyed if it is destroyed first.
func (t *Tab) AwaitActive() *Completion {
	if !t.alive() {
		return settledCompletion(ErrDestroyed)
	}
	if t.isActive {
		return settledCompletion(nil)
	}
	c := newCompletion()
	t.activeWaiters = append(t.activeWaiters, c)
	return c
}

// --- panes ---

// CreatePane adds a pane positioned by opts. The first pane of a tab
// becomes its active pane.
func (t *Tab) CreatePane(opts PaneOptions) (*Pane, error) {
	if !t.alive() {
		return nil, ErrDestroyed
	}
	surface, err := t.m.host.CreateSurface(t.ctx, port.SurfaceOptions{Hidden: t.isHidden})
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	pane := newPane(t.ctx, t.m, t, surface)
	t.panes = append(t.panes, pane)
	if t.isActive && t.window != nil {
		t.window.AttachSurface(surface)
	}

	if err := t.insertIntoLayout(pane.id, opts); err != nil {
		t.panes = t.panes[:len(t.panes)-1]
		if t.window != nil {
			t.window.DetachSurface(surface)
		}
		pane.destroy()
		return nil, err
	}

	if len(t.panes) == 1 {
		t.setActivePane(pane, false)
	}
	return pane, nil
}

func (t *Tab) insertIntoLayout(id entity.PaneID, opts PaneOptions) error {
	if opts.After == "" {
		return t.layout.AddPane(id, "")
	}
	if opts.Split == entity.SplitHorizontal {
		stack, ok := t.layout.FindStack(opts.After)
		if !ok {
			return layout.ErrPaneNotFound
		}
		return t.layout.AddPaneToStack(stack, id, opts.After)
	}
	return t.layout.AddPane(id, opts.After)
}

// SplitPane opens a new pane next to origin showing origin's URL.
func (t *Tab) SplitPane(origin *Pane, dir entity.SplitDirection) (*Pane, error) {
	if origin == nil || origin.tab != t || !origin.alive() {
		return nil, layout.ErrPaneNotFound
	}
	pane, err := t.CreatePane(PaneOptions{After: origin.id, Split: dir})
	if err != nil {
		return nil, err
	}
	if u := origin.URL(); u != "" {
		pane.LoadURL(u)
	}
	return pane, nil
}

// RemovePane destroys a pane. Removing the last pane removes the tab.
func (t *Tab) RemovePane(pane *Pane) {
	idx := -1
	for i, p := range t.panes {
		if p == pane {
			idx = i
			break
		}
	}
	if idx < 0 {
		logging.FromContext(t.ctx).Warn().Msg("remove pane: pane not in tab")
		return
	}

	t.panes = append(t.panes[:idx], t.panes[idx+1:]...)
	if t.window != nil {
		t.window.DetachSurface(pane.surface)
	}
	if err := t.layout.RemovePane(pane.id); err != nil {
		logging.FromContext(t.ctx).Warn().Err(err).Msg("remove pane from layout")
	}
	if t.lastFocused == pane {
		t.lastFocused = nil
	}
	wasActive := t.activePane == pane
	pane.destroy()

	if len(t.panes) == 0 {
		t.activePane = nil
		t.m.removeEmptyTab(t)
		return
	}
	if wasActive {
		t.activePane = nil
		t.setActivePane(t.panes[0], true)
	}
}

// SetActivePane makes pane the tab's active pane and broadcasts the change.
func (t *Tab) SetActivePane(pane *Pane) {
	if pane == nil || pane.tab != t || !pane.alive() {
		logging.FromContext(t.ctx).Warn().Msg("set active pane: pane not in tab")
		return
	}
	t.setActivePane(pane, true)
}

func (t *Tab) setActivePane(pane *Pane, emit bool) {
	if prev := t.activePane; prev != nil && prev != pane {
		prev.isActive = false
	}
	pane.isActive = true
	t.activePane = pane
	if t.isActive {
		pane.Focus()
	}
	if emit {
		t.emitUpdateState()
	}
}

// --- visibility ---

// activate shows every pane's surface and overlays in the window.
func (t *Tab) activate() {
	if t.isHidden || !t.alive() {
		return
	}
	t.isActive = true
	win := t.window
	for _, p := range t.panes {
		if win != nil {
			win.AttachSurface(p.surface)
		}
		t.m.prompts.Show(p.surface)
		t.m.permPrompts.Show(p.surface)
		t.m.modals.Show(p.surface)
	}
	t.resize()

	focus := t.lastFocused
	if focus == nil || !focus.alive() {
		focus = t.activePane
	}
	if focus != nil {
		focus.Focus()
	}

	waiters := t.activeWaiters
	t.activeWaiters = nil
	for _, c := range waiters {
		c.resolve()
	}
}

// deactivate removes the surfaces from the window and hides the overlays.
func (t *Tab) deactivate() {
	if t.isHidden || !t.alive() {
		return
	}
	win := t.window
	if win != nil {
		for _, p := range t.panes {
			win.DetachSurface(p.surface)
		}
		if t.isActive {
			t.m.chrome.HideMenus(win)
		}
	}
	for _, p := range t.panes {
		t.m.prompts.Hide(p.surface)
		t.m.permPrompts.Hide(p.surface)
		t.m.modals.Hide(p.surface)
	}
	if win != nil {
		t.m.chrome.HideSiteInfo(win)
	}
	t.isActive = false
}

// resize lays the panes out over the window's content area.
func (t *Tab) resize() {
	if t.isHidden || !t.isActive || t.window == nil || !t.alive() {
		return
	}
	b := t.window.ContentBounds()
	y := ShellChromeHeight
	if t.window.IsShellInterfaceHidden() {
		y = 0
	}
	height := b.Height - y
	if height < 0 {
		height = 0
	}
	container := entity.Rect{X: 0, Y: y, Width: b.Width, Height: height}
	for _, pb := range t.layout.ComputePanesBounds(container) {
		if p, ok := t.FindPane(pb.Pane); ok {
			p.surface.SetBounds(pb.Bounds)
		}
	}
	t.m.prompts.Reposition(t.window)
}

// transferWindow moves the tab to target, closing its window-scoped overlays.
func (t *Tab) transferWindow(target port.Window) {
	t.deactivate()
	for _, p := range t.panes {
		t.m.prompts.Close(p.surface)
		t.m.permPrompts.Close(p.surface)
		t.m.modals.Close(p.surface)
	}
	t.window = target
}

func (t *Tab) destroy() {
	if !t.alive() {
		return
	}
	t.deactivate()
	for _, p := range t.panes {
		p.destroy()
	}
	t.panes = nil
	t.activePane = nil
	t.lastFocused = nil
	t.life = lifeDestroyed

	waiters := t.activeWaiters
	t.activeWaiters = nil
	for _, c := range waiters {
		c.cancel(ErrDestroyed)
	}
	logging.FromContext(t.ctx).Debug().Msg("tab destroyed")
}
