package tabs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// --- content ---

type fakeSurface struct {
	id        port.SurfaceID
	cb        *port.SurfaceCallbacks
	hidden    bool
	url       string
	title     string
	loading   bool
	waiting   bool
	muted     bool
	destroyed bool
	bounds    entity.Rect
	focused   int
	zoom      float64

	loads   []string
	reloads int
	scripts []string

	veto        bool
	unloadCalls int
}

func (s *fakeSurface) ID() port.SurfaceID                     { return s.id }
func (s *fakeSurface) SetCallbacks(cb *port.SurfaceCallbacks) { s.cb = cb }
func (s *fakeSurface) LoadURL(_ context.Context, u string) error {
	s.loads = append(s.loads, u)
	return nil
}
func (s *fakeSurface) GoBack(context.Context) error    { return nil }
func (s *fakeSurface) GoForward(context.Context) error { return nil }
func (s *fakeSurface) Stop(context.Context) error      { return nil }
func (s *fakeSurface) Reload(context.Context) error    { s.reloads++; return nil }
func (s *fakeSurface) URL() string                     { return s.url }
func (s *fakeSurface) Title() string                   { return s.title }
func (s *fakeSurface) CanGoBack() bool                 { return false }
func (s *fakeSurface) CanGoForward() bool              { return false }
func (s *fakeSurface) IsLoading() bool                 { return s.loading }
func (s *fakeSurface) IsWaitingForResponse() bool      { return s.waiting }
func (s *fakeSurface) IsAudioMuted() bool              { return s.muted }
func (s *fakeSurface) IsCurrentlyAudible() bool        { return false }
func (s *fakeSurface) SetAudioMuted(_ context.Context, muted bool) error {
	s.muted = muted
	return nil
}
func (s *fakeSurface) FindInPage(context.Context, string, port.FindOptions) error { return nil }
func (s *fakeSurface) StopFindInPage(context.Context) error                       { return nil }
func (s *fakeSurface) SetZoomLevel(_ context.Context, f float64) error            { s.zoom = f; return nil }
func (s *fakeSurface) CapturePage(context.Context) ([]byte, error) {
	return nil, fmt.Errorf("no capture")
}
func (s *fakeSurface) ExecuteScript(_ context.Context, script string, _ any) error {
	s.scripts = append(s.scripts, script)
	return nil
}
func (s *fakeSurface) DispatchBeforeUnload(context.Context) (bool, error) {
	s.unloadCalls++
	return s.veto, nil
}
func (s *fakeSurface) Print(context.Context) error          { return nil }
func (s *fakeSurface) ToggleDevTools(context.Context) error { return nil }
func (s *fakeSurface) SetBounds(b entity.Rect)              { s.bounds = b }
func (s *fakeSurface) Focus()                               { s.focused++ }
func (s *fakeSurface) IsDestroyed() bool                    { return s.destroyed }
func (s *fakeSurface) Destroy()                             { s.destroyed = true }

// navigate plays a complete main-frame load of u.
func (s *fakeSurface) navigate(u string) {
	s.startNavigation(u)
	s.commit(u, 200)
	s.cb.OnDidStopLoading()
}

func (s *fakeSurface) startNavigation(u string) {
	s.cb.OnDidStartLoading()
	s.cb.OnDidStartNavigation(port.NavigationStart{URL: u, FrameID: "main", IsMainFrame: true})
}

func (s *fakeSurface) commit(u string, code int) {
	s.url = u
	s.cb.OnDidNavigate(u, code)
}

type fakeHost struct {
	surfaces []*fakeSurface
	err      error
}

func (h *fakeHost) CreateSurface(_ context.Context, opts port.SurfaceOptions) (port.ContentSurface, error) {
	if h.err != nil {
		return nil, h.err
	}
	s := &fakeSurface{id: port.SurfaceID(fmt.Sprintf("surface-%d", len(h.surfaces)+1)), hidden: opts.Hidden}
	h.surfaces = append(h.surfaces, s)
	return s, nil
}

// --- windows ---

type fakeWindow struct {
	ws          *fakeWindowSystem
	id          entity.WindowID
	parent      port.Window
	app         bool
	shellHidden bool
	fullscreen  bool
	bounds      entity.Rect
	attached    map[port.SurfaceID]bool
	commands    []string
	title       string
	closed      bool
}

func (w *fakeWindow) ID() entity.WindowID { return w.id }
func (w *fakeWindow) Parent() port.Window {
	if w.parent == nil {
		return nil
	}
	return w.parent
}
func (w *fakeWindow) IsAppWindow() bool                   { return w.app }
func (w *fakeWindow) IsShellInterfaceHidden() bool        { return w.shellHidden }
func (w *fakeWindow) IsFullscreen() bool                  { return w.fullscreen }
func (w *fakeWindow) ContentBounds() entity.Rect          { return w.bounds }
func (w *fakeWindow) AttachSurface(s port.ContentSurface) { w.attached[s.ID()] = true }
func (w *fakeWindow) DetachSurface(s port.ContentSurface) { delete(w.attached, s.ID()) }
func (w *fakeWindow) SendCommand(cmd string, _ ...any)    { w.commands = append(w.commands, cmd) }
func (w *fakeWindow) SetTitle(title string)               { w.title = title }
func (w *fakeWindow) Focus()                              {}
func (w *fakeWindow) FocusShell()                         {}
func (w *fakeWindow) IsDestroyed() bool                   { return w.closed }
func (w *fakeWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true
	if w.ws.cb != nil && w.ws.cb.OnWindowClosed != nil {
		w.ws.cb.OnWindowClosed(w.id)
	}
}

type fakeWindowSystem struct {
	windows []*fakeWindow
	cb      *port.WindowSystemCallbacks
}

func (ws *fakeWindowSystem) newWindow(app bool) *fakeWindow {
	w := &fakeWindow{
		ws:       ws,
		id:       entity.WindowID(fmt.Sprintf("win-%d", len(ws.windows)+1)),
		app:      app,
		bounds:   entity.Rect{Width: 1000, Height: 794},
		attached: make(map[port.SurfaceID]bool),
	}
	ws.windows = append(ws.windows, w)
	return w
}

func (ws *fakeWindowSystem) CreateShellWindow(context.Context) (port.Window, error) {
	return ws.newWindow(false), nil
}

func (ws *fakeWindowSystem) GetOrCreateNonAppWindow(context.Context) (port.Window, error) {
	for _, w := range ws.windows {
		if !w.app && !w.closed {
			return w, nil
		}
	}
	return ws.newWindow(false), nil
}

func (ws *fakeWindowSystem) AllWindows() []port.Window {
	out := make([]port.Window, 0, len(ws.windows))
	for _, w := range ws.windows {
		out = append(out, w)
	}
	return out
}

func (ws *fakeWindowSystem) SetCallbacks(cb *port.WindowSystemCallbacks) { ws.cb = cb }

// --- overlays and chrome ---

type recordingOverlay struct {
	nopOverlay
	shown   map[port.SurfaceID]int
	hidden  map[port.SurfaceID]int
	closed  map[port.SurfaceID]int
	created []string
}

func newRecordingOverlay() *recordingOverlay {
	return &recordingOverlay{
		shown:  make(map[port.SurfaceID]int),
		hidden: make(map[port.SurfaceID]int),
		closed: make(map[port.SurfaceID]int),
	}
}

func (o *recordingOverlay) Show(s port.ContentSurface)  { o.shown[s.ID()]++ }
func (o *recordingOverlay) Hide(s port.ContentSurface)  { o.hidden[s.ID()]++ }
func (o *recordingOverlay) Close(s port.ContentSurface) { o.closed[s.ID()]++ }
func (o *recordingOverlay) Create(_ port.ContentSurface, name string, _ map[string]any) {
	o.created = append(o.created, name)
}

type recordingChrome struct {
	nopChrome
	status    string
	locations []string
}

func (c *recordingChrome) SetStatus(_ port.Window, u string) { c.status = u }
func (c *recordingChrome) SetCurrentLocation(_ port.Window, u string) {
	c.locations = append(c.locations, u)
}

type scriptedDialog struct {
	leave bool
	asked int
}

func (d *scriptedDialog) ConfirmLeave(_ context.Context, _ port.Window, callback func(bool)) {
	d.asked++
	callback(d.leave)
}

type recordingMenu struct {
	items []port.MenuItem
}

func (m *recordingMenu) Popup(_ port.Window, items []port.MenuItem) { m.items = items }

func (m *recordingMenu) click(t *testing.T, label string) {
	t.Helper()
	for _, it := range m.items {
		if it.Label == label {
			require.NotNil(t, it.Click, "menu item %q has no action", label)
			it.Click()
			return
		}
	}
	t.Fatalf("menu item %q not found", label)
}

// --- drives ---

type fakeWatcher struct{ closed bool }

func (w *fakeWatcher) Close() error { w.closed = true; return nil }

type fakeDrives struct {
	names    map[string]string
	infos    map[string]*entity.DriveInfo
	watchers []*fakeWatcher
	onChange func(string)
	cb       *port.DriveCallbacks
	active   bool
}

func (d *fakeDrives) ResolveName(_ context.Context, name string) (string, error) {
	if key, ok := d.names[name]; ok {
		return key, nil
	}
	return "", fmt.Errorf("not a drive: %s", name)
}

func (d *fakeDrives) GetDriveInfo(_ context.Context, key string) (*entity.DriveInfo, error) {
	info, ok := d.infos[key]
	if !ok {
		return nil, fmt.Errorf("unknown drive %s", key)
	}
	cp := *info
	return &cp, nil
}

func (d *fakeDrives) Watch(_ context.Context, _ string, onChange func(string)) (port.DriveWatcher, error) {
	w := &fakeWatcher{}
	d.watchers = append(d.watchers, w)
	d.onChange = onChange
	return w, nil
}

func (d *fakeDrives) ReadFile(context.Context, string) ([]byte, error) { return nil, nil }
func (d *fakeDrives) PeerCount(_ context.Context, key string) (int, error) {
	if info, ok := d.infos[key]; ok {
		return info.Peers, nil
	}
	return 0, fmt.Errorf("unknown drive %s", key)
}
func (d *fakeDrives) ListPeerAddresses(context.Context, string) ([]string, error) {
	return []string{"10.0.0.1:3282"}, nil
}
func (d *fakeDrives) IsDaemonActive() bool                 { return d.active }
func (d *fakeDrives) SetCallbacks(cb *port.DriveCallbacks) { d.cb = cb }

// --- harness ---

type harness struct {
	t       *testing.T
	ctx     context.Context
	loop    *mainloop.Manual
	host    *fakeHost
	ws      *fakeWindowSystem
	win     *fakeWindow
	m       *Manager
	prompts *recordingOverlay
	chrome  *recordingChrome
	dialog  *scriptedDialog
	menu    *recordingMenu
	events  []Event
}

func newHarness(t *testing.T, configure ...func(*ManagerConfig)) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		ctx:     testContext(),
		loop:    mainloop.NewManual(),
		host:    &fakeHost{},
		ws:      &fakeWindowSystem{},
		prompts: newRecordingOverlay(),
		chrome:  &recordingChrome{},
		dialog:  &scriptedDialog{leave: true},
		menu:    &recordingMenu{},
	}
	h.win = h.ws.newWindow(false)

	ids := 0
	cfg := ManagerConfig{
		Loop:    h.loop,
		Host:    h.host,
		Windows: h.ws,
		Prompts: h.prompts,
		Chrome:  h.chrome,
		Dialog:  h.dialog,
		Menu:    h.menu,
		NewID: func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		},
		Tabs: Config{NewTabURL: "tabshell://start/"},
	}
	for _, fn := range configure {
		fn(&cfg)
	}
	m, err := NewManager(h.ctx, cfg)
	require.NoError(t, err)
	h.m = m
	return h
}

// create opens u in the harness window and subscribes to its events on
// first use.
func (h *harness) create(u string, opts CreateOptions) *Tab {
	h.t.Helper()
	tab, err := h.m.Create(h.ctx, h.win, u, opts)
	require.NoError(h.t, err)
	h.subscribe()
	return tab
}

func (h *harness) subscribe() {
	if h.m.sets[h.win.id].events.Len() > 0 {
		return
	}
	_, err := h.m.Subscribe(h.win, func(ev Event) { h.events = append(h.events, ev) })
	require.NoError(h.t, err)
}

func (h *harness) lastReplace() *entity.ReplaceState {
	h.t.Helper()
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Kind == EventReplaceState {
			return h.events[i].Replace
		}
	}
	h.t.Fatal("no replace-state event")
	return nil
}

func (h *harness) lastUpdate() *entity.UpdateState {
	h.t.Helper()
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Kind == EventUpdateState {
			return h.events[i].Update
		}
	}
	h.t.Fatal("no update-state event")
	return nil
}

func surfaceOf(t *testing.T, tab *Tab) *fakeSurface {
	t.Helper()
	p, err := tab.ActivePane()
	require.NoError(t, err)
	return p.Surface().(*fakeSurface)
}

func activeCount(tabs []*Tab) int {
	n := 0
	for _, t := range tabs {
		if t.IsActive() {
			n++
		}
	}
	return n
}
