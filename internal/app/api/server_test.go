package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/infrastructure/shellwin"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// --- content host ---

type stubSurface struct {
	id port.SurfaceID

	mu    sync.Mutex
	url   string
	loads []string
	dead  bool
}

func (s *stubSurface) ID() port.SurfaceID                  { return s.id }
func (s *stubSurface) SetCallbacks(*port.SurfaceCallbacks) {}
func (s *stubSurface) LoadURL(_ context.Context, u string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = u
	s.loads = append(s.loads, u)
	return nil
}
func (s *stubSurface) GoBack(context.Context) error    { return nil }
func (s *stubSurface) GoForward(context.Context) error { return nil }
func (s *stubSurface) Stop(context.Context) error      { return nil }
func (s *stubSurface) Reload(context.Context) error    { return nil }
func (s *stubSurface) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}
func (s *stubSurface) Title() string                                              { return "" }
func (s *stubSurface) CanGoBack() bool                                            { return false }
func (s *stubSurface) CanGoForward() bool                                         { return false }
func (s *stubSurface) IsLoading() bool                                            { return false }
func (s *stubSurface) IsWaitingForResponse() bool                                 { return false }
func (s *stubSurface) IsAudioMuted() bool                                         { return false }
func (s *stubSurface) SetAudioMuted(context.Context, bool) error                  { return nil }
func (s *stubSurface) IsCurrentlyAudible() bool                                   { return false }
func (s *stubSurface) FindInPage(context.Context, string, port.FindOptions) error { return nil }
func (s *stubSurface) StopFindInPage(context.Context) error                       { return nil }
func (s *stubSurface) SetZoomLevel(context.Context, float64) error                { return nil }
func (s *stubSurface) CapturePage(context.Context) ([]byte, error) {
	return nil, fmt.Errorf("no capture")
}
func (s *stubSurface) ExecuteScript(context.Context, string, any) error   { return nil }
func (s *stubSurface) DispatchBeforeUnload(context.Context) (bool, error) { return false, nil }
func (s *stubSurface) Print(context.Context) error                        { return nil }
func (s *stubSurface) ToggleDevTools(context.Context) error               { return nil }
func (s *stubSurface) SetBounds(entity.Rect)                              {}
func (s *stubSurface) Focus()                                             {}
func (s *stubSurface) IsDestroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dead
}
func (s *stubSurface) Destroy() {
	s.mu.Lock()
	s.dead = true
	s.mu.Unlock()
}

func (s *stubSurface) loaded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loads...)
}

type stubHost struct {
	mu       sync.Mutex
	surfaces []*stubSurface
}

func (h *stubHost) CreateSurface(context.Context, port.SurfaceOptions) (port.ContentSurface, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := &stubSurface{id: port.SurfaceID(fmt.Sprintf("surface-%d", len(h.surfaces)+1))}
	h.surfaces = append(h.surfaces, s)
	return s, nil
}

func (h *stubHost) last() *stubSurface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surfaces[len(h.surfaces)-1]
}

func (h *stubHost) surface(i int) *stubSurface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.surfaces[i]
}

// --- drives ---

type stubDrives struct {
	files map[string]string
}

func (d *stubDrives) ResolveName(context.Context, string) (string, error) { return "", fs.ErrNotExist }
func (d *stubDrives) GetDriveInfo(context.Context, string) (*entity.DriveInfo, error) {
	return nil, fs.ErrNotExist
}
func (d *stubDrives) Watch(context.Context, string, func(string)) (port.DriveWatcher, error) {
	return nil, fs.ErrNotExist
}
func (d *stubDrives) ReadFile(_ context.Context, u string) ([]byte, error) {
	if body, ok := d.files[u]; ok {
		return []byte(body), nil
	}
	return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, u)
}
func (d *stubDrives) PeerCount(context.Context, string) (int, error)              { return 0, nil }
func (d *stubDrives) ListPeerAddresses(context.Context, string) ([]string, error) { return nil, nil }
func (d *stubDrives) IsDaemonActive() bool                                        { return false }
func (d *stubDrives) SetCallbacks(*port.DriveCallbacks)                           {}

// --- harness ---

type apiHarness struct {
	t      *testing.T
	ctx    context.Context
	loop   *mainloop.Dispatcher
	host   *stubHost
	sys    *shellwin.System
	dialog *shellwin.Dialog
	menu   *shellwin.Menu
	mgr    *tabs.Manager
	srv    *httptest.Server
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	logger := logging.NewFromConfigValues("debug", "console")
	ctx, cancel := context.WithCancel(logging.WithContext(context.Background(), logger))
	t.Cleanup(cancel)

	loop := mainloop.NewDispatcher(ctx)
	go func() { _ = loop.Run(ctx) }()

	h := &apiHarness{
		t:      t,
		ctx:    ctx,
		loop:   loop,
		host:   &stubHost{},
		sys:    shellwin.NewSystem(ctx, config.WindowsConfig{Width: 1024, Height: 768}),
		dialog: shellwin.NewDialog(loop),
		menu:   shellwin.NewMenu(loop),
	}
	chrome := shellwin.NewChrome()

	type built struct {
		m   *tabs.Manager
		err error
	}
	b, err := mainloop.CallValue(ctx, loop, func() built {
		m, err := tabs.NewManager(ctx, tabs.ManagerConfig{
			Loop:    loop,
			Host:    h.host,
			Windows: h.sys,
			Chrome:  chrome,
			Dialog:  h.dialog,
			Menu:    h.menu,
			Tabs: tabs.Config{
				NewTabURL:       "tabshell://start/",
				PreloadDelay:    time.Hour,
				ScreenshotDelay: time.Hour,
			},
		})
		return built{m: m, err: err}
	})
	require.NoError(t, err)
	require.NoError(t, b.err)
	h.mgr = b.m

	srv, err := NewServer(ctx, Options{
		Manager: h.mgr,
		Windows: h.sys,
		Drives: &stubDrives{files: map[string]string{
			"hyper://site.test/":       "<h1>home</h1>",
			"hyper://site.test/app.js": "console.log(1)",
		}},
		Chrome:  chrome,
		Dialogs: h.dialog,
		Menus:   h.menu,
		Resizer: h.sys,
	})
	require.NoError(t, err)
	h.srv = httptest.NewServer(srv.Handler())
	t.Cleanup(h.srv.Close)
	return h
}

func (h *apiHarness) do(method, path string, body any) (*http.Response, []byte) {
	h.t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, rd)
	require.NoError(h.t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(h.t, err)
	return res, data
}

func (h *apiHarness) createWindow(u string) WindowInfo {
	h.t.Helper()
	res, body := h.do(http.MethodPost, "/api/windows", map[string]any{"url": u})
	require.Equal(h.t, http.StatusCreated, res.StatusCode, string(body))
	var info WindowInfo
	require.NoError(h.t, json.Unmarshal(body, &info))
	return info
}

func (h *apiHarness) command(win entity.WindowID, cmd map[string]any) (int, CommandResponse) {
	h.t.Helper()
	res, body := h.do(http.MethodPost, "/api/windows/"+string(win)+"/commands", cmd)
	var out CommandResponse
	if res.StatusCode == http.StatusOK {
		require.NoError(h.t, json.Unmarshal(body, &out))
	}
	return res.StatusCode, out
}

func (h *apiHarness) state(win entity.WindowID) entity.ReplaceState {
	h.t.Helper()
	res, body := h.do(http.MethodGet, "/api/windows/"+string(win)+"/state", nil)
	require.Equal(h.t, http.StatusOK, res.StatusCode, string(body))
	var st entity.ReplaceState
	require.NoError(h.t, json.Unmarshal(body, &st))
	return st
}

func activeIndex(st entity.ReplaceState) int {
	for i, ts := range st.Tabs {
		if ts.IsActive {
			return i
		}
	}
	return -1
}

// --- tests ---

func TestServer_Windows(t *testing.T) {
	h := newAPIHarness(t)

	info := h.createWindow("https://a.test/")
	assert.Equal(t, 1, info.Tabs)
	assert.Equal(t, 0, info.Active)
	assert.Equal(t, []string{"https://a.test/"}, h.host.last().loaded())

	res, body := h.do(http.MethodGet, "/api/windows", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []WindowInfo
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, info.ID, list[0].ID)

	res, _ = h.do(http.MethodPost, "/api/windows/"+string(info.ID)+"/resize", map[string]any{"width": 800, "height": 600})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = h.do(http.MethodPost, "/api/windows/nope/resize", map[string]any{"width": 800, "height": 600})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = h.do(http.MethodPost, "/api/windows", map[string]any{"url": "javascript:alert(1)"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = h.do(http.MethodDelete, "/api/windows/"+string(info.ID), nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = h.do(http.MethodGet, "/api/windows/"+string(info.ID)+"/state", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestServer_TabCommands(t *testing.T) {
	h := newAPIHarness(t)
	win := h.createWindow("https://a.test/").ID

	code, out := h.command(win, map[string]any{"command": "create-tab", "url": "https://b.test/"})
	require.Equal(t, http.StatusOK, code)
	ref, ok := out.Result.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, ref["index"])

	st := h.state(win)
	require.Len(t, st.Tabs, 2)
	assert.Equal(t, 1, activeIndex(st))

	code, _ = h.command(win, map[string]any{"command": "set-active", "index": 0})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, activeIndex(h.state(win)))

	code, _ = h.command(win, map[string]any{"command": "toggle-pinned", "index": 1})
	require.Equal(t, http.StatusOK, code)
	st = h.state(win)
	assert.True(t, st.Tabs[0].IsPinned, "pinned tabs move to the front")
	assert.Equal(t, 1, activeIndex(st))

	code, _ = h.command(win, map[string]any{"command": "load-url", "url": "https://c.test/"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, h.host.surface(0).loaded(), "https://c.test/")

	code, _ = h.command(win, map[string]any{"command": "reorder-tab", "index": 1})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.command(win, map[string]any{"command": "close-tab", "index": 1})
	require.Equal(t, http.StatusOK, code)
	require.Eventually(t, func() bool {
		return len(h.state(win).Tabs) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServer_CommandLookupFailures(t *testing.T) {
	h := newAPIHarness(t)
	win := h.createWindow("https://a.test/").ID

	code, out := h.command(win, map[string]any{"command": "close-tab", "index": 9})
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, out.Result)

	code, out = h.command("gone", map[string]any{"command": "reload"})
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, out.Result)

	code, _ = h.command(win, map[string]any{"command": "explode"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.command(win, map[string]any{"command": "reload", "bogus": true})
	assert.Equal(t, http.StatusBadRequest, code, "unknown fields are rejected")
}

func TestServer_BackgroundTabs(t *testing.T) {
	h := newAPIHarness(t)
	win := h.createWindow("https://a.test/").ID
	h.command(win, map[string]any{"command": "create-tab", "url": "https://b.test/"})

	code, _ := h.command(win, map[string]any{"command": "minimize-to-bg", "index": 1})
	require.Equal(t, http.StatusOK, code)

	res, body := h.do(http.MethodGet, "/api/background-tabs", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var bg []entity.BackgroundTab
	require.NoError(t, json.Unmarshal(body, &bg))
	require.Len(t, bg, 1)
	assert.Equal(t, "https://b.test/", bg[0].URL)

	code, _ = h.command(win, map[string]any{"command": "restore-bg-tab", "index": 0})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, h.state(win).Tabs, 2)
}

func TestServer_TabQueries(t *testing.T) {
	h := newAPIHarness(t)
	win := string(h.createWindow("https://a.test/").ID)

	res, body := h.do(http.MethodGet, "/api/windows/"+win+"/tabs/0?driveInfo=true", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var detail entity.DetailedTabState
	require.NoError(t, json.Unmarshal(body, &detail))
	assert.True(t, detail.IsActive)

	res, _ = h.do(http.MethodGet, "/api/windows/"+win+"/tabs/7", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	res, _ = h.do(http.MethodGet, "/api/windows/"+win+"/tabs/first", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res, _ = h.do(http.MethodGet, "/api/windows/nope/tabs/0", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = h.do(http.MethodGet, "/api/windows/"+win+"/tabs/0/network", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var netState entity.NetworkState
	require.NoError(t, json.Unmarshal(body, &netState))
	assert.Zero(t, netState.Peers)

	res, _ = h.do(http.MethodGet, "/api/windows/"+win+"/tabs/0/metadata", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestServer_ChromeDialogAndMenu(t *testing.T) {
	h := newAPIHarness(t)
	info := h.createWindow("https://a.test/")
	base := "/api/windows/" + string(info.ID)

	code, _ := h.command(info.ID, map[string]any{"command": "show-menu", "menu": "browser"})
	require.Equal(t, http.StatusOK, code)
	res, body := h.do(http.MethodGet, base+"/chrome", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var chrome shellwin.ChromeState
	require.NoError(t, json.Unmarshal(body, &chrome))
	assert.Equal(t, "browser", chrome.OpenMenu)

	win, err := h.sys.Window(info.ID)
	require.NoError(t, err)

	answered := make(chan bool, 1)
	h.dialog.ConfirmLeave(h.ctx, win, func(leave bool) { answered <- leave })
	res, body = h.do(http.MethodGet, base+"/dialog", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"pending":1}`, string(body))

	res, _ = h.do(http.MethodPost, base+"/dialog", map[string]any{"leave": true})
	require.Equal(t, http.StatusOK, res.StatusCode)
	select {
	case leave := <-answered:
		assert.True(t, leave)
	case <-time.After(2 * time.Second):
		t.Fatal("dialog answer not delivered")
	}
	res, _ = h.do(http.MethodPost, base+"/dialog", map[string]any{"leave": true})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	code, _ = h.command(info.ID, map[string]any{"command": "tab-context-menu", "index": 0})
	require.Equal(t, http.StatusOK, code)
	res, body = h.do(http.MethodGet, base+"/menu", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var menu menuInfo
	require.NoError(t, json.Unmarshal(body, &menu))
	require.NotEmpty(t, menu.Items)

	newTab := -1
	for i, label := range menu.Items {
		if label == "New Tab" {
			newTab = i
		}
	}
	require.GreaterOrEqual(t, newTab, 0)
	res, _ = h.do(http.MethodPost, fmt.Sprintf("%s/menu/%d", base, newTab), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Eventually(t, func() bool {
		return len(h.state(info.ID).Tabs) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServer_EventStream(t *testing.T) {
	h := newAPIHarness(t)
	win := h.createWindow("https://a.test/").ID

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.srv.URL+"/api/windows/"+string(win)+"/events", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	events := make(chan tabs.Event, 8)
	go func() {
		defer close(events)
		sc := bufio.NewScanner(res.Body)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			line := sc.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var ev tabs.Event
			if json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev) == nil {
				events <- ev
			}
		}
	}()

	next := func() tabs.Event {
		t.Helper()
		select {
		case ev, ok := <-events:
			require.True(t, ok, "stream ended")
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("no event")
			return tabs.Event{}
		}
	}

	first := next()
	require.Equal(t, tabs.EventReplaceState, first.Kind)
	require.Len(t, first.Replace.Tabs, 1)

	h.command(win, map[string]any{"command": "create-tab", "url": "https://b.test/"})
	for {
		ev := next()
		if ev.Kind == tabs.EventReplaceState && len(ev.Replace.Tabs) == 2 {
			break
		}
	}

	res2, _ := h.do(http.MethodGet, "/api/windows/nope/events", nil)
	assert.Equal(t, http.StatusNotFound, res2.StatusCode)
}

func TestServer_DriveGateway(t *testing.T) {
	h := newAPIHarness(t)

	res, body := h.do(http.MethodGet, "/drive/site.test/", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "<h1>home</h1>", string(body))
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")

	res, body = h.do(http.MethodGet, "/drive/site.test/app.js", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "console.log(1)", string(body))
	assert.Contains(t, res.Header.Get("Content-Type"), "javascript")

	res, _ = h.do(http.MethodGet, "/drive/site.test/missing.html", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	res, err := client.Get(h.srv.URL + "/drive/site.test")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMovedPermanently, res.StatusCode)
	assert.Equal(t, "/drive/site.test/", res.Header.Get("Location"))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/html; charset=utf-8", contentType("", nil))
	assert.Equal(t, "text/html; charset=utf-8", contentType("docs/", nil))
	assert.Contains(t, contentType("style.css", nil), "text/css")
	assert.Equal(t, "text/markdown; charset=utf-8", contentType("README.md", nil))
	assert.Equal(t, "text/plain; charset=utf-8", contentType("LICENSE", []byte("plain words")))
}

func TestNewServer_Requires(t *testing.T) {
	_, err := NewServer(context.Background(), Options{})
	assert.Error(t, err)
}
