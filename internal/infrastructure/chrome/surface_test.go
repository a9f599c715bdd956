package chrome

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

const gateway = "http://127.0.0.1:9333/drive/"

type recorder struct {
	events   []string
	navs     []port.NavigationStart
	failures []entity.LoadFailure
	status   int
	title    string
	windows  []port.NewWindowRequest
	allow    bool
	asked    []string
}

func (r *recorder) callbacks() *port.SurfaceCallbacks {
	return &port.SurfaceCallbacks{
		OnWillNavigate: func(url string) bool {
			r.asked = append(r.asked, url)
			return r.allow
		},
		OnDidStartLoading: func() { r.events = append(r.events, "start-loading") },
		OnDidStartNavigation: func(nav port.NavigationStart) {
			r.navs = append(r.navs, nav)
			r.events = append(r.events, "start-navigation")
		},
		OnDidNavigate: func(url string, code int) {
			r.status = code
			r.events = append(r.events, "navigate "+url)
		},
		OnDidNavigateInPage: func(url string) { r.events = append(r.events, "in-page "+url) },
		OnDidStopLoading:    func() { r.events = append(r.events, "stop-loading") },
		OnDOMReady:          func() { r.events = append(r.events, "dom-ready") },
		OnDidFailLoad:       func(f entity.LoadFailure) { r.failures = append(r.failures, f) },
		OnTitleUpdated:      func(title string) { r.title = title },
		OnNewWindow:         func(req port.NewWindowRequest) { r.windows = append(r.windows, req) },
		OnMediaStarted:      func() { r.events = append(r.events, "media-started") },
		OnMediaPaused:       func() { r.events = append(r.events, "media-paused") },
	}
}

type fixture struct {
	loop *mainloop.Manual
	s    *Surface
	rec  *recorder
	exec int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{loop: mainloop.NewManual(), rec: &recorder{allow: true}}
	f.s = newSurface(context.Background(), f.loop, nil, "s1", newURLMapper(gateway), zerolog.Nop())
	f.s.mainFrame = "main"
	f.s.exec = func(op) { f.exec++ }
	f.s.SetCallbacks(f.rec.callbacks())
	return f
}

func docRequestEvent(id, frame, url string) *network.EventRequestWillBeSent {
	return &network.EventRequestWillBeSent{
		RequestID: network.RequestID(id),
		FrameID:   cdp.FrameID(frame),
		Type:      network.ResourceTypeDocument,
		Request:   &network.Request{URL: url},
	}
}

func TestURLMapper(t *testing.T) {
	m := newURLMapper("http://127.0.0.1:9333/drive")

	assert.Equal(t, gateway+"site.test/a/b.html?x=1#top", m.toChrome("hyper://site.test/a/b.html?x=1#top"))
	assert.Equal(t, "https://example.com/", m.toChrome("https://example.com/"))
	assert.Equal(t, "hyper://site.test/a/", m.fromChrome(gateway+"site.test/a/"))
	assert.Equal(t, "https://example.com/", m.fromChrome("https://example.com/"))

	none := newURLMapper("")
	assert.Equal(t, "hyper://site.test/", none.toChrome("hyper://site.test/"))
	assert.Equal(t, gateway, none.fromChrome(gateway))
}

func TestParseNetError(t *testing.T) {
	code, desc := parseNetError("net::ERR_NAME_NOT_RESOLVED", false)
	assert.Equal(t, -105, code)
	assert.Equal(t, "ERR_NAME_NOT_RESOLVED", desc)

	code, desc = parseNetError("", true)
	assert.Equal(t, entity.ErrCodeAborted, code)
	assert.Equal(t, "ERR_ABORTED", desc)

	code, _ = parseNetError("net::ERR_SOMETHING_NEW", false)
	assert.Equal(t, -2, code)
}

func TestParseFlags(t *testing.T) {
	got := parseFlags([]string{"--no-sandbox", "window-size=800,600", " ", "--lang=en"})
	assert.Equal(t, map[string]any{"no-sandbox": true, "window-size": "800,600", "lang": "en"}, got)
}

func TestDispositionFor(t *testing.T) {
	assert.Equal(t, port.DispositionForegroundTab, dispositionFor(nil))
	assert.Equal(t, port.DispositionForegroundTab, dispositionFor([]string{"noopener"}))
	assert.Equal(t, port.DispositionNewWindow, dispositionFor([]string{"width=400", "height=300"}))
	assert.Equal(t, port.DispositionNewWindow, dispositionFor([]string{"Popup"}))
}

func TestCallHelper(t *testing.T) {
	script, err := callHelper("__tabshellFind", "a\"b", true, false)
	require.NoError(t, err)
	assert.Contains(t, script, `f(...["a\"b",true,false])`)
	assert.Contains(t, script, "window.__tabshellFind")
}

func TestSurface_NavigationLifecycle(t *testing.T) {
	f := newFixture(t)
	s := f.s

	s.handleEvent(&page.EventFrameStartedLoading{FrameID: "main"})
	s.handleEvent(docRequestEvent("r1", "main", gateway+"site.test/"))
	assert.True(t, s.IsWaitingForResponse())
	s.handleEvent(&network.EventResponseReceived{
		RequestID: "r1",
		FrameID:   "main",
		Type:      network.ResourceTypeDocument,
		Response:  &network.Response{Status: 404},
	})
	assert.False(t, s.IsWaitingForResponse())
	s.handleEvent(&page.EventFrameNavigated{Frame: &cdp.Frame{ID: "main", URL: gateway + "site.test/"}})
	assert.True(t, s.IsLoading())
	s.handleEvent(&page.EventDomContentEventFired{})
	s.handleEvent(&page.EventFrameStoppedLoading{FrameID: "main"})

	assert.Empty(t, f.rec.events, "callbacks wait for the control loop")
	f.loop.Drain()

	assert.Equal(t, []string{
		"start-loading",
		"start-navigation",
		"navigate hyper://site.test/",
		"dom-ready",
		"stop-loading",
	}, f.rec.events)
	assert.Equal(t, 404, f.rec.status)
	require.Len(t, f.rec.navs, 1)
	assert.Equal(t, port.NavigationStart{URL: "hyper://site.test/", FrameID: "main", IsMainFrame: true}, f.rec.navs[0])
	assert.Equal(t, "hyper://site.test/", s.URL())
	assert.False(t, s.IsLoading())
	assert.NotEmpty(t, s.takeOps(), "history state is refreshed")
}

func TestSurface_RedirectStartsOneNavigation(t *testing.T) {
	f := newFixture(t)
	f.s.handleEvent(docRequestEvent("r1", "main", "http://a.test/"))
	f.s.handleEvent(docRequestEvent("r1", "main", "https://a.test/"))
	f.loop.Drain()

	require.Len(t, f.rec.navs, 1)
	assert.Equal(t, "http://a.test/", f.rec.navs[0].URL)
}

func TestSurface_SubframeNavigation(t *testing.T) {
	f := newFixture(t)
	f.s.handleEvent(docRequestEvent("r1", "child", "https://ads.test/"))
	f.s.handleEvent(&page.EventFrameNavigated{Frame: &cdp.Frame{ID: "child", ParentID: "main", URL: "https://ads.test/"}})
	f.loop.Drain()

	require.Len(t, f.rec.navs, 1)
	assert.False(t, f.rec.navs[0].IsMainFrame)
	assert.False(t, f.s.IsWaitingForResponse())
	assert.Equal(t, []string{"start-navigation"}, f.rec.events, "subframe commits are not reported")
}

func TestSurface_LoadFailure(t *testing.T) {
	f := newFixture(t)
	f.s.handleEvent(docRequestEvent("r1", "main", "https://gone.test/"))
	f.s.handleEvent(&network.EventLoadingFailed{RequestID: "r1", ErrorText: "net::ERR_NAME_NOT_RESOLVED"})
	f.s.handleEvent(&network.EventLoadingFailed{RequestID: "unknown", ErrorText: "net::ERR_FAILED"})
	f.loop.Drain()

	require.Len(t, f.rec.failures, 1)
	assert.Equal(t, entity.LoadFailure{
		Code:         -105,
		Description:  "ERR_NAME_NOT_RESOLVED",
		ValidatedURL: "https://gone.test/",
		IsMainFrame:  true,
	}, f.rec.failures[0])
	assert.False(t, f.s.IsWaitingForResponse())
}

func TestSurface_InPageNavigation(t *testing.T) {
	f := newFixture(t)
	f.s.handleEvent(&page.EventNavigatedWithinDocument{FrameID: "main", URL: "https://a.test/#b"})
	f.loop.Drain()

	assert.Equal(t, []string{"start-navigation", "in-page https://a.test/#b"}, f.rec.events)
	require.Len(t, f.rec.navs, 1)
	assert.True(t, f.rec.navs[0].IsInPlace)
	assert.Equal(t, "https://a.test/#b", f.s.URL())
}

func TestSurface_PageMessages(t *testing.T) {
	f := newFixture(t)
	s := f.s
	binding := func(payload string) {
		s.handleEvent(&runtime.EventBindingCalled{Name: bindingName, Payload: payload})
	}

	binding(`{"type":"title","payload":{"title":"Hello"}}`)
	binding(`{"type":"media","payload":{"playing":true}}`)
	binding(`not json`)
	s.handleEvent(&runtime.EventBindingCalled{Name: "other", Payload: `{"type":"title","payload":{"title":"x"}}`})
	f.loop.Drain()

	assert.Equal(t, "Hello", s.Title())
	assert.Equal(t, "Hello", f.rec.title)
	assert.True(t, s.IsCurrentlyAudible())
	assert.Equal(t, []string{"media-started"}, f.rec.events)

	require.NoError(t, s.SetAudioMuted(context.Background(), true))
	assert.True(t, s.IsAudioMuted())
	assert.False(t, s.IsCurrentlyAudible())

	binding(`{"type":"media","payload":{"playing":false}}`)
	f.loop.Drain()
	assert.Equal(t, []string{"media-started", "media-paused"}, f.rec.events)
}

func TestSurface_WindowOpen(t *testing.T) {
	f := newFixture(t)
	f.s.handleEvent(&page.EventWindowOpen{URL: gateway + "site.test/x", WindowName: "_blank"})
	f.loop.Drain()

	require.Len(t, f.rec.windows, 1)
	assert.Equal(t, port.NewWindowRequest{
		URL:         "hyper://site.test/x",
		FrameName:   "_blank",
		Disposition: port.DispositionForegroundTab,
	}, f.rec.windows[0])
}

func TestSurface_DialogsAreAnswered(t *testing.T) {
	f := newFixture(t)
	f.s.handleEvent(&page.EventJavascriptDialogOpening{Type: page.DialogTypeAlert})
	assert.Equal(t, 1, f.exec)
}

func TestSurface_AllowRequest(t *testing.T) {
	f := newFixture(t)
	paused := func(frame, url string) *fetch.EventRequestPaused {
		return &fetch.EventRequestPaused{
			RequestID:    "f1",
			FrameID:      cdp.FrameID(frame),
			ResourceType: network.ResourceTypeDocument,
			Request:      &network.Request{URL: url},
		}
	}

	assert.True(t, f.s.allowRequest(paused("child", "https://x.test/")), "subframes are not vetted")

	require.NoError(t, f.s.LoadURL(context.Background(), "hyper://site.test/"))
	assert.True(t, f.s.allowRequest(paused("main", gateway+"site.test/")), "own navigations are not vetted")
	assert.Empty(t, f.rec.asked)

	f.s.handleEvent(&page.EventFrameNavigated{Frame: &cdp.Frame{ID: "main", URL: gateway + "site.test/"}})
	f.rec.allow = false

	done := make(chan bool)
	go func() { done <- f.s.allowRequest(paused("main", "https://elsewhere.test/")) }()
	var allowed bool
	deadline := time.After(2 * time.Second)
wait:
	for {
		f.loop.Drain()
		select {
		case allowed = <-done:
			break wait
		case <-deadline:
			t.Fatal("navigation vetting did not finish")
		case <-time.After(time.Millisecond):
		}
	}
	assert.False(t, allowed)
	assert.Equal(t, []string{"https://elsewhere.test/"}, f.rec.asked)
}

func TestSurface_Destroyed(t *testing.T) {
	f := newFixture(t)
	f.s.handleEvent(&page.EventFrameStartedLoading{FrameID: "main"})
	f.s.Destroy()
	f.s.Destroy()
	f.loop.Drain()

	assert.True(t, f.s.IsDestroyed())
	assert.Empty(t, f.rec.events, "pending callbacks are dropped")
	assert.ErrorIs(t, f.s.LoadURL(context.Background(), "https://a.test/"), ErrDestroyed)
	_, err := f.s.DispatchBeforeUnload(context.Background())
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestSurface_SetBoundsSkipsUnchangedSize(t *testing.T) {
	f := newFixture(t)
	f.s.SetBounds(entity.Rect{Width: 800, Height: 600})
	f.s.SetBounds(entity.Rect{X: 10, Width: 800, Height: 600})
	f.s.SetBounds(entity.Rect{})

	assert.Len(t, f.s.takeOps(), 1)
	assert.Equal(t, entity.Rect{}, f.s.Bounds())
}

func TestSurface_ZoomRejectsNonPositive(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.s.SetZoomLevel(context.Background(), 0))
	require.NoError(t, f.s.SetZoomLevel(context.Background(), 1.5))
	assert.Len(t, f.s.takeOps(), 1)
}

func TestSurface_HiddenDefersBoundsUntilFocus(t *testing.T) {
	f := newFixture(t)
	f.s.hidden = true

	f.s.SetBounds(entity.Rect{Width: 800, Height: 600})
	assert.Empty(t, f.s.takeOps(), "hidden surfaces are not resized")
	assert.Equal(t, entity.Rect{Width: 800, Height: 600}, f.s.Bounds())
	assert.True(t, f.s.IsHidden())

	f.s.Focus()
	assert.False(t, f.s.IsHidden())
	assert.Len(t, f.s.takeOps(), 2, "recorded bounds are applied before bringing to front")

	f.s.Focus()
	assert.Len(t, f.s.takeOps(), 1)
}

func TestSurface_VisibleFocusOnlyBringsToFront(t *testing.T) {
	f := newFixture(t)
	f.s.SetBounds(entity.Rect{Width: 800, Height: 600})
	require.Len(t, f.s.takeOps(), 1)

	f.s.Focus()
	assert.Len(t, f.s.takeOps(), 1)
}
