package tabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
)

func activePane(t *testing.T, tab *Tab) *Pane {
	t.Helper()
	p, err := tab.ActivePane()
	require.NoError(t, err)
	return p
}

func driveHarness(t *testing.T, drives *fakeDrives, configure ...func(*ManagerConfig)) *harness {
	t.Helper()
	return newHarness(t, append([]func(*ManagerConfig){func(cfg *ManagerConfig) { cfg.Drives = drives }}, configure...)...)
}

func TestPane_LoadPhases(t *testing.T) {
	h := newHarness(t)
	tab := h.create("https://a.test/", CreateOptions{})
	s := surfaceOf(t, tab)
	p := activePane(t, tab)
	require.Equal(t, entity.LoadIdle, p.Phase())

	s.startNavigation("https://a.test/")
	assert.Equal(t, entity.LoadLoading, p.Phase())
	assert.Equal(t, "https://a.test/", p.LoadingURL())
	assert.True(t, h.lastUpdate().State.IsLoading)
	assert.Equal(t, "https://a.test/", tab.locationURL())

	s.commit("https://a.test/", 200)
	assert.Equal(t, entity.LoadReceivingAssets, p.Phase())
	assert.Empty(t, p.LoadingURL())
	assert.True(t, h.lastUpdate().State.IsReceivingAssets)

	s.cb.OnDidStopLoading()
	h.loop.Drain()
	assert.Equal(t, entity.LoadIdle, p.Phase())
	st := h.lastUpdate().State
	assert.False(t, st.IsLoading)
	assert.Equal(t, "https://a.test/", st.URL)
	assert.Equal(t, "https://a.test/", h.chrome.locations[len(h.chrome.locations)-1])
}

func TestPane_DOMReadyFinishesLoadWithoutStopSignal(t *testing.T) {
	h := newHarness(t)
	tab := h.create("https://a.test/", CreateOptions{})
	s := surfaceOf(t, tab)
	p := activePane(t, tab)

	s.startNavigation("https://a.test/")
	s.commit("https://a.test/", 200)
	s.cb.OnDOMReady()
	assert.Equal(t, entity.LoadIdle, p.Phase())

	before := len(h.events)
	s.cb.OnDOMReady()
	assert.Len(t, h.events, before, "dom-ready on an idle pane is ignored")
}

func TestPane_InPlaceNavigationKeepsPhase(t *testing.T) {
	h := newHarness(t)
	tab := h.create("https://a.test/", CreateOptions{})
	s := surfaceOf(t, tab)
	p := activePane(t, tab)
	s.navigate("https://a.test/")
	h.loop.Drain()

	s.cb.OnDidStartNavigation(port.NavigationStart{URL: "https://a.test/#top", FrameID: "main", IsMainFrame: true, IsInPlace: true})
	assert.Equal(t, entity.LoadIdle, p.Phase())
	assert.Empty(t, p.LoadingURL())
}

func TestPane_ConnectionRefusedShowsInsecureErrorPage(t *testing.T) {
	h := newHarness(t)
	tab := h.create("https://a.test/", CreateOptions{})
	s := surfaceOf(t, tab)
	p := activePane(t, tab)

	s.startNavigation("https://a.test/")
	s.cb.OnDidFailLoad(entity.LoadFailure{
		Code:         entity.ErrCodeConnectionRefused,
		Description:  "ERR_CONNECTION_REFUSED",
		ValidatedURL: "https://a.test/",
		IsMainFrame:  true,
	})

	require.NotNil(t, p.LoadError())
	assert.True(t, p.LoadError().IsInsecureResponse)
	assert.Equal(t, entity.ErrCodeConnectionRefused, p.LoadError().ErrorCode)
	require.NotNil(t, h.lastUpdate().State.LoadError)
	require.Len(t, s.scripts, 1)
	assert.Contains(t, s.scripts[0], "could not be reached securely")
	assert.Contains(t, s.scripts[0], "ERR_CONNECTION_REFUSED")

	s.startNavigation("https://b.test/")
	assert.Nil(t, p.LoadError(), "a new navigation clears the error")
}

func TestPane_IgnoredLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure entity.LoadFailure
	}{
		{name: "aborted", failure: entity.LoadFailure{Code: entity.ErrCodeAborted, IsMainFrame: true}},
		{name: "subframe", failure: entity.LoadFailure{Code: -105, IsMainFrame: false}},
		{name: "no code", failure: entity.LoadFailure{Code: entity.ErrCodeNone, IsMainFrame: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tab := h.create("https://a.test/", CreateOptions{})
			s := surfaceOf(t, tab)

			s.startNavigation("https://a.test/")
			s.cb.OnDidFailLoad(tt.failure)

			assert.Nil(t, activePane(t, tab).LoadError())
			assert.Empty(t, s.scripts)
		})
	}
}

func TestPane_GenericFailureIsNotInsecure(t *testing.T) {
	h := newHarness(t)
	tab := h.create("https://a.test/", CreateOptions{})
	s := surfaceOf(t, tab)

	s.cb.OnDidFailLoad(entity.LoadFailure{Code: -105, Description: "ERR_NAME_NOT_RESOLVED", IsMainFrame: true})
	loadErr := activePane(t, tab).LoadError()
	require.NotNil(t, loadErr)
	assert.False(t, loadErr.IsInsecureResponse)
	require.Len(t, s.scripts, 1)
	assert.Contains(t, s.scripts[0], "The page failed to load.")
}

func newDrives() *fakeDrives {
	return &fakeDrives{
		names: map[string]string{
			"hyper://one.test/": "k1",
			"hyper://two.test/": "k2",
		},
		infos: map[string]*entity.DriveInfo{
			"k1": {Key: "k1", Title: "Drive One", Peers: 3},
			"k2": {Key: "k2", Title: "Drive Two", Writable: true},
		},
	}
}

func TestPane_RefreshLoadsDriveInfo(t *testing.T) {
	h := driveHarness(t, newDrives())
	tab := h.create("hyper://one.test/", CreateOptions{})
	surfaceOf(t, tab).navigate("hyper://one.test/")
	h.loop.Drain()

	p := activePane(t, tab)
	require.NotNil(t, p.DriveInfo())
	assert.Equal(t, "k1", p.DriveInfo().Key)
	st := h.lastUpdate().State
	assert.Equal(t, 3, st.Peers)
	assert.Equal(t, "Drive One", st.Title)
}

func TestPane_StaleRefreshIsDiscarded(t *testing.T) {
	h := driveHarness(t, newDrives())
	tab := h.create("hyper://one.test/", CreateOptions{})
	s := surfaceOf(t, tab)
	p := activePane(t, tab)

	h.loop.HoldWorkers(true)
	s.startNavigation("hyper://one.test/")
	s.commit("hyper://one.test/", 200)
	s.startNavigation("hyper://two.test/")

	h.loop.RunWorkers()
	h.loop.Drain()
	assert.Nil(t, p.DriveInfo(), "result for the superseded navigation is dropped")

	h.loop.HoldWorkers(false)
	s.commit("hyper://two.test/", 200)
	h.loop.Drain()
	require.NotNil(t, p.DriveInfo())
	assert.Equal(t, "k2", p.DriveInfo().Key)
}

func TestPane_RefreshAfterDestroyIsDropped(t *testing.T) {
	h := driveHarness(t, newDrives())
	h.create("https://a.test/", CreateOptions{})
	tab := h.create("hyper://one.test/", CreateOptions{})
	s := surfaceOf(t, tab)
	p := activePane(t, tab)

	h.loop.HoldWorkers(true)
	s.startNavigation("hyper://one.test/")
	s.commit("hyper://one.test/", 200)
	tab.RemovePane(p)
	require.True(t, p.IsDestroyed())

	h.loop.HoldWorkers(false)
	h.loop.RunWorkers()
	h.loop.Drain()
	assert.Nil(t, p.DriveInfo())
	assert.True(t, tab.IsDestroyed())
}

func TestPane_NotFoundOnWritableDriveOffersCreatePage(t *testing.T) {
	drives := newDrives()
	drives.names["hyper://two.test/missing"] = "k2"
	h := driveHarness(t, drives)
	tab := h.create("hyper://two.test/missing", CreateOptions{})
	s := surfaceOf(t, tab)

	s.startNavigation("hyper://two.test/missing")
	s.commit("hyper://two.test/missing", 404)
	h.loop.Drain()

	assert.Equal(t, []string{port.PromptCreatePage}, h.prompts.created)
}

func TestPane_ProfileDrivePromptsOnce(t *testing.T) {
	drives := newDrives()
	drives.infos["k1"].Ident.Profile = true
	h := driveHarness(t, drives)
	tab := h.create("hyper://one.test/", CreateOptions{})
	s := surfaceOf(t, tab)

	s.navigate("hyper://one.test/")
	h.loop.Drain()
	s.navigate("hyper://one.test/")
	h.loop.Drain()

	assert.Equal(t, []string{port.PromptEditProfile}, h.prompts.created)
}

func TestPane_DriveAlternative(t *testing.T) {
	drives := newDrives()
	drives.names["example.com"] = "k3"
	h := driveHarness(t, drives)
	tab := h.create("https://example.com/", CreateOptions{})
	s := surfaceOf(t, tab)

	s.navigate("https://example.com/")
	h.loop.Drain()
	assert.Equal(t, "hyper:", activePane(t, tab).AvailableAlternative())

	s.navigate("https://other.test/")
	h.loop.Drain()
	assert.Empty(t, activePane(t, tab).AvailableAlternative())
}

func TestPane_AutoRedirectToDrive(t *testing.T) {
	drives := newDrives()
	drives.names["example.com"] = "k3"
	h := driveHarness(t, drives, func(cfg *ManagerConfig) { cfg.Tabs.AutoRedirectToDrive = true })
	tab := h.create("https://example.com/", CreateOptions{})
	s := surfaceOf(t, tab)

	s.navigate("https://example.com/")
	h.loop.Drain()
	assert.Equal(t, "hyper://example.com/", s.loads[len(s.loads)-1])

	h.m.AddToNoRedirects("https://EXAMPLE.com/page")
	loads := len(s.loads)
	s.navigate("https://example.com/")
	h.loop.Drain()
	assert.Len(t, s.loads, loads)
	assert.Equal(t, "hyper:", activePane(t, tab).AvailableAlternative())
}

func TestPane_LiveReloading(t *testing.T) {
	drives := newDrives()
	h := driveHarness(t, drives)
	tab := h.create("hyper://one.test/", CreateOptions{})
	s := surfaceOf(t, tab)
	p := activePane(t, tab)
	s.navigate("hyper://one.test/")
	h.loop.Drain()

	p.SetLiveReloading(true)
	h.loop.Drain()
	require.True(t, p.IsLiveReloading())
	require.Len(t, drives.watchers, 1)
	assert.True(t, h.lastUpdate().State.IsLiveReloading)

	drives.onChange("/index.html")
	h.loop.Drain()
	assert.Equal(t, 1, s.reloads)

	drives.onChange("/index.html")
	drives.onChange("/style.css")
	h.loop.Drain()
	assert.Equal(t, 1, s.reloads, "changes inside the window are collapsed")

	h.loop.Advance(h.m.Config().LiveReloadWindow)
	assert.Equal(t, 2, s.reloads)

	s.startNavigation("https://elsewhere.test/")
	assert.False(t, p.IsLiveReloading(), "leaving the origin stops live reloading")
	assert.True(t, drives.watchers[0].closed)
}

func TestPane_LiveReloadingNeedsDrive(t *testing.T) {
	h := driveHarness(t, newDrives())
	tab := h.create("https://a.test/", CreateOptions{})
	p := activePane(t, tab)

	p.ToggleLiveReloading()
	assert.False(t, p.IsLiveReloading())
}

func TestPane_DriveUpdatedRefreshesMatchingPanes(t *testing.T) {
	drives := newDrives()
	h := driveHarness(t, drives)
	tab := h.create("hyper://one.test/", CreateOptions{})
	surfaceOf(t, tab).navigate("hyper://one.test/")
	h.loop.Drain()
	require.Equal(t, 3, activePane(t, tab).DriveInfo().Peers)

	drives.infos["k1"].Peers = 9
	drives.cb.OnDriveUpdated("hyper://one.test/")
	h.loop.Drain()
	assert.Equal(t, 9, h.lastUpdate().State.Peers)
}

func TestPane_LoadURLInAppWindowOpensCrossOriginElsewhere(t *testing.T) {
	h := newHarness(t)
	h.create("https://keep.test/", CreateOptions{})
	tab := h.create("https://a.test/", CreateOptions{})
	app := h.ws.newWindow(true)
	require.NoError(t, h.m.TransferTabToWindow(h.ctx, tab, app))

	s := surfaceOf(t, tab)
	s.navigate("https://a.test/")
	h.loop.Drain()
	p := activePane(t, tab)

	p.LoadURL("https://a.test/next")
	assert.Equal(t, "https://a.test/next", s.loads[len(s.loads)-1])

	p.LoadURL("https://b.test/")
	assert.Equal(t, "https://a.test/next", s.loads[len(s.loads)-1])
	tabs := h.m.Tabs(h.win)
	require.Len(t, tabs, 2)
	assert.Equal(t, []string{"https://b.test/"}, surfaceOf(t, tabs[1]).loads)
	assert.True(t, tabs[1].IsActive())

	assert.False(t, s.cb.OnWillNavigate("https://c.test/"))
	assert.True(t, s.cb.OnWillNavigate("https://a.test/other"))
	assert.Len(t, h.m.Tabs(h.win), 3)
}

func TestPane_AppWindowTitleFollowsPage(t *testing.T) {
	h := newHarness(t)
	h.create("https://keep.test/", CreateOptions{})
	tab := h.create("https://a.test/", CreateOptions{})
	app := h.ws.newWindow(true)
	require.NoError(t, h.m.TransferTabToWindow(h.ctx, tab, app))

	surfaceOf(t, tab).cb.OnTitleUpdated("Inbox (3)")
	assert.Equal(t, "Inbox (3)", app.title)
	assert.Empty(t, h.win.title)
}

func TestPane_InpageFind(t *testing.T) {
	h := newHarness(t)
	tab := h.create("https://a.test/", CreateOptions{})
	s := surfaceOf(t, tab)
	p := activePane(t, tab)

	p.ShowInpageFind()
	assert.True(t, h.lastUpdate().State.IsInpageFindActive)

	p.SetInpageFindString("tabs", 1)
	s.cb.OnFoundInPage(entity.FindResults{ActiveMatchOrdinal: 1, Matches: 4})
	st := h.lastUpdate().State
	require.NotNil(t, st.CurrentInpageFindResults)
	assert.Equal(t, 4, st.CurrentInpageFindResults.Matches)

	p.HideInpageFind()
	st = h.lastUpdate().State
	assert.False(t, st.IsInpageFindActive)
	assert.Empty(t, st.CurrentInpageFindString)
	assert.Nil(t, st.CurrentInpageFindResults)
}

func TestPane_StatusAndFavicons(t *testing.T) {
	h := newHarness(t)
	tab := h.create("https://a.test/", CreateOptions{})
	s := surfaceOf(t, tab)

	s.cb.OnUpdateTargetURL("https://a.test/link")
	assert.Equal(t, "https://a.test/link", h.chrome.status)

	s.cb.OnFaviconUpdated([]string{"https://a.test/favicon.ico"})
	assert.Equal(t, []string{"https://a.test/favicon.ico"}, h.lastUpdate().State.Favicons)

	s.startNavigation("https://b.test/")
	assert.Empty(t, h.lastUpdate().State.Favicons)
}

func TestPane_MediaChangesSettleBeforeUpdate(t *testing.T) {
	h := newHarness(t)
	tab := h.create("https://a.test/", CreateOptions{})
	s := surfaceOf(t, tab)

	before := len(h.events)
	s.cb.OnMediaStarted()
	s.cb.OnMediaPaused()
	assert.Len(t, h.events, before)

	h.loop.Advance(h.m.Config().MediaSettleDelay)
	updates := 0
	for _, ev := range h.events[before:] {
		if ev.Kind == EventUpdateState {
			updates++
		}
	}
	assert.Equal(t, 1, updates)
}

func TestPane_CallbacksAfterDestroyAreIgnored(t *testing.T) {
	h := newHarness(t)
	h.create("https://a.test/", CreateOptions{})
	tab := h.create("https://b.test/", CreateOptions{})
	s := surfaceOf(t, tab)
	cb := s.cb
	p := activePane(t, tab)

	h.m.Remove(h.ctx, h.win, tab)
	h.loop.Drain()
	require.True(t, p.IsDestroyed())
	require.True(t, s.destroyed)

	before := len(h.events)
	cb.OnDidStartNavigation(port.NavigationStart{URL: "https://x.test/", FrameID: "main", IsMainFrame: true})
	cb.OnDidNavigate("https://x.test/", 200)
	cb.OnDidStopLoading()
	h.loop.Drain()
	assert.Len(t, h.events, before)
	assert.Equal(t, entity.LoadIdle, p.Phase())
}
