package tabs

import (
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	urlutil "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/logging"
)

const (
	httpNotFound       = 404
	httpGatewayTimeout = 504
)

func (p *Pane) callbacks() *port.SurfaceCallbacks {
	return &port.SurfaceCallbacks{
		OnWillNavigate:       p.onWillNavigate,
		OnDidStartLoading:    p.onDidStartLoading,
		OnDidStartNavigation: p.onDidStartNavigation,
		OnDidNavigate:        p.onDidNavigate,
		OnDidNavigateInPage:  p.onDidNavigateInPage,
		OnDidStopLoading:     p.onDidStopLoading,
		OnDOMReady:           p.onDOMReady,
		OnDidFailLoad:        p.onDidFailLoad,
		OnUpdateTargetURL:    p.onUpdateTargetURL,
		OnTitleUpdated:       p.onTitleUpdated,
		OnFaviconUpdated:     p.onFaviconUpdated,
		OnNewWindow:          p.onNewWindow,
		OnMediaStarted:       p.onMediaChanged,
		OnMediaPaused:        p.onMediaChanged,
		OnFoundInPage:        p.onFoundInPage,
		OnZoomChanged:        p.onZoomChanged,
		OnFocused:            p.onFocused,
		OnScriptClose:        p.onScriptClose,
	}
}

// onWillNavigate keeps app windows on their origin: a cross-origin
// navigation opens a new tab in an ordinary window instead.
func (p *Pane) onWillNavigate(target string) bool {
	if !p.alive() || p.hidden() {
		return true
	}
	win := p.window()
	if win == nil || !win.IsAppWindow() {
		return true
	}
	cur := p.URL()
	if cur == "" || entity.Origin(cur) == entity.Origin(target) {
		return true
	}
	if _, err := p.m.Create(p.ctx, win, target, CreateOptions{SetActive: true}); err != nil {
		logging.FromContext(p.ctx).Warn().Err(err).Msg("failed to open cross-origin tab")
	}
	return false
}

func (p *Pane) onDidStartLoading() {
	if !p.alive() {
		return
	}
	p.wasDriveTimeout = false
	if p.phase == entity.LoadReceivingAssets {
		p.phase = entity.LoadLoading
	}
	p.emitUpdateState()
}

func (p *Pane) onDidStartNavigation(nav port.NavigationStart) {
	if !p.alive() {
		return
	}
	p.frameURLs[nav.FrameID] = nav.URL
	if !nav.IsMainFrame {
		return
	}
	p.mainFrameID = nav.FrameID
	// Same-document navigations never reach the stop-loading signal.
	if nav.IsInPlace {
		return
	}

	if entity.Origin(nav.URL) != entity.Origin(p.URL()) {
		p.stopLiveReloading()
	}

	p.navSeq++
	p.loadingURL = nav.URL
	p.phase = entity.LoadLoading
	p.loadError = nil
	p.favicons = nil
	p.emitUpdateState()
	if p.hidden() {
		p.m.notifyBackgroundTabs()
	}
}

func (p *Pane) onDidNavigate(committed string, httpResponseCode int) {
	if !p.alive() {
		return
	}
	p.m.prompts.Close(p.surface)
	p.m.modals.Close(p.surface)

	p.loadError = nil
	p.loadingURL = ""
	p.phase = entity.LoadReceivingAssets
	p.favicons = nil
	p.frameURLs = map[string]string{p.mainFrameID: committed}
	if httpResponseCode == httpGatewayTimeout && urlutil.Scheme(committed) == entity.DriveScheme {
		p.wasDriveTimeout = true
	}
	if p.tab.isActive && p.isActive {
		p.surface.Focus()
	}

	p.readZoom()
	p.emitUpdateState()

	p.refresh(func() {
		p.promptAfterNavigate(httpResponseCode)
	})
}

// promptAfterNavigate offers to create missing pages on writable drives
// and to edit the profile drive on its first visit.
func (p *Pane) promptAfterNavigate(httpResponseCode int) {
	params := map[string]any{"url": p.URL()}
	switch {
	case httpResponseCode == httpNotFound && p.driveInfo != nil && p.driveInfo.Writable:
		p.m.prompts.Create(p.surface, port.PromptCreatePage, params)
	case !p.m.visitedProfile && p.driveInfo != nil && p.driveInfo.Ident.Profile:
		p.m.visitedProfile = true
		p.m.prompts.Create(p.surface, port.PromptEditProfile, params)
	}
}

func (p *Pane) onDidNavigateInPage(string) {
	if !p.alive() {
		return
	}
	p.fetchIsBookmarked()
	p.updateHistory()
}

func (p *Pane) onDidStopLoading() {
	if !p.alive() {
		return
	}
	p.updateHistory()

	p.phase = entity.LoadIdle
	p.loadingURL = ""

	p.checkDriveAlternative()

	if win := p.window(); win != nil && !p.hidden() {
		p.m.chrome.SetCurrentLocation(win, p.URL())
	}
	p.emitUpdateState()
}

// onDOMReady finishes the load cycle when the stop signal went missing.
func (p *Pane) onDOMReady() {
	if !p.alive() {
		return
	}
	if p.phase != entity.LoadIdle {
		p.onDidStopLoading()
	}
}

func (p *Pane) onDidFailLoad(failure entity.LoadFailure) {
	if !p.alive() {
		return
	}
	loadErr := failure.Classify()
	if loadErr == nil {
		return
	}
	p.loadError = loadErr
	p.emitUpdateState()
	p.renderErrorPage(loadErr)
}

func (p *Pane) renderErrorPage(loadErr *entity.LoadError) {
	script, err := errorPageScript(loadErr)
	if err != nil {
		logging.FromContext(p.ctx).Warn().Err(err).Msg("failed to render error page")
		return
	}
	surface := p.surface
	p.m.loop.Go(func() {
		var ignored bool
		if err := surface.ExecuteScript(p.ctx, script, &ignored); err != nil {
			logging.FromContext(p.ctx).Debug().Err(err).Msg("failed to show error page")
		}
	})
}

func (p *Pane) onUpdateTargetURL(target string) {
	if !p.alive() || p.hidden() {
		return
	}
	win := p.window()
	if win == nil || win.IsDestroyed() {
		return
	}
	p.m.chrome.SetStatus(win, target)
}

func (p *Pane) onTitleUpdated(title string) {
	if !p.alive() {
		return
	}
	if win := p.window(); win != nil {
		if win.IsDestroyed() {
			return
		}
		if win.IsAppWindow() {
			win.SetTitle(title)
		}
	}
	p.emitUpdateState()
}

func (p *Pane) onFaviconUpdated(favicons []string) {
	if !p.alive() {
		return
	}
	if len(favicons) > 0 && favicons[0] != "" {
		p.favicons = append([]string(nil), favicons...)
		p.storeFavicon(favicons[0])
	} else {
		p.favicons = nil
	}
	p.emitUpdateState()
}

// onNewWindow opens page-requested windows as tabs next to the active tab.
func (p *Pane) onNewWindow(req port.NewWindowRequest) {
	if !p.alive() || !p.tab.isActive || p.window() == nil {
		return
	}
	setActive := req.Disposition == port.DispositionForegroundTab
	_, err := p.m.Create(p.ctx, p.window(), req.URL, CreateOptions{
		SetActive:           setActive,
		SetActiveBySettings: !setActive,
		AdjacentActive:      true,
	})
	if err != nil {
		logging.FromContext(p.ctx).Warn().Err(err).Str("url", req.URL).Msg("failed to open new window as tab")
	}
}

func (p *Pane) onMediaChanged() {
	if !p.alive() {
		return
	}
	p.mediaChanged()
}

func (p *Pane) onFoundInPage(res entity.FindResults) {
	if !p.alive() {
		return
	}
	p.findResults = &res
	p.emitUpdateState()
}

func (p *Pane) onZoomChanged(dir port.ZoomDirection) {
	if !p.alive() {
		return
	}
	p.changeZoom(dir)
}

func (p *Pane) onFocused() {
	if !p.alive() {
		return
	}
	p.tab.lastFocused = p
}

func (p *Pane) onScriptClose() {
	if !p.alive() {
		return
	}
	p.m.scriptCloseSelf(p.ctx, p)
}

// --- bookmark and drive state ---

type refreshResult struct {
	bookmarked     bool
	drive          *entity.DriveInfo
	folderSyncPath string
}

// RefreshState re-reads bookmark and drive state and emits one update.
func (p *Pane) RefreshState() {
	if !p.alive() {
		return
	}
	p.refresh(nil)
}

// refresh fetches bookmark and drive state concurrently off the control
// thread. Results for a superseded navigation or a destroyed pane are dropped.
func (p *Pane) refresh(then func()) {
	seq := p.navSeq
	pageURL := p.URL()
	p.m.loop.Go(func() {
		var res refreshResult
		g, gctx := errgroup.WithContext(p.ctx)
		g.Go(func() error {
			res.bookmarked = p.m.lookupBookmark(gctx, pageURL)
			return nil
		})
		g.Go(func() error {
			res.drive, res.folderSyncPath = p.m.lookupDrive(gctx, pageURL)
			return nil
		})
		_ = g.Wait()

		p.m.loop.Post(func() {
			if !p.alive() || seq != p.navSeq {
				return
			}
			p.setBookmarked(res.bookmarked)
			p.driveInfo = res.drive
			p.folderSyncPath = res.folderSyncPath
			p.peers = 0
			if res.drive != nil {
				p.peers = res.drive.Peers
			}
			if then != nil {
				then()
			}
			p.emitUpdateState()
		})
	})
}

func (p *Pane) fetchIsBookmarked() {
	seq := p.navSeq
	pageURL := p.URL()
	p.m.loop.Go(func() {
		bookmarked := p.m.lookupBookmark(p.ctx, pageURL)
		p.m.loop.Post(func() {
			if !p.alive() || seq != p.navSeq {
				return
			}
			p.setBookmarked(bookmarked)
			p.emitUpdateState()
		})
	})
}

// setBookmarked captures a thumbnail when the page becomes bookmarked.
func (p *Pane) setBookmarked(bookmarked bool) {
	was := p.isBookmarked
	p.isBookmarked = bookmarked
	if bookmarked && !was {
		p.CaptureScreenshot()
	}
}

// checkDriveAlternative looks for a drive published under an https page's
// hostname and either redirects to it or records it as an alternative.
func (p *Pane) checkDriveAlternative() {
	pageURL := p.URL()
	drives := p.m.drives
	if drives == nil || !strings.HasPrefix(pageURL, "https://") {
		p.availableAlternative = ""
		return
	}
	host := urlutil.Hostname(pageURL)
	seq := p.navSeq
	p.m.loop.Go(func() {
		key, err := drives.ResolveName(p.ctx, host)
		found := err == nil && key != ""
		p.m.loop.Post(func() {
			if !p.alive() || seq != p.navSeq {
				return
			}
			if !found {
				if p.availableAlternative != "" {
					p.availableAlternative = ""
					p.emitUpdateState()
				}
				return
			}
			if p.m.cfg.AutoRedirectToDrive && !p.m.isNoRedirect(host) {
				p.LoadURL(urlutil.ReplaceScheme(pageURL, entity.DriveScheme))
				return
			}
			p.availableAlternative = entity.DriveScheme + ":"
			p.emitUpdateState()
		})
	})
}

// --- live reloading ---

// IsLiveReloading reports whether the page reloads on drive changes.
func (p *Pane) IsLiveReloading() bool { return p.liveReload != nil }

// ToggleLiveReloading flips live reloading.
func (p *Pane) ToggleLiveReloading() {
	p.SetLiveReloading(p.liveReload == nil)
}

// SetLiveReloading watches the page's drive and reloads on each change.
// It only has an effect on drive pages.
func (p *Pane) SetLiveReloading(enable bool) {
	if !p.alive() {
		return
	}
	if !enable {
		if p.liveReload != nil {
			p.stopLiveReloading()
			p.emitUpdateState()
		}
		return
	}
	drives := p.m.drives
	if p.liveReload != nil || drives == nil || p.driveInfo == nil {
		return
	}

	r := NewLiveReloader(p.m.loop, p.m.cfg.LiveReloadWindow, p.Reload)
	p.liveReload = r
	key := p.driveInfo.Key
	loop := p.m.loop
	loop.Go(func() {
		w, err := drives.Watch(p.ctx, key, func(string) {
			loop.Post(r.Trigger)
		})
		loop.Post(func() {
			if err != nil {
				logging.FromContext(p.ctx).Warn().Err(err).Msg("failed to watch drive")
				if p.liveReload == r {
					p.stopLiveReloading()
					p.emitUpdateState()
				}
				return
			}
			r.attach(w)
		})
	})
	p.emitUpdateState()
}
