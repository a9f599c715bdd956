package tabs

import (
	"context"
	"strings"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	urlutil "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// lifecycle is the liveness state checked by every async continuation.
type lifecycle int

const (
	lifeAlive lifecycle = iota
	lifeDestroyed
)

// Pane is one content surface inside a tab, with its navigation state.
type Pane struct {
	id      entity.PaneID
	tab     *Tab
	m       *Manager
	surface port.ContentSurface
	ctx     context.Context
	life    lifecycle

	phase       entity.LoadPhase
	loadingURL  string
	loadError   *entity.LoadError
	favicons    []string
	zoom        float64
	isActive    bool
	mainFrameID string
	frameURLs   map[string]string
	// navSeq increments on every main-frame navigation; refreshes started
	// for an older navigation are discarded.
	navSeq uint64

	isBookmarked         bool
	driveInfo            *entity.DriveInfo
	folderSyncPath       string
	peers                int
	availableAlternative string
	wasDriveTimeout      bool

	findActive  bool
	findString  string
	findResults *entity.FindResults

	liveReload      *LiveReloader
	mediaTimer      mainloop.Timer
	screenshotTimer mainloop.Timer
}

func newPane(ctx context.Context, m *Manager, tab *Tab, surface port.ContentSurface) *Pane {
	id := entity.PaneID(m.newID())
	p := &Pane{
		id:        id,
		tab:       tab,
		m:         m,
		surface:   surface,
		ctx:       logging.WithPaneID(ctx, string(id)),
		zoom:      entity.ZoomDefault,
		frameURLs: make(map[string]string),
	}
	surface.SetCallbacks(p.callbacks())
	return p
}

// ID returns the pane ID.
func (p *Pane) ID() entity.PaneID { return p.id }

// Tab returns the owning tab.
func (p *Pane) Tab() *Tab { return p.tab }

// Surface returns the pane's content surface.
func (p *Pane) Surface() port.ContentSurface { return p.surface }

// IsActive reports whether this is the active pane of its tab.
func (p *Pane) IsActive() bool { return p.isActive }

// IsDestroyed reports whether the pane was destroyed.
func (p *Pane) IsDestroyed() bool { return p.life == lifeDestroyed }

// Phase returns the load phase of the current navigation.
func (p *Pane) Phase() entity.LoadPhase { return p.phase }

// LoadingURL returns the URL being loaded, or "" once committed.
func (p *Pane) LoadingURL() string { return p.loadingURL }

// LoadError returns the classified error of the last failed load.
func (p *Pane) LoadError() *entity.LoadError { return p.loadError }

// DriveInfo returns the drive metadata of the current page, if any.
func (p *Pane) DriveInfo() *entity.DriveInfo { return p.driveInfo }

// AvailableAlternative is the scheme the page is also reachable on ("hyper:").
func (p *Pane) AvailableAlternative() string { return p.availableAlternative }

// WasDriveTimeout reports whether the last drive load timed out.
func (p *Pane) WasDriveTimeout() bool { return p.wasDriveTimeout }

// Zoom returns the pane's zoom factor.
func (p *Pane) Zoom() float64 { return p.zoom }

func (p *Pane) alive() bool { return p.life == lifeAlive }

func (p *Pane) hidden() bool { return p.tab.isHidden }

func (p *Pane) window() port.Window { return p.tab.window }

// URL returns the committed URL, or "" for a destroyed pane.
func (p *Pane) URL() string {
	if !p.alive() {
		return ""
	}
	return p.surface.URL()
}

// Title returns the display title, substituting the drive title where the
// page has none.
func (p *Pane) Title() string {
	if !p.alive() {
		return ""
	}
	return entity.PageTitle(p.surface.Title(), p.URL(), p.driveInfo)
}

// State returns the fixed set of fields broadcast for this pane's tab.
func (p *Pane) State() entity.TabState {
	siteURL := p.loadingURL
	if siteURL == "" {
		siteURL = p.URL()
	}
	site := entity.SiteInput{URL: siteURL, Drive: p.driveInfo, LoadError: p.loadError}

	st := entity.TabState{
		ID:                       p.tab.id,
		URL:                      p.URL(),
		Title:                    p.Title(),
		SiteTitle:                site.SiteTitle(),
		SiteSubtitle:             site.SiteSubtitle(),
		SiteIcon:                 site.SiteIcon(),
		SiteTrust:                site.SiteTrust(),
		FolderSyncPath:           p.folderSyncPath,
		Peers:                    p.peers,
		Favicons:                 append([]string(nil), p.favicons...),
		Zoom:                     p.zoom,
		LoadError:                p.loadError,
		IsActive:                 p.tab.isActive,
		IsPinned:                 p.tab.isPinned,
		IsBookmarked:             p.isBookmarked,
		IsLoading:                p.phase != entity.LoadIdle,
		IsReceivingAssets:        p.phase == entity.LoadReceivingAssets,
		IsInpageFindActive:       p.findActive,
		CurrentInpageFindString:  p.findString,
		CurrentInpageFindResults: p.findResults,
		DonateLinkHref:           p.driveInfo.PaymentLink(),
		IsLiveReloading:          p.liveReload != nil,
		TabCreationTime:          p.tab.creationTime.UnixMilli(),
	}
	if d := p.driveInfo; d != nil {
		st.DriveDomain = d.Domain
		st.IsSystemDrive = d.Ident.System
		st.Writable = d.Writable
	}
	if p.alive() {
		st.CanGoBack = p.surface.CanGoBack()
		st.CanGoForward = p.surface.CanGoForward()
		st.IsAudioMuted = p.surface.IsAudioMuted()
		st.IsCurrentlyAudible = p.surface.IsCurrentlyAudible()
	}
	return st
}

// emitUpdateState notifies the owning tab. Hidden panes never reach the UI.
func (p *Pane) emitUpdateState() {
	if !p.alive() || p.hidden() {
		return
	}
	p.tab.emitUpdateState()
}

// LoadURL starts navigating to target. In an app window a cross-origin
// target opens in a new tab of an ordinary window instead.
func (p *Pane) LoadURL(target string) {
	if !p.alive() {
		return
	}
	if win := p.window(); win != nil && win.IsAppWindow() {
		if cur := p.URL(); cur != "" && entity.Origin(cur) != entity.Origin(target) {
			if _, err := p.m.Create(p.ctx, win, target, CreateOptions{SetActive: true}); err != nil {
				logging.FromContext(p.ctx).Warn().Err(err).Msg("failed to open cross-origin tab")
			}
			return
		}
	}
	if err := p.surface.LoadURL(p.ctx, target); err != nil {
		logging.FromContext(p.ctx).Warn().Err(err).Str("url", target).Msg("load url failed")
	}
}

// Reload reloads the page.
func (p *Pane) Reload() {
	if p.alive() {
		p.logErr(p.surface.Reload(p.ctx), "reload failed")
	}
}

// GoBack navigates back in history.
func (p *Pane) GoBack() {
	if p.alive() {
		p.logErr(p.surface.GoBack(p.ctx), "go back failed")
	}
}

// GoForward navigates forward in history.
func (p *Pane) GoForward() {
	if p.alive() {
		p.logErr(p.surface.GoForward(p.ctx), "go forward failed")
	}
}

// Stop stops the current load.
func (p *Pane) Stop() {
	if p.alive() {
		p.logErr(p.surface.Stop(p.ctx), "stop failed")
	}
}

// ToggleMuted flips the audio mute state.
func (p *Pane) ToggleMuted() {
	if !p.alive() {
		return
	}
	p.logErr(p.surface.SetAudioMuted(p.ctx, !p.surface.IsAudioMuted()), "toggle mute failed")
	p.emitUpdateState()
}

// Print opens the print dialog of the page.
func (p *Pane) Print() {
	if p.alive() {
		p.logErr(p.surface.Print(p.ctx), "print failed")
	}
}

// ToggleDevTools opens or closes the developer tools of the page.
func (p *Pane) ToggleDevTools() {
	if p.alive() {
		p.logErr(p.surface.ToggleDevTools(p.ctx), "toggle devtools failed")
	}
}

// Focus gives keyboard focus to the page.
func (p *Pane) Focus() {
	if p.alive() {
		p.surface.Focus()
	}
}

func (p *Pane) logErr(err error, msg string) {
	if err != nil {
		logging.FromContext(p.ctx).Warn().Err(err).Msg(msg)
	}
}

// --- in-page find ---

// ShowInpageFind opens the find bar, or moves to the next match when open.
func (p *Pane) ShowInpageFind() {
	if !p.alive() || p.hidden() {
		return
	}
	if p.findActive {
		p.MoveInpageFind(1)
	} else {
		p.findActive = true
		p.findResults = &entity.FindResults{}
		p.emitUpdateState()
	}
	if win := p.window(); win != nil {
		win.FocusShell()
	}
}

// HideInpageFind closes the find bar and clears the search.
func (p *Pane) HideInpageFind() {
	if !p.alive() {
		return
	}
	p.logErr(p.surface.StopFindInPage(p.ctx), "stop find failed")
	p.findActive = false
	p.findString = ""
	p.findResults = nil
	p.emitUpdateState()
}

// SetInpageFindString searches for str. dir is -1 to search backwards.
func (p *Pane) SetInpageFindString(str string, dir int) {
	if !p.alive() {
		return
	}
	findNext := p.findString == str
	p.findString = str
	if str == "" {
		p.logErr(p.surface.StopFindInPage(p.ctx), "stop find failed")
		return
	}
	p.logErr(p.surface.FindInPage(p.ctx, str, port.FindOptions{FindNext: findNext, Forward: dir != -1}), "find failed")
}

// MoveInpageFind moves to the next (dir 1) or previous (dir -1) match.
func (p *Pane) MoveInpageFind(dir int) {
	if !p.alive() || p.findString == "" {
		return
	}
	p.logErr(p.surface.FindInPage(p.ctx, p.findString, port.FindOptions{Forward: dir != -1}), "find failed")
}

// --- zoom ---

// ZoomIn raises the zoom of the page's host by one step.
func (p *Pane) ZoomIn() { p.changeZoom(port.ZoomDirectionIn) }

// ZoomOut lowers the zoom of the page's host by one step.
func (p *Pane) ZoomOut() { p.changeZoom(port.ZoomDirectionOut) }

func (p *Pane) changeZoom(dir port.ZoomDirection) {
	uc := p.m.zoomUC
	if !p.alive() || uc == nil {
		return
	}
	host := urlutil.Hostname(p.URL())
	current := p.zoom
	seq := p.navSeq
	surface := p.surface
	p.m.loop.Go(func() {
		var (
			zoom *entity.ZoomLevel
			err  error
		)
		if dir == port.ZoomDirectionIn {
			zoom, err = uc.ZoomIn(p.ctx, host, current)
		} else {
			zoom, err = uc.ZoomOut(p.ctx, host, current)
		}
		if err != nil {
			logging.FromContext(p.ctx).Warn().Err(err).Msg("zoom change failed")
			return
		}
		p.logErr(surface.SetZoomLevel(p.ctx, zoom.ZoomFactor), "apply zoom failed")
		p.m.loop.Post(func() { p.applyZoom(seq, zoom.ZoomFactor) })
	})
}

// ResetZoom restores the default zoom for the page's host.
func (p *Pane) ResetZoom() {
	uc := p.m.zoomUC
	if !p.alive() || uc == nil {
		return
	}
	host := urlutil.Hostname(p.URL())
	seq := p.navSeq
	surface := p.surface
	p.m.loop.Go(func() {
		zoom, err := uc.ResetZoom(p.ctx, host)
		if err != nil {
			logging.FromContext(p.ctx).Warn().Err(err).Msg("zoom reset failed")
			return
		}
		p.logErr(surface.SetZoomLevel(p.ctx, zoom.ZoomFactor), "apply zoom failed")
		p.m.loop.Post(func() { p.applyZoom(seq, zoom.ZoomFactor) })
	})
}

// readZoom applies the saved zoom of the committed page's host.
func (p *Pane) readZoom() {
	uc := p.m.zoomUC
	if uc == nil {
		return
	}
	host := urlutil.Hostname(p.URL())
	seq := p.navSeq
	surface := p.surface
	p.m.loop.Go(func() {
		zoom, err := uc.ApplyToSurface(p.ctx, surface, host)
		if err != nil {
			logging.FromContext(p.ctx).Debug().Err(err).Msg("failed to apply saved zoom")
			return
		}
		p.m.loop.Post(func() { p.applyZoom(seq, zoom.ZoomFactor) })
	})
}

func (p *Pane) applyZoom(seq uint64, factor float64) {
	if !p.alive() || seq != p.navSeq {
		return
	}
	p.zoom = factor
	p.emitUpdateState()
}

// --- history, screenshots, favicons ---

func (p *Pane) updateHistory() {
	pageURL := p.URL()
	if pageURL == "" {
		return
	}
	if uc := p.m.historyUC; uc != nil && pageURL != p.m.cfg.NewTabURL && pageURL != HistoryPageURL {
		uc.Record(p.ctx, string(p.id), pageURL, p.Title())
	}
	if p.tab.isPinned && p.tab.window != nil {
		p.m.SavePins(p.ctx, p.tab.window)
	}
}

// CaptureScreenshot stores a thumbnail of the page after a settling delay.
// Failures are logged and otherwise ignored.
func (p *Pane) CaptureScreenshot() {
	uc := p.m.imagesUC
	if !p.alive() || uc == nil {
		return
	}
	if p.screenshotTimer != nil {
		p.screenshotTimer.Stop()
	}
	p.screenshotTimer = p.m.loop.AfterFunc(p.m.cfg.ScreenshotDelay, func() {
		p.screenshotTimer = nil
		if !p.alive() {
			return
		}
		pageURL := p.URL()
		surface := p.surface
		p.m.loop.Go(func() {
			capture, err := surface.CapturePage(p.ctx)
			if err == nil {
				err = uc.SaveThumbnail(p.ctx, pageURL, capture)
			}
			if err != nil {
				logging.FromContext(p.ctx).Debug().Err(err).Msg("failed to capture page screenshot")
			}
		})
	})
}

// faviconScript draws the favicon into a canvas and returns a data URL.
const faviconScript = `(async (src) => {
  try {
    const img = new Image();
    img.crossOrigin = 'anonymous';
    await new Promise((resolve, reject) => { img.onload = resolve; img.onerror = reject; img.src = src; });
    const canvas = document.createElement('canvas');
    canvas.width = img.naturalWidth || 32;
    canvas.height = img.naturalHeight || 32;
    canvas.getContext('2d').drawImage(img, 0, 0);
    return canvas.toDataURL('image/png');
  } catch (e) {
    return '';
  }
})(%s)`

func (p *Pane) storeFavicon(src string) {
	uc := p.m.imagesUC
	if uc == nil {
		return
	}
	pageURL := p.URL()
	surface := p.surface
	p.m.loop.Go(func() {
		dataURL := src
		if !strings.HasPrefix(src, "data:") {
			dataURL = ""
			if err := surface.ExecuteScript(p.ctx, sprintfJS(faviconScript, src), &dataURL); err != nil {
				logging.FromContext(p.ctx).Debug().Err(err).Msg("failed to read favicon")
				return
			}
		}
		if dataURL == "" {
			return
		}
		if err := uc.SaveFavicon(p.ctx, pageURL, dataURL); err != nil {
			logging.FromContext(p.ctx).Debug().Err(err).Msg("failed to store favicon")
		}
	})
}

// pageMetadata asks the page for the metadata it publishes about itself.
// It blocks on the content surface and must run off the control thread.
func pageMetadata(ctx context.Context, surface port.ContentSurface) (entity.PageMetadata, error) {
	md := entity.PageMetadata{}
	const script = `(window.__tabshellPageMetadata ? window.__tabshellPageMetadata() : {})`
	if err := surface.ExecuteScript(ctx, script, &md); err != nil {
		return nil, err
	}
	return md, nil
}

// --- lifecycle ---

func (p *Pane) stopLiveReloading() {
	if p.liveReload == nil {
		return
	}
	p.liveReload.Stop()
	p.liveReload = nil
}

func (p *Pane) destroy() {
	if !p.alive() {
		return
	}
	p.stopLiveReloading()
	if p.mediaTimer != nil {
		p.mediaTimer.Stop()
		p.mediaTimer = nil
	}
	if p.screenshotTimer != nil {
		p.screenshotTimer.Stop()
		p.screenshotTimer = nil
	}
	p.m.prompts.Close(p.surface)
	p.m.permPrompts.Close(p.surface)
	p.m.modals.Close(p.surface)
	p.surface.SetCallbacks(nil)
	p.surface.Destroy()
	p.life = lifeDestroyed
	if uc := p.m.historyUC; uc != nil {
		uc.Forget(string(p.id))
	}
	logging.FromContext(p.ctx).Debug().Msg("pane destroyed")
}

// mediaChanged schedules a state update once media state has settled.
func (p *Pane) mediaChanged() {
	if p.mediaTimer != nil {
		p.mediaTimer.Stop()
	}
	p.mediaTimer = p.m.loop.AfterFunc(p.m.cfg.MediaSettleDelay, func() {
		p.mediaTimer = nil
		p.emitUpdateState()
	})
}
