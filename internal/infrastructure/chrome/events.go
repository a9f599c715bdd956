package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// enableNavigationInterception pauses document requests so page-initiated
// navigations can be vetted before they start.
func enableNavigationInterception(ctx context.Context) error {
	patterns := []*fetch.RequestPattern{{
		URLPattern:   "*",
		ResourceType: network.ResourceTypeDocument,
		RequestStage: fetch.RequestStageRequest,
	}}
	if err := fetch.Enable().WithPatterns(patterns).Do(ctx); err != nil {
		return fmt.Errorf("enable fetch: %w", err)
	}
	return nil
}

func installPageHooks(ctx context.Context) error {
	if err := runtime.AddBinding(bindingName).Do(ctx); err != nil {
		return fmt.Errorf("add binding: %w", err)
	}
	if _, err := page.AddScriptToEvaluateOnNewDocument(pageScript).Do(ctx); err != nil {
		return fmt.Errorf("inject page script: %w", err)
	}
	return nil
}

func (s *Surface) isMainFrame(id cdp.FrameID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mainFrame == "" || id == s.mainFrame
}

// handleEvent is the chromedp target listener. It must not block.
func (s *Surface) handleEvent(ev any) {
	if s.destroyed.Load() {
		return
	}
	switch ev := ev.(type) {
	case *network.EventRequestWillBeSent:
		s.onRequestWillBeSent(ev)
	case *network.EventResponseReceived:
		s.onResponseReceived(ev)
	case *network.EventLoadingFailed:
		s.onLoadingFailed(ev)
	case *network.EventLoadingFinished:
		s.mu.Lock()
		delete(s.requests, ev.RequestID)
		s.mu.Unlock()
	case *page.EventFrameStartedLoading:
		s.onFrameStartedLoading(ev.FrameID)
	case *page.EventFrameStoppedLoading:
		s.onFrameStoppedLoading(ev.FrameID)
	case *page.EventFrameNavigated:
		s.onFrameNavigated(ev.Frame)
	case *page.EventNavigatedWithinDocument:
		s.onNavigatedWithinDocument(ev)
	case *page.EventDomContentEventFired:
		s.onDOMContent()
	case *page.EventWindowOpen:
		req := port.NewWindowRequest{
			URL:         s.urls.fromChrome(ev.URL),
			FrameName:   ev.WindowName,
			Disposition: dispositionFor(ev.WindowFeatures),
		}
		s.emit(func(cb *port.SurfaceCallbacks) {
			if cb.OnNewWindow != nil {
				cb.OnNewWindow(req)
			}
		})
	case *page.EventJavascriptDialogOpening:
		// Headless pages have nobody to answer dialogs.
		accept := ev.Type == page.DialogTypeAlert || ev.Type == page.DialogTypeBeforeunload
		s.exec(func(ctx context.Context) error {
			return page.HandleJavaScriptDialog(accept).Do(ctx)
		})
	case *runtime.EventBindingCalled:
		if ev.Name == bindingName {
			s.onPageMessage(ev.Payload)
		}
	case *fetch.EventRequestPaused:
		go s.vetRequest(ev)
	}
}

func (s *Surface) onRequestWillBeSent(ev *network.EventRequestWillBeSent) {
	if ev.Type != network.ResourceTypeDocument || ev.Request == nil {
		return
	}
	main := s.isMainFrame(ev.FrameID)
	s.mu.Lock()
	_, redirect := s.requests[ev.RequestID]
	s.requests[ev.RequestID] = docRequest{url: ev.Request.URL, frame: ev.FrameID, main: main}
	if main {
		s.waiting = true
	}
	s.mu.Unlock()
	if redirect {
		return
	}
	nav := port.NavigationStart{
		URL:         s.urls.fromChrome(ev.Request.URL),
		FrameID:     string(ev.FrameID),
		IsMainFrame: main,
	}
	s.emit(func(cb *port.SurfaceCallbacks) {
		if cb.OnDidStartNavigation != nil {
			cb.OnDidStartNavigation(nav)
		}
	})
}

func (s *Surface) onResponseReceived(ev *network.EventResponseReceived) {
	if ev.Type != network.ResourceTypeDocument || ev.Response == nil || !s.isMainFrame(ev.FrameID) {
		return
	}
	s.mu.Lock()
	s.waiting = false
	s.status = int(ev.Response.Status)
	s.mu.Unlock()
}

func (s *Surface) onLoadingFailed(ev *network.EventLoadingFailed) {
	s.mu.Lock()
	req, ok := s.requests[ev.RequestID]
	delete(s.requests, ev.RequestID)
	if ok && req.main {
		s.waiting = false
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	code, desc := parseNetError(ev.ErrorText, ev.Canceled)
	failure := entity.LoadFailure{
		Code:         code,
		Description:  desc,
		ValidatedURL: s.urls.fromChrome(req.url),
		IsMainFrame:  req.main,
	}
	s.emit(func(cb *port.SurfaceCallbacks) {
		if cb.OnDidFailLoad != nil {
			cb.OnDidFailLoad(failure)
		}
	})
}

func (s *Surface) onFrameStartedLoading(id cdp.FrameID) {
	if !s.isMainFrame(id) {
		return
	}
	s.mu.Lock()
	was := s.loading
	s.loading = true
	s.mu.Unlock()
	if was {
		return
	}
	s.emit(func(cb *port.SurfaceCallbacks) {
		if cb.OnDidStartLoading != nil {
			cb.OnDidStartLoading()
		}
	})
}

func (s *Surface) onFrameStoppedLoading(id cdp.FrameID) {
	if !s.isMainFrame(id) {
		return
	}
	s.mu.Lock()
	was := s.loading
	s.loading = false
	s.waiting = false
	s.mu.Unlock()
	if !was {
		return
	}
	s.refreshHistory()
	s.emit(func(cb *port.SurfaceCallbacks) {
		if cb.OnDidStopLoading != nil {
			cb.OnDidStopLoading()
		}
	})
}

func (s *Surface) onFrameNavigated(frame *cdp.Frame) {
	if frame == nil || frame.ParentID != "" {
		return
	}
	url := s.urls.fromChrome(frame.URL + frame.URLFragment)
	s.mu.Lock()
	s.mainFrame = frame.ID
	s.url = url
	s.expectNav = false
	status := s.status
	s.status = 0
	s.playing = false
	s.mu.Unlock()
	s.refreshHistory()
	s.emit(func(cb *port.SurfaceCallbacks) {
		if cb.OnDidNavigate != nil {
			cb.OnDidNavigate(url, status)
		}
	})
}

func (s *Surface) onNavigatedWithinDocument(ev *page.EventNavigatedWithinDocument) {
	if !s.isMainFrame(ev.FrameID) {
		return
	}
	url := s.urls.fromChrome(ev.URL)
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
	s.refreshHistory()
	nav := port.NavigationStart{URL: url, FrameID: string(ev.FrameID), IsInPlace: true, IsMainFrame: true}
	s.emit(func(cb *port.SurfaceCallbacks) {
		if cb.OnDidStartNavigation != nil {
			cb.OnDidStartNavigation(nav)
		}
		if cb.OnDidNavigateInPage != nil {
			cb.OnDidNavigateInPage(url)
		}
	})
}

func (s *Surface) onDOMContent() {
	s.mu.RLock()
	zoom, muted := s.zoom, s.muted
	s.mu.RUnlock()
	if zoom != 1 {
		_ = s.callPage("__tabshellZoom", zoom)
	}
	if muted {
		_ = s.callPage("__tabshellMute", true)
	}
	s.emit(func(cb *port.SurfaceCallbacks) {
		if cb.OnDOMReady != nil {
			cb.OnDOMReady()
		}
	})
}

// vetRequest asks the control thread whether a page-initiated main frame
// navigation may proceed, then resumes or aborts the paused request.
func (s *Surface) vetRequest(ev *fetch.EventRequestPaused) {
	allow := s.allowRequest(ev)
	id := ev.RequestID
	s.exec(func(ctx context.Context) error {
		if allow {
			return fetch.ContinueRequest(id).Do(ctx)
		}
		return fetch.FailRequest(id, network.ErrorReasonAborted).Do(ctx)
	})
}

func (s *Surface) allowRequest(ev *fetch.EventRequestPaused) bool {
	if ev.ResourceType != network.ResourceTypeDocument || ev.Request == nil || !s.isMainFrame(ev.FrameID) {
		return true
	}
	s.mu.RLock()
	expected := s.expectNav
	s.mu.RUnlock()
	if expected {
		return true
	}
	url := s.urls.fromChrome(ev.Request.URL)
	allow, err := mainloop.CallValue(s.base, s.loop, func() bool {
		if s.destroyed.Load() {
			return true
		}
		s.mu.RLock()
		cb := s.callbacks
		s.mu.RUnlock()
		if cb == nil || cb.OnWillNavigate == nil {
			return true
		}
		return cb.OnWillNavigate(url)
	})
	return err != nil || allow
}

func (s *Surface) onPageMessage(raw string) {
	var msg pageMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		s.logger.Debug().Err(err).Msg("bad page message")
		return
	}
	switch msg.Type {
	case "title":
		var p struct {
			Title string `json:"title"`
		}
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		s.mu.Lock()
		s.title = p.Title
		s.mu.Unlock()
		s.emit(func(cb *port.SurfaceCallbacks) {
			if cb.OnTitleUpdated != nil {
				cb.OnTitleUpdated(p.Title)
			}
		})
	case "favicons":
		var icons []string
		if json.Unmarshal(msg.Payload, &icons) != nil {
			return
		}
		icons = s.urls.fromChromeAll(icons)
		s.emit(func(cb *port.SurfaceCallbacks) {
			if cb.OnFaviconUpdated != nil {
				cb.OnFaviconUpdated(icons)
			}
		})
	case "hover":
		var p struct {
			URL string `json:"url"`
		}
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		url := s.urls.fromChrome(p.URL)
		s.emit(func(cb *port.SurfaceCallbacks) {
			if cb.OnUpdateTargetURL != nil {
				cb.OnUpdateTargetURL(url)
			}
		})
	case "media":
		var p struct {
			Playing bool `json:"playing"`
		}
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		s.mu.Lock()
		s.playing = p.Playing
		s.mu.Unlock()
		s.emit(func(cb *port.SurfaceCallbacks) {
			switch {
			case p.Playing && cb.OnMediaStarted != nil:
				cb.OnMediaStarted()
			case !p.Playing && cb.OnMediaPaused != nil:
				cb.OnMediaPaused()
			}
		})
	case "found":
		var res entity.FindResults
		if json.Unmarshal(msg.Payload, &res) != nil {
			return
		}
		s.emit(func(cb *port.SurfaceCallbacks) {
			if cb.OnFoundInPage != nil {
				cb.OnFoundInPage(res)
			}
		})
	case "zoom":
		var p struct {
			Direction string `json:"direction"`
		}
		if json.Unmarshal(msg.Payload, &p) != nil {
			return
		}
		dir := port.ZoomDirectionOut
		if p.Direction == "in" {
			dir = port.ZoomDirectionIn
		}
		s.emit(func(cb *port.SurfaceCallbacks) {
			if cb.OnZoomChanged != nil {
				cb.OnZoomChanged(dir)
			}
		})
	case "focus":
		s.emit(func(cb *port.SurfaceCallbacks) {
			if cb.OnFocused != nil {
				cb.OnFocused()
			}
		})
	case "close":
		s.emit(func(cb *port.SurfaceCallbacks) {
			if cb.OnScriptClose != nil {
				cb.OnScriptClose()
			}
		})
	default:
		s.logger.Debug().Str("type", msg.Type).Msg("unknown page message")
	}
}

// dispositionFor guesses how a window.open request wants to be shown:
// sized popups get a window, everything else a foreground tab.
func dispositionFor(features []string) port.WindowDisposition {
	if slices.ContainsFunc(features, func(f string) bool {
		name, _, _ := strings.Cut(strings.ToLower(f), "=")
		return name == "popup" || name == "width" || name == "height"
	}) {
		return port.DispositionNewWindow
	}
	return port.DispositionForegroundTab
}
