package chrome

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

var (
	// ErrDestroyed is returned by calls on a destroyed surface.
	ErrDestroyed = errors.New("surface destroyed")
	// ErrUnsupported is returned for features a headless browser cannot provide.
	ErrUnsupported = errors.New("not supported by the chrome host")
)

type op func(ctx context.Context) error

type docRequest struct {
	url   string
	frame cdp.FrameID
	main  bool
}

// Surface is one browser tab driven over CDP.
//
// CDP events arrive on chromedp's event goroutine. They update the cached
// state under mu and the matching callback is posted to the control loop.
type Surface struct {
	id     port.SurfaceID
	host   *Host
	loop   mainloop.Loop
	base   context.Context
	urls   urlMapper
	logger zerolog.Logger

	tab    context.Context
	cancel context.CancelFunc
	ready  chan struct{}
	setErr error

	// exec runs a CDP command outside the op queue.
	exec func(op)

	opMu sync.Mutex
	ops  []op
	wake chan struct{}

	destroyed atomic.Bool

	mu        sync.RWMutex
	callbacks *port.SurfaceCallbacks
	targetID  target.ID
	mainFrame cdp.FrameID
	url       string
	title     string
	canBack   bool
	canFwd    bool
	loading   bool
	waiting   bool
	status    int
	muted     bool
	playing   bool
	zoom      float64
	bounds    entity.Rect
	hidden    bool
	expectNav bool
	requests  map[network.RequestID]docRequest
}

func newSurface(base context.Context, loop mainloop.Loop, host *Host, id port.SurfaceID, urls urlMapper, logger zerolog.Logger) *Surface {
	return &Surface{
		id:       id,
		host:     host,
		loop:     loop,
		base:     base,
		urls:     urls,
		logger:   logger.With().Str("surface", string(id)).Logger(),
		ready:    make(chan struct{}),
		wake:     make(chan struct{}, 1),
		zoom:     1,
		requests: make(map[network.RequestID]docRequest),
	}
}

// ID returns the surface identifier.
func (s *Surface) ID() port.SurfaceID { return s.id }

// SetCallbacks registers the event handlers. nil clears them.
func (s *Surface) SetCallbacks(callbacks *port.SurfaceCallbacks) {
	s.mu.Lock()
	s.callbacks = callbacks
	s.mu.Unlock()
}

// emit posts fn to the control loop with the current callbacks.
func (s *Surface) emit(fn func(cb *port.SurfaceCallbacks)) {
	s.loop.Post(func() {
		if s.destroyed.Load() {
			return
		}
		s.mu.RLock()
		cb := s.callbacks
		s.mu.RUnlock()
		if cb != nil {
			fn(cb)
		}
	})
}

// enqueue schedules a CDP command. Commands run in order on the surface worker.
func (s *Surface) enqueue(fn op) error {
	if s.destroyed.Load() {
		return ErrDestroyed
	}
	s.opMu.Lock()
	s.ops = append(s.ops, fn)
	s.opMu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

func (s *Surface) takeOps() []op {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	ops := s.ops
	s.ops = nil
	return ops
}

// worker attaches the tab, installs the page hooks and then drains the
// op queue until the tab closes.
func (s *Surface) worker() {
	err := chromedp.Run(s.tab, chromedp.ActionFunc(s.setup))
	if err != nil {
		s.setErr = fmt.Errorf("attach tab: %w", err)
		s.logger.Error().Err(err).Msg("failed to attach tab")
	}
	close(s.ready)
	if err != nil {
		return
	}
	for {
		select {
		case <-s.tab.Done():
			return
		case <-s.wake:
		}
		for _, fn := range s.takeOps() {
			if err := chromedp.Run(s.tab, chromedp.ActionFunc(fn)); err != nil && !s.destroyed.Load() {
				s.logger.Debug().Err(err).Msg("cdp command failed")
			}
		}
	}
}

func (s *Surface) setup(ctx context.Context) error {
	if c := chromedp.FromContext(ctx); c != nil && c.Target != nil {
		s.mu.Lock()
		s.targetID = c.Target.TargetID
		s.mu.Unlock()
	}
	if err := network.Enable().Do(ctx); err != nil {
		return fmt.Errorf("enable network: %w", err)
	}
	if err := enableNavigationInterception(ctx); err != nil {
		return err
	}
	if err := installPageHooks(ctx); err != nil {
		return err
	}
	tree, err := page.GetFrameTree().Do(ctx)
	if err != nil {
		return fmt.Errorf("frame tree: %w", err)
	}
	if tree != nil && tree.Frame != nil {
		s.mu.Lock()
		s.mainFrame = tree.Frame.ID
		s.mu.Unlock()
	}
	return nil
}

// execDirect runs fn on its own goroutine with the tab's executor.
func (s *Surface) execDirect(fn op) {
	c := chromedp.FromContext(s.tab)
	if c == nil || c.Target == nil {
		return
	}
	ctx := cdp.WithExecutor(s.tab, c.Target)
	go func() {
		if err := fn(ctx); err != nil && !s.destroyed.Load() {
			s.logger.Debug().Err(err).Msg("cdp command failed")
		}
	}()
}

// run executes actions on the tab and waits for them, honoring ctx.
func (s *Surface) run(ctx context.Context, actions ...chromedp.Action) error {
	if s.destroyed.Load() {
		return ErrDestroyed
	}
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	if s.setErr != nil {
		return s.setErr
	}
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(s.tab, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- Navigation ---

// LoadURL starts a navigation and returns immediately.
func (s *Surface) LoadURL(ctx context.Context, url string) error {
	dest := s.urls.toChrome(url)
	s.mu.Lock()
	s.expectNav = true
	s.mu.Unlock()
	s.logger.Debug().Str("url", url).Msg("loading url")
	return s.enqueue(func(ctx context.Context) error {
		return cdp.Execute(ctx, page.CommandNavigate, page.Navigate(dest), nil)
	})
}

// GoBack navigates one history entry back.
func (s *Surface) GoBack(ctx context.Context) error {
	return s.historyStep(-1)
}

// GoForward navigates one history entry forward.
func (s *Surface) GoForward(ctx context.Context) error {
	return s.historyStep(1)
}

func (s *Surface) historyStep(delta int64) error {
	s.mu.Lock()
	s.expectNav = true
	s.mu.Unlock()
	return s.enqueue(func(ctx context.Context) error {
		cur, entries, err := page.GetNavigationHistory().Do(ctx)
		if err != nil {
			return err
		}
		idx := cur + delta
		if idx < 0 || idx >= int64(len(entries)) {
			return nil
		}
		return page.NavigateToHistoryEntry(entries[idx].ID).Do(ctx)
	})
}

// Stop aborts the current load.
func (s *Surface) Stop(ctx context.Context) error {
	return s.enqueue(func(ctx context.Context) error {
		return page.StopLoading().Do(ctx)
	})
}

// Reload reloads the current page.
func (s *Surface) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.expectNav = true
	s.mu.Unlock()
	return s.enqueue(func(ctx context.Context) error {
		return page.Reload().Do(ctx)
	})
}

func (s *Surface) refreshHistory() {
	_ = s.enqueue(func(ctx context.Context) error {
		cur, entries, err := page.GetNavigationHistory().Do(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.canBack = cur > 0
		s.canFwd = cur+1 < int64(len(entries))
		s.mu.Unlock()
		return nil
	})
}

// --- State Queries ---

func (s *Surface) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url
}

func (s *Surface) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

func (s *Surface) CanGoBack() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canBack
}

func (s *Surface) CanGoForward() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canFwd
}

func (s *Surface) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Surface) IsWaitingForResponse() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.waiting
}

// --- Audio ---

func (s *Surface) IsAudioMuted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted
}

func (s *Surface) SetAudioMuted(ctx context.Context, muted bool) error {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
	return s.callPage("__tabshellMute", muted)
}

func (s *Surface) IsCurrentlyAudible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playing && !s.muted
}

// --- Find ---

func (s *Surface) FindInPage(ctx context.Context, text string, opts port.FindOptions) error {
	return s.callPage("__tabshellFind", text, opts.Forward, opts.FindNext)
}

func (s *Surface) StopFindInPage(ctx context.Context) error {
	return s.callPage("__tabshellStopFind")
}

// --- Page ---

// SetZoomLevel applies factor to the page. It is re-applied after each
// document load.
func (s *Surface) SetZoomLevel(ctx context.Context, factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("invalid zoom factor %v", factor)
	}
	s.mu.Lock()
	s.zoom = factor
	s.mu.Unlock()
	return s.callPage("__tabshellZoom", factor)
}

func (s *Surface) CapturePage(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("capture page: %w", err)
	}
	return buf, nil
}

func (s *Surface) ExecuteScript(ctx context.Context, script string, res any) error {
	return s.run(ctx, chromedp.Evaluate(script, res, awaitPromise))
}

func (s *Surface) DispatchBeforeUnload(ctx context.Context) (bool, error) {
	var veto bool
	if err := s.run(ctx, chromedp.Evaluate(beforeUnloadScript, &veto)); err != nil {
		return false, err
	}
	return veto, nil
}

func (s *Surface) Print(ctx context.Context) error {
	return s.callPage("print")
}

func (s *Surface) ToggleDevTools(ctx context.Context) error {
	return ErrUnsupported
}

func (s *Surface) callPage(fn string, args ...any) error {
	script, err := callHelper(fn, args...)
	if err != nil {
		return err
	}
	return s.enqueue(func(ctx context.Context) error {
		return chromedp.Evaluate(script, nil).Do(ctx)
	})
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// --- Presentation ---

// SetBounds resizes the tab viewport to the pane rectangle. A hidden
// surface only records the bounds until Focus shows it.
func (s *Surface) SetBounds(bounds entity.Rect) {
	s.mu.Lock()
	changed := bounds.Width != s.bounds.Width || bounds.Height != s.bounds.Height
	s.bounds = bounds
	hidden := s.hidden
	s.mu.Unlock()
	if !changed || hidden {
		return
	}
	s.applyBounds(bounds)
}

func (s *Surface) applyBounds(bounds entity.Rect) {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	_ = s.enqueue(func(ctx context.Context) error {
		return emulation.SetDeviceMetricsOverride(int64(bounds.Width), int64(bounds.Height), 1, false).Do(ctx)
	})
}

// Bounds returns the last rectangle set by SetBounds.
func (s *Surface) Bounds() entity.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// IsHidden reports whether the surface has not been shown yet.
func (s *Surface) IsHidden() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hidden
}

// Focus brings the tab to the front. The first Focus of a hidden surface
// shows it and applies the bounds recorded while it was hidden.
func (s *Surface) Focus() {
	s.mu.Lock()
	shown := s.hidden
	s.hidden = false
	bounds := s.bounds
	s.mu.Unlock()
	if shown {
		s.applyBounds(bounds)
	}
	_ = s.enqueue(func(ctx context.Context) error {
		return page.BringToFront().Do(ctx)
	})
}

// --- Lifecycle ---

func (s *Surface) IsDestroyed() bool { return s.destroyed.Load() }

// Destroy closes the tab.
func (s *Surface) Destroy() {
	if s.destroyed.Swap(true) {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	if s.host != nil {
		s.host.unregister(s)
	}
	s.logger.Debug().Msg("surface destroyed")
}
