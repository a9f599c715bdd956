// Package chrome hosts page content in a Chromium browser driven over the
// DevTools protocol. Each content surface is one browser tab.
package chrome

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// Host owns the browser process and creates one tab per surface.
type Host struct {
	loop   mainloop.Loop
	urls   urlMapper
	logger zerolog.Logger

	allocCancel   context.CancelFunc
	browser       context.Context
	browserCancel context.CancelFunc

	mu       sync.Mutex
	surfaces map[target.ID]*Surface
	closed   bool
}

var _ port.ContentHost = (*Host)(nil)

// HostOption configures a Host.
type HostOption func(*Host)

// WithDriveGateway routes drive URLs through the HTTP gateway at base,
// e.g. "http://127.0.0.1:9333/drive/".
func WithDriveGateway(base string) HostOption {
	return func(h *Host) { h.urls = newURLMapper(base) }
}

// NewHost starts the browser and waits until it accepts commands.
func NewHost(ctx context.Context, loop mainloop.Loop, cfg config.ChromeConfig, opts ...HostOption) (*Host, error) {
	h := &Host{
		loop:     loop,
		logger:   logging.FromContext(ctx).With().Str("component", "chrome").Logger(),
		surfaces: make(map[target.ID]*Surface),
	}
	for _, opt := range opts {
		opt(h)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(cfg)...)
	browser, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browser); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	h.allocCancel = allocCancel
	h.browser = browser
	h.browserCancel = browserCancel

	chromedp.ListenBrowser(browser, h.handleBrowserEvent)
	h.logger.Info().Bool("headless", cfg.Headless).Msg("browser started")
	return h, nil
}

func allocatorOptions(cfg config.ChromeConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", cfg.Headless))
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	for name, value := range parseFlags(cfg.Flags) {
		opts = append(opts, chromedp.Flag(name, value))
	}
	return opts
}

// parseFlags turns "name=value" and bare "name" switches into allocator
// flags. Leading dashes are optional.
func parseFlags(flags []string) map[string]any {
	out := make(map[string]any, len(flags))
	for _, f := range flags {
		f = strings.TrimLeft(strings.TrimSpace(f), "-")
		if f == "" {
			continue
		}
		name, value, ok := strings.Cut(f, "=")
		if !ok {
			out[name] = true
			continue
		}
		out[name] = value
	}
	return out
}

// CreateSurface opens a new tab. The tab attaches in the background; calls
// made before it is ready are queued.
func (h *Host) CreateSurface(ctx context.Context, opts port.SurfaceOptions) (port.ContentSurface, error) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("chrome host closed")
	}

	s := newSurface(ctx, h.loop, h, port.SurfaceID(uuid.NewString()), h.urls, h.logger)
	s.hidden = opts.Hidden
	var tabOpts []chromedp.ContextOption
	if opts.Hidden {
		id, err := h.createBackgroundTarget(ctx)
		if err != nil {
			return nil, err
		}
		tabOpts = append(tabOpts, chromedp.WithTargetID(id))
	}
	s.tab, s.cancel = chromedp.NewContext(h.browser, tabOpts...)
	s.exec = s.execDirect
	chromedp.ListenTarget(s.tab, s.handleEvent)
	go func() {
		s.worker()
		h.register(s)
	}()
	return s, nil
}

// createBackgroundTarget opens a blank tab that does not take the
// foreground from the active one.
func (h *Host) createBackgroundTarget(ctx context.Context) (target.ID, error) {
	c := chromedp.FromContext(h.browser)
	if c == nil || c.Browser == nil {
		return "", fmt.Errorf("chrome host not started")
	}
	id, err := target.CreateTarget("about:blank").
		WithBackground(true).
		Do(cdp.WithExecutor(ctx, c.Browser))
	if err != nil {
		return "", fmt.Errorf("create background target: %w", err)
	}
	return id, nil
}

func (h *Host) register(s *Surface) {
	s.mu.RLock()
	id := s.targetID
	s.mu.RUnlock()
	if id == "" || s.destroyed.Load() {
		return
	}
	h.mu.Lock()
	h.surfaces[id] = s
	h.mu.Unlock()
}

func (h *Host) unregister(s *Surface) {
	s.mu.RLock()
	id := s.targetID
	s.mu.RUnlock()
	h.mu.Lock()
	delete(h.surfaces, id)
	h.mu.Unlock()
}

func (h *Host) owns(id target.ID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.surfaces[id]
	return ok
}

// handleBrowserEvent closes tabs the browser opens on behalf of a page.
// The page's window-open request reaches the tab manager instead.
func (h *Host) handleBrowserEvent(ev any) {
	created, ok := ev.(*target.EventTargetCreated)
	if !ok || created.TargetInfo == nil || created.TargetInfo.OpenerID == "" {
		return
	}
	if !h.owns(created.TargetInfo.OpenerID) {
		return
	}
	id := created.TargetInfo.TargetID
	c := chromedp.FromContext(h.browser)
	if c == nil || c.Browser == nil {
		return
	}
	go func() {
		ctx := cdp.WithExecutor(h.browser, c.Browser)
		if err := cdp.Execute(ctx, target.CommandCloseTarget, target.CloseTarget(id), nil); err != nil {
			h.logger.Debug().Err(err).Str("target", string(id)).Msg("failed to close popup target")
		}
	}()
}

// Close shuts the browser down.
func (h *Host) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.surfaces = make(map[target.ID]*Surface)
	h.mu.Unlock()

	h.browserCancel()
	h.allocCancel()
	h.logger.Info().Msg("browser stopped")
}
