// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns, allowing the tab manager to
// remain independent of specific implementations (CDP, windowing, drives).
package port

import (
	"context"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// SurfaceID uniquely identifies a content surface within its host.
type SurfaceID string

// NavigationStart describes a navigation beginning in some frame.
type NavigationStart struct {
	URL         string
	FrameID     string
	IsInPlace   bool
	IsMainFrame bool
}

// WindowDisposition says how a page asked for a new window to open.
type WindowDisposition string

const (
	DispositionForegroundTab WindowDisposition = "foreground-tab"
	DispositionBackgroundTab WindowDisposition = "background-tab"
	DispositionNewWindow     WindowDisposition = "new-window"
)

// NewWindowRequest contains metadata about a popup/new-window request.
type NewWindowRequest struct {
	URL         string
	FrameName   string
	Disposition WindowDisposition
}

// ZoomDirection is the direction of a page-initiated zoom gesture.
type ZoomDirection int

const (
	ZoomDirectionIn ZoomDirection = iota
	ZoomDirectionOut
)

// FindOptions configures an in-page search request.
type FindOptions struct {
	FindNext bool
	Forward  bool
}

// SurfaceCallbacks defines callback handlers for content surface events.
// Implementations must invoke these on the control thread.
type SurfaceCallbacks struct {
	// OnWillNavigate is called before a page-initiated navigation.
	// Returning false cancels the navigation.
	OnWillNavigate func(url string) bool
	// OnDidStartLoading is called when the surface spinner starts.
	OnDidStartLoading func()
	// OnDidStartNavigation is called for every frame navigation start.
	OnDidStartNavigation func(nav NavigationStart)
	// OnDidNavigate is called when the main frame commits a navigation.
	OnDidNavigate func(url string, httpResponseCode int)
	// OnDidNavigateInPage is called for fragment/history-API navigations.
	OnDidNavigateInPage func(url string)
	// OnDidStopLoading is called when the surface spinner stops.
	OnDidStopLoading func()
	// OnDOMReady is called when the main document is parsed.
	OnDOMReady func()
	// OnDidFailLoad is called when any frame fails to load.
	OnDidFailLoad func(failure entity.LoadFailure)
	// OnUpdateTargetURL is called when the hovered link changes.
	OnUpdateTargetURL func(url string)
	// OnTitleUpdated is called when the page title changes.
	OnTitleUpdated func(title string)
	// OnFaviconUpdated is called with the page's favicon URLs.
	OnFaviconUpdated func(favicons []string)
	// OnNewWindow is called when the page requests a new window.
	OnNewWindow func(req NewWindowRequest)
	// OnMediaStarted is called when media starts playing.
	OnMediaStarted func()
	// OnMediaPaused is called when media pauses.
	OnMediaPaused func()
	// OnFoundInPage is called with in-page find results.
	OnFoundInPage func(res entity.FindResults)
	// OnZoomChanged is called for page zoom gestures.
	OnZoomChanged func(dir ZoomDirection)
	// OnFocused is called when the surface gains input focus.
	OnFocused func()
	// OnScriptClose is called when the page calls window.close().
	OnScriptClose func()
}

// SurfaceOptions configures a new content surface.
type SurfaceOptions struct {
	// Hidden surfaces are created off-screen (preloaded and background tabs).
	Hidden bool
}

// ContentSurface is one isolated web content surface owned by a pane.
//
// Navigation, audio, find, zoom and presentation methods return without
// waiting on the renderer and may be called on the control thread; state
// queries read cached values. CapturePage, ExecuteScript and
// DispatchBeforeUnload block until the page answers and must be called
// off the control thread.
type ContentSurface interface {
	// ID returns the unique identifier for this surface.
	ID() SurfaceID

	// SetCallbacks registers callback handlers for surface events.
	// Pass nil to clear all callbacks.
	SetCallbacks(callbacks *SurfaceCallbacks)

	// --- Navigation ---

	// LoadURL starts navigating to url and returns without waiting for completion.
	LoadURL(ctx context.Context, url string) error
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error
	Stop(ctx context.Context) error
	Reload(ctx context.Context) error

	// --- State Queries ---

	URL() string
	Title() string
	CanGoBack() bool
	CanGoForward() bool
	IsLoading() bool
	// IsWaitingForResponse reports whether the main frame awaits its first response byte.
	IsWaitingForResponse() bool

	// --- Audio ---

	IsAudioMuted() bool
	SetAudioMuted(ctx context.Context, muted bool) error
	IsCurrentlyAudible() bool

	// --- Find ---

	FindInPage(ctx context.Context, text string, opts FindOptions) error
	StopFindInPage(ctx context.Context) error

	// --- Page ---

	// SetZoomLevel sets the zoom factor (1.0 = 100%).
	SetZoomLevel(ctx context.Context, factor float64) error
	// CapturePage returns a PNG of the current viewport.
	CapturePage(ctx context.Context) ([]byte, error)
	// ExecuteScript evaluates script in the main world and decodes the result into res.
	ExecuteScript(ctx context.Context, script string, res any) error
	// DispatchBeforeUnload fires a cancelable beforeunload event and reports
	// whether the page asked to stay.
	DispatchBeforeUnload(ctx context.Context) (veto bool, err error)
	Print(ctx context.Context) error
	ToggleDevTools(ctx context.Context) error

	// --- Presentation ---

	SetBounds(bounds entity.Rect)
	Focus()

	// --- Lifecycle ---

	// IsDestroyed returns true if the surface has been destroyed.
	IsDestroyed() bool

	// Destroy releases all resources associated with this surface.
	Destroy()
}

// ContentHost creates content surfaces. CreateSurface returns without
// waiting for the renderer to be ready.
type ContentHost interface {
	CreateSurface(ctx context.Context, opts SurfaceOptions) (ContentSurface, error)
}
