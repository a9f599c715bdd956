package port

import (
	"context"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// Shell window commands sent to the window's chrome.
const (
	CommandFocusLocation     = "focus-location"
	CommandUnfocusLocation   = "unfocus-location"
	CommandMinimizeToBgAnim  = "minimize-to-bg-anim"
	CommandShowInpageFind    = "show-inpage-find"
	CommandFocusShellContent = "focus-shell"
)

// Window is a top-level or child shell window.
type Window interface {
	ID() entity.WindowID

	// Parent returns the parent window, or nil for a top-level window.
	Parent() Window

	// IsAppWindow reports whether the window is bound to a single origin.
	IsAppWindow() bool
	IsShellInterfaceHidden() bool
	IsFullscreen() bool

	// ContentBounds returns the window's content area size (X/Y are zero).
	ContentBounds() entity.Rect

	// AttachSurface makes a surface visible inside the window.
	AttachSurface(s ContentSurface)
	// DetachSurface removes a surface from the window.
	DetachSurface(s ContentSurface)

	// SendCommand forwards a named command to the window's chrome UI.
	SendCommand(cmd string, args ...any)
	SetTitle(title string)
	// Focus raises the window.
	Focus()
	// FocusShell gives keyboard focus to the window's chrome UI.
	FocusShell()
	Close()
	IsDestroyed() bool
}

// WindowSystemCallbacks defines callback handlers for window lifecycle events.
type WindowSystemCallbacks struct {
	// OnWindowClosed is called after a window is destroyed.
	OnWindowClosed func(id entity.WindowID)
	// OnWindowResized is called after a window's content bounds change.
	OnWindowResized func(id entity.WindowID)
}

// WindowSystem creates and enumerates shell windows.
type WindowSystem interface {
	// CreateShellWindow opens a new ordinary window and returns once its chrome is ready.
	CreateShellWindow(ctx context.Context) (Window, error)
	// GetOrCreateNonAppWindow returns an existing ordinary window or creates one.
	GetOrCreateNonAppWindow(ctx context.Context) (Window, error)
	AllWindows() []Window
	SetCallbacks(callbacks *WindowSystemCallbacks)
}

// TopWindow walks up the parent chain to the top-level window.
func TopWindow(w Window) Window {
	if w == nil {
		return nil
	}
	for p := w.Parent(); p != nil; p = w.Parent() {
		w = p
	}
	return w
}
