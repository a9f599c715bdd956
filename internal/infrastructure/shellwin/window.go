package shellwin

import (
	"slices"
	"sync"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
)

const maxCommandHistory = 32

// Command is a chrome command recorded by a window.
type Command struct {
	Name string
	Args []any
}

// Window is a headless shell window.
type Window struct {
	sys    *System
	id     entity.WindowID
	parent port.Window
	origin string

	mu          sync.RWMutex
	bounds      entity.Rect
	shellHidden bool
	fullscreen  bool
	title       string
	focused     bool
	shellFocus  bool
	attached    map[port.SurfaceID]port.ContentSurface
	commands    []Command
	destroyed   bool
}

var _ port.Window = (*Window)(nil)

func (w *Window) ID() entity.WindowID { return w.id }
func (w *Window) Parent() port.Window { return w.parent }

// IsAppWindow reports whether the window is bound to an origin.
func (w *Window) IsAppWindow() bool { return w.origin != "" }

// Origin returns the app window's origin, or "".
func (w *Window) Origin() string { return w.origin }

func (w *Window) IsShellInterfaceHidden() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.shellHidden
}

// SetShellInterfaceHidden hides or shows the window chrome.
func (w *Window) SetShellInterfaceHidden(hidden bool) {
	w.mu.Lock()
	w.shellHidden = hidden
	w.mu.Unlock()
	w.resized()
}

func (w *Window) IsFullscreen() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fullscreen
}

// SetFullscreen toggles fullscreen. Fullscreen windows hide their chrome.
func (w *Window) SetFullscreen(on bool) {
	w.mu.Lock()
	w.fullscreen = on
	w.shellHidden = on
	w.mu.Unlock()
	w.resized()
}

func (w *Window) resized() {
	if cb := w.sys.cb(); cb != nil && cb.OnWindowResized != nil {
		cb.OnWindowResized(w.id)
	}
}

func (w *Window) ContentBounds() entity.Rect {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return entity.Rect{Width: w.bounds.Width, Height: w.bounds.Height}
}

func (w *Window) AttachSurface(s port.ContentSurface) {
	w.mu.Lock()
	w.attached[s.ID()] = s
	w.mu.Unlock()
}

func (w *Window) DetachSurface(s port.ContentSurface) {
	w.mu.Lock()
	delete(w.attached, s.ID())
	w.mu.Unlock()
}

// IsAttached reports whether the surface is shown in the window.
func (w *Window) IsAttached(id port.SurfaceID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.attached[id]
	return ok
}

// SendCommand records cmd and forwards it to the command listeners.
func (w *Window) SendCommand(cmd string, args ...any) {
	w.mu.Lock()
	w.commands = append(w.commands, Command{Name: cmd, Args: args})
	if n := len(w.commands); n > maxCommandHistory {
		w.commands = w.commands[n-maxCommandHistory:]
	}
	w.mu.Unlock()
	w.sys.command(w.id, cmd, args)
}

// Commands returns the most recent chrome commands, oldest first.
func (w *Window) Commands() []Command {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Command, len(w.commands))
	copy(out, w.commands)
	return out
}

func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
}

// Title returns the window title.
func (w *Window) Title() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.title
}

func (w *Window) Focus() {
	w.sys.mu.RLock()
	others := slices.Clone(w.sys.windows)
	w.sys.mu.RUnlock()
	for _, o := range others {
		o.mu.Lock()
		o.focused = o == w
		o.mu.Unlock()
	}
}

// IsFocused reports whether the window was raised last.
func (w *Window) IsFocused() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.focused
}

func (w *Window) FocusShell() {
	w.mu.Lock()
	w.shellFocus = true
	w.mu.Unlock()
}

// HasShellFocus reports whether keyboard focus was last given to the chrome.
func (w *Window) HasShellFocus() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.shellFocus
}

// Close destroys the window and notifies the window system.
func (w *Window) Close() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	w.attached = make(map[port.SurfaceID]port.ContentSurface)
	w.mu.Unlock()
	w.sys.closed(w)
}

func (w *Window) IsDestroyed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.destroyed
}
