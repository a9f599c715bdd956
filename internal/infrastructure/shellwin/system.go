// Package shellwin provides headless shell windows and the chrome around
// them. Window state is kept in memory and exposed to the control API.
package shellwin

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/logging"
)

// ErrWindowNotFound is returned for unknown or closed window IDs.
var ErrWindowNotFound = errors.New("window not found")

// CommandListener observes commands sent to window chrome.
type CommandListener func(id entity.WindowID, cmd string, args []any)

// System is an in-memory port.WindowSystem.
type System struct {
	logger zerolog.Logger
	size   entity.Rect

	mu        sync.RWMutex
	windows   []*Window
	callbacks *port.WindowSystemCallbacks
	listeners []CommandListener
}

var _ port.WindowSystem = (*System)(nil)

// NewSystem creates a window system whose new windows have the configured size.
func NewSystem(ctx context.Context, cfg config.WindowsConfig) *System {
	return &System{
		logger: logging.FromContext(ctx).With().Str("component", "shellwin").Logger(),
		size:   entity.Rect{Width: cfg.Width, Height: cfg.Height},
	}
}

// CreateShellWindow opens an ordinary window.
func (s *System) CreateShellWindow(ctx context.Context) (port.Window, error) {
	return s.open(nil, ""), nil
}

// CreateAppWindow opens a window bound to origin.
func (s *System) CreateAppWindow(ctx context.Context, origin string) (*Window, error) {
	if origin == "" {
		return nil, errors.New("app window needs an origin")
	}
	return s.open(nil, origin), nil
}

// CreateChildWindow opens a window owned by parent. Its tabs belong to the
// parent's top-level window.
func (s *System) CreateChildWindow(ctx context.Context, parent port.Window) (*Window, error) {
	if parent == nil || parent.IsDestroyed() {
		return nil, ErrWindowNotFound
	}
	return s.open(parent, ""), nil
}

// GetOrCreateNonAppWindow returns the first open ordinary top-level window
// or creates one.
func (s *System) GetOrCreateNonAppWindow(ctx context.Context) (port.Window, error) {
	s.mu.RLock()
	for _, w := range s.windows {
		if !w.IsAppWindow() && w.parent == nil && !w.IsDestroyed() {
			s.mu.RUnlock()
			return w, nil
		}
	}
	s.mu.RUnlock()
	return s.open(nil, ""), nil
}

func (s *System) open(parent port.Window, origin string) *Window {
	w := &Window{
		sys:      s,
		id:       entity.WindowID(uuid.NewString()),
		parent:   parent,
		origin:   origin,
		bounds:   s.size,
		attached: make(map[port.SurfaceID]port.ContentSurface),
	}
	s.mu.Lock()
	s.windows = append(s.windows, w)
	s.mu.Unlock()
	s.logger.Debug().Str("window_id", string(w.id)).Str("origin", origin).Msg("window opened")
	return w
}

// AllWindows returns the open windows in creation order.
func (s *System) AllWindows() []port.Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]port.Window, 0, len(s.windows))
	for _, w := range s.windows {
		out = append(out, w)
	}
	return out
}

// Window returns an open window by ID.
func (s *System) Window(id entity.WindowID) (*Window, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.windows {
		if w.id == id {
			return w, nil
		}
	}
	return nil, ErrWindowNotFound
}

// SetCallbacks registers the lifecycle handlers.
func (s *System) SetCallbacks(callbacks *port.WindowSystemCallbacks) {
	s.mu.Lock()
	s.callbacks = callbacks
	s.mu.Unlock()
}

// OnCommand registers a listener for chrome commands of every window.
func (s *System) OnCommand(fn CommandListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Resize changes a window's content size.
func (s *System) Resize(id entity.WindowID, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("window size must be positive")
	}
	w, err := s.Window(id)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.bounds = entity.Rect{Width: width, Height: height}
	w.mu.Unlock()
	if cb := s.cb(); cb != nil && cb.OnWindowResized != nil {
		cb.OnWindowResized(id)
	}
	return nil
}

func (s *System) cb() *port.WindowSystemCallbacks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callbacks
}

func (s *System) command(id entity.WindowID, cmd string, args []any) {
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(id, cmd, args)
	}
}

func (s *System) closed(w *Window) {
	s.mu.Lock()
	s.windows = slices.DeleteFunc(s.windows, func(o *Window) bool { return o == w })
	// Child windows go with their parent.
	var children []*Window
	for _, o := range s.windows {
		if o.parent == w {
			children = append(children, o)
		}
	}
	s.mu.Unlock()

	s.logger.Debug().Str("window_id", string(w.id)).Msg("window closed")
	if cb := s.cb(); cb != nil && cb.OnWindowClosed != nil {
		cb.OnWindowClosed(w.id)
	}
	for _, c := range children {
		c.Close()
	}
}
