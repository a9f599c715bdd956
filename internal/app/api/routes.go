// Package api exposes the tab manager to shell surfaces over HTTP: per-window
// commands and queries as JSON, window events as a server-sent event stream,
// and a gateway serving drive content to the content host.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/infrastructure/shellwin"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

const (
	shutdownTimeout    = 5 * time.Second
	readHeaderTimeout  = 10 * time.Second
	defaultStreamDepth = 64
)

// ChromeInspector reports what the shell chrome of a window shows.
type ChromeInspector interface {
	State(id entity.WindowID) shellwin.ChromeState
}

// DialogAnswerer resolves leave-page questions.
type DialogAnswerer interface {
	Pending(id entity.WindowID) int
	Answer(id entity.WindowID, leave bool) error
}

// MenuClicker picks items of open context menus.
type MenuClicker interface {
	Labels(id entity.WindowID) []string
	Click(id entity.WindowID, index int) error
}

// Resizer changes the content size of a window.
type Resizer interface {
	Resize(id entity.WindowID, width, height int) error
}

// Options wires a Server. Manager and Windows are required.
type Options struct {
	Manager *tabs.Manager
	Windows port.WindowSystem
	Drives  port.DriveService

	Chrome  ChromeInspector
	Dialogs DialogAnswerer
	Menus   MenuClicker
	Resizer Resizer

	// StreamDepth is the event buffer of each SSE client.
	StreamDepth int
}

// Server serves the control channel.
type Server struct {
	ctx  context.Context
	mgr  *tabs.Manager
	loop mainloop.Loop
	opts Options
}

// NewServer creates a server. ctx is the parent of every operation the
// server starts on the manager; it outlives individual requests.
func NewServer(ctx context.Context, opts Options) (*Server, error) {
	switch {
	case opts.Manager == nil:
		return nil, errors.New("api: manager is required")
	case opts.Windows == nil:
		return nil, errors.New("api: window system is required")
	}
	if opts.StreamDepth <= 0 {
		opts.StreamDepth = defaultStreamDepth
	}
	return &Server{
		ctx:  logging.WithComponent(ctx, "api"),
		mgr:  opts.Manager,
		loop: opts.Manager.Loop(),
		opts: opts,
	}, nil
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/windows", s.handleListWindows)
	mux.HandleFunc("POST /api/windows", s.handleCreateWindow)
	mux.HandleFunc("DELETE /api/windows/{win}", s.handleCloseWindow)
	mux.HandleFunc("POST /api/windows/{win}/resize", s.handleResize)
	mux.HandleFunc("POST /api/windows/{win}/commands", s.handleCommand)
	mux.HandleFunc("GET /api/windows/{win}/state", s.handleState)
	mux.HandleFunc("GET /api/windows/{win}/events", s.handleEvents)
	mux.HandleFunc("GET /api/windows/{win}/tabs/{index}", s.handleTabState)
	mux.HandleFunc("GET /api/windows/{win}/tabs/{index}/network", s.handleNetworkState)
	mux.HandleFunc("GET /api/windows/{win}/tabs/{index}/metadata", s.handlePageMetadata)
	mux.HandleFunc("GET /api/windows/{win}/chrome", s.handleChrome)
	mux.HandleFunc("GET /api/windows/{win}/dialog", s.handleDialog)
	mux.HandleFunc("POST /api/windows/{win}/dialog", s.handleAnswerDialog)
	mux.HandleFunc("GET /api/windows/{win}/menu", s.handleMenu)
	mux.HandleFunc("POST /api/windows/{win}/menu/{item}", s.handleClickMenu)
	mux.HandleFunc("GET /api/background-tabs", s.handleBackgroundTabs)
	if s.opts.Drives != nil {
		mux.HandleFunc("GET /drive/{host}", s.handleDriveRoot)
		mux.HandleFunc("GET /drive/{host}/{path...}", s.handleDrive)
	}
	return withRequestLogging(s.ctx, mux)
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}
	logging.FromContext(s.ctx).Info().Str("addr", ln.Addr().String()).Msg("control channel listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// WindowInfo summarizes a top-level window. Active is -1 when no tab is active.
type WindowInfo struct {
	ID          entity.WindowID `json:"id"`
	App         bool            `json:"app"`
	Fullscreen  bool            `json:"fullscreen"`
	ShellHidden bool            `json:"shellHidden"`
	Tabs        int             `json:"tabs"`
	Active      int             `json:"active"`
}

func (s *Server) describe(win port.Window) WindowInfo {
	info := WindowInfo{
		ID:          win.ID(),
		App:         win.IsAppWindow(),
		Fullscreen:  win.IsFullscreen(),
		ShellHidden: win.IsShellInterfaceHidden(),
		Active:      -1,
	}
	info.Tabs = len(s.mgr.Tabs(win))
	if t, err := s.mgr.Active(win); err == nil {
		info.Active = s.mgr.IndexOf(win, t)
	}
	return info
}

func (s *Server) handleListWindows(w http.ResponseWriter, r *http.Request) {
	out, err := mainloop.CallValue(r.Context(), s.loop, func() []WindowInfo {
		wins := s.opts.Windows.AllWindows()
		out := make([]WindowInfo, 0, len(wins))
		for _, win := range wins {
			if win.IsDestroyed() || win.Parent() != nil {
				continue
			}
			out = append(out, s.describe(win))
		}
		return out
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type createWindowRequest struct {
	URL string `json:"url,omitempty"`
}

func (s *Server) handleCreateWindow(w http.ResponseWriter, r *http.Request) {
	var req createWindowRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	type result struct {
		info WindowInfo
		err  error
	}
	res, err := mainloop.CallValue(r.Context(), s.loop, func() result {
		win, err := s.opts.Windows.CreateShellWindow(s.ctx)
		if err != nil {
			return result{err: err}
		}
		target := req.URL
		if target == "" {
			target = s.mgr.Config().NewTabURL
		}
		ctx := logging.WithWindowID(s.ctx, string(win.ID()))
		if _, err := s.mgr.Create(ctx, win, target, tabs.CreateOptions{SetActive: true}); err != nil {
			win.Close()
			return result{err: err}
		}
		return result{info: s.describe(win)}
	})
	switch {
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err)
	case errors.Is(res.err, tabs.ErrUnsupportedURL):
		writeError(w, http.StatusBadRequest, res.err)
	case res.err != nil:
		writeError(w, http.StatusInternalServerError, res.err)
	default:
		writeJSON(w, http.StatusCreated, res.info)
	}
}

func (s *Server) handleCloseWindow(w http.ResponseWriter, r *http.Request) {
	s.withWindow(w, r, func(win port.Window) (any, error) {
		win.Close()
		return nil, nil
	})
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	if s.opts.Resizer == nil {
		writeError(w, http.StatusNotImplemented, errors.New("resize unsupported"))
		return
	}
	var req resizeRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err := s.opts.Resizer.Resize(entity.WindowID(r.PathValue("win")), req.Width, req.Height)
	switch {
	case errors.Is(err, shellwin.ErrWindowNotFound):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"result": nil})
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withWindow(w, r, func(win port.Window) (any, error) {
		return s.mgr.ReplaceState(win)
	})
}

func (s *Server) handleBackgroundTabs(w http.ResponseWriter, r *http.Request) {
	out, err := mainloop.CallValue(r.Context(), s.loop, s.mgr.GetBackgroundTabs)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	if out == nil {
		out = []entity.BackgroundTab{}
	}
	writeJSON(w, http.StatusOK, out)
}

// withWindow runs fn on the control thread with the window named by the
// request path and writes its result. Unknown windows answer 404.
func (s *Server) withWindow(w http.ResponseWriter, r *http.Request, fn func(win port.Window) (any, error)) {
	id := entity.WindowID(r.PathValue("win"))
	type result struct {
		value any
		err   error
	}
	res, err := mainloop.CallValue(r.Context(), s.loop, func() result {
		win, err := s.window(id)
		if err != nil {
			return result{err: err}
		}
		v, err := fn(win)
		return result{value: v, err: err}
	})
	switch {
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err)
	case isLookupFailure(res.err):
		writeError(w, http.StatusNotFound, res.err)
	case res.err != nil:
		writeError(w, http.StatusInternalServerError, res.err)
	default:
		writeJSON(w, http.StatusOK, res.value)
	}
}

// window finds a live window by id. Must be called on the control thread.
func (s *Server) window(id entity.WindowID) (port.Window, error) {
	for _, win := range s.opts.Windows.AllWindows() {
		if win.ID() == id && !win.IsDestroyed() {
			return win, nil
		}
	}
	return nil, tabs.ErrWindowNotFound
}

// lookupWindow is window for callers off the control thread.
func (s *Server) lookupWindow(ctx context.Context, id entity.WindowID) (port.Window, error) {
	type result struct {
		win port.Window
		err error
	}
	res, err := mainloop.CallValue(ctx, s.loop, func() result {
		win, err := s.window(id)
		return result{win: win, err: err}
	})
	if err != nil {
		return nil, err
	}
	return res.win, res.err
}

func isLookupFailure(err error) bool {
	return errors.Is(err, tabs.ErrTabNotFound) ||
		errors.Is(err, tabs.ErrWindowNotFound) ||
		errors.Is(err, tabs.ErrNoActivePane) ||
		errors.Is(err, tabs.ErrDestroyed)
}

func pathIndex(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}

func queryFlag(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
