package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// CommandRequest is the body of POST /api/windows/{win}/commands.
// Index selects a tab; when absent the active tab is used.
type CommandRequest struct {
	Command string `json:"command"`

	Index  *int `json:"index,omitempty"`
	To     *int `json:"to,omitempty"`
	Offset int  `json:"offset,omitempty"`

	URL            string `json:"url,omitempty"`
	SetActive      *bool  `json:"setActive,omitempty"`
	Pinned         bool   `json:"pinned,omitempty"`
	AdjacentActive bool   `json:"adjacentActive,omitempty"`
	FocusLocation  bool   `json:"focusLocationBar,omitempty"`

	Query     string `json:"query,omitempty"`
	Direction int    `json:"dir,omitempty"`
	Enable    *bool  `json:"enable,omitempty"`

	Menu    string         `json:"menu,omitempty"`
	Cmd     string         `json:"cmd,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// CommandResponse carries the result of a command, null when it has none.
type CommandResponse struct {
	Result any `json:"result"`
}

// tabRef identifies a tab in a command result.
type tabRef struct {
	ID    entity.TabID `json:"id"`
	Index int          `json:"index"`
}

type call struct {
	ctx context.Context
	mgr *tabs.Manager
	win port.Window
	req CommandRequest
}

func (c *call) tab() (*tabs.Tab, error) {
	if c.req.Index == nil {
		return c.mgr.Active(c.win)
	}
	return c.mgr.TabAt(c.win, *c.req.Index)
}

func (c *call) pane() (*tabs.Pane, error) {
	t, err := c.tab()
	if err != nil {
		return nil, err
	}
	return t.ActivePane()
}

func (c *call) index() (int, error) {
	if c.req.Index != nil {
		return *c.req.Index, nil
	}
	t, err := c.mgr.Active(c.win)
	if err != nil {
		return 0, err
	}
	return c.mgr.IndexOf(c.win, t), nil
}

func (c *call) ref(t *tabs.Tab) tabRef {
	return tabRef{ID: t.ID(), Index: c.mgr.IndexOf(t.Window(), t)}
}

// settle logs the outcome of an operation that finishes after the request.
func (c *call) settle(op string, done *tabs.Completion) {
	done.Then(func(err error) {
		if err != nil && !errors.Is(err, tabs.ErrRemovalCanceled) {
			logging.FromContext(c.ctx).Warn().Err(err).Str("command", op).Msg("command failed")
		}
	})
}

type commandFunc func(c *call) (any, error)

// paneCommand adapts a fire-and-forget pane action.
func paneCommand(fn func(p *tabs.Pane, req CommandRequest)) commandFunc {
	return func(c *call) (any, error) {
		p, err := c.pane()
		if err != nil {
			return nil, err
		}
		fn(p, c.req)
		return nil, nil
	}
}

var commands = map[string]commandFunc{
	"create-tab": func(c *call) (any, error) {
		opts := tabs.CreateOptions{
			SetActive:        c.req.SetActive == nil || *c.req.SetActive,
			Pinned:           c.req.Pinned,
			AdjacentActive:   c.req.AdjacentActive,
			TabIndex:         c.req.Index,
			FocusLocationBar: c.req.FocusLocation,
		}
		t, err := c.mgr.Create(c.ctx, c.win, c.req.URL, opts)
		if err != nil {
			return nil, err
		}
		return c.ref(t), nil
	},
	"open-or-focus": func(c *call) (any, error) {
		t, err := c.mgr.OpenOrFocus(c.ctx, c.win, c.req.URL)
		if err != nil {
			return nil, err
		}
		return c.ref(t), nil
	},
	"close-tab": func(c *call) (any, error) {
		t, err := c.tab()
		if err != nil {
			return nil, err
		}
		c.settle("close-tab", c.mgr.Remove(c.ctx, c.win, t))
		return nil, nil
	},
	"close-others": func(c *call) (any, error) {
		t, err := c.tab()
		if err != nil {
			return nil, err
		}
		c.mgr.RemoveAllExcept(c.ctx, c.win, t)
		return nil, nil
	},
	"close-to-right": func(c *call) (any, error) {
		i, err := c.index()
		if err != nil {
			return nil, err
		}
		c.mgr.RemoveAllToRightOf(c.ctx, c.win, i)
		return nil, nil
	},
	"reopen-closed": func(c *call) (any, error) {
		t, err := c.mgr.ReopenLastRemoved(c.ctx, c.win)
		if err != nil || t == nil {
			return nil, err
		}
		return c.ref(t), nil
	},
	"set-active": func(c *call) (any, error) {
		t, err := c.tab()
		if err != nil {
			return nil, err
		}
		return nil, c.mgr.SetActive(c.win, t)
	},
	"change-active-by": func(c *call) (any, error) {
		c.mgr.ChangeActiveBy(c.win, c.req.Offset)
		return nil, nil
	},
	"change-active-to-last": func(c *call) (any, error) {
		c.mgr.ChangeActiveToLast(c.win)
		return nil, nil
	},
	"previous-tab-index": func(c *call) (any, error) {
		return c.mgr.GetPreviousTabIndex(c.win), nil
	},
	"reorder-tab": func(c *call) (any, error) {
		if c.req.Index == nil || c.req.To == nil {
			return nil, errBadArgs("reorder-tab needs index and to")
		}
		return nil, c.mgr.Reorder(c.win, *c.req.Index, *c.req.To)
	},
	"toggle-pinned": func(c *call) (any, error) {
		t, err := c.tab()
		if err != nil {
			return nil, err
		}
		return nil, c.mgr.TogglePinned(c.ctx, c.win, t)
	},
	"minimize-to-bg": func(c *call) (any, error) {
		t, err := c.tab()
		if err != nil {
			return nil, err
		}
		return nil, c.mgr.MinimizeToBg(c.ctx, c.win, t)
	},
	"restore-bg-tab": func(c *call) (any, error) {
		if c.req.Index == nil {
			return nil, errBadArgs("restore-bg-tab needs index")
		}
		t, err := c.mgr.RestoreBgTabByIndex(c.ctx, c.win, *c.req.Index)
		if err != nil {
			return nil, err
		}
		return c.ref(t), nil
	},
	"close-bg-tab": func(c *call) (any, error) {
		if c.req.Index == nil {
			return nil, errBadArgs("close-bg-tab needs index")
		}
		return nil, c.mgr.CloseBgTab(*c.req.Index)
	},
	"pop-out": func(c *call) (any, error) {
		t, err := c.tab()
		if err != nil {
			return nil, err
		}
		c.settle("pop-out", c.mgr.PopOutTab(c.ctx, t))
		return nil, nil
	},

	"load-url": paneCommand(func(p *tabs.Pane, req CommandRequest) { p.LoadURL(req.URL) }),
	"go-back":  paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.GoBack() }),
	"go-forward": paneCommand(func(p *tabs.Pane, _ CommandRequest) {
		p.GoForward()
	}),
	"stop":            paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.Stop() }),
	"reload":          paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.Reload() }),
	"zoom-in":         paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.ZoomIn() }),
	"zoom-out":        paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.ZoomOut() }),
	"reset-zoom":      paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.ResetZoom() }),
	"toggle-muted":    paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.ToggleMuted() }),
	"print":           paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.Print() }),
	"toggle-devtools": paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.ToggleDevTools() }),
	"refresh-state":   paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.RefreshState() }),
	"capture-screenshot": paneCommand(func(p *tabs.Pane, _ CommandRequest) {
		p.CaptureScreenshot()
	}),
	"toggle-live-reload": paneCommand(func(p *tabs.Pane, req CommandRequest) {
		if req.Enable != nil {
			p.SetLiveReloading(*req.Enable)
			return
		}
		p.ToggleLiveReloading()
	}),
	"show-inpage-find": paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.ShowInpageFind() }),
	"hide-inpage-find": paneCommand(func(p *tabs.Pane, _ CommandRequest) { p.HideInpageFind() }),
	"set-inpage-find": paneCommand(func(p *tabs.Pane, req CommandRequest) {
		p.SetInpageFindString(req.Query, req.Direction)
	}),
	"move-inpage-find": paneCommand(func(p *tabs.Pane, req CommandRequest) {
		p.MoveInpageFind(req.Direction)
	}),

	"tab-context-menu": func(c *call) (any, error) {
		i, err := c.index()
		if err != nil {
			return nil, err
		}
		return nil, c.mgr.ShowTabContextMenu(c.ctx, c.win, i)
	},
	"location-bar-menu": func(c *call) (any, error) {
		c.mgr.ShowLocationBarMenu(c.ctx, c.win)
		return nil, nil
	},
	"focus-shell": func(c *call) (any, error) {
		c.mgr.FocusShell(c.win)
		return nil, nil
	},
	"focus-page": func(c *call) (any, error) {
		c.mgr.FocusPage(c.win)
		return nil, nil
	},

	"show-location-bar": func(c *call) (any, error) {
		return nil, c.mgr.Chrome().ShowLocationBar(c.ctx, c.win, c.req.Options)
	},
	"hide-location-bar": func(c *call) (any, error) {
		return nil, c.mgr.Chrome().HideLocationBar(c.ctx, c.win)
	},
	"location-bar-cmd": func(c *call) (any, error) {
		if c.req.Cmd == "" {
			return nil, errBadArgs("location-bar-cmd needs cmd")
		}
		return c.mgr.Chrome().RunLocationBarCmd(c.ctx, c.win, c.req.Cmd, c.req.Options)
	},
	"show-menu": func(c *call) (any, error) {
		if c.req.Menu == "" {
			return nil, errBadArgs("show-menu needs menu")
		}
		return nil, c.mgr.Chrome().ShowMenu(c.ctx, c.win, c.req.Menu, c.req.Options)
	},
	"toggle-menu": func(c *call) (any, error) {
		if c.req.Menu == "" {
			return nil, errBadArgs("toggle-menu needs menu")
		}
		return nil, c.mgr.Chrome().ToggleMenu(c.ctx, c.win, c.req.Menu, c.req.Options)
	},
	"update-menu": func(c *call) (any, error) {
		return nil, c.mgr.Chrome().UpdateMenu(c.ctx, c.win, c.req.Options)
	},
	"hide-menus": func(c *call) (any, error) {
		c.mgr.Chrome().HideMenus(c.win)
		return nil, nil
	},
	"toggle-site-info": func(c *call) (any, error) {
		return nil, c.mgr.Chrome().ToggleSiteInfo(c.ctx, c.win, c.req.Options)
	},
}

type badArgsError string

func (e badArgsError) Error() string { return string(e) }

func errBadArgs(msg string) error { return badArgsError(msg) }

// handleCommand runs one command on the control thread. Commands that
// reference a tab or window which no longer exists are logged and answer
// a null result.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fn, ok := commands[req.Command]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown command %q", req.Command))
		return
	}

	id := entity.WindowID(r.PathValue("win"))
	ctx := logging.WithWindowID(s.ctx, string(id))
	log := logging.FromContext(ctx)

	type result struct {
		value any
		err   error
	}
	res, err := mainloop.CallValue(r.Context(), s.loop, func() result {
		win, err := s.window(id)
		if err != nil {
			return result{err: err}
		}
		v, err := fn(&call{ctx: ctx, mgr: s.mgr, win: win, req: req})
		return result{value: v, err: err}
	})

	var bad badArgsError
	switch {
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err)
	case isLookupFailure(res.err):
		log.Warn().Err(res.err).Str("command", req.Command).Msg("command target not found")
		writeJSON(w, http.StatusOK, CommandResponse{})
	case errors.As(res.err, &bad), errors.Is(res.err, tabs.ErrUnsupportedURL):
		writeError(w, http.StatusBadRequest, res.err)
	case res.err != nil:
		log.Warn().Err(res.err).Str("command", req.Command).Msg("command failed")
		writeError(w, http.StatusConflict, res.err)
	default:
		log.Debug().Str("command", req.Command).Msg("command handled")
		writeJSON(w, http.StatusOK, CommandResponse{Result: res.value})
	}
}
