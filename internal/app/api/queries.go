package api

import (
	"errors"
	"net/http"

	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/infrastructure/shellwin"
)

// tabQuery resolves the window and tab index of a tab query and runs fn off
// the control thread.
func (s *Server) tabQuery(w http.ResponseWriter, r *http.Request, fn func(index int) (any, error)) {
	index, err := pathIndex(r, "index")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	v, err := fn(index)
	switch {
	case isLookupFailure(err):
		writeError(w, http.StatusNotFound, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, v)
	}
}

func tabStateOptions(r *http.Request) tabs.TabStateOptions {
	return tabs.TabStateOptions{
		DriveInfo: queryFlag(r, "driveInfo"),
		SitePerms: queryFlag(r, "sitePerms"),
	}
}

func (s *Server) handleTabState(w http.ResponseWriter, r *http.Request) {
	s.tabQuery(w, r, func(index int) (any, error) {
		win, err := s.lookupWindow(r.Context(), entity.WindowID(r.PathValue("win")))
		if err != nil {
			return nil, err
		}
		return s.mgr.GetTabState(r.Context(), win, index, tabStateOptions(r))
	})
}

func (s *Server) handleNetworkState(w http.ResponseWriter, r *http.Request) {
	s.tabQuery(w, r, func(index int) (any, error) {
		win, err := s.lookupWindow(r.Context(), entity.WindowID(r.PathValue("win")))
		if err != nil {
			return nil, err
		}
		return s.mgr.GetNetworkState(r.Context(), win, index, queryFlag(r, "addresses"))
	})
}

func (s *Server) handlePageMetadata(w http.ResponseWriter, r *http.Request) {
	s.tabQuery(w, r, func(index int) (any, error) {
		win, err := s.lookupWindow(r.Context(), entity.WindowID(r.PathValue("win")))
		if err != nil {
			return nil, err
		}
		return s.mgr.GetPageMetadata(r.Context(), win, index)
	})
}

func (s *Server) handleChrome(w http.ResponseWriter, r *http.Request) {
	if s.opts.Chrome == nil {
		writeError(w, http.StatusNotImplemented, errors.New("chrome state unavailable"))
		return
	}
	id := entity.WindowID(r.PathValue("win"))
	if _, err := s.lookupWindow(r.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, s.opts.Chrome.State(id))
}

type dialogInfo struct {
	Pending int `json:"pending"`
}

type answerRequest struct {
	Leave bool `json:"leave"`
}

func (s *Server) handleDialog(w http.ResponseWriter, r *http.Request) {
	if s.opts.Dialogs == nil {
		writeError(w, http.StatusNotImplemented, errors.New("dialogs unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, dialogInfo{Pending: s.opts.Dialogs.Pending(entity.WindowID(r.PathValue("win")))})
}

func (s *Server) handleAnswerDialog(w http.ResponseWriter, r *http.Request) {
	if s.opts.Dialogs == nil {
		writeError(w, http.StatusNotImplemented, errors.New("dialogs unavailable"))
		return
	}
	var req answerRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err := s.opts.Dialogs.Answer(entity.WindowID(r.PathValue("win")), req.Leave)
	if errors.Is(err, shellwin.ErrNoPendingDialog) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": nil})
}

type menuInfo struct {
	Items []string `json:"items"`
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	if s.opts.Menus == nil {
		writeError(w, http.StatusNotImplemented, errors.New("menus unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, menuInfo{Items: s.opts.Menus.Labels(entity.WindowID(r.PathValue("win")))})
}

func (s *Server) handleClickMenu(w http.ResponseWriter, r *http.Request) {
	if s.opts.Menus == nil {
		writeError(w, http.StatusNotImplemented, errors.New("menus unavailable"))
		return
	}
	item, err := pathIndex(r, "item")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.opts.Menus.Click(entity.WindowID(r.PathValue("win")), item); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": nil})
}
