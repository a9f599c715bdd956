package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// handleEvents streams the window's state events. The first event is always
// a replace-state snapshot; the stream ends when the window closes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("stream unsupported"))
		return
	}
	id := entity.WindowID(r.PathValue("win"))
	log := logging.FromContext(logging.WithWindowID(s.ctx, string(id)))

	type result struct {
		st  *tabs.Stream
		err error
	}
	res, err := mainloop.CallValue(r.Context(), s.loop, func() result {
		win, err := s.window(id)
		if err != nil {
			return result{err: err}
		}
		st, err := s.mgr.Stream(win, s.opts.StreamDepth)
		return result{st: st, err: err}
	})
	switch {
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err)
		return
	case res.err != nil:
		writeError(w, http.StatusNotFound, res.err)
		return
	}
	st := res.st
	defer st.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	notify := r.Context().Done()
	log.Info().Msg("event stream opened")
	for {
		select {
		case <-notify:
			log.Info().Int64("dropped", st.Dropped()).Msg("event stream closed")
			return
		case ev, ok := <-st.Events():
			if !ok {
				log.Info().Msg("event stream ended with its window")
				return
			}
			if err := writeSSEvent(w, ev); err != nil {
				log.Warn().Err(err).Msg("event encode failed")
				continue
			}
			flusher.Flush()
		}
	}
}

func writeSSEvent(w http.ResponseWriter, ev tabs.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Kind)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
	return nil
}
