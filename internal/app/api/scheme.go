package api

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

// The drive gateway serves hyper://<host>/<path> at /drive/<host>/<path> so
// the content host can load drive pages over plain HTTP.

func (s *Server) handleDriveRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, r.URL.Path+"/", http.StatusMovedPermanently)
}

func (s *Server) handleDrive(w http.ResponseWriter, r *http.Request) {
	host := r.PathValue("host")
	rel := r.PathValue("path")
	driveURL := entity.DriveScheme + "://" + host + "/" + rel

	data, err := s.opts.Drives.ReadFile(r.Context(), driveURL)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.NotFound(w, r)
		return
	case err != nil:
		logging.FromContext(r.Context()).Debug().Err(err).Str("url", driveURL).Msg("drive read failed")
		writeError(w, http.StatusBadGateway, err)
		return
	}

	w.Header().Set("Content-Type", contentType(rel, data))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}

// contentType guesses the type of a drive file from its name, then its bytes.
// Directory paths serve their index page.
func contentType(rel string, data []byte) string {
	if rel == "" || strings.HasSuffix(rel, "/") {
		return "text/html; charset=utf-8"
	}
	if mt := mime.TypeByExtension(strings.ToLower(path.Ext(rel))); mt != "" {
		return mt
	}
	switch strings.ToLower(path.Ext(rel)) {
	case ".js", ".mjs":
		return "application/javascript"
	case ".css":
		return "text/css"
	case ".svg":
		return "image/svg+xml"
	case ".md":
		return "text/markdown; charset=utf-8"
	}
	return http.DetectContentType(data)
}
