package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type FrontendHandler struct {
	dir   string
	index string
	files http.Handler
}

// NewFrontendHandler serves the built frontend from dir. Paths that do not match a
// file fall back to index so client-side routes resolve.
func NewFrontendHandler(dir string, index string) *FrontendHandler {
	return &FrontendHandler{
		dir:   dir,
		index: index,
		files: http.FileServer(http.Dir(dir)),
	}
}

func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		WriteError(w, http.StatusNotFound, "Not found", r.URL.Path)
		return
	}

	path := filepath.Join(h.dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.dir, h.index))
		return
	}
	h.files.ServeHTTP(w, r)
}
