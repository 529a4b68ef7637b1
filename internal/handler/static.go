package handler

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

// FileHandler serves regular files from root under a chi wildcard route. Directories
// are never listed.
type FileHandler struct {
	root         http.FileSystem
	cacheControl string
}

func NewFileHandler(root http.FileSystem, cacheControl string) *FileHandler {
	return &FileHandler{root: root, cacheControl: cacheControl}
}

func (h *FileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if name == "" || strings.HasSuffix(name, "/") {
		http.NotFound(w, r)
		return
	}
	name = path.Clean("/" + name)

	f, err := h.root.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	if h.cacheControl != "" {
		w.Header().Set("Cache-Control", h.cacheControl)
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// StaticFileServer serves the embedded assets below dir in fsys.
func StaticFileServer(fsys fs.FS, dir string) (http.Handler, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, err
	}
	return NewFileHandler(http.FS(sub), "public, max-age=3600"), nil
}

// UploadFileServer serves locally stored uploads.
func UploadFileServer(dir string) http.Handler {
	return NewFileHandler(http.Dir(dir), "public, max-age=86400")
}
