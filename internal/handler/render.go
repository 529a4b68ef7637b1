package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	pageIndex         = "index.html"
	pageContactResult = "contact_result.html"
	pageLogin         = "admin/login.html"
	pageDashboard     = "admin/dashboard.html"
	pageEditProject   = "admin/edit_project.html"
)

var pages = []string{pageIndex, pageContactResult, pageLogin, pageDashboard, pageEditProject}

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

// Renderer executes pre-parsed page templates. Each page is parsed together with the partials.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page under templates/ in fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(path.Base(page)).
			Funcs(templateFuncs).
			ParseFS(fsys, "templates/"+page, "templates/partials/*.html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render writes the page only after it executed completely, so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := r.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown template")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, path.Base(page), data); err != nil {
		log.Error().Err(err).Str("page", page).Msg("failed to render template")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
