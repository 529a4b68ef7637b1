package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/portfolio-server-go/web"
)

func TestStaticFileServer(t *testing.T) {
	static, err := StaticFileServer(web.FS, "static")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Handle("/static/*", static)

	t.Run("serves embedded css", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/style.css", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
		assert.NotEmpty(t, rec.Header().Get("Cache-Control"))
	})

	t.Run("directories are not listed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/js/nope.js", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUploadFileServer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1-abc-shot.png"), []byte("png"), 0o644))

	r := chi.NewRouter()
	r.Handle("/uploads/*", UploadFileServer(dir))

	t.Run("serves stored file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/1-abc-shot.png", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "png", rec.Body.String())
	})

	t.Run("cannot escape the upload dir", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/../../etc/passwd", nil))
		assert.NotEqual(t, http.StatusOK, rec.Code)
	})
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Health(stubPinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("database down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Health(stubPinger{err: errors.New("down")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestRenderer(t *testing.T) {
	renderer := newTestRenderer(t)

	t.Run("unknown page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		renderer.Render(rec, http.StatusOK, "nope.html", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("login page", func(t *testing.T) {
		rec := httptest.NewRecorder()
		renderer.Render(rec, http.StatusOK, pageLogin, map[string]any{"Error": "Invalid credentials", "Username": "admin"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	})
}
