package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFMiddleware(t *testing.T) {
	m := NewCSRFMiddleware(24*time.Hour, false)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetCSRFToken(r.Context())
	})

	t.Run("issues a token when none exists", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CSRFCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
		assert.Equal(t, 86400, cookies[0].MaxAge)
		assert.Len(t, seen, 64)
		assert.Equal(t, cookies[0].Value, seen)
	})

	t.Run("reuses the existing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
		rec := httptest.NewRecorder()
		m.Handler(next).ServeHTTP(rec, req)

		assert.Empty(t, rec.Result().Cookies())
		assert.Equal(t, "existing", seen)
	})
}

func TestVerifyCSRF(t *testing.T) {
	m := NewCSRFMiddleware(time.Hour, false)

	verify := func(req *http.Request) bool {
		var ok bool
		m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok = VerifyCSRF(r)
		})).ServeHTTP(httptest.NewRecorder(), req)
		return ok
	}

	form := func(token string) *http.Request {
		body := url.Values{CSRFFormField: {token}}.Encode()
		req := httptest.NewRequest(http.MethodPost, "/admin/skills/delete/x", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
		return req
	}

	t.Run("matching form field", func(t *testing.T) {
		assert.True(t, verify(form("tok")))
	})

	t.Run("mismatched form field", func(t *testing.T) {
		assert.False(t, verify(form("other")))
	})

	t.Run("missing token", func(t *testing.T) {
		assert.False(t, verify(form("")))
	})

	t.Run("matching header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
		req.Header.Set(CSRFHeaderName, "tok")
		assert.True(t, verify(req))
	})

	t.Run("fresh cookie issued on this request cannot be matched", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
		req.Header.Set(CSRFHeaderName, "guess")
		assert.False(t, verify(req))
	})

	t.Run("no middleware means no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
		req.Header.Set(CSRFHeaderName, "tok")
		assert.False(t, VerifyCSRF(req))
	})
}

func TestIsCrossSiteRequest(t *testing.T) {
	tests := []struct {
		site string
		want bool
	}{
		{"", false},
		{"none", false},
		{"same-origin", false},
		{"same-site", true},
		{"cross-site", true},
	}
	for _, tt := range tests {
		t.Run("Sec-Fetch-Site="+tt.site, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/logout", nil)
			if tt.site != "" {
				req.Header.Set("Sec-Fetch-Site", tt.site)
			}
			assert.Equal(t, tt.want, IsCrossSiteRequest(req))
		})
	}
}
