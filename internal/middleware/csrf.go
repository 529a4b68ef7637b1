package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/portfolio-server-go/internal/util"
)

const (
	CSRFCookieName = "admin_csrf"
	CSRFHeaderName = "X-CSRF-Token"
	CSRFFormField  = "_csrf"
)

const CSRFContextKey contextKey = "csrfToken"

// CSRFMiddleware implements the double-submit cookie pattern for admin forms:
// the token lives in a cookie and must come back in a hidden form field or the
// X-CSRF-Token header. The middleware only makes sure a token exists and exposes
// it to templates; handlers call VerifyCSRF once they have parsed the body, so an
// oversized upload is still reported as such.
type CSRFMiddleware struct {
	maxAge       time.Duration
	isProduction bool
}

func NewCSRFMiddleware(maxAge time.Duration, isProduction bool) *CSRFMiddleware {
	return &CSRFMiddleware{maxAge: maxAge, isProduction: isProduction}
}

func (m *CSRFMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(CSRFCookieName); err == nil {
			token = cookie.Value
		}
		if token == "" {
			var err error
			if token, err = m.Issue(w); err != nil {
				log.Error().Err(err).Msg("failed to issue csrf token")
				http.Error(w, "Server Error", http.StatusInternalServerError)
				return
			}
		}

		ctx := context.WithValue(r.Context(), CSRFContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Issue sets a fresh token cookie; called on login so every session starts with its own token.
func (m *CSRFMiddleware) Issue(w http.ResponseWriter) (string, error) {
	token, err := util.GenerateToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     AdminCookiePath,
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.isProduction,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

func ClearCSRFCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    "",
		Path:     AdminCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFContextKey).(string)
	return token
}

// VerifyCSRF compares the submitted token with the cookie token. Call it after the
// form has been parsed; for an unparsed body it parses a urlencoded form.
func VerifyCSRF(r *http.Request) bool {
	expected := GetCSRFToken(r.Context())
	if expected == "" {
		return false
	}

	submitted := r.Header.Get(CSRFHeaderName)
	if submitted == "" {
		submitted = r.FormValue(CSRFFormField)
	}
	return submitted != "" && util.ConstantTimeEqual(expected, submitted)
}

// IsCrossSiteRequest reports whether the browser flagged r as started from another site.
func IsCrossSiteRequest(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "cross-site", "same-site":
		return true
	}
	return false
}
