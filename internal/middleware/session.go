package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openclaw/portfolio-server-go/internal/model"
)

const (
	AdminSessionCookie = "admin_session"
	AdminCookiePath    = "/"
	AdminLoginPath     = "/admin/login"
)

type contextKey string

const AdminSessionContextKey contextKey = "adminSession"

func GetAdminSession(ctx context.Context) *model.AdminSession {
	if session, ok := ctx.Value(AdminSessionContextKey).(*model.AdminSession); ok {
		return session
	}
	return nil
}

// SessionValidator resolves a raw session token to a live session, or nil.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*model.AdminSession, error)
}

type AdminSessionMiddleware struct {
	validator SessionValidator
	secure    bool
}

func NewAdminSessionMiddleware(validator SessionValidator, secure bool) *AdminSessionMiddleware {
	return &AdminSessionMiddleware{validator: validator, secure: secure}
}

// Handler lets authenticated requests through and sends everyone else to the login page.
func (m *AdminSessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AdminSessionCookie)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, AdminLoginPath, http.StatusFound)
			return
		}

		session, err := m.validator.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			log.Error().Err(err).Msg("admin session middleware: session lookup failed")
			http.Redirect(w, r, AdminLoginPath, http.StatusFound)
			return
		}

		if session == nil {
			ClearSessionCookie(w, AdminSessionCookie, AdminCookiePath, m.secure)
			http.Redirect(w, r, AdminLoginPath, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), AdminSessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SetSessionCookie(w http.ResponseWriter, name, token, path string, maxAge time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     path,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, name, path string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
