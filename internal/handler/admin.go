package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/openclaw/portfolio-server-go/internal/config"
	apperrors "github.com/openclaw/portfolio-server-go/internal/errors"
	"github.com/openclaw/portfolio-server-go/internal/httputil"
	"github.com/openclaw/portfolio-server-go/internal/middleware"
	"github.com/openclaw/portfolio-server-go/internal/model"
	"github.com/openclaw/portfolio-server-go/internal/service"
	"github.com/openclaw/portfolio-server-go/internal/upload"
)

const (
	dashboardPath = "/admin/dashboard"
	editPathFmt   = "/admin/projects/edit/%s"

	imageFileField = "imageFile"
	imageURLField  = "image"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*model.AdminSession, error)
}

type ContentManager interface {
	Home(ctx context.Context) (*service.Listing, error)
	Dashboard(ctx context.Context) (*service.Listing, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	CreateProject(ctx context.Context, in service.ProjectInput, img upload.Submission) (*model.Project, error)
	UpdateProject(ctx context.Context, id string, in service.ProjectInput, img upload.Submission) (*model.Project, error)
	DeleteProject(ctx context.Context, id string) error
	CreateSkill(ctx context.Context, in service.SkillInput) (*model.Skill, error)
	DeleteSkill(ctx context.Context, id string) error
}

type AdminHandler struct {
	auth              Authenticator
	content           ContentManager
	renderer          *Renderer
	sessionMiddleware func(http.Handler) http.Handler
	csrf              *middleware.CSRFMiddleware
	uploadLimit       func(http.Handler) http.Handler
	formLimit         func(http.Handler) http.Handler
	sessionTTL        time.Duration
	isProduction      bool
}

func NewAdminHandler(
	auth Authenticator,
	content ContentManager,
	renderer *Renderer,
	sessionTTL time.Duration,
	isProduction bool,
) *AdminHandler {
	return &AdminHandler{
		auth:              auth,
		content:           content,
		renderer:          renderer,
		sessionMiddleware: middleware.NewAdminSessionMiddleware(auth, isProduction).Handler,
		csrf:              middleware.NewCSRFMiddleware(sessionTTL, isProduction),
		uploadLimit:       middleware.NewBodyLimitMiddleware(config.MaxUploadBodyBytes).Handler,
		formLimit:         middleware.NewBodyLimitMiddleware(middleware.DefaultMaxBodySize).Handler,
		sessionTTL:        sessionTTL,
		isProduction:      isProduction,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, middleware.AdminLoginPath, http.StatusFound)
	})
	r.Get("/login", h.LoginPage)
	r.With(h.formLimit).Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.sessionMiddleware)
		r.Use(h.csrf.Handler)

		r.Get("/dashboard", h.Dashboard)
		r.Get("/logout", h.LogoutLink)
		r.With(h.formLimit).Post("/logout", h.Logout)

		// Projects
		r.With(h.uploadLimit).Post("/projects/add", h.CreateProject)
		r.Get("/projects/edit/{id}", h.EditProjectPage)
		r.With(h.uploadLimit).Post("/projects/edit/{id}", h.UpdateProject)
		r.With(h.formLimit).Post("/projects/delete/{id}", h.DeleteProject)

		// Skills
		r.With(h.formLimit).Post("/skills/add", h.CreateSkill)
		r.With(h.formLimit).Post("/skills/delete/{id}", h.DeleteSkill)
	})

	return r
}

func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.AdminSessionCookie); err == nil && cookie.Value != "" {
		session, err := h.auth.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			log.Error().Err(err).Msg("login page: session lookup failed")
		}
		if session != nil {
			http.Redirect(w, r, dashboardPath, http.StatusFound)
			return
		}
	}

	h.renderer.Render(w, http.StatusOK, pageLogin, map[string]any{"Error": "", "Username": ""})
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, http.StatusBadRequest, pageLogin, map[string]any{
			"Error":    apperrors.InvalidCredentials().Message,
			"Username": "",
		})
		return
	}

	username := r.PostFormValue("username")
	token, err := h.auth.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if apperrors.GetCode(err) != apperrors.ErrCodeInvalidCredentials {
			log.Error().Err(err).Msg("admin login error")
		}
		h.renderer.Render(w, httputil.StatusFromCode(apperrors.GetCode(err)), pageLogin, map[string]any{
			"Error":    apperrors.UserMessage(err),
			"Username": username,
		})
		return
	}

	middleware.SetSessionCookie(w, middleware.AdminSessionCookie, token, middleware.AdminCookiePath, h.sessionTTL, h.isProduction)
	if _, err := h.csrf.Issue(w); err != nil {
		log.Error().Err(err).Msg("failed to issue csrf token at login")
	}
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// LogoutLink serves GET /admin/logout. Navigations started on another site are
// sent back to the dashboard instead of ending the session.
func (h *AdminHandler) LogoutLink(w http.ResponseWriter, r *http.Request) {
	if middleware.IsCrossSiteRequest(r) {
		log.Warn().Str("path", r.URL.Path).Msg("cross-site logout ignored")
		http.Redirect(w, r, dashboardPath, http.StatusFound)
		return
	}
	h.endSession(w, r)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if rejectForgery(w, r) {
		return
	}
	h.endSession(w, r)
}

func (h *AdminHandler) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.AdminSessionCookie); err == nil && cookie.Value != "" {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("admin logout error")
		}
	}

	middleware.ClearSessionCookie(w, middleware.AdminSessionCookie, middleware.AdminCookiePath, h.isProduction)
	middleware.ClearCSRFCookie(w, h.isProduction)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	listing, err := h.content.Dashboard(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load dashboard")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	h.renderer.Render(w, http.StatusOK, pageDashboard, map[string]any{
		"Projects":   listing.Projects,
		"Skills":     listing.Skills,
		"Categories": model.SkillCategories,
		"CSRF":       middleware.GetCSRFToken(r.Context()),
		"Success":    q.Get(httputil.FlashSuccess),
		"Error":      q.Get(httputil.FlashError),
	})
}

func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	in, img, cleanup, err := parseProjectForm(r)
	defer cleanup()
	if err == nil && rejectForgery(w, r) {
		return
	}
	if err == nil {
		_, err = h.content.CreateProject(r.Context(), in, img)
	}
	if err != nil {
		h.failure(w, r, dashboardPath, "Failed to add project", err)
		return
	}

	httputil.RedirectWithFlash(w, r, dashboardPath, httputil.FlashSuccess, "Project added successfully")
}

func (h *AdminHandler) EditProjectPage(w http.ResponseWriter, r *http.Request) {
	project, err := h.content.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeNotFound {
			httputil.RedirectWithFlash(w, r, dashboardPath, httputil.FlashError, apperrors.UserMessage(err))
			return
		}
		log.Error().Err(err).Msg("failed to load project")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	h.renderer.Render(w, http.StatusOK, pageEditProject, map[string]any{
		"Project": project,
		"CSRF":    middleware.GetCSRFToken(r.Context()),
		"Success": q.Get(httputil.FlashSuccess),
		"Error":   q.Get(httputil.FlashError),
	})
}

func (h *AdminHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, img, cleanup, err := parseProjectForm(r)
	defer cleanup()
	if err == nil && rejectForgery(w, r) {
		return
	}
	if err == nil {
		_, err = h.content.UpdateProject(r.Context(), id, in, img)
	}
	if err != nil {
		target := fmt.Sprintf(editPathFmt, id)
		if apperrors.GetCode(err) == apperrors.ErrCodeNotFound {
			target = dashboardPath
		}
		h.failure(w, r, target, "Failed to update project", err)
		return
	}

	httputil.RedirectWithFlash(w, r, dashboardPath, httputil.FlashSuccess, "Project updated successfully")
}

func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if rejectForgery(w, r) {
		return
	}
	if err := h.content.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.failure(w, r, dashboardPath, "Failed to delete project", err)
		return
	}

	httputil.RedirectWithFlash(w, r, dashboardPath, httputil.FlashSuccess, "Project deleted successfully")
}

func (h *AdminHandler) CreateSkill(w http.ResponseWriter, r *http.Request) {
	var err error
	if err = r.ParseForm(); err != nil {
		err = apperrors.ValidationError("Invalid form submission").WithCause(err)
	} else if rejectForgery(w, r) {
		return
	} else {
		_, err = h.content.CreateSkill(r.Context(), service.SkillInput{
			Name:        r.PostFormValue("name"),
			Category:    r.PostFormValue("category"),
			Icon:        r.PostFormValue("icon"),
			Proficiency: r.PostFormValue("proficiency"),
		})
	}
	if err != nil {
		h.failure(w, r, dashboardPath, "Failed to add skill", err)
		return
	}

	httputil.RedirectWithFlash(w, r, dashboardPath, httputil.FlashSuccess, "Skill added successfully")
}

func (h *AdminHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	if rejectForgery(w, r) {
		return
	}
	if err := h.content.DeleteSkill(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.failure(w, r, dashboardPath, "Failed to delete skill", err)
		return
	}

	httputil.RedirectWithFlash(w, r, dashboardPath, httputil.FlashSuccess, "Skill deleted successfully")
}

// rejectForgery answers 403 when the form token is missing or wrong.
func rejectForgery(w http.ResponseWriter, r *http.Request) bool {
	if middleware.VerifyCSRF(r) {
		return false
	}
	log.Warn().Str("path", r.URL.Path).Msg("csrf token mismatch")
	http.Error(w, "Invalid security token", http.StatusForbidden)
	return true
}

// failure reports a failed mutation through the flash query string; the admin stays signed in.
func (h *AdminHandler) failure(w http.ResponseWriter, r *http.Request, target, action string, err error) {
	code := apperrors.GetCode(err)
	if code == apperrors.ErrCodeStoreUnavailable || code == apperrors.ErrCodeInternal {
		log.Error().Err(err).Str("path", r.URL.Path).Msg(action)
	} else {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg(action)
	}

	httputil.RedirectWithFlash(w, r, target, httputil.FlashError,
		fmt.Sprintf("%s: %s", action, apperrors.UserMessage(err)))
}

// parseProjectForm reads a multipart or urlencoded project form. cleanup is always safe to call.
func parseProjectForm(r *http.Request) (service.ProjectInput, upload.Submission, func(), error) {
	cleanup := func() {}

	err := r.ParseMultipartForm(config.MultipartFormMemory)
	if r.MultipartForm != nil {
		form := r.MultipartForm
		cleanup = func() { form.RemoveAll() }
	}
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		if isBodyTooLarge(err) {
			return service.ProjectInput{}, upload.Submission{}, cleanup, apperrors.FileTooLarge(config.MaxUploadBytes)
		}
		return service.ProjectInput{}, upload.Submission{}, cleanup, apperrors.ValidationError("Invalid form submission").WithCause(err)
	}

	in := service.ProjectInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tags:        r.FormValue("tags"),
		Link:        r.FormValue("link"),
	}
	img := upload.Submission{URL: r.FormValue(imageURLField)}

	file, header, err := r.FormFile(imageFileField)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return in, img, cleanup, apperrors.ValidationError("Invalid image upload").WithCause(err)
	default:
		prev := cleanup
		cleanup = func() {
			file.Close()
			prev()
		}
		img.File = &upload.File{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		}
	}

	return in, img, cleanup, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}
