package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/openclaw/portfolio-server-go/internal/middleware"
	"github.com/openclaw/portfolio-server-go/internal/model"
	"github.com/openclaw/portfolio-server-go/internal/service"
)

const contactSentMessage = "Message sent successfully!"

type ContactSubmitter interface {
	Submit(ctx context.Context, in service.ContactInput) error
}

type SiteHandler struct {
	content  ContentManager
	contact  ContactSubmitter
	renderer *Renderer
}

func NewSiteHandler(content ContentManager, contact ContactSubmitter, renderer *Renderer) *SiteHandler {
	return &SiteHandler{
		content:  content,
		contact:  contact,
		renderer: renderer,
	}
}

// Register adds the public routes to r.
func (h *SiteHandler) Register(r chi.Router) {
	r.Get("/", h.Home)
	r.With(middleware.NewBodyLimitMiddleware(middleware.DefaultMaxBodySize).Handler).Post("/contact", h.Contact)
}

type SkillGroup struct {
	Category model.SkillCategory
	Skills   []model.Skill
}

// groupSkills keeps the incoming order and starts a new group whenever the category changes.
func groupSkills(skills []model.Skill) []SkillGroup {
	var groups []SkillGroup
	for _, s := range skills {
		if n := len(groups); n > 0 && groups[n-1].Category == s.Category {
			groups[n-1].Skills = append(groups[n-1].Skills, s)
			continue
		}
		groups = append(groups, SkillGroup{Category: s.Category, Skills: []model.Skill{s}})
	}
	return groups
}

func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	listing, err := h.content.Home(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load home page")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, http.StatusOK, pageIndex, map[string]any{
		"Projects":    listing.Projects,
		"SkillGroups": groupSkills(listing.Skills),
	})
}

func (h *SiteHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var err error
	if err = r.ParseForm(); err == nil {
		err = h.contact.Submit(r.Context(), service.ContactInput{
			Name:    r.PostFormValue("name"),
			Email:   r.PostFormValue("email"),
			Message: r.PostFormValue("message"),
		})
	}

	data := map[string]any{"Sent": err == nil, "Message": contactSentMessage}
	if err != nil {
		log.Warn().Err(err).Msg("contact submission failed")
		data["Message"] = service.ContactFailureText(err)
	}

	h.renderer.Render(w, http.StatusOK, pageContactResult, data)
}
