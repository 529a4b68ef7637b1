package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/openclaw/portfolio-server-go/internal/errors"
	"github.com/openclaw/portfolio-server-go/internal/model"
	"github.com/openclaw/portfolio-server-go/internal/repository"
	"github.com/openclaw/portfolio-server-go/internal/upload"
	"github.com/openclaw/portfolio-server-go/internal/util"
)

// DefaultSkillProficiency applies when the admin form leaves proficiency blank.
const DefaultSkillProficiency = 80

type ContentService struct {
	projectRepo repository.ProjectRepository
	skillRepo   repository.SkillRepository
	resolver    *upload.Resolver
}

func NewContentService(
	projectRepo repository.ProjectRepository,
	skillRepo repository.SkillRepository,
	resolver *upload.Resolver,
) *ContentService {
	return &ContentService{
		projectRepo: projectRepo,
		skillRepo:   skillRepo,
		resolver:    resolver,
	}
}

type Listing struct {
	Projects []model.Project
	Skills   []model.Skill
}

type ProjectInput struct {
	Title       string
	Description string
	Tags        string
	Link        string
}

type SkillInput struct {
	Name        string
	Category    string
	Icon        string
	Proficiency string
}

// ParseTags splits on commas and trims each label. Empty labels are kept so the
// stored order always matches the input.
func ParseTags(input string) []string {
	if strings.TrimSpace(input) == "" {
		return []string{}
	}
	parts := strings.Split(input, ",")
	tags := make([]string, len(parts))
	for i, p := range parts {
		tags[i] = strings.TrimSpace(p)
	}
	return tags
}

func (s *ContentService) listing(ctx context.Context) (*Listing, error) {
	projects, err := s.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	skills, err := s.skillRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	return &Listing{Projects: projects, Skills: skills}, nil
}

// Home is the public listing.
func (s *ContentService) Home(ctx context.Context) (*Listing, error) {
	return s.listing(ctx)
}

// Dashboard lists projects newest first and skills by category, proficiency and name.
func (s *ContentService) Dashboard(ctx context.Context) (*Listing, error) {
	return s.listing(ctx)
}

func (s *ContentService) GetProject(ctx context.Context, id string) (*model.Project, error) {
	if !util.IsValidUUID(id) {
		return nil, apperrors.NotFound("Project")
	}
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if project == nil {
		return nil, apperrors.NotFound("Project")
	}
	return project, nil
}

func validateProjectInput(in ProjectInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return apperrors.MissingRequired("Title")
	case strings.TrimSpace(in.Description) == "":
		return apperrors.MissingRequired("Description")
	case strings.TrimSpace(in.Link) == "":
		return apperrors.MissingRequired("Link")
	}
	return nil
}

func (s *ContentService) CreateProject(ctx context.Context, in ProjectInput, img upload.Submission) (*model.Project, error) {
	if err := validateProjectInput(in); err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, img, "")
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.Create(ctx, model.CreateProjectParams{
		Title:       in.Title,
		Description: in.Description,
		Image:       res.Image,
		Tags:        ParseTags(in.Tags),
		Link:        in.Link,
	})
	if err != nil {
		s.discardUpload(ctx, res)
		return nil, apperrors.StoreUnavailable(err)
	}

	log.Info().Str("projectId", project.ID).Bool("uploaded", res.Stored).Msg("project created")
	return project, nil
}

func (s *ContentService) UpdateProject(ctx context.Context, id string, in ProjectInput, img upload.Submission) (*model.Project, error) {
	existing, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateProjectInput(in); err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, img, existing.Image)
	if err != nil {
		return nil, err
	}

	params := model.UpdateProjectParams{
		Title:       in.Title,
		Description: in.Description,
		Tags:        ParseTags(in.Tags),
		Link:        in.Link,
	}
	// A kept image is left to the row so an overlapping edit that replaced it wins.
	if !res.Kept {
		params.Image = &res.Image
	}

	update, err := s.projectRepo.Update(ctx, id, params)
	if err != nil {
		s.discardUpload(ctx, res)
		return nil, apperrors.StoreUnavailable(err)
	}
	if update == nil {
		s.discardUpload(ctx, res)
		return nil, apperrors.NotFound("Project")
	}

	if update.ImageReplaced() {
		s.removeManagedImage(ctx, update.PreviousImage)
	}

	log.Info().Str("projectId", update.ID).Bool("uploaded", res.Stored).Msg("project updated")
	return &update.Project, nil
}

// DeleteProject succeeds when the project is already gone.
func (s *ContentService) DeleteProject(ctx context.Context, id string) error {
	if !util.IsValidUUID(id) {
		log.Debug().Str("projectId", id).Msg("delete of malformed project id ignored")
		return nil
	}

	deleted, err := s.projectRepo.Delete(ctx, id)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if deleted == nil {
		log.Debug().Str("projectId", id).Msg("delete of unknown project ignored")
		return nil
	}

	s.removeManagedImage(ctx, deleted.Image)
	log.Info().Str("projectId", id).Msg("project deleted")
	return nil
}

func (s *ContentService) CreateSkill(ctx context.Context, in SkillInput) (*model.Skill, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.MissingRequired("Name")
	}

	category := model.SkillCategory(strings.TrimSpace(in.Category))
	if !category.Valid() {
		return nil, apperrors.ValidationError("Category must be one of Frontend, Backend, Database, Tools, Other")
	}

	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = model.DefaultSkillIcon
	}

	proficiency := DefaultSkillProficiency
	if raw := strings.TrimSpace(in.Proficiency); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 0 || p > 100 {
			return nil, apperrors.ValidationError("Proficiency must be a whole number between 0 and 100")
		}
		proficiency = p
	}

	skill, err := s.skillRepo.Create(ctx, model.CreateSkillParams{
		Name:        name,
		Category:    category,
		Icon:        icon,
		Proficiency: &proficiency,
	})
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}

	log.Info().Str("skillId", skill.ID).Msg("skill created")
	return skill, nil
}

// DeleteSkill succeeds when the skill is already gone.
func (s *ContentService) DeleteSkill(ctx context.Context, id string) error {
	if !util.IsValidUUID(id) {
		log.Debug().Str("skillId", id).Msg("delete of malformed skill id ignored")
		return nil
	}

	deleted, err := s.skillRepo.Delete(ctx, id)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if !deleted {
		log.Debug().Str("skillId", id).Msg("delete of unknown skill ignored")
		return nil
	}

	log.Info().Str("skillId", id).Msg("skill deleted")
	return nil
}

func (s *ContentService) discardUpload(ctx context.Context, res upload.Resolution) {
	if res.Stored {
		s.removeManagedImage(ctx, res.Image)
	}
}

// removeManagedImage deletes a file this server stored once no project points at it.
// Failures never fail the caller.
func (s *ContentService) removeManagedImage(ctx context.Context, ref string) {
	storage := s.resolver.Storage()
	if ref == "" || !storage.Owns(ref) {
		return
	}

	refs, err := s.projectRepo.CountByImage(ctx, ref)
	if err != nil {
		log.Warn().Err(err).Str("image", ref).Msg("kept upload: reference check failed")
		return
	}
	if refs > 0 {
		log.Debug().Str("image", ref).Int("references", refs).Msg("kept upload still in use")
		return
	}

	if err := storage.Delete(ctx, ref); err != nil {
		log.Warn().Err(err).Str("image", ref).Msg("failed to remove upload")
	}
}
