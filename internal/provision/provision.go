// Package provision creates the initial admin account and optional demo content.
// Every step only acts on empty collections, so Run can be repeated safely.
package provision

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/openclaw/portfolio-server-go/internal/model"
	"github.com/openclaw/portfolio-server-go/internal/repository"
	"github.com/openclaw/portfolio-server-go/internal/util"
)

// DefaultAdminPassword is only used outside production when no credentials are configured.
const DefaultAdminPassword = "admin123"

//go:embed seed.yaml
var seedYAML []byte

var ErrNoAdminCredentials = errors.New("no admin password configured")

type Fixture struct {
	Projects []model.Project `yaml:"projects"`
	Skills   []model.Skill   `yaml:"skills"`
}

// LoadFixture parses the embedded demo content.
func LoadFixture() (*Fixture, error) {
	return ParseFixture(seedYAML)
}

func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed fixture: %w", err)
	}
	for i, s := range f.Skills {
		if !s.Category.Valid() {
			return nil, fmt.Errorf("seed skill %q: unknown category %q", s.Name, s.Category)
		}
		if s.Icon == "" {
			f.Skills[i].Icon = model.DefaultSkillIcon
		}
	}
	return &f, nil
}

type Options struct {
	AdminUsername string
	// AdminPassword may be plaintext or an existing bcrypt hash.
	AdminPassword string
	// AllowDefaultPassword falls back to DefaultAdminPassword when AdminPassword is empty.
	AllowDefaultPassword bool
	SeedDemoContent      bool
}

type Result struct {
	AdminCreated   bool
	ProjectsSeeded int
	SkillsSeeded   int
}

type Provisioner struct {
	admins   repository.AdminRepository
	projects repository.ProjectRepository
	skills   repository.SkillRepository
}

func NewProvisioner(
	admins repository.AdminRepository,
	projects repository.ProjectRepository,
	skills repository.SkillRepository,
) *Provisioner {
	return &Provisioner{admins: admins, projects: projects, skills: skills}
}

func (p *Provisioner) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{}

	created, err := p.ensureAdmin(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.AdminCreated = created

	if !opts.SeedDemoContent {
		return result, nil
	}

	fixture, err := LoadFixture()
	if err != nil {
		return nil, err
	}

	if result.ProjectsSeeded, err = p.seedProjects(ctx, fixture.Projects); err != nil {
		return nil, err
	}
	if result.SkillsSeeded, err = p.seedSkills(ctx, fixture.Skills); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *Provisioner) ensureAdmin(ctx context.Context, opts Options) (bool, error) {
	count, err := p.admins.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	password := opts.AdminPassword
	if password == "" {
		if !opts.AllowDefaultPassword {
			return false, ErrNoAdminCredentials
		}
		log.Warn().Str("username", opts.AdminUsername).Msg("creating admin with the default password")
		password = DefaultAdminPassword
	}

	hash, err := util.EnsurePasswordHash(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := p.admins.Create(ctx, model.CreateAdminAccountParams{
		Username:     opts.AdminUsername,
		PasswordHash: hash,
	}); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}

	log.Info().Str("username", opts.AdminUsername).Msg("admin account created")
	return true, nil
}

func (p *Provisioner) seedProjects(ctx context.Context, projects []model.Project) (int, error) {
	count, err := p.projects.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, pr := range projects {
		if _, err := p.projects.Create(ctx, model.CreateProjectParams{
			Title:       pr.Title,
			Description: pr.Description,
			Image:       pr.Image,
			Tags:        pr.Tags,
			Link:        pr.Link,
		}); err != nil {
			return 0, fmt.Errorf("seed project %q: %w", pr.Title, err)
		}
	}

	log.Info().Int("count", len(projects)).Msg("sample projects seeded")
	return len(projects), nil
}

func (p *Provisioner) seedSkills(ctx context.Context, skills []model.Skill) (int, error) {
	count, err := p.skills.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count skills: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, s := range skills {
		if _, err := p.skills.Create(ctx, model.CreateSkillParams{
			Name:        s.Name,
			Category:    s.Category,
			Icon:        s.Icon,
			Proficiency: s.Proficiency,
		}); err != nil {
			return 0, fmt.Errorf("seed skill %q: %w", s.Name, err)
		}
	}

	log.Info().Int("count", len(skills)).Msg("sample skills seeded")
	return len(skills), nil
}
