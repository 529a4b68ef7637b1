package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/openclaw/portfolio-server-go/internal/model"
)

type ProjectRepository interface {
	FindAll(ctx context.Context) ([]model.Project, error)
	FindByID(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, params model.CreateProjectParams) (*model.Project, error)
	Update(ctx context.Context, id string, params model.UpdateProjectParams) (*model.ProjectUpdate, error)
	Delete(ctx context.Context, id string) (*model.Project, error)
	Count(ctx context.Context) (int, error)
	CountByImage(ctx context.Context, image string) (int, error)
}

type projectRepo struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepo{db: db}
}

// FindAll returns projects newest first.
func (r *projectRepo) FindAll(ctx context.Context) ([]model.Project, error) {
	projects := []model.Project{}
	err := r.db.SelectContext(ctx, &projects, `
		SELECT * FROM projects
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.GetContext(ctx, &project, `
		SELECT * FROM projects WHERE id = $1
	`, id)
	return optionalRow(&project, err)
}

func (r *projectRepo) Create(ctx context.Context, params model.CreateProjectParams) (*model.Project, error) {
	var project model.Project
	err := r.db.GetContext(ctx, &project, `
		INSERT INTO projects (title, description, image, tags, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, params.Title, params.Description, params.Image, pq.StringArray(params.Tags), params.Link)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update writes all mutable columns in one statement and returns nil when id is unknown.
// The row is locked before it is read, so PreviousImage is the image this statement
// actually replaced even when edits overlap.
func (r *projectRepo) Update(ctx context.Context, id string, params model.UpdateProjectParams) (*model.ProjectUpdate, error) {
	var update model.ProjectUpdate
	err := r.db.GetContext(ctx, &update, `
		WITH prev AS (
			SELECT id, image FROM projects WHERE id = $1 FOR UPDATE
		)
		UPDATE projects p SET
			title = $2,
			description = $3,
			image = COALESCE($4, p.image),
			tags = $5,
			link = $6
		FROM prev
		WHERE p.id = prev.id
		RETURNING p.*, prev.image AS previous_image
	`, id, params.Title, params.Description, params.Image, pq.StringArray(params.Tags), params.Link)
	return optionalRow(&update, err)
}

// Delete removes the row and returns it, or nil when nothing matched.
func (r *projectRepo) Delete(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.GetContext(ctx, &project, `
		DELETE FROM projects WHERE id = $1
		RETURNING *
	`, id)
	return optionalRow(&project, err)
}

func (r *projectRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM projects`)
	return count, err
}

func (r *projectRepo) CountByImage(ctx context.Context, image string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM projects WHERE image = $1`, image)
	return count, err
}
