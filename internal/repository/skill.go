package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/openclaw/portfolio-server-go/internal/model"
)

type SkillRepository interface {
	FindAll(ctx context.Context) ([]model.Skill, error)
	Create(ctx context.Context, params model.CreateSkillParams) (*model.Skill, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type skillRepo struct {
	db *sqlx.DB
}

func NewSkillRepository(db *sqlx.DB) SkillRepository {
	return &skillRepo{db: db}
}

// FindAll orders by category, then highest proficiency (skills without one last), then name.
func (r *skillRepo) FindAll(ctx context.Context) ([]model.Skill, error) {
	skills := []model.Skill{}
	err := r.db.SelectContext(ctx, &skills, `
		SELECT * FROM skills
		ORDER BY category ASC, proficiency DESC NULLS LAST, name ASC
	`)
	if err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *skillRepo) Create(ctx context.Context, params model.CreateSkillParams) (*model.Skill, error) {
	var skill model.Skill
	err := r.db.GetContext(ctx, &skill, `
		INSERT INTO skills (name, category, icon, proficiency)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.Name, params.Category, params.Icon, params.Proficiency)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepo) Delete(ctx context.Context, id string) (bool, error) {
	return removedAny(r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id))
}

func (r *skillRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM skills`)
	return count, err
}
