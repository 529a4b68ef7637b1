package model

import (
	"time"
)

const DefaultSkillIcon = "fas fa-code"

type Skill struct {
	ID          string        `db:"id" json:"id" yaml:"-"`
	Name        string        `db:"name" json:"name" yaml:"name"`
	Category    SkillCategory `db:"category" json:"category" yaml:"category"`
	Icon        string        `db:"icon" json:"icon" yaml:"icon"`
	Proficiency *int          `db:"proficiency" json:"proficiency,omitempty" yaml:"proficiency,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt" yaml:"-"`
}

type CreateSkillParams struct {
	Name        string
	Category    SkillCategory
	Icon        string
	Proficiency *int
}
