package model

import (
	"time"

	"github.com/lib/pq"
)

type Project struct {
	ID          string         `db:"id" json:"id" yaml:"-"`
	Title       string         `db:"title" json:"title" yaml:"title"`
	Description string         `db:"description" json:"description" yaml:"description"`
	Image       string         `db:"image" json:"image" yaml:"image"`
	Tags        pq.StringArray `db:"tags" json:"tags" yaml:"tags"`
	Link        string         `db:"link" json:"link" yaml:"link"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt" yaml:"-"`
}

type CreateProjectParams struct {
	Title       string
	Description string
	Image       string
	Tags        []string
	Link        string
}

// UpdateProjectParams replaces the mutable fields; CreatedAt is never touched.
// A nil Image keeps whatever image the row holds when the update runs.
type UpdateProjectParams struct {
	Title       string
	Description string
	Image       *string
	Tags        []string
	Link        string
}

// ProjectUpdate is the row after an update and the image it held just before.
type ProjectUpdate struct {
	Project
	PreviousImage string `db:"previous_image"`
}

// ImageReplaced reports whether the update pointed the project at a different image.
func (u *ProjectUpdate) ImageReplaced() bool {
	return u.PreviousImage != u.Image
}
