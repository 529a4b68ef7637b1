package model

import (
	"time"
)

type AdminAccount struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type CreateAdminAccountParams struct {
	Username     string
	PasswordHash string
}

type AdminSession struct {
	ID        string    `db:"id" json:"id"`
	TokenHash string    `db:"token_hash" json:"-"`
	AdminID   string    `db:"admin_id" json:"adminId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Expired reports whether the fixed lifetime of the session has elapsed at now.
func (s *AdminSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type CreateAdminSessionParams struct {
	TokenHash string
	AdminID   string
	ExpiresAt time.Time
}
