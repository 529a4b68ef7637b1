package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/openclaw/portfolio-server-go/internal/model"
)

type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*model.AdminAccount, error)
	FindByID(ctx context.Context, id string) (*model.AdminAccount, error)
	Create(ctx context.Context, params model.CreateAdminAccountParams) (*model.AdminAccount, error)
	Count(ctx context.Context) (int, error)
}

type adminRepo struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) FindByUsername(ctx context.Context, username string) (*model.AdminAccount, error) {
	var account model.AdminAccount
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM admin_accounts WHERE username = $1
	`, username)
	return optionalRow(&account, err)
}

func (r *adminRepo) FindByID(ctx context.Context, id string) (*model.AdminAccount, error) {
	var account model.AdminAccount
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM admin_accounts WHERE id = $1
	`, id)
	return optionalRow(&account, err)
}

// Create stores an already hashed password; hashing belongs to the caller.
func (r *adminRepo) Create(ctx context.Context, params model.CreateAdminAccountParams) (*model.AdminAccount, error) {
	var account model.AdminAccount
	err := r.db.GetContext(ctx, &account, `
		INSERT INTO admin_accounts (username, password_hash)
		VALUES ($1, $2)
		RETURNING *
	`, params.Username, params.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *adminRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM admin_accounts`)
	return count, err
}
