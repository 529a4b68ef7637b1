package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/openclaw/portfolio-server-go/internal/errors"
	"github.com/openclaw/portfolio-server-go/internal/model"
	"github.com/openclaw/portfolio-server-go/internal/repository"
	"github.com/openclaw/portfolio-server-go/internal/util"
)

type AuthService struct {
	adminRepo     repository.AdminRepository
	sessionRepo   repository.AdminSessionRepository
	sessionSecret string
	sessionTTL    time.Duration
	now           func() time.Time
}

func NewAuthService(
	adminRepo repository.AdminRepository,
	sessionRepo repository.AdminSessionRepository,
	sessionSecret string,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		adminRepo:     adminRepo,
		sessionRepo:   sessionRepo,
		sessionSecret: sessionSecret,
		sessionTTL:    sessionTTL,
		now:           time.Now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck spends one bcrypt comparison so unknown usernames cost the same as wrong passwords.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = util.HashPassword("portfolio-dummy-password")
	})
	util.CheckPasswordHash(password, dummyHash)
}

// Verify fails closed: lookup errors, unknown usernames and wrong passwords all return false.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*model.AdminAccount, bool) {
	account, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		log.Error().Err(err).Msg("admin lookup failed")
		return nil, false
	}
	if account == nil || account.PasswordHash == "" {
		burnPasswordCheck(password)
		return nil, false
	}
	if !util.CheckPasswordHash(password, account.PasswordHash) {
		return nil, false
	}
	return account, true
}

// Login verifies the credentials and issues a new session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	account, ok := s.Verify(ctx, username, password)
	if !ok {
		return "", apperrors.InvalidCredentials()
	}

	token, err := util.GenerateToken()
	if err != nil {
		return "", apperrors.Internal("Failed to create session").WithCause(err)
	}

	_, err = s.sessionRepo.Create(ctx, model.CreateAdminSessionParams{
		TokenHash: s.hashToken(token),
		AdminID:   account.ID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	})
	if err != nil {
		return "", apperrors.StoreUnavailable(err)
	}

	log.Info().Str("adminId", account.ID).Msg("admin logged in")
	return token, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessionRepo.DeleteByTokenHash(ctx, s.hashToken(token)); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

// ValidateSession returns the live session for token, or nil when there is none.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.AdminSession, error) {
	if token == "" {
		return nil, nil
	}

	tokenHash := s.hashToken(token)
	session, err := s.sessionRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if session == nil {
		return nil, nil
	}

	if session.Expired(s.now()) {
		if err := s.sessionRepo.DeleteByTokenHash(ctx, tokenHash); err != nil {
			log.Warn().Err(err).Msg("failed to delete expired admin session")
		}
		return nil, nil
	}

	return session, nil
}

func (s *AuthService) hashToken(token string) string {
	return util.HmacSHA256(s.sessionSecret, token)
}
