package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/portfolio-server-go/internal/model"
	"github.com/openclaw/portfolio-server-go/internal/service"
	"github.com/openclaw/portfolio-server-go/internal/upload"
	"github.com/openclaw/portfolio-server-go/internal/util"
	"github.com/openclaw/portfolio-server-go/web"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := NewRenderer(web.FS)
	require.NoError(t, err)
	return renderer
}

type mockContent struct {
	mock.Mock
}

func (m *mockContent) Home(ctx context.Context) (*service.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Listing), args.Error(1)
}

func (m *mockContent) Dashboard(ctx context.Context) (*service.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Listing), args.Error(1)
}

func (m *mockContent) GetProject(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *mockContent) CreateProject(ctx context.Context, in service.ProjectInput, img upload.Submission) (*model.Project, error) {
	args := m.Called(ctx, in, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *mockContent) UpdateProject(ctx context.Context, id string, in service.ProjectInput, img upload.Submission) (*model.Project, error) {
	args := m.Called(ctx, id, in, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *mockContent) DeleteProject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockContent) CreateSkill(ctx context.Context, in service.SkillInput) (*model.Skill, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Skill), args.Error(1)
}

func (m *mockContent) DeleteSkill(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockContact struct {
	mock.Mock
}

func (m *mockContact) Submit(ctx context.Context, in service.ContactInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

// memoryAdmins and memorySessions back a real AuthService in handler tests.
type memoryAdmins struct {
	accounts map[string]*model.AdminAccount
}

func newMemoryAdmins(t *testing.T, username, password string) *memoryAdmins {
	t.Helper()
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	return &memoryAdmins{accounts: map[string]*model.AdminAccount{
		username: {ID: "admin-1", Username: username, PasswordHash: hash},
	}}
}

func (m *memoryAdmins) FindByUsername(_ context.Context, username string) (*model.AdminAccount, error) {
	return m.accounts[username], nil
}

func (m *memoryAdmins) FindByID(_ context.Context, id string) (*model.AdminAccount, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memoryAdmins) Create(_ context.Context, params model.CreateAdminAccountParams) (*model.AdminAccount, error) {
	a := &model.AdminAccount{ID: params.Username, Username: params.Username, PasswordHash: params.PasswordHash}
	m.accounts[params.Username] = a
	return a, nil
}

func (m *memoryAdmins) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

type memorySessions struct {
	mu       sync.Mutex
	sessions map[string]*model.AdminSession
}

func newMemorySessions() *memorySessions {
	return &memorySessions{sessions: map[string]*model.AdminSession{}}
}

func (m *memorySessions) FindByTokenHash(_ context.Context, tokenHash string) (*model.AdminSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[tokenHash], nil
}

func (m *memorySessions) Create(_ context.Context, params model.CreateAdminSessionParams) (*model.AdminSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &model.AdminSession{
		ID:        params.TokenHash[:8],
		TokenHash: params.TokenHash,
		AdminID:   params.AdminID,
		ExpiresAt: params.ExpiresAt,
		CreatedAt: time.Now(),
	}
	m.sessions[params.TokenHash] = s
	return s, nil
}

func (m *memorySessions) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

func (m *memorySessions) DeleteExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func (m *memorySessions) expireAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.ExpiresAt = time.Now().Add(-time.Second)
	}
}
