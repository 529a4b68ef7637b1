package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/openclaw/portfolio-server-go/internal/model"
)

const adminSessionKeyPrefix = "admin_session:"

type redisAdminSessionRepo struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisAdminSessionRepository stores sessions in Redis so several server
// instances can share them. Keys expire together with the session.
func NewRedisAdminSessionRepository(client *redis.Client) AdminSessionRepository {
	return &redisAdminSessionRepo{client: client, now: time.Now}
}

func adminSessionKey(tokenHash string) string {
	return adminSessionKeyPrefix + tokenHash
}

func (r *redisAdminSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AdminSession, error) {
	raw, err := r.client.Get(ctx, adminSessionKey(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session model.AdminSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode admin session: %w", err)
	}
	session.TokenHash = tokenHash

	if session.Expired(r.now()) {
		return nil, nil
	}
	return &session, nil
}

func (r *redisAdminSessionRepo) Create(ctx context.Context, params model.CreateAdminSessionParams) (*model.AdminSession, error) {
	now := r.now()
	ttl := params.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return nil, fmt.Errorf("admin session already expired")
	}

	session := &model.AdminSession{
		ID:        uuid.NewString(),
		TokenHash: params.TokenHash,
		AdminID:   params.AdminID,
		ExpiresAt: params.ExpiresAt,
		CreatedAt: now,
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode admin session: %w", err)
	}

	if err := r.client.Set(ctx, adminSessionKey(params.TokenHash), raw, ttl).Err(); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *redisAdminSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return r.client.Del(ctx, adminSessionKey(tokenHash)).Err()
}

// DeleteExpired is a no-op: Redis evicts keys once their TTL elapses.
func (r *redisAdminSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
