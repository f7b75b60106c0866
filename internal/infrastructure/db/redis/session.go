package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore persists tokens and the current identity in Redis so several
// dashboard processes for one operator share a session.
// Key format: session:<profile>:{access|refresh|identity}
type SessionStore struct {
	client  *redis.Client
	profile string
	ttl     time.Duration
}

var _ ports.SessionPersister = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore for profile. A non-positive ttl
// falls back to 24h.
func NewSessionStore(client *redis.Client, profile string, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if profile == "" {
		profile = "default"
	}
	return &SessionStore{client: client, profile: profile, ttl: ttl}
}

func (s *SessionStore) AccessToken(ctx context.Context) (string, error) {
	tok, err := s.client.Get(ctx, s.key("access")).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get access token: %w", err)
	}
	return tok, nil
}

func (s *SessionStore) SaveTokens(ctx context.Context, t ports.Tokens) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key("access"), t.AccessToken, s.ttl)
		pipe.Set(ctx, s.key("refresh"), t.RefreshToken, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save tokens: %w", err)
	}
	return nil
}

func (s *SessionStore) SaveIdentity(ctx context.Context, identity domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.client.Set(ctx, s.key("identity"), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis save identity: %w", err)
	}
	return nil
}

func (s *SessionStore) LoadIdentity(ctx context.Context) (*domain.Identity, error) {
	raw, err := s.client.Get(ctx, s.key("identity")).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis load identity: %w", err)
	}
	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	return &id, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key("access"), s.key("refresh"), s.key("identity")).Err(); err != nil {
		return fmt.Errorf("redis clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(part string) string {
	return fmt.Sprintf("session:%s:%s", s.profile, part)
}
