package ports

import (
	"context"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// Tokens is the credential pair issued at login.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenSource supplies the bearer token attached to authenticated calls.
// An empty token with a nil error means no credential is present.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// SessionPersister is durable client storage for tokens and the serialized
// current identity, read at process start to rehydrate the session.
type SessionPersister interface {
	TokenSource
	SaveTokens(ctx context.Context, tokens Tokens) error
	SaveIdentity(ctx context.Context, identity domain.Identity) error
	// LoadIdentity returns nil, nil when nothing is persisted.
	LoadIdentity(ctx context.Context) (*domain.Identity, error)
	Clear(ctx context.Context) error
}
