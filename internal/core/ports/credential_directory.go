package ports

import (
	"context"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// Credential is a directory entry used by local (demo) login.
type Credential struct {
	Identity     domain.Identity
	PasswordHash string
}

// CredentialDirectory looks up login entries by username.
type CredentialDirectory interface {
	FindByUsername(ctx context.Context, username string) (*Credential, error)
}
