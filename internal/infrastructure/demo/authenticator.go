package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

const (
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Authenticator checks credentials against a directory and issues HS256
// tokens, standing in for the remote auth/login endpoint.
type Authenticator struct {
	dir        ports.CredentialDirectory
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

var _ ports.Authenticator = (*Authenticator)(nil)

func NewAuthenticator(dir ports.CredentialDirectory, secret string, accessTTL time.Duration, log zerolog.Logger) *Authenticator {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	return &Authenticator{
		dir:        dir,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
		log:        log,
	}
}

// Login never reveals whether the username or the password was wrong.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	cred, err := a.dir.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.log.Debug().Str("username", username).Msg("unknown username")
			return nil, domain.InvalidCredentials()
		}
		return nil, domain.TransportError(fmt.Errorf("credential lookup: %w", err))
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, domain.InvalidCredentials()
	}

	access, err := a.sign(cred.Identity, "access", a.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := a.sign(cred.Identity, "refresh", a.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Identity: cred.Identity, AccessToken: access, RefreshToken: refresh}, nil
}

func (a *Authenticator) sign(identity domain.Identity, use string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := jwt.MapClaims{
		"sub":      identity.ID.String(),
		"username": identity.Username,
		"role":     string(identity.Role),
		"use":      use,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", use, err)
	}
	return signed, nil
}
