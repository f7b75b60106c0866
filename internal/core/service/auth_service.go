package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

const opLogin = "login"

// AuthService turns login, logout, profile and password-reset intents into
// session transitions and remote calls.
type AuthService struct {
	session   *store.SessionStore
	auth      ports.Authenticator
	reset     ports.PasswordResetAPI
	persister ports.SessionPersister
	observer  ports.IntentObserver
	forms     *formValidator
	log       zerolog.Logger
}

func NewAuthService(
	session *store.SessionStore,
	auth ports.Authenticator,
	reset ports.PasswordResetAPI,
	persister ports.SessionPersister,
	observer ports.IntentObserver,
	log zerolog.Logger,
) *AuthService {
	if observer == nil {
		observer = ports.NopObserver{}
	}
	return &AuthService{
		session:   session,
		auth:      auth,
		reset:     reset,
		persister: persister,
		observer:  observer,
		forms:     newFormValidator(),
		log:       log,
	}
}

// Login validates the credentials form, then runs the login through the
// session store. Invalid forms never touch the session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Identity, error) {
	if err := s.forms.check(loginForm{Username: username, Password: password}); err != nil {
		return nil, err
	}

	s.session.BeginLogin()
	s.observer.IntentIssued(store.NameSession, opLogin)
	started := time.Now()

	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.session.FailLogin(domain.Message(err))
		s.observer.IntentSettled(store.NameSession, opLogin, ports.OutcomeError, time.Since(started))
		return nil, err
	}

	if err := s.persister.SaveTokens(ctx, ports.Tokens{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist tokens")
	}
	if err := s.persister.SaveIdentity(ctx, res.Identity); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist identity")
	}

	s.session.CompleteLogin(res.Identity)
	s.observer.IntentSettled(store.NameSession, opLogin, ports.OutcomeOK, time.Since(started))

	identity := res.Identity.Clone()
	return &identity, nil
}

// Logout ends the session and removes persisted credentials.
func (s *AuthService) Logout(ctx context.Context) error {
	s.session.EndSession()
	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("logout: clear persisted session: %w", err)
	}
	return nil
}

// Rehydrate restores a persisted identity at start-up. A corrupted blob is
// discarded. It reports whether a session was restored.
func (s *AuthService) Rehydrate(ctx context.Context) (bool, error) {
	if s.session.Snapshot().Identity != nil {
		return true, nil
	}

	identity, err := s.persister.LoadIdentity(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptSession) {
			s.log.Warn().Err(err).Msg("discarding corrupted persisted session")
			if clearErr := s.persister.Clear(ctx); clearErr != nil {
				return false, fmt.Errorf("rehydrate: clear corrupted session: %w", clearErr)
			}
			return false, nil
		}
		return false, fmt.Errorf("rehydrate: %w", err)
	}
	if identity == nil {
		return false, nil
	}

	s.session.CompleteLogin(*identity)
	s.log.Info().Str("username", identity.Username).Msg("session rehydrated")
	return true, nil
}

// UpdateProfile merges patch into the signed-in identity and persists it.
func (s *AuthService) UpdateProfile(ctx context.Context, patch domain.IdentityPatch) (*domain.Identity, error) {
	if patch.Email != nil {
		if err := s.forms.check(emailForm{Email: *patch.Email}); err != nil {
			return nil, err
		}
	}
	if err := s.session.ApplyProfilePatch(patch); err != nil {
		return nil, domain.AuthError(err)
	}

	identity := s.session.Snapshot().Identity
	if identity == nil {
		return nil, domain.AuthError(domain.ErrNoIdentity)
	}
	if err := s.persister.SaveIdentity(ctx, *identity); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist profile")
	}
	return identity, nil
}

// ForgotPassword starts the reset flow by requesting a one-time code.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := s.forms.check(emailForm{Email: email}); err != nil {
		return err
	}
	return s.resetStep(ctx, "forgot_password", func(ctx context.Context) error {
		return s.reset.ForgotPassword(ctx, email)
	})
}

// VerifyOTP checks the six-digit code sent to email.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	if err := s.forms.check(otpForm{Email: email, OTP: otp}); err != nil {
		return err
	}
	return s.resetStep(ctx, "verify_otp", func(ctx context.Context) error {
		return s.reset.VerifyOTP(ctx, email, otp)
	})
}

// UpdatePassword completes the reset flow.
func (s *AuthService) UpdatePassword(ctx context.Context, email, newPassword string) error {
	if err := s.forms.check(newPasswordForm{Email: email, NewPassword: newPassword}); err != nil {
		return err
	}
	return s.resetStep(ctx, "update_password", func(ctx context.Context) error {
		return s.reset.UpdatePassword(ctx, email, newPassword)
	})
}

func (s *AuthService) resetStep(ctx context.Context, step string, call func(context.Context) error) error {
	s.observer.IntentIssued(store.NameSession, step)
	started := time.Now()
	if err := call(ctx); err != nil {
		s.observer.IntentSettled(store.NameSession, step, ports.OutcomeError, time.Since(started))
		s.log.Warn().Err(err).Str("step", step).Msg("password reset step failed")
		return err
	}
	s.observer.IntentSettled(store.NameSession, step, ports.OutcomeOK, time.Since(started))
	return nil
}
