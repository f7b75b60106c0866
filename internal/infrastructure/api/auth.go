package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginWire struct {
	User         identityWire `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// Login posts credentials to auth/login. A 401 is reported as the generic
// invalid-credentials error so the session shows a stable message.
func (c *Client) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "auth/login", loginBody{Username: username, Password: password}, false)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		var de *domain.Error
		if errors.As(err, &de) && de.Status == http.StatusUnauthorized {
			return nil, domain.InvalidCredentials()
		}
		return nil, err
	}

	var res loginWire
	if err := unwrapInto(raw, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, domain.AuthError(domain.ErrMissingToken)
	}
	return &ports.LoginResult{
		Identity:     res.User.toDomain(),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, nil
}

// ForgotPassword requests a one-time code for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, "auth/forgot-password", map[string]string{"email": email})
}

// VerifyOTP submits the one-time code.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.post(ctx, "auth/verify-otp", map[string]string{"email": email, "otp": otp})
}

// UpdatePassword sets the new password once the code has been verified.
func (c *Client) UpdatePassword(ctx context.Context, email, newPassword string) error {
	return c.post(ctx, "auth/update-password", map[string]string{"email": email, "newPassword": newPassword})
}

func (c *Client) post(ctx context.Context, endpoint string, body any) error {
	req, err := c.newRequest(ctx, http.MethodPost, endpoint, body, false)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
