package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

const (
	headerRequestID = "X-Request-ID"
	userAgent       = "ops-dashboard/1.0"
	errorBodyLimit  = 512
)

// Config holds the remote API settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the dashboard REST API under <BaseURL>/api/. It implements
// every remote port used by the services.
type Client struct {
	httpClient *http.Client
	apiURL     string
	tokens     ports.TokenSource
	now        func() time.Time
	log        zerolog.Logger
}

var (
	_ ports.Authenticator    = (*Client)(nil)
	_ ports.PasswordResetAPI = (*Client)(nil)
	_ ports.UserAPI          = (*Client)(nil)
	_ ports.TaskAPI          = (*Client)(nil)
	_ ports.UploadAPI        = (*Client)(nil)
)

// NewClient builds a Client. tokens supplies the bearer token for
// authenticated endpoints.
func NewClient(cfg Config, tokens ports.TokenSource, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     strings.TrimSuffix(cfg.BaseURL, "/") + "/api/",
		tokens:     tokens,
		now:        time.Now,
		log:        log,
	}
}

// newRequest builds a JSON request for endpoint, relative to the API root.
// When auth is set the bearer token is attached, and a missing or expired
// token fails without touching the network.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any, auth bool) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := c.build(ctx, method, endpoint, reader, auth)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) build(ctx context.Context, method, endpoint string, body io.Reader, auth bool) (*http.Request, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", c.apiURL, err)
	}
	u.Path = path.Join(u.Path, strings.TrimPrefix(endpoint, "/"))
	if strings.HasSuffix(endpoint, "/") {
		u.Path += "/"
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if id := store.RequestIDFrom(ctx); id != "" {
		req.Header.Set(headerRequestID, id)
	}

	if auth {
		token, err := c.bearer(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// bearer returns the stored access token. Tokens that parse as JWTs are
// checked for expiry locally; opaque tokens are sent as they are.
func (c *Client) bearer(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", domain.AuthError(domain.ErrMissingToken)
	}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", domain.AuthError(fmt.Errorf("read access token: %w", err))
	}
	if token == "" {
		return "", domain.AuthError(domain.ErrMissingToken)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !exp.After(c.now()) {
			return "", domain.AuthError(domain.ErrTokenExpired)
		}
	}
	return token, nil
}

// do executes req and decodes a successful body into out (when non-nil).
func (c *Client) do(req *http.Request, out any) error {
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Path).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get(headerRequestID)).
		Dur("elapsed", time.Since(started)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		limited, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return statusError(resp.StatusCode, limited)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ServerError(resp.StatusCode, "empty response body")
		}
		return &domain.Error{
			Kind:    domain.KindServer,
			Message: "malformed response body",
			Status:  resp.StatusCode,
			Err:     err,
		}
	}
	return nil
}

// statusError maps a non-2xx response onto the error taxonomy. The message
// comes from the body's "message" or "error" field when present.
func statusError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &domain.Error{Kind: domain.KindAuth, Message: msg, Status: status}
	}
	return domain.ServerError(status, msg)
}
