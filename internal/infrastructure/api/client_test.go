package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

type staticTokens string

func (s staticTokens) AccessToken(context.Context) (string, error) { return string(s), nil }

// fakeAPI is an in-process stand-in for the dashboard REST API.
type fakeAPI struct {
	mu        sync.Mutex
	auth      []string
	requestID []string
	hits      int
}

func (f *fakeAPI) record(c echo.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits++
	f.auth = append(f.auth, c.Request().Header.Get("Authorization"))
	f.requestID = append(f.requestID, c.Request().Header.Get(headerRequestID))
}

func newFakeServer(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{}
	e := echo.New()
	api := e.Group("/api")

	api.POST("/auth/login", func(c echo.Context) error {
		f.record(c)
		var body loginBody
		if err := c.Bind(&body); err != nil {
			return err
		}
		if body.Password != "user123" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
		}
		return c.JSON(http.StatusOK, map[string]any{"data": map[string]any{
			"user": map[string]any{
				"_id": 3, "username": body.Username, "email": "jane.smith@company.com",
				"firstName": "Jane", "lastName": "Smith", "role": "user",
				"permissions": []string{"Read", "Write"}, "imageUrl": nil, "createdAt": "2024-01-16",
			},
			"accessToken":  "access-token",
			"refreshToken": "refresh-token",
		}})
	})
	api.POST("/auth/forgot-password", func(c echo.Context) error {
		f.record(c)
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Email not registered"})
	})
	api.POST("/auth/verify-otp", func(c echo.Context) error {
		f.record(c)
		return c.JSON(http.StatusOK, map[string]string{"message": "verified"})
	})

	api.GET("/users/", func(c echo.Context) error {
		f.record(c)
		return c.JSON(http.StatusOK, map[string]any{"data": []map[string]any{
			{"id": 1, "name": "John Doe", "email": "john@example.com", "phone": "+1 234", "role": "admin", "createdAt": "2024-01-15"},
			{"_id": "2", "name": "Jane Smith", "email": "jane@example.com", "phone": "+1 235", "role": "read"},
		}})
	})
	api.POST("/users/", func(c echo.Context) error {
		f.record(c)
		var body userBody
		if err := c.Bind(&body); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, map[string]any{"id": 3, "name": body.Name, "email": body.Email, "phone": body.Phone, "role": body.Role})
	})
	api.PUT("/users/:id", func(c echo.Context) error {
		f.record(c)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "database unavailable"})
	})
	api.DELETE("/users/:id", func(c echo.Context) error {
		f.record(c)
		return c.NoContent(http.StatusNoContent)
	})

	api.GET("/tasks/", func(c echo.Context) error {
		f.record(c)
		return c.String(http.StatusBadGateway, "upstream down")
	})
	api.PUT("/tasks/:id", func(c echo.Context) error {
		f.record(c)
		var body taskBody
		if err := c.Bind(&body); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{"data": map[string]any{
			"id": c.Param("id"), "title": body.Title, "status": body.Status, "assignedTo": 2, "assignedBy": 1,
		}})
	})

	api.POST("/upload", func(c echo.Context) error {
		f.record(c)
		fh, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "file missing"})
		}
		return c.JSON(http.StatusOK, map[string]any{"data": map[string]string{"url": "https://cdn.example.com/" + fh.Filename}})
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestClient(srv *httptest.Server, tokens ports.TokenSource) *Client {
	return NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, tokens, zerolog.Nop())
}

func TestClient_Login(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newTestClient(srv, nil)

	res, err := c.Login(context.Background(), "jane.smith", "user123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Identity.ID != "3" || res.Identity.Role != domain.IdentityUser {
		t.Fatalf("unexpected identity: %+v", res.Identity)
	}
	if res.AccessToken != "access-token" || res.RefreshToken != "refresh-token" {
		t.Fatalf("unexpected tokens: %+v", res)
	}
	if res.Identity.CreatedAt.IsZero() {
		t.Fatalf("expected bare date to decode")
	}
}

func TestClient_LoginRejected(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newTestClient(srv, nil)

	_, err := c.Login(context.Background(), "jane.smith", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if domain.Message(err) != domain.MsgInvalidCredentials {
		t.Fatalf("unexpected message %q", domain.Message(err))
	}
}

func TestClient_PasswordResetErrors(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newTestClient(srv, nil)

	err := c.ForgotPassword(context.Background(), "ghost@company.com")
	if !errors.Is(err, domain.ErrServer) || domain.Message(err) != "Email not registered" {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.VerifyOTP(context.Background(), "jane@company.com", "123456"); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
}

func TestClient_ListUsersAcceptsBothIDStyles(t *testing.T) {
	f, srv := newFakeServer(t)
	c := newTestClient(srv, staticTokens("opaque-token"))

	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 || users[0].ID != "1" || users[1].ID != "2" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if f.auth[0] != "Bearer opaque-token" {
		t.Fatalf("unexpected authorization header %q", f.auth[0])
	}
}

func TestClient_CreateAndDeleteUser(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newTestClient(srv, staticTokens("t"))
	ctx := context.Background()

	u, err := c.CreateUser(ctx, domain.UserDraft{Name: "Carla", Email: "carla@company.com", Phone: "1", Role: domain.RoleWrite})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID != "3" || u.Role != domain.RoleWrite {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := c.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
}

func TestClient_ServerErrorMessages(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newTestClient(srv, staticTokens("t"))

	_, err := c.UpdateUser(context.Background(), domain.User{ID: "1", Name: "John"})
	if !errors.Is(err, domain.ErrServer) || domain.Message(err) != "database unavailable" {
		t.Fatalf("expected body message, got %v", err)
	}

	_, err = c.ListTasks(context.Background())
	if !errors.Is(err, domain.ErrServer) || domain.Message(err) != "request failed with status 502" {
		t.Fatalf("expected generic message, got %v", err)
	}
}

func TestClient_UpdateTaskUnwrapsEnvelope(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newTestClient(srv, staticTokens("t"))

	task, err := c.UpdateTask(context.Background(), domain.Task{ID: "7", Title: "Ship", Status: domain.TaskCompleted})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if task.ID != "7" || task.Status != domain.TaskCompleted || task.AssignedTo != "2" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestClient_MissingTokenNeverHitsNetwork(t *testing.T) {
	f, srv := newFakeServer(t)

	for _, tokens := range []ports.TokenSource{nil, staticTokens("")} {
		c := newTestClient(srv, tokens)
		_, err := c.ListUsers(context.Background())
		if !errors.Is(err, domain.ErrAuth) || !errors.Is(err, domain.ErrMissingToken) {
			t.Fatalf("expected missing token auth error, got %v", err)
		}
	}
	if f.hits != 0 {
		t.Fatalf("expected no requests, got %d", f.hits)
	}
}

func TestClient_ExpiredJWTRejectedLocally(t *testing.T) {
	f, srv := newFakeServer(t)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "3",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c := newTestClient(srv, staticTokens(expired))
	if _, err := c.ListUsers(context.Background()); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if f.hits != 0 {
		t.Fatalf("expected no requests, got %d", f.hits)
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second}, staticTokens("t"), zerolog.Nop())
	if _, err := c.ListUsers(context.Background()); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestClient_PropagatesRequestID(t *testing.T) {
	f, srv := newFakeServer(t)
	c := newTestClient(srv, staticTokens("t"))

	ctx := store.WithRequestID(context.Background(), "req-123")
	if _, err := c.ListUsers(ctx); err != nil {
		t.Fatalf("list users: %v", err)
	}
	if f.requestID[0] != "req-123" {
		t.Fatalf("expected request id header, got %q", f.requestID[0])
	}
}

func TestClient_Upload(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newTestClient(srv, staticTokens("t"))

	url, err := c.Upload(context.Background(), ports.Upload{
		Filename:    "avatar.png",
		ContentType: "image/png",
		Size:        4,
		Body:        io.NopCloser(strings.NewReader("\x89PNG")),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://cdn.example.com/avatar.png" {
		t.Fatalf("unexpected url %q", url)
	}
}
