package ports

import (
	"context"
	"io"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// LoginResult is what a successful authentication yields.
type LoginResult struct {
	Identity     domain.Identity
	AccessToken  string
	RefreshToken string
}

// Authenticator validates credentials against a user directory: the remote
// auth endpoint, or a local lookup table in demo mode.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

// PasswordResetAPI is the three-step password reset flow. Each step is
// independent of the others.
type PasswordResetAPI interface {
	ForgotPassword(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	UpdatePassword(ctx context.Context, email, newPassword string) error
}

// UserAPI is the remote users collection.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, draft domain.UserDraft) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id domain.ID) error
}

// TaskAPI is the remote tasks collection. There is no delete endpoint.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error)
}

// Upload describes a file to send to the upload endpoint.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadAPI stores a file remotely and returns its reference URL.
type UploadAPI interface {
	Upload(ctx context.Context, file Upload) (string, error)
}
