package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubAuthenticator struct {
	result *ports.LoginResult
	err    error
	calls  int
}

func (a *stubAuthenticator) Login(_ context.Context, _, _ string) (*ports.LoginResult, error) {
	a.calls++
	return a.result, a.err
}

type stubResetAPI struct {
	err   error
	steps []string
}

func (r *stubResetAPI) ForgotPassword(_ context.Context, email string) error {
	r.steps = append(r.steps, "forgot:"+email)
	return r.err
}

func (r *stubResetAPI) VerifyOTP(_ context.Context, email, otp string) error {
	r.steps = append(r.steps, "otp:"+email+":"+otp)
	return r.err
}

func (r *stubResetAPI) UpdatePassword(_ context.Context, email, _ string) error {
	r.steps = append(r.steps, "password:"+email)
	return r.err
}

type stubPersister struct {
	mu       sync.Mutex
	tokens   ports.Tokens
	identity *domain.Identity
	loadErr  error
	cleared  int
}

func (p *stubPersister) AccessToken(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tokens.AccessToken, nil
}

func (p *stubPersister) SaveTokens(_ context.Context, t ports.Tokens) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens = t
	return nil
}

func (p *stubPersister) SaveIdentity(_ context.Context, id domain.Identity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := id.Clone()
	p.identity = &c
	return nil
}

func (p *stubPersister) LoadIdentity(context.Context) (*domain.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.identity, nil
}

func (p *stubPersister) Clear(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens = ports.Tokens{}
	p.identity = nil
	p.loadErr = nil
	p.cleared++
	return nil
}

type stubUserAPI struct {
	users  []domain.User
	err    error
	nextID int
	calls  int
}

func (a *stubUserAPI) ListUsers(context.Context) ([]domain.User, error) {
	a.calls++
	return a.users, a.err
}

func (a *stubUserAPI) CreateUser(_ context.Context, d domain.UserDraft) (*domain.User, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	a.nextID++
	return &domain.User{ID: domain.ID(fmt.Sprint(a.nextID)), Name: d.Name, Email: d.Email, Phone: d.Phone, Role: d.Role}, nil
}

func (a *stubUserAPI) UpdateUser(_ context.Context, u domain.User) (*domain.User, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &u, nil
}

func (a *stubUserAPI) DeleteUser(context.Context, domain.ID) error {
	a.calls++
	return a.err
}

type stubTaskAPI struct {
	tasks   []domain.Task
	err     error
	created []domain.TaskDraft
	updated []domain.Task
}

func (a *stubTaskAPI) ListTasks(context.Context) ([]domain.Task, error) { return a.tasks, a.err }

func (a *stubTaskAPI) CreateTask(_ context.Context, d domain.TaskDraft) (*domain.Task, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.created = append(a.created, d)
	return &domain.Task{
		ID:             domain.ID(fmt.Sprint(100 + len(a.created))),
		Title:          d.Title,
		Description:    d.Description,
		AssignedTo:     d.AssignedTo,
		AssignedBy:     d.AssignedBy,
		AssignedToName: d.AssignedToName,
		AssignedByName: d.AssignedByName,
		Status:         d.Status,
		Priority:       d.Priority,
		DueDate:        d.DueDate,
	}, nil
}

func (a *stubTaskAPI) UpdateTask(_ context.Context, t domain.Task) (*domain.Task, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.updated = append(a.updated, t)
	return &t, nil
}

type stubUploadAPI struct {
	url   string
	calls int
}

func (u *stubUploadAPI) Upload(context.Context, ports.Upload) (string, error) {
	u.calls++
	return u.url, nil
}
