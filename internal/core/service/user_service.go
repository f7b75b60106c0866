package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

type userPayload = store.Payload[domain.User]

// UserService runs the users-collection intents.
type UserService struct {
	users *store.EntityStore[domain.User]
	api   ports.UserAPI
	forms *formValidator
	log   zerolog.Logger
}

func NewUserService(users *store.EntityStore[domain.User], api ports.UserAPI, log zerolog.Logger) *UserService {
	return &UserService{users: users, api: api, forms: newFormValidator(), log: log}
}

// FetchAll replaces the users collection with the server's list.
func (s *UserService) FetchAll(ctx context.Context) ([]domain.User, error) {
	p, err := s.users.Run(ctx, store.OpFetchAll, func(ctx context.Context) (userPayload, error) {
		list, err := s.api.ListUsers(ctx)
		return userPayload{Records: list}, err
	}).Get()
	if err != nil {
		return nil, err
	}
	return p.Records, nil
}

// Create submits draft and appends the server-assigned record.
func (s *UserService) Create(ctx context.Context, draft domain.UserDraft) (*domain.User, error) {
	if err := s.forms.check(draft); err != nil {
		return nil, err
	}
	p, err := s.users.Run(ctx, store.OpCreate, func(ctx context.Context) (userPayload, error) {
		created, err := s.api.CreateUser(ctx, draft)
		if err != nil {
			return userPayload{}, err
		}
		return userPayload{Record: *created}, nil
	}).Get()
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", p.Record.ID.String()).Msg("user created")
	return &p.Record, nil
}

// Update submits user and replaces the matching record once confirmed.
func (s *UserService) Update(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := s.forms.check(userFormOf(user)); err != nil {
		return nil, err
	}
	p, err := s.users.Run(ctx, store.OpUpdate, func(ctx context.Context) (userPayload, error) {
		updated, err := s.api.UpdateUser(ctx, user)
		if err != nil {
			return userPayload{}, err
		}
		return userPayload{Record: *updated}, nil
	}).Get()
	if err != nil {
		return nil, err
	}
	return &p.Record, nil
}

// Delete removes the user remotely, then from the collection.
func (s *UserService) Delete(ctx context.Context, id domain.ID) error {
	if id.IsZero() {
		return domain.ValidationError("id is required")
	}
	_, err := s.users.Run(ctx, store.OpDelete, func(ctx context.Context) (userPayload, error) {
		if err := s.api.DeleteUser(ctx, id); err != nil {
			return userPayload{}, err
		}
		return userPayload{ID: id}, nil
	}).Get()
	return err
}
