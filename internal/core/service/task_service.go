package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
	"github.com/99minutos/ops-dashboard/internal/core/selectors"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

type taskPayload = store.Payload[domain.Task]

// TaskService runs the tasks-collection intents. Tasks cannot be deleted.
type TaskService struct {
	tasks   *store.EntityStore[domain.Task]
	users   *store.EntityStore[domain.User]
	session *store.SessionStore
	api     ports.TaskAPI
	forms   *formValidator
	log     zerolog.Logger
}

func NewTaskService(c *store.Container, api ports.TaskAPI, log zerolog.Logger) *TaskService {
	return &TaskService{
		tasks:   c.Tasks,
		users:   c.Users,
		session: c.Session,
		api:     api,
		forms:   newFormValidator(),
		log:     log,
	}
}

// FetchAll replaces the tasks collection with the server's list.
func (s *TaskService) FetchAll(ctx context.Context) ([]domain.Task, error) {
	p, err := s.tasks.Run(ctx, store.OpFetchAll, func(ctx context.Context) (taskPayload, error) {
		list, err := s.api.ListTasks(ctx)
		return taskPayload{Records: list}, err
	}).Get()
	if err != nil {
		return nil, err
	}
	return p.Records, nil
}

// Create assigns a new task from the signed-in identity. Display names are
// filled from the session and the users collection when the draft leaves them
// empty.
func (s *TaskService) Create(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	if err := s.forms.check(draft); err != nil {
		return nil, err
	}
	me, ok := selectors.CurrentUser(s.session.Snapshot())
	if !ok {
		return nil, domain.AuthError(domain.ErrNoIdentity)
	}

	draft.AssignedBy = me.ID
	if draft.AssignedByName == "" {
		draft.AssignedByName = me.FullName()
	}
	if draft.AssignedToName == "" {
		if u, found := selectors.UserByID(s.users.Snapshot(), draft.AssignedTo); found {
			draft.AssignedToName = u.DisplayName()
		}
	}
	if draft.Status == "" {
		draft.Status = domain.TaskPending
	}

	p, err := s.tasks.Run(ctx, store.OpCreate, func(ctx context.Context) (taskPayload, error) {
		created, err := s.api.CreateTask(ctx, draft)
		if err != nil {
			return taskPayload{}, err
		}
		return taskPayload{Record: *created}, nil
	}).Get()
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("task_id", p.Record.ID.String()).Str("assigned_to", draft.AssignedTo.String()).Msg("task created")
	return &p.Record, nil
}

// Update submits task. If the confirmed record is not in the collection the
// update is dropped locally without error.
func (s *TaskService) Update(ctx context.Context, task domain.Task) (*domain.Task, error) {
	if err := s.forms.check(taskFormOf(task)); err != nil {
		return nil, err
	}
	return s.update(ctx, task)
}

// UpdateStatus changes only the status of a task in the collection. Admins,
// the assigner and the assignee may do this.
func (s *TaskService) UpdateStatus(ctx context.Context, id domain.ID, status domain.TaskStatus) (*domain.Task, error) {
	if err := s.forms.check(statusForm{ID: id, Status: status}); err != nil {
		return nil, err
	}
	me, ok := selectors.CurrentUser(s.session.Snapshot())
	if !ok {
		return nil, domain.AuthError(domain.ErrNoIdentity)
	}
	task, found := selectors.TaskByID(s.tasks.Snapshot(), id)
	if !found {
		return nil, &domain.Error{Kind: domain.KindValidation, Message: domain.ErrTaskNotFound.Error(), Err: domain.ErrTaskNotFound}
	}
	if !CanChangeStatus(me, task) {
		return nil, &domain.Error{Kind: domain.KindAuth, Message: domain.ErrForbidden.Error(), Err: domain.ErrForbidden}
	}

	task.Status = status
	return s.update(ctx, task)
}

func (s *TaskService) update(ctx context.Context, task domain.Task) (*domain.Task, error) {
	p, err := s.tasks.Run(ctx, store.OpUpdate, func(ctx context.Context) (taskPayload, error) {
		updated, err := s.api.UpdateTask(ctx, task)
		if err != nil {
			return taskPayload{}, err
		}
		return taskPayload{Record: *updated}, nil
	}).Get()
	if err != nil {
		return nil, err
	}
	return &p.Record, nil
}

// CanChangeStatus reports whether identity may change the status of task.
func CanChangeStatus(identity domain.Identity, task domain.Task) bool {
	return identity.IsAdmin() || identity.ID == task.AssignedBy || identity.ID == task.AssignedTo
}
