package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

func seededTasks() []domain.Task {
	return []domain.Task{
		{ID: "10", Title: "Audit", Description: "Q3 audit", AssignedTo: "3", AssignedBy: "1", Status: domain.TaskPending, Priority: domain.PriorityHigh, DueDate: "2026-11-01"},
		{ID: "11", Title: "Deploy", Description: "Roll out", AssignedTo: "4", AssignedBy: "1", Status: domain.TaskInProgress, Priority: domain.PriorityLow, DueDate: "2026-11-02"},
	}
}

func newTaskSvc(t *testing.T, api *stubTaskAPI) (*TaskService, *store.Container) {
	t.Helper()
	c := store.NewContainer()
	svc := NewTaskService(c, api, zerolog.Nop())
	if len(api.tasks) > 0 {
		if _, err := svc.FetchAll(context.Background()); err != nil {
			t.Fatalf("seed fetch failed: %v", err)
		}
	}
	return svc, c
}

func TestTaskService_CreateFillsAssigner(t *testing.T) {
	api := &stubTaskAPI{}
	svc, c := newTaskSvc(t, api)
	c.Session.CompleteLogin(janeIdentity())

	users := NewUserService(c.Users, &stubUserAPI{users: []domain.User{{ID: "4", FirstName: "Mike", LastName: "Wilson"}}}, zerolog.Nop())
	if _, err := users.FetchAll(context.Background()); err != nil {
		t.Fatalf("users fetch failed: %v", err)
	}

	created, err := svc.Create(context.Background(), domain.TaskDraft{
		Title: "Review", Description: "Review PR", AssignedTo: "4", Priority: domain.PriorityMedium, DueDate: "2026-11-10",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	sent := api.created[0]
	if sent.AssignedBy != "3" || sent.AssignedByName != "Jane Smith" {
		t.Fatalf("assigner not filled: %+v", sent)
	}
	if sent.AssignedToName != "Mike Wilson" {
		t.Fatalf("assignee name not filled: %q", sent.AssignedToName)
	}
	if sent.Status != domain.TaskPending {
		t.Fatalf("expected default pending status, got %q", sent.Status)
	}
	if got := c.Tasks.Snapshot().Items; len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("task not appended: %+v", got)
	}
}

func TestTaskService_CreateRequiresIdentity(t *testing.T) {
	api := &stubTaskAPI{}
	svc, _ := newTaskSvc(t, api)

	_, err := svc.Create(context.Background(), domain.TaskDraft{
		Title: "Review", Description: "d", AssignedTo: "4", Priority: domain.PriorityLow, DueDate: "2026-11-10",
	})
	if !errors.Is(err, domain.ErrAuth) || !errors.Is(err, domain.ErrNoIdentity) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if len(api.created) != 0 {
		t.Fatalf("remote API must not be called")
	}
}

func TestTaskService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		identity domain.Identity
		taskID   domain.ID
		wantErr  error
	}{
		{"assignee", domain.Identity{ID: "3", Role: domain.IdentityUser}, "10", nil},
		{"assigner", domain.Identity{ID: "1", Role: domain.IdentityUser}, "10", nil},
		{"admin", domain.Identity{ID: "99", Role: domain.IdentityAdmin}, "11", nil},
		{"stranger", domain.Identity{ID: "5", Role: domain.IdentityUser}, "10", domain.ErrForbidden},
		{"unknown task", domain.Identity{ID: "3", Role: domain.IdentityUser}, "404", domain.ErrTaskNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &stubTaskAPI{tasks: seededTasks()}
			svc, c := newTaskSvc(t, api)
			c.Session.CompleteLogin(tc.identity)

			updated, err := svc.UpdateStatus(context.Background(), tc.taskID, domain.TaskCompleted)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if len(api.updated) != 0 {
					t.Fatalf("remote API must not be called")
				}
				return
			}
			if err != nil {
				t.Fatalf("update status failed: %v", err)
			}
			if updated.Status != domain.TaskCompleted {
				t.Fatalf("status not changed: %+v", updated)
			}
			task, _ := findTask(c.Tasks.Snapshot().Items, tc.taskID)
			if task.Status != domain.TaskCompleted {
				t.Fatalf("store not updated: %+v", task)
			}
		})
	}
}

func TestTaskService_UpdateStatusForbiddenIsAuthKind(t *testing.T) {
	api := &stubTaskAPI{tasks: seededTasks()}
	svc, c := newTaskSvc(t, api)
	c.Session.CompleteLogin(domain.Identity{ID: "5", Role: domain.IdentityUser})

	_, err := svc.UpdateStatus(context.Background(), "10", domain.TaskCompleted)
	if domain.KindOf(err) != domain.KindAuth {
		t.Fatalf("expected auth kind, got %v", domain.KindOf(err))
	}
}

func TestTaskService_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	api := &stubTaskAPI{tasks: seededTasks()}
	svc, c := newTaskSvc(t, api)
	c.Session.CompleteLogin(domain.Identity{ID: "3"})

	if _, err := svc.UpdateStatus(context.Background(), "10", "archived"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTaskService_UpdateFailureKeepsCollection(t *testing.T) {
	api := &stubTaskAPI{tasks: seededTasks()}
	svc, c := newTaskSvc(t, api)
	api.err = domain.TransportError(errors.New("connection refused"))

	task := seededTasks()[0]
	task.Title = "Changed"
	if _, err := svc.Update(context.Background(), task); !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	snap := c.Tasks.Snapshot()
	if snap.Items[0].Title != "Audit" {
		t.Fatalf("collection must be untouched, got %+v", snap.Items[0])
	}
	if snap.Status.Loading || snap.Status.Error == "" {
		t.Fatalf("unexpected status: %+v", snap.Status)
	}
}

func TestCanChangeStatus(t *testing.T) {
	task := domain.Task{AssignedTo: "3", AssignedBy: "1"}
	if !CanChangeStatus(domain.Identity{ID: "3"}, task) {
		t.Error("assignee should be allowed")
	}
	if !CanChangeStatus(domain.Identity{ID: "1"}, task) {
		t.Error("assigner should be allowed")
	}
	if !CanChangeStatus(domain.Identity{ID: "9", Role: domain.IdentityAdmin}, task) {
		t.Error("admin should be allowed")
	}
	if CanChangeStatus(domain.Identity{ID: "9"}, task) {
		t.Error("stranger should not be allowed")
	}
}

func findTask(items []domain.Task, id domain.ID) (domain.Task, bool) {
	for _, t := range items {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}
