package api

import (
	"context"
	"net/http"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// ListTasks fetches the whole tasks collection.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var list []taskWire
	if err := c.call(ctx, http.MethodGet, "tasks/", nil, &list); err != nil {
		return nil, err
	}
	return mapSlice(list, taskWire.toDomain), nil
}

// CreateTask posts draft and returns the created task.
func (c *Client) CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	body := taskBody{
		Title:          draft.Title,
		Description:    draft.Description,
		AssignedTo:     draft.AssignedTo.String(),
		AssignedBy:     draft.AssignedBy.String(),
		AssignedToName: draft.AssignedToName,
		AssignedByName: draft.AssignedByName,
		Status:         string(draft.Status),
		Priority:       string(draft.Priority),
		DueDate:        draft.DueDate,
	}
	var w taskWire
	if err := c.call(ctx, http.MethodPost, "tasks/", body, &w); err != nil {
		return nil, err
	}
	t := w.toDomain()
	return &t, nil
}

// UpdateTask replaces the task at tasks/{id}.
func (c *Client) UpdateTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	body := taskBody{
		Title:          task.Title,
		Description:    task.Description,
		AssignedTo:     task.AssignedTo.String(),
		AssignedBy:     task.AssignedBy.String(),
		AssignedToName: task.AssignedToName,
		AssignedByName: task.AssignedByName,
		Status:         string(task.Status),
		Priority:       string(task.Priority),
		DueDate:        task.DueDate,
	}
	var w taskWire
	if err := c.call(ctx, http.MethodPut, "tasks/"+task.ID.String(), body, &w); err != nil {
		return nil, err
	}
	t := w.toDomain()
	if t.ID.IsZero() {
		t.ID = task.ID
	}
	return &t, nil
}
