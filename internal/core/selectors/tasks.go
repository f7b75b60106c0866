package selectors

import (
	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

// Tasks is the type of the tasks store snapshot.
type Tasks = store.EntitySnapshot[domain.Task]

// AllTasks returns every task record.
func AllTasks(s Tasks) []domain.Task {
	return filter(s.Items, func(domain.Task) bool { return true })
}

// TaskByID looks up a task record.
func TaskByID(s Tasks, id domain.ID) (domain.Task, bool) {
	for _, t := range s.Items {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

// TasksByAssignee returns tasks assigned to userID.
func TasksByAssignee(s Tasks, userID domain.ID) []domain.Task {
	return filter(s.Items, func(t domain.Task) bool { return t.AssignedTo == userID })
}

// TasksByAssigner returns tasks assigned by userID.
func TasksByAssigner(s Tasks, userID domain.ID) []domain.Task {
	return filter(s.Items, func(t domain.Task) bool { return t.AssignedBy == userID })
}

// TasksByStatus returns tasks in status.
func TasksByStatus(s Tasks, status domain.TaskStatus) []domain.Task {
	return filter(s.Items, func(t domain.Task) bool { return t.Status == status })
}

// TasksForUser returns tasks assigned to or by userID, each once.
func TasksForUser(s Tasks, userID domain.ID) []domain.Task {
	return filter(s.Items, func(t domain.Task) bool {
		return t.AssignedTo == userID || t.AssignedBy == userID
	})
}

// TasksLoading is true while the latest task intent is in flight.
func TasksLoading(s Tasks) bool { return s.Status.Loading }

// TasksError is the message of the latest failed task intent.
func TasksError(s Tasks) string { return s.Status.Error }

// TaskStats is the dashboard summary of the task collection.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// StatsOf counts tasks per status.
func StatsOf(tasks []domain.Task) TaskStats {
	st := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskPending:
			st.Pending++
		case domain.TaskInProgress:
			st.InProgress++
		case domain.TaskCompleted:
			st.Completed++
		}
	}
	return st
}
