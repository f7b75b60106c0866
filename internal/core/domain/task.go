package domain

import "time"

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work assigned by one user to another. AssignedTo and
// AssignedBy reference user ids; the server is the authority on whether they exist.
type Task struct {
	ID             ID         `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	AssignedTo     ID         `json:"assignedTo"`
	AssignedBy     ID         `json:"assignedBy"`
	AssignedToName string     `json:"assignedToName"`
	AssignedByName string     `json:"assignedByName"`
	Status         TaskStatus `json:"status"`
	Priority       Priority   `json:"priority"`
	DueDate        string     `json:"dueDate"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// RecordID satisfies store.Record.
func (t Task) RecordID() ID { return t.ID }

// TaskDraft is the create form for a task. AssignedBy and the display names are
// filled in from the session and the users collection before submission.
type TaskDraft struct {
	Title          string     `json:"title"       validate:"required"`
	Description    string     `json:"description" validate:"required"`
	AssignedTo     ID         `json:"assignedTo"  validate:"required"`
	AssignedBy     ID         `json:"assignedBy"`
	AssignedToName string     `json:"assignedToName"`
	AssignedByName string     `json:"assignedByName"`
	Priority       Priority   `json:"priority"    validate:"required,oneof=low medium high"`
	DueDate        string     `json:"dueDate"     validate:"required"`
	Status         TaskStatus `json:"status,omitempty"`
}
