package store

import (
	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// Store labels used in logs and metrics.
const (
	NameSession = "session"
	NameUsers   = "users"
	NameTasks   = "tasks"
)

// Container is the application state: one session store and one store per
// entity collection. Build it once at start-up and pass it to whatever needs it.
type Container struct {
	Session *SessionStore
	Users   *EntityStore[domain.User]
	Tasks   *EntityStore[domain.Task]
}

// NewContainer builds an empty container; opts apply to every store.
func NewContainer(opts ...Option) *Container {
	return &Container{
		Session: NewSessionStore(opts...),
		Users:   NewEntityStore[domain.User](NameUsers, opts...),
		Tasks:   NewEntityStore[domain.Task](NameTasks, opts...),
	}
}

// State is a point-in-time read of the whole container.
type State struct {
	Session Session
	Users   EntitySnapshot[domain.User]
	Tasks   EntitySnapshot[domain.Task]
}

// State snapshots every store. Each store is read atomically; the three reads
// are not one turn.
func (c *Container) State() State {
	return State{
		Session: c.Session.Snapshot(),
		Users:   c.Users.Snapshot(),
		Tasks:   c.Tasks.Snapshot(),
	}
}
