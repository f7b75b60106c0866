package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/selectors"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

// StateHandler handles GET /state: a summary of the container for operators.
// Record contents and identity details beyond the username are not exposed.
type StateHandler struct {
	container *store.Container
}

func NewStateHandler(c *store.Container) *StateHandler {
	return &StateHandler{container: c}
}

type storeSummary struct {
	Count   int    `json:"count"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Version uint64 `json:"version"`
}

type sessionSummary struct {
	Authenticated bool                `json:"authenticated"`
	Loading       bool                `json:"loading"`
	Username      string              `json:"username,omitempty"`
	Role          domain.IdentityRole `json:"role,omitempty"`
	Error         string              `json:"error,omitempty"`
}

type stateResponse struct {
	Session   sessionSummary      `json:"session"`
	Users     storeSummary        `json:"users"`
	Tasks     storeSummary        `json:"tasks"`
	TaskStats selectors.TaskStats `json:"taskStats"`
}

func (h *StateHandler) State(c echo.Context) error {
	st := h.container.State()

	session := sessionSummary{
		Authenticated: selectors.IsAuthenticated(st.Session),
		Loading:       selectors.SessionLoading(st.Session),
		Error:         selectors.SessionError(st.Session),
	}
	if me, ok := selectors.CurrentUser(st.Session); ok {
		session.Username = me.Username
		session.Role = me.Role
	}

	return c.JSON(http.StatusOK, stateResponse{
		Session: session,
		Users: storeSummary{
			Count:   len(selectors.AllUsers(st.Users)),
			Loading: selectors.UsersLoading(st.Users),
			Error:   selectors.UsersError(st.Users),
			Version: st.Users.Version,
		},
		Tasks: storeSummary{
			Count:   len(selectors.AllTasks(st.Tasks)),
			Loading: selectors.TasksLoading(st.Tasks),
			Error:   selectors.TasksError(st.Tasks),
			Version: st.Tasks.Version,
		},
		TaskStats: selectors.StatsOf(selectors.AllTasks(st.Tasks)),
	})
}
