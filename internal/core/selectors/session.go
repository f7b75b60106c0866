package selectors

import (
	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

// IsAuthenticated reports whether a login has completed.
func IsAuthenticated(s store.Session) bool { return s.IsAuthenticated }

// SessionLoading is true while a login is in flight.
func SessionLoading(s store.Session) bool { return s.IsLoading }

// SessionError is the message of the last failed login.
func SessionError(s store.Session) string { return s.Error }

// CurrentUser returns the signed-in identity, if any.
func CurrentUser(s store.Session) (domain.Identity, bool) {
	if s.Identity == nil {
		return domain.Identity{}, false
	}
	return s.Identity.Clone(), true
}

// Role is empty when nobody is signed in.
func Role(s store.Session) domain.IdentityRole {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// Permissions never returns nil.
func Permissions(s store.Session) []string {
	if s.Identity == nil || len(s.Identity.Permissions) == 0 {
		return []string{}
	}
	return append([]string(nil), s.Identity.Permissions...)
}

// IsAdmin reports whether the signed-in identity is an admin.
func IsAdmin(s store.Session) bool { return Role(s) == domain.IdentityAdmin }

// IsUser reports whether the signed-in identity is a regular user.
func IsUser(s store.Session) bool { return Role(s) == domain.IdentityUser }

// HasPermission reports whether the signed-in identity holds p.
func HasPermission(s store.Session, p string) bool {
	return s.Identity != nil && s.Identity.HasPermission(p)
}

// MyTasks is TasksForUser for the signed-in identity; empty when signed out.
func MyTasks(s store.Session, tasks Tasks) []domain.Task {
	if s.Identity == nil {
		return []domain.Task{}
	}
	return TasksForUser(tasks, s.Identity.ID)
}
