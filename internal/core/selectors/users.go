package selectors

import (
	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/store"
)

// Users is the type of the users store snapshot.
type Users = store.EntitySnapshot[domain.User]

// AllUsers returns every user record.
func AllUsers(s Users) []domain.User {
	return filter(s.Items, func(domain.User) bool { return true })
}

// UserByID looks up a user record.
func UserByID(s Users, id domain.ID) (domain.User, bool) {
	for _, u := range s.Items {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// UsersByRole returns the users holding role.
func UsersByRole(s Users, role domain.UserRole) []domain.User {
	return filter(s.Items, func(u domain.User) bool { return u.Role == role })
}

// UsersLoading is true while the latest user intent is in flight.
func UsersLoading(s Users) bool { return s.Status.Loading }

// UsersError is the message of the latest failed user intent.
func UsersError(s Users) string { return s.Status.Error }

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
