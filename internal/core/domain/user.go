package domain

import "time"

// UserRole is the access level of a managed user record.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleWrite UserRole = "write"
	RoleRead  UserRole = "read"
)

// Valid reports whether r is one of the known user roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleWrite, RoleRead:
		return true
	}
	return false
}

// User is a record managed from the users view of the dashboard.
type User struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name,omitempty"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      UserRole  `json:"role"`
	ImageRef  *string   `json:"imageRef,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordID satisfies store.Record.
func (u User) RecordID() ID { return u.ID }

// DisplayName prefers Name and falls back to "FirstName LastName".
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserDraft is the create form for a user; the server assigns ID and CreatedAt.
type UserDraft struct {
	Name     string   `json:"name"     validate:"required"`
	Email    string   `json:"email"    validate:"required,email"`
	Phone    string   `json:"phone"    validate:"required"`
	Role     UserRole `json:"role"     validate:"required,oneof=admin write read"`
	ImageRef *string  `json:"imageRef,omitempty"`
}
