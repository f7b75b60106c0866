package domain

import (
	"slices"
	"time"
)

// IdentityRole is the privilege level of the signed-in operator.
type IdentityRole string

const (
	IdentityAdmin IdentityRole = "admin"
	IdentityUser  IdentityRole = "user"
)

// Well-known permission names granted to identities.
const (
	PermissionAdmin = "Admin"
	PermissionRead  = "Read"
	PermissionWrite = "Write"
)

// Identity is the authenticated operator using the dashboard.
type Identity struct {
	ID          ID           `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Role        IdentityRole `json:"role"`
	Permissions []string     `json:"permissions"`
	AvatarRef   *string      `json:"avatarRef,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == IdentityAdmin }

// HasPermission reports whether p is among the identity's permissions.
func (i Identity) HasPermission(p string) bool {
	return slices.Contains(i.Permissions, p)
}

// FullName joins first and last name.
func (i Identity) FullName() string {
	switch {
	case i.FirstName == "":
		return i.LastName
	case i.LastName == "":
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}

// Clone returns a deep copy so stores can hand out snapshots safely.
func (i Identity) Clone() Identity {
	c := i
	c.Permissions = slices.Clone(i.Permissions)
	if i.AvatarRef != nil {
		ref := *i.AvatarRef
		c.AvatarRef = &ref
	}
	return c
}

// IdentityPatch carries a partial profile update. Nil fields are left alone.
type IdentityPatch struct {
	Username    *string
	Email       *string
	FirstName   *string
	LastName    *string
	Permissions []string
	AvatarRef   *string
}

// Apply shallow-merges the non-nil fields of p into a copy of i.
func (p IdentityPatch) Apply(i Identity) Identity {
	out := i.Clone()
	if p.Username != nil {
		out.Username = *p.Username
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.FirstName != nil {
		out.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		out.LastName = *p.LastName
	}
	if p.Permissions != nil {
		out.Permissions = slices.Clone(p.Permissions)
	}
	if p.AvatarRef != nil {
		ref := *p.AvatarRef
		out.AvatarRef = &ref
	}
	return out
}
