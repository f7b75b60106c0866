// Package demo serves logins from a fixed lookup table so the dashboard can
// run without the remote authentication endpoint.
package demo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

// Entry is one row of the lookup table. Either Password or PasswordHash must
// be set; a plaintext password is hashed when the directory is built.
type Entry struct {
	ID           string   `yaml:"id"`
	Username     string   `yaml:"username"`
	Email        string   `yaml:"email"`
	Password     string   `yaml:"password,omitempty"`
	PasswordHash string   `yaml:"passwordHash,omitempty"`
	FirstName    string   `yaml:"firstName"`
	LastName     string   `yaml:"lastName"`
	Role         string   `yaml:"role"`
	Permissions  []string `yaml:"permissions"`
	CreatedAt    string   `yaml:"createdAt"`
}

// Identity converts the entry, granting the role's default permissions when
// none are listed.
func (e Entry) Identity() domain.Identity {
	role := domain.IdentityRole(strings.ToLower(e.Role))
	if role != domain.IdentityAdmin {
		role = domain.IdentityUser
	}
	perms := e.Permissions
	if len(perms) == 0 {
		perms = defaultPermissions(role)
	}
	created, _ := time.Parse("2006-01-02", e.CreatedAt)
	return domain.Identity{
		ID:          domain.ID(e.ID),
		Username:    e.Username,
		Email:       e.Email,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Role:        role,
		Permissions: append([]string(nil), perms...),
		CreatedAt:   created,
	}
}

func defaultPermissions(role domain.IdentityRole) []string {
	if role == domain.IdentityAdmin {
		return []string{domain.PermissionAdmin, domain.PermissionRead, domain.PermissionWrite}
	}
	return []string{domain.PermissionRead}
}

// Builtin is the table shipped with the dashboard for local use.
func Builtin() []Entry {
	return []Entry{
		{ID: "1", Username: "admin", Email: "admin@company.com", Password: "admin123", FirstName: "System", LastName: "Administrator", Role: "admin", Permissions: []string{"Admin", "Read", "Write"}, CreatedAt: "2024-01-01"},
		{ID: "2", Username: "john.doe", Email: "john.doe@company.com", Password: "user123", FirstName: "John", LastName: "Doe", Role: "user", Permissions: []string{"Read"}, CreatedAt: "2024-01-15"},
		{ID: "3", Username: "jane.smith", Email: "jane.smith@company.com", Password: "user123", FirstName: "Jane", LastName: "Smith", Role: "user", Permissions: []string{"Read", "Write"}, CreatedAt: "2024-01-16"},
		{ID: "4", Username: "mike.wilson", Email: "mike.wilson@company.com", Password: "user123", FirstName: "Mike", LastName: "Wilson", Role: "user", Permissions: []string{"Read"}, CreatedAt: "2024-01-20"},
		{ID: "5", Username: "sarah.johnson", Email: "sarah.johnson@company.com", Password: "admin123", FirstName: "Sarah", LastName: "Johnson", Role: "admin", Permissions: []string{"Admin", "Read", "Write"}, CreatedAt: "2024-01-25"},
	}
}

type fixture struct {
	Users []Entry `yaml:"users"`
}

// LoadFile reads a YAML fixture of the form {users: [...]}.
func LoadFile(path string) ([]Entry, error) {
	// #nosec G304 - path comes from configuration
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read demo users: %w", err)
	}
	var f fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse demo users %s: %w", path, err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("demo users %s: no users defined", path)
	}
	return f.Users, nil
}

// Directory is an in-memory CredentialDirectory.
type Directory struct {
	byUsername map[string]ports.Credential
}

var _ ports.CredentialDirectory = (*Directory)(nil)

// NewDirectory hashes plaintext passwords and indexes entries by username.
func NewDirectory(entries []Entry) (*Directory, error) {
	d := &Directory{byUsername: make(map[string]ports.Credential, len(entries))}
	for _, e := range entries {
		if e.Username == "" {
			return nil, fmt.Errorf("demo user %q: username is required", e.ID)
		}
		if _, dup := d.byUsername[e.Username]; dup {
			return nil, fmt.Errorf("demo user %q: duplicate username", e.Username)
		}
		hash := e.PasswordHash
		if hash == "" {
			if e.Password == "" {
				return nil, fmt.Errorf("demo user %q: password is required", e.Username)
			}
			b, err := bcrypt.GenerateFromPassword([]byte(e.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash password for %q: %w", e.Username, err)
			}
			hash = string(b)
		}
		d.byUsername[e.Username] = ports.Credential{Identity: e.Identity(), PasswordHash: hash}
	}
	return d, nil
}

func (d *Directory) FindByUsername(_ context.Context, username string) (*ports.Credential, error) {
	c, ok := d.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c.Identity = c.Identity.Clone()
	return &c, nil
}
