package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// flexID decodes identifiers sent either as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

// pickID prefers "id" and falls back to the document-style "_id".
func pickID(id, docID flexID) domain.ID {
	if id != "" {
		return domain.ID(id)
	}
	return domain.ID(docID)
}

// flexTime accepts RFC 3339 timestamps and bare dates. Anything else decodes
// to the zero time.
type flexTime time.Time

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		*f = flexTime{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			*f = flexTime(t)
			return nil
		}
	}
	*f = flexTime{}
	return nil
}

// unwrapInto decodes raw into out, accepting both {"data": v} and a bare v.
func unwrapInto(raw json.RawMessage, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err == nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
			trimmed = env.Data
		}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &domain.Error{Kind: domain.KindServer, Message: "malformed response body", Err: err}
	}
	return nil
}

type identityWire struct {
	ID          flexID   `json:"id"`
	DocID       flexID   `json:"_id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	ImageURL    *string  `json:"imageUrl"`
	CreatedAt   flexTime `json:"createdAt"`
}

func (w identityWire) toDomain() domain.Identity {
	role := domain.IdentityRole(strings.ToLower(w.Role))
	if role != domain.IdentityAdmin {
		role = domain.IdentityUser
	}
	perms := w.Permissions
	if perms == nil {
		perms = []string{}
	}
	return domain.Identity{
		ID:          pickID(w.ID, w.DocID),
		Username:    w.Username,
		Email:       w.Email,
		FirstName:   w.FirstName,
		LastName:    w.LastName,
		Role:        role,
		Permissions: perms,
		AvatarRef:   w.ImageURL,
		CreatedAt:   time.Time(w.CreatedAt),
	}
}

type userWire struct {
	ID        flexID   `json:"id"`
	DocID     flexID   `json:"_id"`
	Name      string   `json:"name"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Role      string   `json:"role"`
	Image     *string  `json:"image"`
	CreatedAt flexTime `json:"createdAt"`
}

func (w userWire) toDomain() domain.User {
	return domain.User{
		ID:        pickID(w.ID, w.DocID),
		Name:      w.Name,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Email:     w.Email,
		Phone:     w.Phone,
		Role:      domain.UserRole(w.Role),
		ImageRef:  w.Image,
		CreatedAt: time.Time(w.CreatedAt),
	}
}

// userBody is the request shape for create and update.
type userBody struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone string  `json:"phone"`
	Role  string  `json:"role"`
	Image *string `json:"image,omitempty"`
}

type taskWire struct {
	ID             flexID   `json:"id"`
	DocID          flexID   `json:"_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	AssignedTo     flexID   `json:"assignedTo"`
	AssignedBy     flexID   `json:"assignedBy"`
	AssignedToName string   `json:"assignedToName"`
	AssignedByName string   `json:"assignedByName"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	DueDate        string   `json:"dueDate"`
	CreatedAt      flexTime `json:"createdAt"`
}

func (w taskWire) toDomain() domain.Task {
	return domain.Task{
		ID:             pickID(w.ID, w.DocID),
		Title:          w.Title,
		Description:    w.Description,
		AssignedTo:     domain.ID(w.AssignedTo),
		AssignedBy:     domain.ID(w.AssignedBy),
		AssignedToName: w.AssignedToName,
		AssignedByName: w.AssignedByName,
		Status:         domain.TaskStatus(w.Status),
		Priority:       domain.Priority(w.Priority),
		DueDate:        w.DueDate,
		CreatedAt:      time.Time(w.CreatedAt),
	}
}

type taskBody struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	AssignedTo     string `json:"assignedTo"`
	AssignedBy     string `json:"assignedBy,omitempty"`
	AssignedToName string `json:"assignedToName,omitempty"`
	AssignedByName string `json:"assignedByName,omitempty"`
	Status         string `json:"status,omitempty"`
	Priority       string `json:"priority"`
	DueDate        string `json:"dueDate"`
}

func mapSlice[W any, D any](in []W, conv func(W) D) []D {
	out := make([]D, 0, len(in))
	for _, w := range in {
		out = append(out, conv(w))
	}
	return out
}
