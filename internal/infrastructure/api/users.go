package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// ListUsers fetches the whole users collection.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var list []userWire
	if err := c.call(ctx, http.MethodGet, "users/", nil, &list); err != nil {
		return nil, err
	}
	return mapSlice(list, userWire.toDomain), nil
}

// CreateUser posts draft and returns the record with its server-assigned id.
func (c *Client) CreateUser(ctx context.Context, draft domain.UserDraft) (*domain.User, error) {
	body := userBody{Name: draft.Name, Email: draft.Email, Phone: draft.Phone, Role: string(draft.Role), Image: draft.ImageRef}
	var w userWire
	if err := c.call(ctx, http.MethodPost, "users/", body, &w); err != nil {
		return nil, err
	}
	u := w.toDomain()
	return &u, nil
}

// UpdateUser replaces the record at users/{id}.
func (c *Client) UpdateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	body := userBody{Name: user.DisplayName(), Email: user.Email, Phone: user.Phone, Role: string(user.Role), Image: user.ImageRef}
	var w userWire
	if err := c.call(ctx, http.MethodPut, "users/"+user.ID.String(), body, &w); err != nil {
		return nil, err
	}
	u := w.toDomain()
	if u.ID.IsZero() {
		u.ID = user.ID
	}
	return &u, nil
}

// DeleteUser removes the record at users/{id}.
func (c *Client) DeleteUser(ctx context.Context, id domain.ID) error {
	return c.call(ctx, http.MethodDelete, "users/"+id.String(), nil, nil)
}

// call runs an authenticated JSON request and unwraps the data envelope into out.
func (c *Client) call(ctx context.Context, method, endpoint string, body any, out any) error {
	req, err := c.newRequest(ctx, method, endpoint, body, true)
	if err != nil {
		return err
	}
	if out == nil {
		return c.do(req, nil)
	}

	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return err
	}
	return unwrapInto(raw, out)
}
