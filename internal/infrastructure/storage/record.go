// Package storage holds client-side SessionPersister implementations that do
// not need an external server.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

// record is the persisted layout: the two tokens plus the serialized
// current identity.
type record struct {
	ports.Tokens
	CurrentUser json.RawMessage `json:"currentUser,omitempty"`
}

func (r record) identity() (*domain.Identity, error) {
	if len(r.CurrentUser) == 0 || string(r.CurrentUser) == "null" {
		return nil, nil
	}
	var id domain.Identity
	if err := json.Unmarshal(r.CurrentUser, &id); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	return &id, nil
}

func encodeIdentity(identity domain.Identity) (json.RawMessage, error) {
	raw, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("encode identity: %w", err)
	}
	return raw, nil
}
