package storage

import (
	"context"
	"sync"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

// Memory keeps the session for the lifetime of the process only.
type Memory struct {
	mu  sync.RWMutex
	rec record
}

var _ ports.SessionPersister = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) AccessToken(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rec.AccessToken, nil
}

func (m *Memory) SaveTokens(_ context.Context, t ports.Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec.Tokens = t
	return nil
}

func (m *Memory) SaveIdentity(_ context.Context, identity domain.Identity) error {
	raw, err := encodeIdentity(identity)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec.CurrentUser = raw
	return nil
}

func (m *Memory) LoadIdentity(context.Context) (*domain.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rec.identity()
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = record{}
	return nil
}
