package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

// File persists the session as a single JSON document. Writes go to a
// temporary file that is renamed over the target.
type File struct {
	path string
	mu   sync.Mutex
}

var _ ports.SessionPersister = (*File)(nil)

// NewFile returns a File persister at path, creating its directory.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) AccessToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read()
	if err != nil {
		return "", err
	}
	return rec.AccessToken, nil
}

func (f *File) SaveTokens(_ context.Context, t ports.Tokens) error {
	return f.update(func(rec *record) error {
		rec.Tokens = t
		return nil
	})
}

func (f *File) SaveIdentity(_ context.Context, identity domain.Identity) error {
	return f.update(func(rec *record) error {
		raw, err := encodeIdentity(identity)
		if err != nil {
			return err
		}
		rec.CurrentUser = raw
		return nil
	})
}

func (f *File) LoadIdentity(context.Context) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, err := f.read()
	if err != nil {
		return nil, err
	}
	return rec.identity()
}

func (f *File) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// update reads, mutates and rewrites the document. A corrupted document is
// replaced rather than blocking new logins.
func (f *File) update(mutate func(*record) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.read()
	if err != nil && !errors.Is(err, domain.ErrCorruptSession) {
		return err
	}
	if err := mutate(&rec); err != nil {
		return err
	}
	return f.write(rec)
}

func (f *File) read() (record, error) {
	var rec record
	// #nosec G304 - path comes from configuration
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rec, nil
		}
		return rec, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return record{}, fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	return rec, nil
}

func (f *File) write(rec record) error {
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
