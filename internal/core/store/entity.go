package store

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/ports"
)

// Record is an entity held by an EntityStore, unique by its id.
type Record interface {
	RecordID() domain.ID
}

// EntitySnapshot is an immutable view of an entity store between transitions.
type EntitySnapshot[T Record] struct {
	Items   []T
	Status  RequestStatus
	Version uint64
}

// EntityStore holds a server-synchronised collection plus the request status
// of its most recently issued intent. All mutations go through reduce.
type EntityStore[T Record] struct {
	name string
	cfg  settings

	mu      sync.Mutex
	state   entityState[T]
	seq     uint64
	version uint64

	// notifyMu serialises listener calls; delivered is the newest version
	// handed out, so listeners never observe versions going backwards.
	notifyMu  sync.Mutex
	delivered uint64
	listeners map[int]func(EntitySnapshot[T])
	nextID    int
}

// NewEntityStore builds an empty store. name labels logs and metrics.
func NewEntityStore[T Record](name string, opts ...Option) *EntityStore[T] {
	return &EntityStore[T]{
		name:      name,
		cfg:       newSettings(opts),
		listeners: make(map[int]func(EntitySnapshot[T])),
	}
}

// Name returns the store label.
func (s *EntityStore[T]) Name() string { return s.name }

// Snapshot returns a copy of the current state.
func (s *EntityStore[T]) Snapshot() EntitySnapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *EntityStore[T]) snapshotLocked() EntitySnapshot[T] {
	return EntitySnapshot[T]{
		Items:   slices.Clone(s.state.items),
		Status:  s.state.status,
		Version: s.version,
	}
}

// Subscribe registers fn to receive snapshots produced by transitions. A
// snapshot superseded before delivery is skipped. fn runs on the goroutine
// that applied the transition and must not issue intents or subscribe on the
// same store synchronously. The returned func unsubscribes.
func (s *EntityStore[T]) Subscribe(fn func(EntitySnapshot[T])) func() {
	s.notifyMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.notifyMu.Unlock()

	return func() {
		s.notifyMu.Lock()
		delete(s.listeners, id)
		s.notifyMu.Unlock()
	}
}

// issue allocates the next sequence number and applies Issued for it in the
// same turn, so issue order and sequence order agree.
func (s *EntityStore[T]) issue(op Op) uint64 {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.commitLocked(Issued{Seq: seq, Op: op})
	return seq
}

// apply runs one transition atomically and notifies listeners.
func (s *EntityStore[T]) apply(ev Event) ports.Outcome {
	s.mu.Lock()
	return s.commitLocked(ev)
}

// commitLocked must be called with mu held; it releases mu.
func (s *EntityStore[T]) commitLocked(ev Event) ports.Outcome {
	next, outcome := reduce(s.state, ev)
	s.state = next
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if snap.Version <= s.delivered {
		return outcome
	}
	s.delivered = snap.Version
	for _, fn := range s.listeners {
		fn(snap)
	}
	return outcome
}

func (s *EntityStore[T]) logger() *zerolog.Logger {
	l := s.cfg.log.With().Str("store", s.name).Logger()
	return &l
}
