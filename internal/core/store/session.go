package store

import (
	"fmt"
	"sync"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
)

// Session is who is using the application and with what privileges.
// IsAuthenticated is true only when Identity was set by a successful login.
type Session struct {
	Identity        *domain.Identity `json:"identity,omitempty"`
	IsAuthenticated bool             `json:"isAuthenticated"`
	IsLoading       bool             `json:"isLoading"`
	Error           string           `json:"error,omitempty"`
}

func (s Session) clone() Session {
	if s.Identity != nil {
		id := s.Identity.Clone()
		s.Identity = &id
	}
	return s
}

// sessionEvent is the closed set of session transitions.
type sessionEvent interface {
	sessionEvent()
}

type (
	loginStarted   struct{}
	loginSucceeded struct{ identity domain.Identity }
	loginFailed    struct{ message string }
	sessionEnded   struct{}
	profilePatched struct{ patch domain.IdentityPatch }
	errorCleared   struct{}
)

func (loginStarted) sessionEvent()   {}
func (loginSucceeded) sessionEvent() {}
func (loginFailed) sessionEvent()    {}
func (sessionEnded) sessionEvent()   {}
func (profilePatched) sessionEvent() {}
func (errorCleared) sessionEvent()   {}

func reduceSession(s Session, ev sessionEvent) Session {
	switch e := ev.(type) {
	case loginStarted:
		s.IsLoading = true
		s.Error = ""
	case loginSucceeded:
		id := e.identity.Clone()
		s.Identity = &id
		s.IsAuthenticated = true
		s.IsLoading = false
		s.Error = ""
	case loginFailed:
		s.Identity = nil
		s.IsAuthenticated = false
		s.IsLoading = false
		s.Error = e.message
	case sessionEnded:
		s.Identity = nil
		s.IsAuthenticated = false
		s.Error = ""
	case profilePatched:
		if s.Identity != nil {
			id := e.patch.Apply(*s.Identity)
			s.Identity = &id
		}
	case errorCleared:
		s.Error = ""
	default:
		panic(fmt.Sprintf("store: unexpected session event %T", ev))
	}
	return s
}

// SessionStore is the single source of truth for the current identity. Its
// methods are the only mutators of Session.
type SessionStore struct {
	cfg settings

	mu      sync.Mutex
	state   Session
	version uint64

	notifyMu  sync.Mutex
	delivered uint64
	listeners map[int]func(Session)
	nextID    int
}

// NewSessionStore returns a store in the signed-out state.
func NewSessionStore(opts ...Option) *SessionStore {
	return &SessionStore{cfg: newSettings(opts), listeners: make(map[int]func(Session))}
}

// BeginLogin marks a login as in progress and clears any previous error.
func (s *SessionStore) BeginLogin() { s.dispatch(loginStarted{}) }

// CompleteLogin records a successful login. Persisting the identity is the
// caller's job.
func (s *SessionStore) CompleteLogin(identity domain.Identity) {
	s.dispatch(loginSucceeded{identity: identity})
	s.cfg.log.Info().Str("store", "session").Str("username", identity.Username).Msg("session started")
}

// FailLogin records a rejected login with its message.
func (s *SessionStore) FailLogin(message string) {
	s.dispatch(loginFailed{message: message})
	s.cfg.log.Info().Str("store", "session").Str("error", message).Msg("login failed")
}

// EndSession clears the identity. Removing persisted state is the caller's job.
func (s *SessionStore) EndSession() {
	s.dispatch(sessionEnded{})
	s.cfg.log.Info().Str("store", "session").Msg("session ended")
}

// ApplyProfilePatch shallow-merges patch into the identity. It returns
// ErrNoIdentity and changes nothing when nobody is signed in.
func (s *SessionStore) ApplyProfilePatch(patch domain.IdentityPatch) error {
	s.mu.Lock()
	if s.state.Identity == nil {
		s.mu.Unlock()
		return domain.ErrNoIdentity
	}
	s.commitLocked(profilePatched{patch: patch})
	return nil
}

// ClearError drops the recorded error message.
func (s *SessionStore) ClearError() { s.dispatch(errorCleared{}) }

// Snapshot returns a deep copy of the session.
func (s *SessionStore) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn for every new session state; see EntityStore.Subscribe.
func (s *SessionStore) Subscribe(fn func(Session)) func() {
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

func (s *SessionStore) dispatch(ev sessionEvent) {
	s.mu.Lock()
	s.commitLocked(ev)
}

// commitLocked must be called with mu held; it releases mu.
func (s *SessionStore) commitLocked(ev sessionEvent) {
	s.state = reduceSession(s.state, ev)
	s.version++
	version := s.version
	snap := s.state.clone()
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version
	for _, fn := range s.listeners {
		fn(snap)
	}
}
