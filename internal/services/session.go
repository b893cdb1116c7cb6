package services

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Session holds the per-sign-in client state: the mutation guard, the
// swipe deck and the set of candidates skipped this session. None of it is
// persisted; signing in again (or reloading) starts a fresh session and
// resets the guard.
type Session struct {
	ID          string
	UserID      uint
	FirebaseUID string

	mu      sync.Mutex
	mutated map[string]struct{}
	skipped map[uint]struct{}
	deck    []uint
	cursor  int
}

func newSession(userID uint, firebaseUID string) *Session {
	return &Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		FirebaseUID: firebaseUID,
		mutated:     make(map[string]struct{}),
		skipped:     make(map[uint]struct{}),
	}
}

// MarkMutated records a mutation key and reports whether it was newly
// recorded. A false return means the same mutation was already issued this
// session and must not be re-applied.
func (s *Session) MarkMutated(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mutated[key]; ok {
		return false
	}
	s.mutated[key] = struct{}{}
	return true
}

// UnmarkMutated releases a mutation key after a failed write so the client
// can retry.
func (s *Session) UnmarkMutated(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mutated, key)
}

// HasMutated reports whether the key was already mutated this session
func (s *Session) HasMutated(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.mutated[key]
	return ok
}

// Skip marks a candidate as skipped for the rest of the session. Skips are
// never persisted.
func (s *Session) Skip(candidateID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped[candidateID] = struct{}{}
}

// HasSkipped reports whether the candidate was skipped this session
func (s *Session) HasSkipped(candidateID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.skipped[candidateID]
	return ok
}

// SessionRegistry tracks the active session per user. Starting a session
// replaces any previous one for the same user.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uint]*Session
}

// NewSessionRegistry creates an empty session registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[uint]*Session)}
}

// Start creates a fresh session for the user, discarding any existing one
func (r *SessionRegistry) Start(userID uint, firebaseUID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess := newSession(userID, firebaseUID)
	r.sessions[userID] = sess
	log.Debug().Uint("user_id", userID).Str("session_id", sess.ID).Msg("Session started")
	return sess
}

// Get returns the active session for a user, if any
func (r *SessionRegistry) Get(userID uint) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[userID]
	return sess, ok
}

// GetOrStart returns the active session, creating one when the user signed
// in before the server restarted or through another path.
func (r *SessionRegistry) GetOrStart(userID uint, firebaseUID string) *Session {
	if sess, ok := r.Get(userID); ok {
		return sess
	}
	return r.Start(userID, firebaseUID)
}

// End discards the user's session at sign-out
func (r *SessionRegistry) End(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	log.Debug().Uint("user_id", userID).Msg("Session ended")
}
