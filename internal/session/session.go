package session

import (
	"sync"

	"github.com/google/uuid"

	"dessertlab/internal/models"
)

// Session holds the per-visitor application state: the current user (nil
// until login) and the cart. It is created empty at session start and passed
// explicitly to every consumer; there is no process-global state.
type Session struct {
	ID   string
	User *models.User
	Cart models.Cart

	mu sync.Mutex
}

// Do runs fn while holding the session lock. All cart and user mutations go
// through here so concurrent requests for the same session serialize.
func (s *Session) Do(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// UserEmail returns the logged-in user's email, or "" when anonymous.
func (s *Session) UserEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.User == nil {
		return ""
	}
	return s.User.Email
}

// IsAdmin reports whether the session's user carries the admin role.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.User != nil && s.User.Role == models.RoleAdmin
}

// Store is an in-memory session registry keyed by session id.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for an id, or nil when unknown.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// GetOrCreate returns the session for an id, creating a fresh one when the
// id is unknown or empty. Unknown ids get a newly generated id rather than
// adopting the caller-supplied one.
func (st *Store) GetOrCreate(id string) *Session {
	if id != "" {
		if sess := st.Get(id); sess != nil {
			return sess
		}
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	sess := &Session{ID: uuid.New().String()}
	st.sessions[sess.ID] = sess
	return sess
}

// Reset drops the session's user and empties its cart, keeping the session
// alive. Called at logout.
func (st *Store) Reset(id string) {
	sess := st.Get(id)
	if sess == nil {
		return
	}
	sess.Do(func(s *Session) {
		s.User = nil
		s.Cart.Clear()
	})
}

// Delete removes a session entirely.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
