package session

import (
	"sync"
	"time"
)

// Session is the explicit login state of one dashboard user: the id handed to
// the browser, and the bearer token used against the fitness backend.
// It is created at login and torn down by Expire, either on logout or when the
// backend rejects the bearer token.
type Session struct {
	ID          string    `json:"-"`
	BearerToken string    `json:"bearerToken"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`

	mu       sync.Mutex
	expired  bool
	onExpire []func(s *Session)
}

func New(id, bearerToken, email string, createdAt time.Time) *Session {
	return &Session{
		ID:          id,
		BearerToken: bearerToken,
		Email:       email,
		CreatedAt:   createdAt,
	}
}

// OnExpire registers a teardown hook. Hooks registered on an already expired
// session run right away.
func (s *Session) OnExpire(fn func(s *Session)) {
	s.mu.Lock()
	if s.expired {
		s.mu.Unlock()
		fn(s)
		return
	}
	s.onExpire = append(s.onExpire, fn)
	s.mu.Unlock()
}

// Expire marks the session as logged out and runs the teardown hooks once.
func (s *Session) Expire() {
	s.mu.Lock()
	if s.expired {
		s.mu.Unlock()
		return
	}
	s.expired = true
	hooks := s.onExpire
	s.onExpire = nil
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(s)
	}
}

func (s *Session) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}
