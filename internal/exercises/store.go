package exercises

import (
	"errors"
	"sync"

	"github.com/2beens/fitdash/internal/calendar"
)

var ErrViewNotLoaded = errors.New("dashboard view not loaded")

// View is the forest currently displayed for a dashboard session.
type View struct {
	Range  calendar.Range `json:"range"`
	Forest Forest         `json:"forest"`
}

// Store holds one View per dashboard session. Views are immutable snapshots;
// Apply swaps them atomically, so concurrent requests of the same session are
// serialized the way UI events are.
type Store struct {
	mu    sync.Mutex
	views map[string]View
}

func NewStore() *Store {
	return &Store{
		views: make(map[string]View),
	}
}

func (s *Store) Get(sessionID string) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[sessionID]
	return v, ok
}

func (s *Store) Set(sessionID string, view View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[sessionID] = view
}

func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, sessionID)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

// Apply runs op on the session's current forest and stores the result.
// A NotFound outcome leaves the stored view as it was.
func (s *Store) Apply(sessionID string, op func(Forest) (Forest, Outcome)) (View, Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[sessionID]
	if !ok {
		return View{}, NotFound, ErrViewNotLoaded
	}

	forest, outcome := op(v.Forest)
	if outcome == Found {
		v.Forest = forest
		s.views[sessionID] = v
	}
	return v, outcome, nil
}
