package pipeline

import (
	"sync"
	"time"
)

// Session is the only cross-cycle mutable state: the last successfully
// recognized character name and the debounce clock. It replaces the ambient
// globals of the old tooling with an explicit, mutex-guarded object.
type Session struct {
	mu          sync.Mutex
	lastName    string
	lastTrigger time.Time
	debounce    time.Duration
}

func NewSession(debounce time.Duration) *Session {
	return &Session{debounce: debounce}
}

// TryBegin records a trigger at now and reports whether a cycle may run.
// A trigger inside the debounce window is rejected outright: not queued,
// not merged, and it does not move the clock.
func (s *Session) TryBegin(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lastTrigger.IsZero() && now.Sub(s.lastTrigger) < s.debounce {
		return false
	}
	s.lastTrigger = now
	return true
}

// FallbackName applies the carry-over invariant. A non-empty candidate
// replaces the stored name unconditionally and is returned; an empty
// candidate returns the stored name and leaves it untouched. The stored name
// is monotonically replaced, never cleared by a miss.
func (s *Session) FallbackName(candidate string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if candidate != "" {
		s.lastName = candidate
		return candidate
	}
	return s.lastName
}

// LastName returns the last known character name.
func (s *Session) LastName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastName
}
