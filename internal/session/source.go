package session

import (
	"sync"

	"github.com/google/uuid"
)

// Transition is one identity change. Zero uuid means "no authenticated user"
// on that side (login from logged-out, or logout).
type Transition struct {
	New uuid.UUID
	Old uuid.UUID
}

// Source exposes the current session identity and its transition stream.
// This is the seam to the auth collaborator: whatever verifies credentials
// pushes the resulting identity in here.
type Source interface {
	Current() uuid.UUID
	Transitions() <-chan Transition
}

// IdentitySource is the in-process Source implementation. Set and Clear are
// called by the session endpoint after token verification.
type IdentitySource struct {
	mu          sync.Mutex
	current     uuid.UUID
	transitions chan Transition
}

func NewIdentitySource() *IdentitySource {
	return &IdentitySource{
		transitions: make(chan Transition, 8),
	}
}

func (s *IdentitySource) Current() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *IdentitySource) Transitions() <-chan Transition {
	return s.transitions
}

// Set switches the active identity. Setting the identity already active is a
// no-op and emits no transition.
func (s *IdentitySource) Set(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == s.current {
		return
	}
	old := s.current
	s.current = id
	s.transitions <- Transition{New: id, Old: old}
}

// Clear logs out.
func (s *IdentitySource) Clear() {
	s.Set(uuid.Nil)
}
