package model

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReauthFreshness is how long a successful re-authentication keeps a
// session fresh enough for identity deletion.
const ReauthFreshness = 5 * time.Minute

// Session is the explicit signed-in state threaded through destructive
// operations instead of an ambient current-user lookup. It records when
// the user last re-verified their password so the identity-deletion
// precondition can be checked statically.
type Session struct {
	UserID uuid.UUID
	Email  string

	mu           sync.Mutex
	lastReauthAt time.Time
}

// NewSession creates a session for a signed-in user.
func NewSession(userID uuid.UUID, email string) *Session {
	return &Session{UserID: userID, Email: email}
}

// MarkReauthenticated stamps a successful credential re-verification.
func (s *Session) MarkReauthenticated(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReauthAt = at
}

// Fresh reports whether the last re-authentication happened within the
// freshness window as of now.
func (s *Session) Fresh(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastReauthAt.IsZero() {
		return false
	}
	return now.Sub(s.lastReauthAt) <= ReauthFreshness
}
