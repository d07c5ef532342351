package auth

import (
	"sync"

	"github.com/safar/go-storefront/internal/models"
)

// Session is the user the running client recognizes. The Directory owns it;
// everything else reads it.
type Session struct {
	mu   sync.RWMutex
	user *models.User
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Current returns a copy of the session user, or nil when logged out.
func (s *Session) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	u := s.user.Clone()
	return &u
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

func (s *Session) set(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u == nil {
		s.user = nil
		return
	}
	c := u.Clone()
	s.user = &c
}
