package main

import "sync"

// Session holds the showcase's authentication state. The login page writes
// it, the dashboard guard reads it.
type Session struct {
	mu   sync.Mutex
	user string
}

// LogIn records the signed-in user.
func (s *Session) LogIn(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// LogOut clears the session.
func (s *Session) LogOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = ""
}

// User returns the signed-in user, empty when logged out.
func (s *Session) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// LoggedIn reports whether a user is signed in.
func (s *Session) LoggedIn() bool {
	return s.User() != ""
}
