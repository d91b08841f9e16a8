package backoffice

import (
	"context"

	"tinytreats/pkg/client"
)

// Session is the in-memory admin authentication gate. State starts
// LoggedOut and flips on a successful backend login; nothing is
// persisted, so a fresh Session always re-prompts for the password.
type Session struct {
	api       *client.Client
	loggedIn  bool
	lastError string
}

// NewSession creates a logged-out session
func NewSession(api *client.Client) *Session {
	return &Session{api: api}
}

// Login submits the password to the backend. Success flips the session
// to logged in and clears the inline error; failure records the error
// and leaves the session logged out. Attempts are unlimited.
func (s *Session) Login(ctx context.Context, password string) error {
	if err := s.api.Login(ctx, password); err != nil {
		s.loggedIn = false
		s.lastError = err.Error()
		return err
	}
	s.loggedIn = true
	s.lastError = ""
	return nil
}

// Logout reverts the session to its initial state
func (s *Session) Logout() {
	s.api.Logout()
	s.loggedIn = false
	s.lastError = ""
}

// LoggedIn reports whether the gate is open
func (s *Session) LoggedIn() bool {
	return s.loggedIn
}

// Error returns the inline error from the last failed login
func (s *Session) Error() string {
	return s.lastError
}

// ChangePassword rotates the admin password given the current one
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return s.api.ChangePassword(ctx, oldPassword, newPassword)
}

// ResetPassword rotates the admin password using the master key; the
// caller returns the UI to the normal login form on success
func (s *Session) ResetPassword(ctx context.Context, masterKey, newPassword string) error {
	return s.api.ResetPassword(ctx, masterKey, newPassword)
}
