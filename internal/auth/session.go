package auth

import (
	"context"
	"fmt"
	"sync"

	"movemate-admin/internal/model"
	"movemate-admin/internal/session"
)

type State string

const (
	StateLoggedOut State = "loggedOut"
	StateLoggingIn State = "loggingIn"
	StateResetting State = "resetting"
	StateLoggedIn  State = "loggedIn"
)

func (s State) transient() bool {
	return s == StateLoggingIn || s == StateResetting
}

// Session is one client's view of the flow. Operations on the same Session
// must not overlap; a second call while one is running gets ErrBusy.
type Session struct {
	c       *Controller
	storage session.Storage

	mu      sync.Mutex
	state   State
	user    *model.AdminUser
	lastErr error
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (s *Session) CurrentUser() *model.AdminUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Err is the error of the last failed login, cleared by the next attempt.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) ClearError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Session) begin(transient State) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.transient() {
		return s.state, ErrBusy
	}
	prev := s.state
	s.state = transient
	s.lastErr = nil
	return prev, nil
}

func (s *Session) end(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// Login checks the credentials and, on success, makes the user current and
// persists its id. On failure the session is left as it was.
func (s *Session) Login(ctx context.Context, email, password string) (*model.AdminUser, error) {
	prev, err := s.begin(StateLoggingIn)
	if err != nil {
		return nil, err
	}

	u, err := s.c.login(ctx, email, password)
	if err == nil {
		if serr := s.storage.Set(ctx, session.KeyUserID, u.ID); serr != nil {
			err = fmt.Errorf("persist session: %w", serr)
		}
	}
	if err != nil {
		s.mu.Lock()
		s.state = prev
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.user = u
	s.state = StateLoggedIn
	s.mu.Unlock()

	out := *u
	return &out, nil
}

// Logout forgets the current user and its persisted id. It returns ErrBusy
// while another operation is running.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.state.transient() {
		s.mu.Unlock()
		return ErrBusy
	}
	had := s.user != nil
	s.user = nil
	s.lastErr = nil
	s.state = StateLoggedOut
	s.mu.Unlock()

	if had {
		s.c.metrics.Logout()
	}
	if err := s.storage.Clear(ctx, session.KeyUserID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Session) InitiatePasswordReset(ctx context.Context, email string) (*ResetRequest, error) {
	prev, err := s.begin(StateResetting)
	if err != nil {
		return nil, err
	}
	defer s.end(prev)
	return s.c.initiatePasswordReset(ctx, email)
}

func (s *Session) VerifySecurityAnswer(ctx context.Context, email, answer string) error {
	prev, err := s.begin(StateResetting)
	if err != nil {
		return err
	}
	defer s.end(prev)
	return s.c.verifySecurityAnswer(ctx, email, answer)
}

func (s *Session) ResetPassword(ctx context.Context, token, newPassword string) error {
	prev, err := s.begin(StateResetting)
	if err != nil {
		return err
	}
	defer s.end(prev)
	return s.c.resetPassword(ctx, token, newPassword)
}

// Sync reloads the session from durable storage so changes made through
// another process are picked up. It is a no-op while an operation runs.
func (s *Session) Sync(ctx context.Context) error {
	s.mu.Lock()
	if s.state.transient() {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	fresh, err := s.c.Open(ctx, s.storage)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.transient() {
		return nil
	}
	s.user = fresh.user
	s.state = fresh.state
	return nil
}
