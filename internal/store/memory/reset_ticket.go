package memory

import (
	"context"
	"strings"
	"time"

	"movemate-admin/internal/model"
	"movemate-admin/internal/secret"
	"movemate-admin/internal/store"
)

func (s *Store) SetResetTicket(_ context.Context, userID string, t model.ResetTicket) error {
	if strings.TrimSpace(t.TokenHash) == "" {
		return errWithCode("token_hash_required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	exp := t.ExpiresAt.UTC()
	u.ResetTokenHash = t.TokenHash
	u.ResetTokenExpiry = &exp
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u
	return nil
}

// findTicketLocked returns the id of the user holding an unexpired ticket
// for tokenHash. Caller holds s.mu.
func (s *Store) findTicketLocked(tokenHash string, now time.Time) (string, bool) {
	if tokenHash == "" {
		return "", false
	}
	for id, u := range s.users {
		t, ok := u.Ticket()
		if !ok || !secret.EqualHashes(t.TokenHash, tokenHash) {
			continue
		}
		if !t.Valid(now) {
			return "", false
		}
		return id, true
	}
	return "", false
}

func (s *Store) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*model.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.findTicketLocked(tokenHash, now)
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) ConsumeResetTicket(_ context.Context, tokenHash string, now time.Time, passwordHash string) (*model.AdminUser, error) {
	if strings.TrimSpace(passwordHash) == "" {
		return nil, errWithCode("password_hash_required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.findTicketLocked(tokenHash, now)
	if !ok {
		return nil, store.ErrNotFound
	}

	u := s.users[id]
	u.PasswordHash = passwordHash
	u.ResetTokenHash = ""
	u.ResetTokenExpiry = nil
	u.UpdatedAt = now.UTC()
	s.users[id] = u
	return &u, nil
}

func (s *Store) PurgeExpiredResetTickets(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, u := range s.users {
		t, ok := u.Ticket()
		if !ok || t.Valid(before) {
			continue
		}
		u.ResetTokenHash = ""
		u.ResetTokenExpiry = nil
		s.users[id] = u
		removed++
	}
	return removed, nil
}
