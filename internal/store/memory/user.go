package memory

import (
	"context"
	"strings"
	"time"

	"movemate-admin/internal/model"
	"movemate-admin/internal/secret"
	"movemate-admin/internal/store"
)

func (s *Store) FindByCredentials(_ context.Context, email, password string) (*model.AdminUser, error) {
	s.mu.Lock()
	u, ok := s.lookupEmail(email)
	s.mu.Unlock()

	if !ok || !secret.CheckPassword(u.PasswordHash, password) {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindByID(_ context.Context, id string) (*model.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[strings.TrimSpace(id)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*model.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.lookupEmail(email)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) RecordLogin(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	at = at.UTC()
	u.LastLoginAt = &at
	s.users[userID] = u
	return nil
}
