package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"movemate-admin/internal/model"
	"movemate-admin/internal/store"
)

type Store struct {
	mu sync.Mutex

	users   map[string]model.AdminUser
	byEmail map[string]string
}

// NewStore returns a directory holding users. Emails must already be
// normalized and unique; a later duplicate replaces an earlier one.
func NewStore(users []model.AdminUser) *Store {
	s := &Store{
		users:   make(map[string]model.AdminUser, len(users)),
		byEmail: make(map[string]string, len(users)),
	}
	for _, u := range users {
		s.users[u.ID] = u
		s.byEmail[u.Email] = u.ID
	}
	return s
}

func (s *Store) ListUsers(_ context.Context) ([]model.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AdminUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Email < out[j].Email
	})
	return out, nil
}

func (s *Store) lookupEmail(email string) (model.AdminUser, bool) {
	id, ok := s.byEmail[strings.TrimSpace(email)]
	if !ok {
		return model.AdminUser{}, false
	}
	u, ok := s.users[id]
	return u, ok
}

type errWithCode string

func (e errWithCode) Error() string { return string(e) }

var _ store.Directory = (*Store)(nil)
var _ store.TicketPurger = (*Store)(nil)
