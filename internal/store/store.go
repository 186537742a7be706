package store

import (
	"context"
	"errors"
	"time"

	"movemate-admin/internal/model"
)

var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
)

// Directory is the admin user directory. Records are seeded once; at
// runtime only reset tickets, password hashes and login timestamps change.
type Directory interface {
	FindByCredentials(ctx context.Context, email, password string) (*model.AdminUser, error)
	FindByID(ctx context.Context, id string) (*model.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AdminUser, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.AdminUser, error)
	ListUsers(ctx context.Context) ([]model.AdminUser, error)

	// SetResetTicket replaces whatever ticket the user holds.
	SetResetTicket(ctx context.Context, userID string, t model.ResetTicket) error
	// ConsumeResetTicket sets passwordHash on the owner of an unexpired
	// ticket and clears the ticket in one step.
	ConsumeResetTicket(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*model.AdminUser, error)
	RecordLogin(ctx context.Context, userID string, at time.Time) error
}

// TicketPurger is implemented by directories that can drop stale tickets.
type TicketPurger interface {
	PurgeExpiredResetTickets(ctx context.Context, before time.Time) (int, error)
}
