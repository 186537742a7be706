package postgres

import (
	"context"
	"time"

	"movemate-admin/internal/model"
	"movemate-admin/internal/store"
)

func (s *Store) SetResetTicket(ctx context.Context, userID string, t model.ResetTicket) error {
	tag, err := s.pool.Exec(ctx, `
		update public.admin_users
		set reset_token_hash = $2,
		    reset_token_expiry = $3,
		    updated_at = now()
		where id = $1
	`, userID, t.TokenHash, t.ExpiresAt.UTC())
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.AdminUser, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		select `+userColumns+`
		from public.admin_users
		where reset_token_hash = $1
		  and reset_token_expiry > $2
	`, tokenHash, now.UTC()))
}

func (s *Store) ConsumeResetTicket(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*model.AdminUser, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		update public.admin_users
		set password_hash = $3,
		    reset_token_hash = null,
		    reset_token_expiry = null,
		    updated_at = $2
		where reset_token_hash = $1
		  and reset_token_expiry > $2
		returning `+userColumns, tokenHash, now.UTC(), passwordHash))
}

func (s *Store) PurgeExpiredResetTickets(ctx context.Context, before time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		update public.admin_users
		set reset_token_hash = null,
		    reset_token_expiry = null
		where reset_token_hash is not null
		  and reset_token_expiry <= $1
	`, before.UTC())
	if err != nil {
		return 0, mapPgErr(err)
	}
	return int(tag.RowsAffected()), nil
}
