package postgres

import (
	"context"
	"errors"
	"time"

	"movemate-admin/internal/model"
	"movemate-admin/internal/secret"
	"movemate-admin/internal/store"

	"github.com/jackc/pgx/v5"
)

const userColumns = `
	id, email, password_hash, name, role, avatar, last_login_at,
	security_question, security_answer_hash,
	coalesce(reset_token_hash, ''), reset_token_expiry,
	created_at, updated_at
`

func scanUser(row pgx.Row) (*model.AdminUser, error) {
	var u model.AdminUser
	var role string
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&role,
		&u.Avatar,
		&u.LastLoginAt,
		&u.SecurityQuestion,
		&u.SecurityAnswerHash,
		&u.ResetTokenHash,
		&u.ResetTokenExpiry,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	u.Role = model.Role(role)
	return &u, nil
}

func (s *Store) FindByCredentials(ctx context.Context, email, password string) (*model.AdminUser, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !secret.CheckPassword(u.PasswordHash, password) {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		select `+userColumns+`
		from public.admin_users
		where id = $1
	`, id))
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		select `+userColumns+`
		from public.admin_users
		where email = $1
	`, email))
}

func (s *Store) ListUsers(ctx context.Context) ([]model.AdminUser, error) {
	rows, err := s.pool.Query(ctx, `
		select `+userColumns+`
		from public.admin_users
		order by email asc
	`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.AdminUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		update public.admin_users
		set last_login_at = $2, updated_at = now()
		where id = $1
	`, userID, at.UTC())
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
