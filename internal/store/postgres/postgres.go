package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movemate-admin/internal/model"
	"movemate-admin/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
create table if not exists public.admin_users (
	id text primary key,
	email text not null unique,
	password_hash text not null,
	name text not null default '',
	role text not null default 'admin',
	avatar text not null default '',
	last_login_at timestamptz null,
	security_question text not null default '',
	security_answer_hash text not null default '',
	reset_token_hash text null,
	reset_token_expiry timestamptz null,
	created_at timestamptz not null default now(),
	updated_at timestamptz not null default now()
);

create unique index if not exists idx_admin_users_reset_token
	on public.admin_users (reset_token_hash)
	where reset_token_hash is not null;
`

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	// Ping to fail fast.
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate creates the admin_users table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", mapPgErr(err))
	}
	return nil
}

// Seed inserts users that are not present yet. Existing rows keep their
// current password and ticket. Returns the number of rows inserted.
func (s *Store) Seed(ctx context.Context, users []model.AdminUser) (int, error) {
	inserted := 0
	for _, u := range users {
		tag, err := s.pool.Exec(ctx, `
			insert into public.admin_users
				(id, email, password_hash, name, role, avatar, last_login_at,
				 security_question, security_answer_hash, created_at, updated_at)
			values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			on conflict do nothing
		`, u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.Avatar, u.LastLoginAt,
			u.SecurityQuestion, u.SecurityAnswerHash, u.CreatedAt)
		if err != nil {
			return inserted, fmt.Errorf("seed %s: %w", u.Email, mapPgErr(err))
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func mapPgErr(err error) error {
	// Unique violation, etc.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return store.ErrConflict
		case "23503":
			return store.ErrNotFound
		default:
			return fmt.Errorf("db_error %s: %s", pgErr.Code, pgErr.Message)
		}
	}
	return err
}

var _ store.Directory = (*Store)(nil)
var _ store.TicketPurger = (*Store)(nil)
