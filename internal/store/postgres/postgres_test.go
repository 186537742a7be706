package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"movemate-admin/internal/model"
	"movemate-admin/internal/secret"
	"movemate-admin/internal/seed"
	"movemate-admin/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// setupTestDB creates a new PostgreSQL store for testing.
// It skips tests if DATABASE_URL is not set.
func setupTestDB(t *testing.T) (*Store, func()) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set, skipping PostgreSQL tests")
	}
	secret.BcryptCost = bcrypt.MinCost

	pool, err := pgxpool.New(context.Background(), databaseURL)
	require.NoError(t, err)
	_, err = pool.Exec(context.Background(), `drop table if exists public.admin_users`)
	require.NoError(t, err)
	pool.Close()

	s, err := NewStore(databaseURL)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))

	users, err := seed.Build(seed.Default(), time.Now().UTC())
	require.NoError(t, err)
	n, err := s.Seed(context.Background(), users)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	return s, s.Close
}

func TestSeedIsIdempotent(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	users, err := seed.Build(seed.Default(), time.Now().UTC())
	require.NoError(t, err)
	n, err := s.Seed(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	all, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLookups(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	u, err := s.FindByCredentials(ctx, "admin@movemate.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, model.RoleAdmin, u.Role)

	_, err = s.FindByCredentials(ctx, "admin@movemate.com", "wrong")
	assert.ErrorIs(t, err, store.ErrNotFound)

	u, err = s.FindByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "john@movemate.com", u.Email)

	_, err = s.FindByEmail(ctx, "ghost@movemate.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResetTicketFlow(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	hash := secret.HashToken("pg-token")

	require.NoError(t, s.SetResetTicket(ctx, "1", model.ResetTicket{TokenHash: hash, ExpiresAt: now.Add(30 * time.Minute)}))

	u, err := s.FindByResetToken(ctx, hash, now)
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = s.FindByResetToken(ctx, hash, now.Add(30*time.Minute))
	assert.ErrorIs(t, err, store.ErrNotFound)

	pw, err := secret.HashPassword("brandnew")
	require.NoError(t, err)
	_, err = s.ConsumeResetTicket(ctx, hash, now, pw)
	require.NoError(t, err)

	_, err = s.ConsumeResetTicket(ctx, hash, now, pw)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.FindByCredentials(ctx, "admin@movemate.com", "brandnew")
	assert.NoError(t, err)
}

func TestPurgeAndRecordLogin(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.SetResetTicket(ctx, "3", model.ResetTicket{TokenHash: "stale", ExpiresAt: now.Add(-time.Minute)}))
	n, err := s.PurgeExpiredResetTickets(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.RecordLogin(ctx, "3", now))
	assert.ErrorIs(t, s.RecordLogin(ctx, "nope", now), store.ErrNotFound)
}
