package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageGetSetClear(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()
	st := s.Durable("client-a")

	_, err := st.Get(ctx, KeyUserID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Set(ctx, KeyUserID, "1"))
	v, err := st.Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, st.Clear(ctx, KeyUserID))
	_, err = st.Get(ctx, KeyUserID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing a missing key is fine.
	assert.NoError(t, st.Clear(ctx, KeyUserID))
}

func TestMemoryStorageIsolation(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	require.NoError(t, s.Durable("a").Set(ctx, KeyUserID, "1"))

	_, err := s.Durable("b").Get(ctx, KeyUserID)
	assert.ErrorIs(t, err, ErrNotFound, "clients must not share storage")

	_, err = s.Tab("a").Get(ctx, KeyUserID)
	assert.ErrorIs(t, err, ErrNotFound, "scopes must not share storage")
}

func TestMemoryStorageExpiry(t *testing.T) {
	now := time.Date(2025, 4, 28, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour, time.Minute).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Tab("a").Set(ctx, KeyResetEmail, "admin@movemate.com"))
	require.NoError(t, s.Durable("a").Set(ctx, KeyUserID, "1"))

	now = now.Add(time.Minute)
	_, err := s.Tab("a").Get(ctx, KeyResetEmail)
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := s.Durable("a").Get(ctx, KeyUserID)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, s.Sweep())
	_, err = s.Durable("a").Get(ctx, KeyUserID)
	assert.ErrorIs(t, err, ErrNotFound)
}
