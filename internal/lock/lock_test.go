package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_Acquire(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()

	release, err := l.Acquire(ctx, "finalize:1", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "finalize:1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	other, err := l.Acquire(ctx, "finalize:2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))

	again, err := l.Acquire(ctx, "finalize:1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocal_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)

	l := NewLocal()
	l.now = func() time.Time { return now }

	stale, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)

	fresh, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	// The expired holder must not clear the new holder's lock.
	require.NoError(t, stale(ctx))

	_, err = l.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, fresh(ctx))
}

func TestRedis_Acquire(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()

	client, err := Dial(ctx, addr, "", 0)
	require.NoError(t, err)

	defer client.Close()

	l := NewRedis(client, "comanda-test:")
	key := "finalize:" + uuid.NewString()

	release, err := l.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key, 5*time.Second)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, release(ctx))

	again, err := l.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}
