package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(&Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestLockIsExclusive(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	ok, err := client.AcquireLock(ctx, "lock:stock:p1:w1", "owner-a", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.AcquireLock(ctx, "lock:stock:p1:w1", "owner-b", 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReleaseLockOnlyByOwner(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	_, err := client.AcquireLock(ctx, "lock:k", "owner-a", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, client.ReleaseLock(ctx, "lock:k", "owner-b"))
	assert.True(t, mr.Exists("lock:k"))

	require.NoError(t, client.ReleaseLock(ctx, "lock:k", "owner-a"))
	assert.False(t, mr.Exists("lock:k"))
}

func TestLockExpires(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	_, err := client.AcquireLock(ctx, "lock:k", "owner-a", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	ok, err := client.AcquireLock(ctx, "lock:k", "owner-b", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJSONRoundTripAndPatternDelete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	type page struct {
		Items []string
		Total int
	}

	var got page
	hit, err := client.GetJSON(ctx, "products:list:a", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, client.SetJSON(ctx, "products:list:a", page{Items: []string{"x"}, Total: 1}, time.Minute))
	require.NoError(t, client.SetJSON(ctx, "products:list:b", page{}, time.Minute))
	require.NoError(t, client.SetJSON(ctx, "other:key", page{}, time.Minute))

	hit, err = client.GetJSON(ctx, "products:list:a", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, got.Total)

	n, err := client.DeletePattern(ctx, "products:list:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	hit, err = client.GetJSON(ctx, "other:key", &got)
	require.NoError(t, err)
	assert.True(t, hit)
}
