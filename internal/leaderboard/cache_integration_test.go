//go:build integration

package leaderboard_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saulo-duarte/learnhub-lambda/internal/leaderboard"
)

func startRedis(ctx context.Context, t *testing.T) string {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { redisC.Terminate(context.Background()) })

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	addr := startRedis(ctx, t)

	cache, err := leaderboard.NewRedisCache(ctx, leaderboard.RedisOptions{Addr: addr, TTL: time.Minute})
	require.NoError(t, err)
	defer cache.Close()

	_, version, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	entries := []leaderboard.RankedEntry{
		{Rank: 1, UserID: uuid.New(), Name: "Dewi", XP: 120},
		{Rank: 2, UserID: uuid.New(), Name: "Budi", XP: 80},
	}
	require.NoError(t, cache.Store(ctx, entries, version))

	got, _, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entries, got)

	ttl, err := cache.Client.TTL(ctx, "lms:leaderboard:ranked").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.Invalidate(ctx))
	_, next, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, version+1, next)

	// A ranking computed before the invalidation is dropped.
	require.NoError(t, cache.Store(ctx, entries, version))
	_, _, ok, err = cache.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Store(ctx, entries, next))
	_, _, ok, err = cache.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}
