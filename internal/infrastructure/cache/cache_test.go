package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Total int `json:"total"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute), mr
}

func TestFetchJSON_UsaCacheHastaBump(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: calls}, nil
	}

	key, err := c.BuildKey(ctx, "reports", "summary")
	require.NoError(t, err)
	assert.Equal(t, "reports:summary:1", key)

	var got payload
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 1, calls, "la segunda lectura sale de Redis")
	assert.Equal(t, 1, got.Total)

	require.NoError(t, c.Bump(ctx))
	key, err = c.BuildKey(ctx, "reports", "summary")
	require.NoError(t, err)
	assert.Equal(t, "reports:summary:2", key)

	require.NoError(t, c.FetchJSON(ctx, key, &got, loader))
	assert.Equal(t, 2, calls, "después del bump se recalcula")
	assert.Equal(t, 2, got.Total)
}

func TestFetchJSON_RespetaTTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: 7}, nil
	}
	var got payload
	require.NoError(t, c.FetchJSON(ctx, "k", &got, loader))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, c.FetchJSON(ctx, "k", &got, loader))
	assert.Equal(t, 2, calls)
}

func TestFetchJSON_ErrorDelLoaderNoSeCachea(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	boom := errors.New("boom")
	var got payload
	err := c.FetchJSON(ctx, "k", &got, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestCacheNil_EjecutaLoader(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)

	var got payload
	require.NoError(t, c.FetchJSON(ctx, key, &got, func(context.Context) (any, error) { return payload{Total: 3}, nil }))
	assert.Equal(t, 3, got.Total)
	assert.NoError(t, c.Bump(ctx))
}

func TestSubscribe_IgnoraAvisosPropios(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mr := miniredis.RunT(t)
	newClient := func() *redis.Client {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return client
	}
	other := New(newClient(), time.Minute)
	self := New(newClient(), time.Minute)

	var bumps atomic.Int32
	self.Subscribe(ctx, func(context.Context) { bumps.Add(1) })

	assert.Eventually(t, func() bool {
		_ = other.Bump(ctx)
		return bumps.Load() > 0
	}, 2*time.Second, 20*time.Millisecond, "el aviso de otra instancia debe llegar")

	time.Sleep(50 * time.Millisecond)
	bumps.Store(0)
	require.NoError(t, self.Bump(ctx))
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, bumps.Load(), "el aviso propio no dispara recarga")
}
