package cron

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgredis "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

func TestRedisLockIsExclusive(t *testing.T) {
	mr := miniredis.RunT(t)
	client := pkgredis.NewFromRaw(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	first, err := NewRedisLock(client, "jc:maintenance:lock:test", time.Minute)
	require.NoError(t, err)
	second, err := NewRedisLock(client, "jc:maintenance:lock:test", time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("jc:maintenance:lock:test"))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// a lock that never acquired must not free someone else's key
	require.NoError(t, second.Release(ctx))
	assert.True(t, mr.Exists("jc:maintenance:lock:test"))

	require.NoError(t, first.Release(ctx))
	assert.False(t, mr.Exists("jc:maintenance:lock:test"))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockExpiredKeyIsNotDeletedByOldOwner(t *testing.T) {
	mr := miniredis.RunT(t)
	client := pkgredis.NewFromRaw(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	stale, err := NewRedisLock(client, "lock", time.Second)
	require.NoError(t, err)
	fresh, err := NewRedisLock(client, "lock", time.Minute)
	require.NoError(t, err)

	ok, err := stale.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	ok, err = fresh.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, stale.Release(ctx))
	assert.True(t, mr.Exists("lock"))
}

func TestNewRedisLockValidates(t *testing.T) {
	_, err := NewRedisLock(nil, "k", time.Second)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client := pkgredis.NewFromRaw(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	_, err = NewRedisLock(client, "", time.Second)
	assert.Error(t, err)

	lock, err := NewRedisLock(client, "k", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultLockTTL, lock.ttl)
}
