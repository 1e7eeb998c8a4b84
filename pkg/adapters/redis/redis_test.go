package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/agentkit/pkg/adapters/redis"
	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/ports"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisJournal_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunJournalContract(t, redis.NewJournal(client))
}

func TestRedisLocker_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunLockerContract(t, redis.NewLocker(client, "test:"))
}

func TestRedisJournal_PrunesExpired(t *testing.T) {
	mr, client := newClient(t)
	j := redis.NewJournal(client, redis.WithTTL(time.Second), redis.WithPrefix("j:"))
	ctx := context.Background()

	require.NoError(t, j.Append(ctx, domain.Record{ID: "old", At: time.Now()}))
	assert.True(t, mr.Exists("j:record:old"))

	mr.FastForward(2 * time.Second)

	recs, err := j.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recs)

	members, err := mr.ZMembers("j:index")
	if err == nil {
		assert.Empty(t, members)
	}
}

func TestRedisLocker_KeyAndRelease(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "signer", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:signer"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:signer"))
}

func TestRedisLocker_ForeignTokenIsKept(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "signer", time.Second)
	require.NoError(t, err)

	// The lock expired and another replica took it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("test:lock:signer", "someone-else"))

	require.NoError(t, unlock(ctx))
	got, err := mr.Get("test:lock:signer")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, addr := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		c, err := redis.NewClient(addr)
		require.NoError(t, err)
		assert.NoError(t, c.Ping(context.Background()).Err(), addr)
		_ = c.Close()
	}

	_, err := redis.NewClient("")
	assert.Error(t, err)
}
