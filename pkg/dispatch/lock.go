package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/agentkit/pkg/ports"
)

// SignerKey is the lock key held around mutating actions.
const SignerKey = "signer"

// DefaultLockTTL bounds how long a crashed replica can hold the signer lock.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// keyedLock serializes work per key within the process and, when a
// distributed locker is set, across replicas.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry

	locker ports.DistributedLocker
	ttl    time.Duration
	warn   func(msg string, args ...any)
}

func newKeyedLock(locker ports.DistributedLocker, ttl time.Duration, warn func(string, ...any)) *keyedLock {
	return &keyedLock{
		locks:  make(map[string]*lockEntry),
		locker: locker,
		ttl:    ttl,
		warn:   warn,
	}
}

func (k *keyedLock) acquire(key string) *lockEntry {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (k *keyedLock) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry, ok := k.locks[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(k.locks, key)
	}
}

// with runs fn while holding the lock for key.
func (k *keyedLock) with(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := k.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		k.release(key)
	}()

	if k.locker != nil {
		unlock, err := k.locker.Lock(ctx, key, k.ttl)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				k.warn("Failed to release distributed lock (will expire via TTL)", "key", key, "err", err)
			}
		}()
	}

	return fn(ctx)
}
