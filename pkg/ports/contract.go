package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/agentkit/pkg/domain"
)

// RunJournalContract verifies that a Journal implementation adheres to the
// interface contract. The journal must start empty.
func RunJournalContract(t *testing.T, j Journal) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("Empty", func(t *testing.T) {
		recs, err := j.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("Append and Recent", func(t *testing.T) {
		for i := range 3 {
			err := j.Append(ctx, domain.Record{
				ID:       fmt.Sprintf("rec-%d", i),
				Action:   "GET_TPS",
				OK:       i%2 == 0,
				Message:  "Success",
				Duration: time.Duration(i) * time.Millisecond,
				At:       base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err, "Append should not return error")
		}

		recs, err := j.Recent(ctx, 0)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "rec-2", recs[0].ID, "newest first")
		assert.Equal(t, "rec-0", recs[2].ID)
		assert.True(t, recs[0].At.Equal(base.Add(2*time.Second)))
		assert.Equal(t, 2*time.Millisecond, recs[0].Duration)
	})

	t.Run("Limit", func(t *testing.T) {
		recs, err := j.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "rec-2", recs[0].ID)
		assert.Equal(t, "rec-1", recs[1].ID)
	})
}

// RunLockerContract verifies mutual exclusion and release of a DistributedLocker.
func RunLockerContract(t *testing.T, l DistributedLocker) {
	ctx := context.Background()

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := l.Lock(ctx, "contract", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))

		unlock, err = l.Lock(ctx, "contract", 5*time.Second)
		require.NoError(t, err, "lock should be free again after unlock")
		require.NoError(t, unlock(ctx))
	})

	t.Run("Contention", func(t *testing.T) {
		unlock, err := l.Lock(ctx, "contended", 5*time.Second)
		require.NoError(t, err)

		short, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = l.Lock(short, "contended", 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded, "second holder must wait")

		require.NoError(t, unlock(ctx))
	})

	t.Run("Independent Keys", func(t *testing.T) {
		a, err := l.Lock(ctx, "key-a", 5*time.Second)
		require.NoError(t, err)
		b, err := l.Lock(ctx, "key-b", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, b(ctx))
		require.NoError(t, a(ctx))
	})
}
