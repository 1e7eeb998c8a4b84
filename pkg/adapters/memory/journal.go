// Package memory provides in-process implementations of the dispatch ports.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/agentkit/pkg/domain"
)

// DefaultCapacity is the number of records a Journal keeps by default.
const DefaultCapacity = 1000

// Journal implements ports.Journal with a bounded ring buffer.
// Safe for concurrent use.
type Journal struct {
	mu   sync.RWMutex
	buf  []domain.Record
	next int
	full bool
}

// NewJournal creates a journal keeping the last capacity records.
func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{buf: make([]domain.Record, capacity)}
}

// Append stores rec, evicting the oldest record when full.
func (j *Journal) Append(ctx context.Context, rec domain.Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.buf[j.next] = rec
	j.next = (j.next + 1) % len(j.buf)
	if j.next == 0 {
		j.full = true
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	n := j.next
	if j.full {
		n = len(j.buf)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (j.next - i + len(j.buf)) % len(j.buf)
		out = append(out, j.buf[idx])
	}
	return out, nil
}
