// Package redis provides Redis-backed implementations of the dispatch ports,
// shared by every replica pointing at the same server.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/agentkit/pkg/domain"
)

// DefaultTTL is how long journal records are kept.
const DefaultTTL = 24 * time.Hour

// Journal implements ports.Journal using Redis.
// Records are JSON values with a TTL, indexed by a sorted set scored by time.
type Journal struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Journal)

// WithTTL sets the expiration for records. 0 keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(j *Journal) {
		j.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(j *Journal) {
		j.prefix = prefix
	}
}

// NewClient connects to a redis:// URL or a bare host:port address.
func NewClient(addr string) (*backend.Client, error) {
	if opts, err := backend.ParseURL(addr); err == nil {
		return backend.NewClient(opts), nil
	}
	if addr == "" {
		return nil, fmt.Errorf("empty redis address")
	}
	return backend.NewClient(&backend.Options{Addr: addr}), nil
}

// NewJournal creates a journal over an existing client.
func NewJournal(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client: client,
		prefix: "agentkit:journal:",
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) key(id string) string {
	return j.prefix + "record:" + id
}

func (j *Journal) indexKey() string {
	return j.prefix + "index"
}

// Append stores the record and indexes it.
func (j *Journal) Append(ctx context.Context, rec domain.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := j.client.Pipeline()
	pipe.Set(ctx, j.key(rec.ID), data, j.ttl)
	pipe.ZAdd(ctx, j.indexKey(), backend.Z{
		Score:  float64(rec.At.UnixMilli()),
		Member: rec.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
// Index entries whose record expired are pruned on the way.
func (j *Journal) Recent(ctx context.Context, limit int) ([]domain.Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := j.client.ZRevRange(ctx, j.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = j.key(id)
	}
	vals, err := j.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}

	out := make([]domain.Record, 0, len(vals))
	var expired []any
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var rec domain.Record
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", ids[i], err)
		}
		out = append(out, rec)
	}
	if len(expired) > 0 {
		if err := j.client.ZRem(ctx, j.indexKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired records: %w", err)
		}
	}
	return out, nil
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}
