package ports

import (
	"context"

	"github.com/aretw0/agentkit/pkg/domain"
)

// Journal records dispatched calls. Entries hold outcomes only, never
// arguments or results.
type Journal interface {
	// Append stores one record.
	Append(ctx context.Context, rec domain.Record) error

	// Recent returns up to limit records, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]domain.Record, error)
}
