package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/agentkit/pkg/adapters/jsonl"
	"github.com/aretw0/agentkit/pkg/dispatch"
)

// Stream answers JSONL requests from r on w until EOF or cancellation.
func Stream(ctx context.Context, d *dispatch.Dispatcher, r io.Reader, w io.Writer, logger *slog.Logger) error {
	logger.Info("Serving JSONL requests", "actions", d.Registry().Len())
	return jsonl.NewStream(d, jsonl.WithLogger(logger)).Serve(ctx, r, w)
}
