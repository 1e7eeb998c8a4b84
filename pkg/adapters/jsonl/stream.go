// Package jsonl serves the dispatcher over a JSON-Lines stream:
// one {"action", "arguments"} request per line in, one reply object per line out.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/agentkit/pkg/dispatch"
	"github.com/aretw0/agentkit/pkg/domain"
)

// MaxLineBytes bounds a single request line.
const MaxLineBytes = 1 << 20

// errorLine is written for lines that are not valid requests.
type errorLine struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Stream runs a dispatcher over a reader/writer pair.
type Stream struct {
	dispatcher *dispatch.Dispatcher
	session    *dispatch.Session
	logger     *slog.Logger
}

type Option func(*Stream)

func WithLogger(l *slog.Logger) Option {
	return func(s *Stream) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStream creates a stream over d.
func NewStream(d *dispatch.Dispatcher, opts ...Option) *Stream {
	s := &Stream{
		dispatcher: d,
		session:    dispatch.NewSession(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the connection state.
func (s *Stream) Session() *dispatch.Session { return s.session }

// Serve processes requests in order until r reaches EOF or ctx is done.
// EOF returns nil; cancellation returns ctx.Err().
func (s *Stream) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	if err := s.session.Listen(); err != nil {
		return err
	}
	defer s.session.Close()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-s.session.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read request: %w", err)
					}
				default:
				}
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := s.handleLine(ctx, line, enc); err != nil {
				return err
			}
		}
	}
}

func (s *Stream) handleLine(ctx context.Context, line string, enc *json.Encoder) error {
	var req domain.DispatchRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.logger.Warn("Stream: invalid request line", "err", err, "size", len(line))
		return enc.Encode(errorLine{Error: "Error: invalid request: " + err.Error()})
	}
	if req.Action == "" {
		return enc.Encode(errorLine{Error: "Error: invalid request: missing action"})
	}

	if err := s.session.Begin(); err != nil {
		if errors.Is(err, dispatch.ErrSessionClosed) {
			return nil
		}
		return err
	}
	reply := s.dispatcher.Handle(ctx, req)
	s.session.End()

	if err := enc.Encode(reply); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}
	return nil
}
