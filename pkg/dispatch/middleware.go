package dispatch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

// Call is one dispatch as seen by interceptors.
type Call struct {
	ID       string
	Action   string
	Mutating bool
	Args     any
}

// Interceptor can block a call before its handler runs.
// It returns true if execution should proceed; otherwise reason explains the denial.
// A non-nil error is a system failure, not a policy decision.
type Interceptor func(ctx context.Context, call Call) (allowed bool, reason string, err error)

// MultiInterceptor chains interceptors; the first denial wins.
func MultiInterceptor(interceptors ...Interceptor) Interceptor {
	return func(ctx context.Context, call Call) (bool, string, error) {
		for _, interceptor := range interceptors {
			allowed, reason, err := interceptor(ctx, call)
			if err != nil {
				return false, "", err
			}
			if !allowed {
				return false, reason, nil
			}
		}
		return true, "", nil
	}
}

// AutoApprove allows everything.
func AutoApprove() Interceptor {
	return func(ctx context.Context, call Call) (bool, string, error) {
		return true, "", nil
	}
}

// AllowList permits only the named actions. An empty list allows everything.
func AllowList(names ...string) Interceptor {
	return func(ctx context.Context, call Call) (bool, string, error) {
		if len(names) == 0 || slices.Contains(names, call.Action) {
			return true, "", nil
		}
		return false, fmt.Sprintf("action %s is not allowed", call.Action), nil
	}
}

// ReadOnly blocks every mutating action.
func ReadOnly() Interceptor {
	return func(ctx context.Context, call Call) (bool, string, error) {
		if call.Mutating {
			return false, fmt.Sprintf("action %s is disabled in read-only mode", call.Action), nil
		}
		return true, "", nil
	}
}

// Confirmer asks a human whether a call may run.
type Confirmer interface {
	Confirm(ctx context.Context, call Call) (bool, error)
}

// ConfirmMutating asks c before every mutating action.
func ConfirmMutating(c Confirmer) Interceptor {
	return func(ctx context.Context, call Call) (bool, string, error) {
		if !call.Mutating {
			return true, "", nil
		}
		ok, err := c.Confirm(ctx, call)
		if err != nil {
			return false, "", err
		}
		if !ok {
			return false, "User denied execution by policy", nil
		}
		return true, "", nil
	}
}

// PromptConfirmer writes a prompt to Out and reads a y/yes answer from In.
type PromptConfirmer struct {
	mu     sync.Mutex
	out    io.Writer
	reader *bufio.Reader
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{out: out, reader: bufio.NewReader(in)}
}

func (p *PromptConfirmer) Confirm(ctx context.Context, call Call) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	args, _ := json.Marshal(call.Args)
	if _, err := fmt.Fprintf(p.out, "Action Request: '%s' (ID: %s)\nArgs: %s\nAllow execution? [y/N] ", call.Action, call.ID, args); err != nil {
		return false, err
	}

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := p.reader.ReadString('\n')
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		if a.err != nil && a.line == "" {
			if a.err == io.EOF {
				return false, nil
			}
			return false, a.err
		}
		input := strings.TrimSpace(strings.ToLower(a.line))
		return input == "y" || input == "yes", nil
	}
}
