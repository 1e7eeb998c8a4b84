package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiInterceptor(t *testing.T) {
	ctx := context.Background()
	deny := func(reason string) Interceptor {
		return func(ctx context.Context, call Call) (bool, string, error) {
			return false, reason, nil
		}
	}

	allowed, _, err := MultiInterceptor(AutoApprove(), AllowList())(ctx, Call{Action: "GET_TPS"})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, reason, err := MultiInterceptor(AutoApprove(), deny("first"), deny("second"))(ctx, Call{Action: "GET_TPS"})
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, "first", reason)

	boom := errors.New("boom")
	_, _, err = MultiInterceptor(func(ctx context.Context, call Call) (bool, string, error) {
		return false, "", boom
	}, deny("never"))(ctx, Call{})
	assert.ErrorIs(t, err, boom)
}

func TestAllowList(t *testing.T) {
	i := AllowList("GET_TPS", "PYTH_FETCH_PRICE")

	allowed, _, _ := i(context.Background(), Call{Action: "GET_TPS"})
	assert.True(t, allowed)

	allowed, reason, _ := i(context.Background(), Call{Action: "TRANSFER"})
	assert.False(t, allowed)
	assert.Equal(t, "action TRANSFER is not allowed", reason)
}

type stubConfirmer struct {
	answer bool
	err    error
	calls  int
}

func (s *stubConfirmer) Confirm(ctx context.Context, call Call) (bool, error) {
	s.calls++
	return s.answer, s.err
}

func TestConfirmMutating(t *testing.T) {
	ctx := context.Background()

	c := &stubConfirmer{answer: false}
	allowed, _, err := ConfirmMutating(c)(ctx, Call{Action: "GET_TPS"})
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, c.calls, "read-only actions are not confirmed")

	allowed, reason, err := ConfirmMutating(c)(ctx, Call{Action: "TRANSFER", Mutating: true})
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, "User denied execution by policy", reason)

	c = &stubConfirmer{answer: true}
	allowed, _, err = ConfirmMutating(c)(ctx, Call{Action: "TRANSFER", Mutating: true})
	require.NoError(t, err)
	assert.True(t, allowed)

	c = &stubConfirmer{err: io.ErrClosedPipe}
	_, _, err = ConfirmMutating(c)(ctx, Call{Action: "TRANSFER", Mutating: true})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPromptConfirmer(strings.NewReader(tt.input), &out)
		got, err := p.Confirm(context.Background(), Call{ID: "1", Action: "TRANSFER", Args: map[string]any{"amount": 1}})
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Action Request: 'TRANSFER' (ID: 1)")
		assert.Contains(t, out.String(), `Args: {"amount":1}`)
	}
}

func TestPromptConfirmer_ContextCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := NewPromptConfirmer(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Confirm(ctx, Call{Action: "TRANSFER"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
