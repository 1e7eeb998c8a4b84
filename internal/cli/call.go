package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/agentkit/pkg/dispatch"
)

// ErrActionFailed is returned when a dispatched action does not succeed.
var ErrActionFailed = errors.New("action failed")

// CallArguments turns command line words into dispatch arguments.
// A single word is passed through as JSON or key=value text. Several words
// are quoted back into one key=value string so values keep their spaces.
func CallArguments(words []string) any {
	switch len(words) {
	case 0:
		return nil
	case 1:
		return words[0]
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = "'" + strings.ReplaceAll(w, "'", `'"'"'`) + "'"
	}
	return strings.Join(quoted, " ")
}

// Call dispatches one action and prints the reply text to w.
func Call(ctx context.Context, d *dispatch.Dispatcher, action string, words []string, w io.Writer) error {
	reply := d.Dispatch(ctx, action, CallArguments(words))
	if _, err := fmt.Fprintln(w, reply.Text); err != nil {
		return err
	}
	if !reply.OK() {
		return fmt.Errorf("%w: %s", ErrActionFailed, reply.Outcome)
	}
	return nil
}
