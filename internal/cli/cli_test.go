package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/agentkit/internal/config"
	"github.com/aretw0/agentkit/internal/logging"
	"github.com/aretw0/agentkit/pkg/dispatch"
	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/registry"
	"github.com/aretw0/agentkit/pkg/schema"
)

func testDispatcher(t *testing.T) *dispatch.Dispatcher {
	t.Helper()
	reg := registry.MustNew(registry.Descriptor{
		Name: "ECHO",
		Handler: registry.HandlerFunc(func(ctx context.Context, args any) (domain.Envelope, error) {
			return domain.Success([]string{"args"}, map[string]any{"args": args}), nil
		}),
	})
	return dispatch.New(reg)
}

func TestCallArguments(t *testing.T) {
	assert.Nil(t, CallArguments(nil))
	assert.Equal(t, `{"a":1}`, CallArguments([]string{`{"a":1}`}))
	assert.Equal(t, `'a=1' 'msg=hello world' 'q=it'"'"'s'`, CallArguments([]string{"a=1", "msg=hello world", "q=it's"}))
}

func TestCall(t *testing.T) {
	d := testDispatcher(t)
	var out bytes.Buffer

	require.NoError(t, Call(context.Background(), d, "ECHO", []string{"x=1"}, &out))
	assert.Contains(t, out.String(), `"args": "x=1"`)

	out.Reset()
	err := Call(context.Background(), d, "NOPE", nil, &out)
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.Equal(t, "Unknown action: NOPE\n", out.String())
}

func TestPrintActions(t *testing.T) {
	entries := testDispatcher(t).Registry().Entries()

	var buf bytes.Buffer
	require.NoError(t, PrintActions(&buf, entries, true))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)

	buf.Reset()
	require.NoError(t, PrintActions(&buf, entries, false))
	assert.Contains(t, buf.String(), "ECHO")
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "agentkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\nactions: [GET_TPS]\n"), 0o600))

	cfg, err := LoadConfig(Options{ConfigPath: path, LogFormat: "json", Actions: []string{"GET_BALANCE"}, ReadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"GET_BALANCE"}, cfg.Actions)
	assert.True(t, cfg.ReadOnly)

	_, err = LoadConfig(Options{ConfigPath: path, LogLevel: "loud"})
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestBuildKit_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Actions = []string{"GET_TPS", "TRANSFER"}
	cfg.ReadOnly = true

	kit, cleanup, err := BuildKit(context.Background(), cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, []string{"GET_TPS", "TRANSFER"}, kit.Registry().Names())
	reply := kit.Dispatch(context.Background(), "TRANSFER", map[string]any{"to": "x", "amount": 1})
	assert.Equal(t, dispatch.OutcomeDenied, reply.Outcome)

	records, err := kit.Dispatcher().Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.False(t, kit.Dispatcher().SharedLock(), "no cross-process lock without redis")
}

func TestBuildKit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()
	cfg.Actions = []string{"TRANSFER"}
	cfg.ReadOnly = true

	kit, cleanup, err := BuildKit(context.Background(), cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer cleanup()

	assert.True(t, kit.Dispatcher().SharedLock())
	kit.Dispatch(context.Background(), "TRANSFER", nil)
	records, err := kit.Dispatcher().Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 1)

	var journalKeys int
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, "agentkit:journal:") {
			journalKeys++
		}
	}
	assert.Positive(t, journalKeys)
}

func TestBuildKit_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := config.Default()
	cfg.Redis.Addr = addr
	_, _, err := BuildKit(context.Background(), cfg, logging.NewNop(), nil)
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestBuildKit_ActionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
actions:
  - name: PING
    url: https://example.com/ping
`), 0o600))
	cfg := config.Default()
	cfg.ActionsFile = path
	cfg.Actions = []string{"PING"}

	kit, cleanup, err := BuildKit(context.Background(), cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer cleanup()
	assert.Equal(t, []string{"PING"}, kit.Registry().Names())
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.Addr = "127.0.0.1:1"

	reg, err := Validate(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, len(domain.AllActions()), reg.Len())
}

func TestCheckArguments(t *testing.T) {
	reg, err := Validate(context.Background(), config.Default(), logging.NewNop())
	require.NoError(t, err)

	assert.NoError(t, CheckArguments(reg, "TRANSFER", []string{"to=abc", "amount=1.5"}))

	err = CheckArguments(reg, "TRANSFER", []string{"amount=-1"})
	require.Error(t, err)
	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], schema.ErrMissingField)

	assert.ErrorIs(t, CheckArguments(reg, "NOPE", nil), domain.ErrUnknownAction)
	assert.ErrorIs(t, CheckArguments(reg, "TRANSFER", []string{"not-a-pair"}), domain.ErrParse)
}

func TestSignalContext_CancelHasNoSignal(t *testing.T) {
	sc := NewSignalContext(context.Background())
	sc.Cancel()
	<-sc.Done()
	assert.Nil(t, sc.Signal())
}
