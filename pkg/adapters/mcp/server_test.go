package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/agentkit/pkg/dispatch"
	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/registry"
	"github.com/aretw0/agentkit/pkg/schema"
)

type rpcResponse struct {
	Result struct {
		Tools []struct {
			Name        string          `json:"name"`
			InputSchema json.RawMessage `json:"inputSchema"`
			Annotations struct {
				ReadOnlyHint *bool `json:"readOnlyHint"`
			} `json:"annotations"`
		} `json:"tools"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg, err := registry.New(
		registry.Descriptor{
			Name:        "GET_FUNDING_RATE",
			Description: "Get the funding rate of a perpetual market.",
			Schema:      schema.Schema{schema.Required("symbol", schema.String())},
			Handler: registry.HandlerFunc(func(ctx context.Context, args any) (domain.Envelope, error) {
				return domain.Success([]string{"funding_rate"}, map[string]any{"funding_rate": 0.01}), nil
			}),
		},
		registry.Descriptor{
			Name:     "TRANSFER",
			Mutating: true,
			Handler: registry.HandlerFunc(func(ctx context.Context, args any) (domain.Envelope, error) {
				return domain.Envelope{}, fmt.Errorf("signer offline")
			}),
		},
	)
	require.NoError(t, err)

	s, err := NewServer(dispatch.New(reg), nil)
	require.NoError(t, err)
	require.NoError(t, s.Session().Listen())
	return s
}

func rpc(t *testing.T, s *Server, method string, params any) rpcResponse {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(s.MCPServer().HandleMessage(context.Background(), msg))
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Nil(t, resp.Error, string(raw))
	return resp
}

func TestServer_ListsEveryActionAndDispatch(t *testing.T) {
	s := newTestServer(t)

	resp := rpc(t, s, "tools/list", map[string]any{})

	byName := map[string]bool{}
	for _, tool := range resp.Result.Tools {
		require.NotNil(t, tool.Annotations.ReadOnlyHint, tool.Name)
		byName[tool.Name] = *tool.Annotations.ReadOnlyHint
		assert.NotEmpty(t, tool.InputSchema, tool.Name)
	}
	assert.Len(t, byName, 3)
	assert.True(t, byName["GET_FUNDING_RATE"])
	assert.False(t, byName["TRANSFER"])
	assert.Contains(t, byName, DispatchTool)
}

func TestServer_CallTool(t *testing.T) {
	s := newTestServer(t)

	resp := rpc(t, s, "tools/call", map[string]any{
		"name":      "GET_FUNDING_RATE",
		"arguments": map[string]any{"symbol": "SOL-PERP"},
	})

	require.Len(t, resp.Result.Content, 1)
	assert.False(t, resp.Result.IsError)
	assert.Equal(t, "{\n  \"funding_rate\": 0.01,\n  \"message\": \"Success\"\n}", resp.Result.Content[0].Text)
	assert.Equal(t, dispatch.StateListening, s.Session().State())
}

func TestServer_DispatchTool(t *testing.T) {
	s := newTestServer(t)

	resp := rpc(t, s, "tools/call", map[string]any{
		"name":      DispatchTool,
		"arguments": map[string]any{"action": "FOO", "arguments": map[string]any{}},
	})
	require.Len(t, resp.Result.Content, 1)
	assert.True(t, resp.Result.IsError)
	assert.Equal(t, "Unknown action: FOO", resp.Result.Content[0].Text)

	resp = rpc(t, s, "tools/call", map[string]any{
		"name":      DispatchTool,
		"arguments": map[string]any{"action": "GET_FUNDING_RATE", "arguments": "symbol=SOL-PERP"},
	})
	require.Len(t, resp.Result.Content, 1)
	assert.False(t, resp.Result.IsError)
	assert.Contains(t, resp.Result.Content[0].Text, `"message": "Success"`)
}

func TestServer_HandlerErrorIsText(t *testing.T) {
	s := newTestServer(t)

	resp := rpc(t, s, "tools/call", map[string]any{"name": "TRANSFER", "arguments": map[string]any{}})

	require.Len(t, resp.Result.Content, 1)
	assert.True(t, resp.Result.IsError)
	assert.Equal(t, "Error: signer offline", resp.Result.Content[0].Text)
}

func TestServer_ClosedSession(t *testing.T) {
	s := newTestServer(t)
	s.Session().Close()

	resp := rpc(t, s, "tools/call", map[string]any{"name": "GET_FUNDING_RATE", "arguments": map[string]any{}})

	require.Len(t, resp.Result.Content, 1)
	assert.True(t, resp.Result.IsError)
	assert.Equal(t, "Error: session closed", resp.Result.Content[0].Text)
}
