package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_SuccessKeepsFieldOrder(t *testing.T) {
	env := Success([]string{"price", "confidence", "status"}, map[string]any{
		"status":     "success",
		"price":      "142.1",
		"confidence": "0.07",
	})

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Equal(t, `{"price":"142.1","confidence":"0.07","status":"success","message":"Success"}`, string(raw))
	assert.True(t, env.OK())
}

func TestEnvelope_SuccessFillsMissingFields(t *testing.T) {
	env := Success([]string{"a", "b"}, map[string]any{"a": 1})

	assert.Equal(t, map[string]any{"a": 1, "b": nil, "message": "Success"}, env.Map())
}

func TestEnvelope_FailureNullsEveryField(t *testing.T) {
	env := Failure([]string{"funding_rate"}, "Error fetching funding rate: Missing required field: symbol")

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"funding_rate":null,"message":"Error fetching funding rate: Missing required field: symbol"}`, string(raw))
	assert.False(t, env.OK())
	assert.Nil(t, env.Value("funding_rate"))
}

func TestEnvelope_WithCode(t *testing.T) {
	env := Failure([]string{"wallet"}, "boom").WithCode("")
	assert.Equal(t, CodeUnknown, env.Code())

	env = Failure([]string{"wallet"}, "boom").WithCode("RATE_LIMITED")
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Equal(t, `{"wallet":null,"message":"boom","code":"RATE_LIMITED"}`, string(raw))
}

func TestEnvelope_IndentedJSON(t *testing.T) {
	env := Success([]string{"funding_rate"}, map[string]any{"funding_rate": map[string]any{"rate": 0.01}})

	raw, err := json.MarshalIndent(env, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"funding_rate\": {\n    \"rate\": 0.01\n  },\n  \"message\": \"Success\"\n}", string(raw))
}

func TestCodeOf(t *testing.T) {
	up := &UpstreamError{Service: "privy", Op: "create wallet", Status: 429, Code: "RATE_LIMITED", Err: errors.New("slow down")}

	assert.Equal(t, "RATE_LIMITED", CodeOf(fmt.Errorf("wrapped: %w", up)))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, "privy create wallet: status 429: slow down", up.Error())
}

func TestParseError(t *testing.T) {
	err := fmt.Errorf("decode: %w", &ParseError{Err: errors.New("unexpected end of JSON input")})

	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "invalid input: unexpected end of JSON input")
}

func TestAllActions(t *testing.T) {
	all := AllActions()
	require.Len(t, all, 16)

	seen := map[ActionName]bool{}
	for _, a := range all {
		assert.False(t, seen[a], "duplicate action %s", a)
		seen[a] = true

		parsed, ok := ParseAction(a.String())
		assert.True(t, ok)
		assert.Equal(t, a, parsed)
	}

	_, ok := ParseAction("nonexistent_action")
	assert.False(t, ok)

	all[0] = "MUTATED"
	assert.Equal(t, ActionGetBalance, AllActions()[0])
}
