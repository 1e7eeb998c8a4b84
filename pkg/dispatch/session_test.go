package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateIdle, s.State())

	assert.Error(t, s.Begin(), "cannot dispatch before listening")

	require.NoError(t, s.Listen())
	assert.Equal(t, StateListening, s.State())
	assert.Error(t, s.Listen())

	require.NoError(t, s.Begin())
	require.NoError(t, s.Begin())
	assert.Equal(t, StateDispatching, s.State())

	s.End()
	assert.Equal(t, StateDispatching, s.State(), "one request still in flight")
	s.End()
	assert.Equal(t, StateListening, s.State())
	s.End()
	assert.Equal(t, StateListening, s.State())

	s.Close()
	s.Close()
	assert.Equal(t, StateClosed, s.State())
	assert.ErrorIs(t, s.Begin(), ErrSessionClosed)
	assert.ErrorIs(t, s.Listen(), ErrSessionClosed)

	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestSession_CloseWhileDispatching(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Listen())
	require.NoError(t, s.Begin())

	s.Close()
	s.End()
	assert.Equal(t, StateClosed, s.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "dispatching", StateDispatching.String())
	assert.Equal(t, "State(9)", State(9).String())
	assert.Equal(t, "denied", OutcomeDenied.String())
}
