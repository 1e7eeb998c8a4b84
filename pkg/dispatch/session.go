package dispatch

import (
	"errors"
	"fmt"
	"sync"
)

// State is the lifecycle state of a connection.
type State int

const (
	StateIdle State = iota
	StateListening
	StateDispatching
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateDispatching:
		return "dispatching"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrSessionClosed is returned by transitions attempted after Close.
var ErrSessionClosed = errors.New("session closed")

// Session tracks one connection:
// Idle -> Listening -> (Dispatching -> Listening)* -> Closed.
// Several dispatches may be in flight; the session is Dispatching while any is.
type Session struct {
	mu       sync.Mutex
	state    State
	inflight int
	done     chan struct{}
}

func NewSession() *Session {
	return &Session{done: make(chan struct{})}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Listen moves Idle to Listening.
func (s *Session) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateIdle:
		s.state = StateListening
		return nil
	case StateClosed:
		return ErrSessionClosed
	}
	return fmt.Errorf("cannot listen from state %s", s.state)
}

// Begin marks a request as dispatching. Call End when it completes.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateListening, StateDispatching:
		s.inflight++
		s.state = StateDispatching
		return nil
	case StateClosed:
		return ErrSessionClosed
	}
	return fmt.Errorf("cannot dispatch from state %s", s.state)
}

// End marks a request as done. The session returns to Listening when none
// remain in flight.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == 0 {
		return
	}
	s.inflight--
	if s.inflight == 0 && s.state == StateDispatching {
		s.state = StateListening
	}
}

// Close moves to Closed from any state. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	close(s.done)
}

// Done is closed when the session closes.
func (s *Session) Done() <-chan struct{} { return s.done }
