package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

type signalError struct{ sig os.Signal }

func (e signalError) Error() string { return "received " + e.sig.String() }

// SignalContext is cancelled on SIGINT or SIGTERM and remembers the signal.
type SignalContext struct {
	context.Context
	cancel context.CancelCauseFunc
}

// NewSignalContext works like signal.NotifyContext but keeps the signal
// that cancelled it.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancelCause(parent)
	sc := &SignalContext{Context: ctx, cancel: cancel}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			cancel(signalError{sig: sig})
		case <-ctx.Done():
		}
	}()
	return sc
}

// Cancel stops signal handling and cancels the context.
func (sc *SignalContext) Cancel() { sc.cancel(context.Canceled) }

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	var se signalError
	if errors.As(context.Cause(sc.Context), &se) {
		return se.sig
	}
	return nil
}
