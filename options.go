package hsmsnap

import (
	"context"
	"log/slog"
)

// Hooks observe a machine's lifecycle. Every callback is optional. Hooks
// run synchronously on the goroutine that called Start or Dispatch, before
// the commit they describe becomes visible to queries; they must not
// dispatch back into the machine.
type Hooks struct {
	// OnEnter runs for each state entered, outermost first.
	OnEnter func(ctx context.Context, state StateID)

	// OnExit runs for each state exited, innermost first.
	OnExit func(ctx context.Context, state StateID)

	// OnTransition runs once per handled event, between the exits and the
	// entries. from is the state whose handler matched, which may be an
	// ancestor of the active leaf; to is the declared target.
	OnTransition func(ctx context.Context, event Event, from, to StateID)

	// OnUnhandled runs when no region of the active configuration
	// declares a transition for the event.
	OnUnhandled func(ctx context.Context, event Event)
}

// Option configures a Machine at construction.
type Option func(*Machine)

// WithLogger sets the machine's structured logger. The default logger
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithHooks installs lifecycle hooks.
func WithHooks(h Hooks) Option {
	return func(m *Machine) {
		m.hooks = h
	}
}
