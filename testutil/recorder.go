package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/mon-martins/hsmsnap"
)

// Recorder captures lifecycle notifications as ordered strings so tests can
// assert on exact enter and exit sequences. One line per callback:
//
//	enter:<state>
//	exit:<state>
//	transition:<event>:<from>-><to>
//	unhandled:<event>
//
// Hooks run on the dispatching goroutine, but the recorder locks anyway so
// tests that dispatch on several machines sharing one recorder stay clean.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Hooks returns the hook set that feeds this recorder.
func (r *Recorder) Hooks() hsmsnap.Hooks {
	return hsmsnap.Hooks{
		OnEnter: func(_ context.Context, state hsmsnap.StateID) {
			r.append("enter:" + string(state))
		},
		OnExit: func(_ context.Context, state hsmsnap.StateID) {
			r.append("exit:" + string(state))
		},
		OnTransition: func(_ context.Context, event hsmsnap.Event, from, to hsmsnap.StateID) {
			r.append(fmt.Sprintf("transition:%s:%s->%s", event.Type, from, to))
		},
		OnUnhandled: func(_ context.Context, event hsmsnap.Event) {
			r.append("unhandled:" + event.Type)
		},
	}
}

func (r *Recorder) append(line string) {
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}

// Lines returns a copy of everything recorded so far.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.lines = nil
	r.mu.Unlock()
}
