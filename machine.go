package hsmsnap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Event is a dispatched stimulus. Type selects transitions; Data rides
// along to hooks untouched.
type Event struct {
	Type string
	Data any
}

// Machine is one running instance of a compiled chart. It tracks the
// active leaf of every region and answers membership queries against the
// shared Model.
//
// Queries are safe from any goroutine and see only committed
// configurations. Start and Dispatch must be serialized by the caller; a
// machine does not queue events.
type Machine struct {
	model  *Model
	logger *slog.Logger
	hooks  Hooks

	mu      sync.RWMutex
	current []int32 // per-region active leaf ordinal; nil until Start
}

// NewMachine creates a stopped instance of model. Call Start before
// dispatching or querying.
func NewMachine(model *Model, opts ...Option) *Machine {
	m := &Machine{
		model:  model,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Model returns the shared compiled chart.
func (m *Machine) Model() *Model { return m.model }

// Start enters the initial configuration: for each region, the chain from
// the implicit top down to the region's initial leaf, outermost first.
// Starting a started machine is a no-op.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.RLock()
	started := m.current != nil
	m.mu.RUnlock()
	if started {
		return nil
	}

	tree := m.model.tree
	leaves := make([]int32, len(m.model.regions))
	for i, r := range m.model.regions {
		leaves[i] = r.leaf
		for _, ord := range m.model.entryChain(tree.root, r.leaf) {
			m.fireEnter(ctx, tree.ids[ord])
		}
	}

	m.mu.Lock()
	m.current = leaves
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "machine started",
		"chart", m.model.chart.ID,
		"configuration", m.configurationOf(leaves))
	return nil
}

// Dispatch runs one event to completion. Each region resolves the event
// independently: the innermost active state declaring a transition for
// ev.Type wins. A handled transition exits up to the pivot, runs the
// transition hook, enters down to the target's initial leaf, and then
// commits the region's new leaf atomically with respect to queries. An
// event no region handles goes to OnUnhandled and is not an error.
func (m *Machine) Dispatch(ctx context.Context, ev Event) error {
	m.mu.RLock()
	if m.current == nil {
		m.mu.RUnlock()
		return ErrNotInitialized
	}
	leaves := make([]int32, len(m.current))
	copy(leaves, m.current)
	m.mu.RUnlock()

	tree := m.model.tree
	handled := false
	for i, leaf := range leaves {
		src, target, ok := m.model.findTransition(leaf, ev.Type)
		if !ok {
			continue
		}
		handled = true

		exits, next, entries := m.model.transitionPath(leaf, target)
		for _, ord := range exits {
			m.fireExit(ctx, tree.ids[ord])
		}
		if m.hooks.OnTransition != nil {
			m.hooks.OnTransition(ctx, ev, tree.ids[src], tree.ids[target])
		}
		for _, ord := range entries {
			m.fireEnter(ctx, tree.ids[ord])
		}

		m.mu.Lock()
		m.current[i] = next
		m.mu.Unlock()
		leaves[i] = next

		m.logger.DebugContext(ctx, "transition",
			"chart", m.model.chart.ID,
			"event", ev.Type,
			"from", tree.ids[leaf],
			"to", tree.ids[next])
	}

	if !handled {
		m.logger.DebugContext(ctx, "event unhandled",
			"chart", m.model.chart.ID,
			"event", ev.Type)
		if m.hooks.OnUnhandled != nil {
			m.hooks.OnUnhandled(ctx, ev)
		}
	}
	return nil
}

// IsIn reports whether the machine is in target: whether target is the
// active leaf of some region or an ancestor of one. The walk runs under a
// single read lock, so no transition commit can interleave with it.
func (m *Machine) IsIn(target StateID) (bool, error) {
	ord, ok := m.model.tree.ordinal(target)
	if !ok {
		return false, fmt.Errorf("state %q: %w", target, ErrUnknownState)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return false, ErrNotInitialized
	}
	for _, leaf := range m.current {
		if m.model.tree.isAncestor(ord, leaf) {
			return true, nil
		}
	}
	return false, nil
}

// Current returns the active leaf of region. Regions are indexed in
// document order; a non-parallel chart has the single region 0.
func (m *Machine) Current(regionIdx int) (StateID, error) {
	if regionIdx < 0 || regionIdx >= len(m.model.regions) {
		return "", fmt.Errorf("region %d: %w", regionIdx, ErrUnknownRegion)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return "", ErrNotInitialized
	}
	return m.model.tree.ids[m.current[regionIdx]], nil
}

// Configuration returns the active leaf of every region in region order.
func (m *Machine) Configuration() ([]StateID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, ErrNotInitialized
	}
	return m.configurationOf(m.current), nil
}

// ActiveStates returns every state the machine is in, the implicit top
// included: the union of each region leaf's ancestor chain, in ordinal
// order.
func (m *Machine) ActiveStates() ([]StateID, error) {
	tree := m.model.tree
	active := make([]bool, tree.Len())

	m.mu.RLock()
	if m.current == nil {
		m.mu.RUnlock()
		return nil, ErrNotInitialized
	}
	for _, leaf := range m.current {
		for ord := leaf; ord != -1; ord = tree.parent[ord] {
			active[ord] = true
		}
	}
	m.mu.RUnlock()

	out := make([]StateID, 0, len(active))
	for ord, on := range active {
		if on {
			out = append(out, tree.ids[ord])
		}
	}
	return out, nil
}

func (m *Machine) configurationOf(leaves []int32) []StateID {
	out := make([]StateID, len(leaves))
	for i, leaf := range leaves {
		out[i] = m.model.tree.ids[leaf]
	}
	return out
}

func (m *Machine) fireEnter(ctx context.Context, id StateID) {
	if m.hooks.OnEnter != nil {
		m.hooks.OnEnter(ctx, id)
	}
}

func (m *Machine) fireExit(ctx context.Context, id StateID) {
	if m.hooks.OnExit != nil {
		m.hooks.OnExit(ctx, id)
	}
}
