package hsmsnap

import (
	"fmt"
	"strings"
)

// ChartBuilder assembles a Chart from dotted state paths, so callers can
// write "on.idle" instead of nesting StateDef literals. Each path is the
// state's full ID; parents are auto-created as composites the first time a
// descendant names them. First-reference order fixes declaration order,
// and with it snapshot bit positions.
type ChartBuilder struct {
	id       string
	initial  StateID
	parallel bool
	top      []*StateDef
	defs     map[StateID]*StateDef
	firstErr error
}

// StateBuilder configures one state of a ChartBuilder.
type StateBuilder struct {
	b   *ChartBuilder
	def *StateDef
}

// NewChartBuilder starts a chart whose single region enters initial, a
// top-level state path.
func NewChartBuilder(id, initial string) *ChartBuilder {
	return &ChartBuilder{
		id:      id,
		initial: StateID(initial),
		defs:    map[StateID]*StateDef{},
	}
}

// NewParallelChartBuilder starts a parallel chart; every top-level state
// becomes a region.
func NewParallelChartBuilder(id string) *ChartBuilder {
	return &ChartBuilder{
		id:       id,
		parallel: true,
		defs:     map[StateID]*StateDef{},
	}
}

// State creates or retrieves the state at path. Dot notation nests:
// "on.idle" is a child of "on", and "on" is created as a composite with
// "on.idle" as its default initial child when it was never declared
// before.
func (b *ChartBuilder) State(path string) *StateBuilder {
	def := b.state(StateID(path))
	if def == nil {
		// Path was malformed; Build reports the recorded error.
		def = &StateDef{}
	}
	return &StateBuilder{b: b, def: def}
}

func (b *ChartBuilder) state(path StateID) *StateDef {
	if def, ok := b.defs[path]; ok {
		return def
	}
	parentPath, name := splitPath(string(path))
	if name == "" || (parentPath == "" && strings.Contains(string(path), ".")) {
		b.fail(fmt.Errorf("state path %q has an empty segment", path))
		return nil
	}
	def := &StateDef{ID: path}
	b.defs[path] = def
	if parentPath == "" {
		b.top = append(b.top, def)
		return def
	}
	parent := b.state(StateID(parentPath))
	if parent == nil {
		return nil
	}
	parent.Children = append(parent.Children, def)
	if parent.Initial == "" {
		parent.Initial = path
	}
	return def
}

func (b *ChartBuilder) fail(err error) {
	if b.firstErr == nil {
		b.firstErr = err
	}
}

// Build assembles the chart and validates it.
func (b *ChartBuilder) Build() (*Chart, error) {
	if b.firstErr != nil {
		return nil, b.firstErr
	}
	c := &Chart{
		ID:       b.id,
		Initial:  b.initial,
		Parallel: b.parallel,
		States:   b.top,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// splitPath splits a dotted path into parent and final segment.
// "on.idle" gives ("on", "idle"); "on" gives ("", "on").
func splitPath(path string) (parent, name string) {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// On declares a transition from this state. target is the full path of the
// target state and must be declared by Build time.
func (sb *StateBuilder) On(event, target string) *StateBuilder {
	if sb.def.On == nil {
		sb.def.On = map[string]StateID{}
	}
	sb.def.On[event] = StateID(target)
	return sb
}

// Initial overrides the default initial child (the first one declared).
// child is the full path of a direct child.
func (sb *StateBuilder) Initial(child string) *StateBuilder {
	sb.def.Initial = StateID(child)
	return sb
}
