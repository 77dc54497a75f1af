package hsmsnap

import "strings"

// Chart is the author-facing definition of one machine type. States is an
// ordered tree of definitions; the order is meaningful, it fixes state
// ordinals and therefore snapshot bit positions. The chart ID doubles as
// the implicit top state that parents every top-level definition.
//
// A Parallel chart runs each top-level state as an independent region. A
// non-parallel chart enters Initial, which must name a top-level state.
type Chart struct {
	ID       string      `json:"id" yaml:"id"`
	Initial  StateID     `json:"initial,omitempty" yaml:"initial,omitempty"`
	Parallel bool        `json:"parallel,omitempty" yaml:"parallel,omitempty"`
	States   []*StateDef `json:"states" yaml:"states"`
}

// StateDef defines one state. A definition with Children is composite and
// must name a direct child as Initial; one without Children is a leaf. On
// maps event names to target state IDs; targets may sit anywhere in the
// chart, except that a parallel chart's transitions must stay inside their
// own region.
type StateDef struct {
	ID       StateID            `json:"id" yaml:"id"`
	Initial  StateID            `json:"initial,omitempty" yaml:"initial,omitempty"`
	On       map[string]StateID `json:"on,omitempty" yaml:"on,omitempty"`
	Children []*StateDef        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Validate checks the chart for structural defects without compiling it.
// Compile calls it; standalone use covers load-time checks of chart files.
func (c *Chart) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return &StructuralError{Reason: "chart ID is required"}
	}
	if len(c.States) == 0 {
		return &StructuralError{Reason: "chart has no states"}
	}

	defs := map[StateID]*StateDef{}
	var collect func(ds []*StateDef) error
	collect = func(ds []*StateDef) error {
		for _, d := range ds {
			if d == nil {
				return &StructuralError{Reason: "nil state definition"}
			}
			if strings.TrimSpace(string(d.ID)) == "" {
				return &StructuralError{Reason: "state with empty ID"}
			}
			if string(d.ID) == c.ID {
				return structErr(d.ID, "state ID collides with the chart ID")
			}
			if _, dup := defs[d.ID]; dup {
				return structErr(d.ID, "duplicate state ID")
			}
			defs[d.ID] = d
			if err := collect(d.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := collect(c.States); err != nil {
		return err
	}

	if c.Parallel {
		if c.Initial != "" {
			return &StructuralError{Reason: "parallel chart cannot set an initial state"}
		}
		if len(c.States) < 2 {
			return &StructuralError{Reason: "parallel chart needs at least two regions"}
		}
	} else {
		if c.Initial == "" {
			return &StructuralError{Reason: "chart needs an initial state"}
		}
		if !hasDirectChild(c.States, c.Initial) {
			return structErr(c.Initial, "initial state is not a top-level state")
		}
	}

	var check func(ds []*StateDef, members map[StateID]*StateDef) error
	check = func(ds []*StateDef, members map[StateID]*StateDef) error {
		for _, d := range ds {
			if len(d.Children) == 0 {
				if d.Initial != "" {
					return structErr(d.ID, "leaf state cannot set an initial child")
				}
			} else {
				if d.Initial == "" {
					return structErr(d.ID, "composite state needs an initial child")
				}
				if !hasDirectChild(d.Children, d.Initial) {
					return structErr(d.ID, "initial child %q is not a direct child", d.Initial)
				}
			}
			for ev, target := range d.On {
				if strings.TrimSpace(ev) == "" {
					return structErr(d.ID, "transition with empty event name")
				}
				if target == "" {
					return structErr(d.ID, "transition %q has no target", ev)
				}
				if _, ok := members[target]; !ok {
					if _, anywhere := defs[target]; anywhere {
						return structErr(d.ID, "transition %q targets %q outside its region", ev, target)
					}
					return structErr(d.ID, "transition %q targets unknown state %q", ev, target)
				}
			}
			if err := check(d.Children, members); err != nil {
				return err
			}
		}
		return nil
	}
	if !c.Parallel {
		return check(c.States, defs)
	}
	// Each top-level state is a region; its transitions must not cross
	// into a sibling region.
	for _, r := range c.States {
		members := map[StateID]*StateDef{}
		var span func(ds []*StateDef)
		span = func(ds []*StateDef) {
			for _, d := range ds {
				members[d.ID] = d
				span(d.Children)
			}
		}
		span([]*StateDef{r})
		if err := check([]*StateDef{r}, members); err != nil {
			return err
		}
	}
	return nil
}

// Nodes flattens the chart into the parent-pointer table NewTree consumes.
// The chart ID becomes the root node; definition order is preserved.
func (c *Chart) Nodes() []Node {
	nodes := make([]Node, 0, 1+countDefs(c.States))
	nodes = append(nodes, Node{ID: StateID(c.ID)})
	var walk func(parent StateID, ds []*StateDef)
	walk = func(parent StateID, ds []*StateDef) {
		for _, d := range ds {
			if d == nil {
				continue
			}
			nodes = append(nodes, Node{ID: d.ID, Parent: parent})
			walk(d.ID, d.Children)
		}
	}
	walk(StateID(c.ID), c.States)
	return nodes
}

func hasDirectChild(ds []*StateDef, id StateID) bool {
	for _, d := range ds {
		if d != nil && d.ID == id {
			return true
		}
	}
	return false
}

func countDefs(ds []*StateDef) int {
	n := 0
	for _, d := range ds {
		if d == nil {
			continue
		}
		n += 1 + countDefs(d.Children)
	}
	return n
}
