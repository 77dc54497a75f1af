package hsmsnap

import (
	"bytes"
	"fmt"
	"sort"
)

// ExportDOT renders the chart as Graphviz DOT source. active marks states
// to highlight, typically the result of Machine.ActiveStates; pass nil for
// a plain structure diagram. Composite states render as clusters with an
// ellipse anchor node, leaves as boxes, transitions as labeled edges. Edge
// order is sorted by event name so the output is stable.
func ExportDOT(c *Chart, active []StateID) string {
	activeSet := make(map[StateID]bool, len(active))
	for _, id := range active {
		activeSet[id] = true
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", c.ID)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")

	for _, d := range c.States {
		renderState(&buf, d, activeSet, "  ")
	}
	for _, e := range collectEdges(c.States) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.from, e.to, e.label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotEdge struct {
	from, to StateID
	label    string
}

func collectEdges(ds []*StateDef) []dotEdge {
	var edges []dotEdge
	var walk func(ds []*StateDef)
	walk = func(ds []*StateDef) {
		for _, d := range ds {
			events := make([]string, 0, len(d.On))
			for ev := range d.On {
				events = append(events, ev)
			}
			sort.Strings(events)
			for _, ev := range events {
				edges = append(edges, dotEdge{from: d.ID, to: d.On[ev], label: ev})
			}
			walk(d.Children)
		}
	}
	walk(ds)
	return edges
}

func renderState(buf *bytes.Buffer, d *StateDef, active map[StateID]bool, indent string) {
	if len(d.Children) == 0 {
		attrs := ""
		if active[d.ID] {
			attrs = ` style="rounded,filled" fillcolor=lightgreen`
		}
		fmt.Fprintf(buf, "%s%q [label=%q%s];\n", indent, d.ID, d.ID, attrs)
		return
	}

	fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, d.ID)
	fmt.Fprintf(buf, "%s  label=%q;\n", indent, d.ID)
	if active[d.ID] {
		fmt.Fprintf(buf, "%s  style=filled;\n", indent)
		fmt.Fprintf(buf, "%s  fillcolor=lightyellow;\n", indent)
	}
	// Anchor node so inherited transitions have an edge endpoint.
	fmt.Fprintf(buf, "%s  %q [label=%q shape=ellipse];\n", indent, d.ID, d.ID)
	for _, child := range d.Children {
		renderState(buf, child, active, indent+"  ")
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}
