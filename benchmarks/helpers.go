// Package benchmarks provides shared chart generators for benchmark tests.
package benchmarks

import (
	"context"
	"fmt"

	"github.com/mon-martins/hsmsnap"
)

// FlatChart builds a chart with n sibling leaves cycling via "tick" events.
func FlatChart(n int) *hsmsnap.Chart {
	if n < 2 {
		n = 2
	}
	b := hsmsnap.NewChartBuilder(fmt.Sprintf("flat_%d", n), "s0")
	for i := 0; i < n; i++ {
		b.State(fmt.Sprintf("s%d", i)).On("tick", fmt.Sprintf("s%d", (i+1)%n))
	}
	chart, err := b.Build()
	if err != nil {
		panic(err)
	}
	return chart
}

// DeepChart builds a chain of depth nested composites with two leaves at
// the bottom flipping on "tick". "reset" on the outermost composite exits
// and re-enters the whole chain.
func DeepChart(depth int) *hsmsnap.Chart {
	if depth < 1 {
		depth = 1
	}
	b := hsmsnap.NewChartBuilder(fmt.Sprintf("deep_%d", depth), "c0")
	prefix := "c0"
	for i := 1; i < depth; i++ {
		prefix = fmt.Sprintf("%s.c%d", prefix, i)
	}
	b.State(prefix + ".leaf1").On("tick", prefix+".leaf2")
	b.State(prefix + ".leaf2").On("tick", prefix+".leaf1")
	b.State("c0").On("reset", "c0")
	chart, err := b.Build()
	if err != nil {
		panic(err)
	}
	return chart
}

// ParallelChart builds one region per i in [0, regions), each with two
// leaves toggling on "tick".
func ParallelChart(regions int) *hsmsnap.Chart {
	if regions < 2 {
		regions = 2
	}
	b := hsmsnap.NewParallelChartBuilder(fmt.Sprintf("par_%d", regions))
	for i := 0; i < regions; i++ {
		a := fmt.Sprintf("r%d.a", i)
		z := fmt.Sprintf("r%d.b", i)
		b.State(a).On("tick", z)
		b.State(z).On("tick", a)
	}
	chart, err := b.Build()
	if err != nil {
		panic(err)
	}
	return chart
}

// StartedMachine compiles chart and returns a started instance with its
// model.
func StartedMachine(chart *hsmsnap.Chart) (*hsmsnap.Model, *hsmsnap.Machine) {
	model, err := chart.Compile()
	if err != nil {
		panic(err)
	}
	m := hsmsnap.NewMachine(model)
	if err := m.Start(context.Background()); err != nil {
		panic(err)
	}
	return model, m
}

// BottomLeaf returns the ID of DeepChart(depth)'s initial leaf.
func BottomLeaf(depth int) hsmsnap.StateID {
	prefix := "c0"
	for i := 1; i < depth; i++ {
		prefix = fmt.Sprintf("%s.c%d", prefix, i)
	}
	return hsmsnap.StateID(prefix + ".leaf1")
}
