package hsmsnap

import (
	"errors"
	"strings"
	"testing"
)

func TestChartValidate(t *testing.T) {
	tests := []struct {
		name        string
		chart       *Chart
		wantErr     bool
		errContains string
	}{
		{
			name: "minimal valid",
			chart: &Chart{
				ID:      "m",
				Initial: "a",
				States:  []*StateDef{{ID: "a"}},
			},
		},
		{
			name: "valid nested",
			chart: &Chart{
				ID:      "m",
				Initial: "p",
				States: []*StateDef{
					{ID: "p", Initial: "c1", Children: []*StateDef{
						{ID: "c1", On: map[string]StateID{"go": "c2"}},
						{ID: "c2"},
					}},
				},
			},
		},
		{
			name:        "missing chart ID",
			chart:       &Chart{Initial: "a", States: []*StateDef{{ID: "a"}}},
			wantErr:     true,
			errContains: "chart ID",
		},
		{
			name:        "no states",
			chart:       &Chart{ID: "m", Initial: "a"},
			wantErr:     true,
			errContains: "no states",
		},
		{
			name: "state ID collides with chart ID",
			chart: &Chart{
				ID:      "m",
				Initial: "m",
				States:  []*StateDef{{ID: "m"}},
			},
			wantErr:     true,
			errContains: "collides",
		},
		{
			name: "duplicate state ID",
			chart: &Chart{
				ID:      "m",
				Initial: "a",
				States:  []*StateDef{{ID: "a"}, {ID: "a"}},
			},
			wantErr:     true,
			errContains: "duplicate",
		},
		{
			name: "missing initial",
			chart: &Chart{
				ID:     "m",
				States: []*StateDef{{ID: "a"}},
			},
			wantErr:     true,
			errContains: "initial",
		},
		{
			name: "initial not top-level",
			chart: &Chart{
				ID:      "m",
				Initial: "c",
				States: []*StateDef{
					{ID: "p", Initial: "c", Children: []*StateDef{{ID: "c"}}},
				},
			},
			wantErr:     true,
			errContains: "not a top-level state",
		},
		{
			name: "leaf with initial child",
			chart: &Chart{
				ID:      "m",
				Initial: "a",
				States:  []*StateDef{{ID: "a", Initial: "b"}, {ID: "b"}},
			},
			wantErr:     true,
			errContains: "leaf",
		},
		{
			name: "composite without initial",
			chart: &Chart{
				ID:      "m",
				Initial: "p",
				States: []*StateDef{
					{ID: "p", Children: []*StateDef{{ID: "c"}}},
				},
			},
			wantErr:     true,
			errContains: "needs an initial child",
		},
		{
			name: "initial not a direct child",
			chart: &Chart{
				ID:      "m",
				Initial: "p",
				States: []*StateDef{
					{ID: "p", Initial: "gc", Children: []*StateDef{
						{ID: "c", Initial: "gc", Children: []*StateDef{{ID: "gc"}}},
					}},
				},
			},
			wantErr:     true,
			errContains: "not a direct child",
		},
		{
			name: "transition to unknown state",
			chart: &Chart{
				ID:      "m",
				Initial: "a",
				States:  []*StateDef{{ID: "a", On: map[string]StateID{"go": "ghost"}}},
			},
			wantErr:     true,
			errContains: "unknown state",
		},
		{
			name: "transition with empty event",
			chart: &Chart{
				ID:      "m",
				Initial: "a",
				States:  []*StateDef{{ID: "a", On: map[string]StateID{" ": "a"}}},
			},
			wantErr:     true,
			errContains: "empty event",
		},
		{
			name: "transition with empty target",
			chart: &Chart{
				ID:      "m",
				Initial: "a",
				States:  []*StateDef{{ID: "a", On: map[string]StateID{"go": ""}}},
			},
			wantErr:     true,
			errContains: "no target",
		},
		{
			name: "parallel with initial",
			chart: &Chart{
				ID:       "m",
				Parallel: true,
				Initial:  "r1",
				States:   []*StateDef{{ID: "r1"}, {ID: "r2"}},
			},
			wantErr:     true,
			errContains: "cannot set an initial",
		},
		{
			name: "parallel with one region",
			chart: &Chart{
				ID:       "m",
				Parallel: true,
				States:   []*StateDef{{ID: "r1"}},
			},
			wantErr:     true,
			errContains: "at least two regions",
		},
		{
			name: "parallel cross-region transition",
			chart: &Chart{
				ID:       "m",
				Parallel: true,
				States: []*StateDef{
					{ID: "r1", Initial: "r1a", Children: []*StateDef{
						{ID: "r1a", On: map[string]StateID{"go": "r2a"}},
					}},
					{ID: "r2", Initial: "r2a", Children: []*StateDef{{ID: "r2a"}}},
				},
			},
			wantErr:     true,
			errContains: "outside its region",
		},
		{
			name: "parallel valid",
			chart: &Chart{
				ID:       "m",
				Parallel: true,
				States: []*StateDef{
					{ID: "r1", Initial: "r1a", Children: []*StateDef{
						{ID: "r1a", On: map[string]StateID{"go": "r1b"}},
						{ID: "r1b"},
					}},
					{ID: "r2", Initial: "r2a", Children: []*StateDef{{ID: "r2a"}}},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chart.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			var serr *StructuralError
			if !errors.As(err, &serr) {
				t.Errorf("error type = %T, want *StructuralError", err)
			}
			if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error %q does not contain %q", err, tt.errContains)
			}
		})
	}
}

// Nodes must flatten in document order with the chart ID as the root, since
// ordinals and default bit positions both follow that order.
func TestChartNodes(t *testing.T) {
	c := &Chart{
		ID:      "player",
		Initial: "stopped",
		States: []*StateDef{
			{ID: "stopped"},
			{ID: "playing", Initial: "running", Children: []*StateDef{
				{ID: "running"},
				{ID: "paused"},
			}},
		},
	}
	got := c.Nodes()
	want := []Node{
		{ID: "player"},
		{ID: "stopped", Parent: "player"},
		{ID: "playing", Parent: "player"},
		{ID: "running", Parent: "playing"},
		{ID: "paused", Parent: "playing"},
	}
	if len(got) != len(want) {
		t.Fatalf("Nodes() returned %d nodes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Nodes()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCompileRegions(t *testing.T) {
	single := &Chart{
		ID:      "m",
		Initial: "a",
		States:  []*StateDef{{ID: "a"}, {ID: "b"}},
	}
	model, err := single.Compile()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := model.Regions(), []StateID{"m"}; !equalIDs(got, want) {
		t.Errorf("Regions() = %v, want %v", got, want)
	}

	parallel := &Chart{
		ID:       "m",
		Parallel: true,
		States: []*StateDef{
			{ID: "r1", Initial: "r1a", Children: []*StateDef{{ID: "r1a"}}},
			{ID: "r2", Initial: "r2a", Children: []*StateDef{{ID: "r2a"}}},
		},
	}
	model, err = parallel.Compile()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := model.Regions(), []StateID{"r1", "r2"}; !equalIDs(got, want) {
		t.Errorf("Regions() = %v, want %v", got, want)
	}
}

// Compile must resolve each region's initial leaf through nested initial
// children, not stop at the first composite.
func TestCompileResolvesInitialLeaf(t *testing.T) {
	c := &Chart{
		ID:      "m",
		Initial: "outer",
		States: []*StateDef{
			{ID: "outer", Initial: "inner", Children: []*StateDef{
				{ID: "inner", Initial: "leaf", Children: []*StateDef{
					{ID: "leaf"},
				}},
			}},
		},
	}
	model, err := c.Compile()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := model.regions[0].leaf, mustOrdinal(t, model.tree, "leaf"); got != want {
		t.Errorf("initial leaf ordinal = %d, want %d", got, want)
	}
}

func mustOrdinal(t *testing.T, tree *Tree, id StateID) int32 {
	t.Helper()
	ord, ok := tree.ordinal(id)
	if !ok {
		t.Fatalf("ordinal(%s) not found", id)
	}
	return ord
}

func TestCompileRejectsInvalidChart(t *testing.T) {
	c := &Chart{ID: "m", Initial: "ghost", States: []*StateDef{{ID: "a"}}}
	if _, err := c.Compile(); err == nil {
		t.Fatal("Compile() of an invalid chart succeeded")
	}
}
