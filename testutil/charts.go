// Package testutil provides the chart fixtures shared by engine, codegen
// and command tests.
package testutil

import (
	"context"
	"testing"

	"github.com/mon-martins/hsmsnap"
)

// Blinky is the two-state flasher: off and on, toggled by TIMEOUT. Its
// snapshot word reads 0b01 while off and 0b10 while on.
func Blinky() *hsmsnap.Chart {
	return &hsmsnap.Chart{
		ID:      "blinky",
		Initial: "off",
		States: []*hsmsnap.StateDef{
			{ID: "off", On: map[string]hsmsnap.StateID{"TIMEOUT": "on"}},
			{ID: "on", On: map[string]hsmsnap.StateID{"TIMEOUT": "off"}},
		},
	}
}

// Player is a nested media chart: stopped, and playing with running and
// paused children. STOP is declared on playing and inherited by both
// children.
func Player() *hsmsnap.Chart {
	return &hsmsnap.Chart{
		ID:      "player",
		Initial: "stopped",
		States: []*hsmsnap.StateDef{
			{ID: "stopped", On: map[string]hsmsnap.StateID{"PLAY": "playing"}},
			{
				ID:      "playing",
				Initial: "playing.running",
				On:      map[string]hsmsnap.StateID{"STOP": "stopped"},
				Children: []*hsmsnap.StateDef{
					{ID: "playing.running", On: map[string]hsmsnap.StateID{"PAUSE": "playing.paused"}},
					{ID: "playing.paused", On: map[string]hsmsnap.StateID{"PAUSE": "playing.running"}},
				},
			},
		},
	}
}

// Heater is a parallel chart with two regions, pump and burner, that cycle
// independently. SERVICE is handled by both regions at once.
func Heater() *hsmsnap.Chart {
	return &hsmsnap.Chart{
		ID:       "heater",
		Parallel: true,
		States: []*hsmsnap.StateDef{
			{
				ID:      "pump",
				Initial: "pump.idle",
				Children: []*hsmsnap.StateDef{
					{ID: "pump.idle", On: map[string]hsmsnap.StateID{"START": "pump.run"}},
					{ID: "pump.run", On: map[string]hsmsnap.StateID{"STOP": "pump.idle", "SERVICE": "pump.idle"}},
				},
			},
			{
				ID:      "burner",
				Initial: "burner.cold",
				Children: []*hsmsnap.StateDef{
					{ID: "burner.cold", On: map[string]hsmsnap.StateID{"IGNITE": "burner.hot"}},
					{ID: "burner.hot", On: map[string]hsmsnap.StateID{"DOUSE": "burner.cold", "SERVICE": "burner.cold"}},
				},
			},
		},
	}
}

// StartedMachine compiles chart, builds a machine with opts and starts it,
// failing the test on any error.
func StartedMachine(t *testing.T, chart *hsmsnap.Chart, opts ...hsmsnap.Option) *hsmsnap.Machine {
	t.Helper()
	model, err := chart.Compile()
	if err != nil {
		t.Fatalf("compile %s: %v", chart.ID, err)
	}
	m := hsmsnap.NewMachine(model, opts...)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("start %s: %v", chart.ID, err)
	}
	return m
}
