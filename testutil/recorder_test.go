package testutil

import (
	"context"
	"testing"

	"github.com/mon-martins/hsmsnap"
)

// The fixtures must stay compilable; every engine test builds on them.
func TestFixturesCompile(t *testing.T) {
	for _, chart := range []*hsmsnap.Chart{Blinky(), Player(), Heater()} {
		if _, err := chart.Compile(); err != nil {
			t.Errorf("fixture %s does not compile: %v", chart.ID, err)
		}
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	m := StartedMachine(t, Blinky(), hsmsnap.WithHooks(rec.Hooks()))

	if err := m.Dispatch(context.Background(), hsmsnap.Event{Type: "TIMEOUT"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Dispatch(context.Background(), hsmsnap.Event{Type: "NOPE"}); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"enter:off",
		"exit:off",
		"transition:TIMEOUT:off->on",
		"enter:on",
		"unhandled:NOPE",
	}
	got := rec.Lines()
	if len(got) != len(want) {
		t.Fatalf("Lines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	rec.Reset()
	if got := rec.Lines(); len(got) != 0 {
		t.Errorf("Lines() after Reset = %v, want empty", got)
	}
}
