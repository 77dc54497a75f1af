package hsmsnap

import (
	"fmt"
	"strings"
)

// WordBits is the width of a snapshot word. A layout cannot assign bits at
// or above it.
const WordBits = 64

// Assignment pins one state to one bit of the snapshot word.
type Assignment struct {
	State StateID `json:"state" yaml:"state"`
	Bit   int     `json:"bit" yaml:"bit"`
}

// Layout is the bit map of a chart's snapshot word. It is configuration
// data, not derived state: persisted next to the chart and extended, never
// reshuffled, as the chart grows, so that words recorded by one revision
// stay readable against the next. Version is a fingerprint stamped by the
// persistence layer.
type Layout struct {
	Chart       string       `json:"chart" yaml:"chart"`
	Version     string       `json:"version,omitempty" yaml:"version,omitempty"`
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
}

// DeriveLayout assigns a bit to every state of the tree except the
// implicit top, in declaration order, bit 0 first.
func DeriveLayout(t *Tree) (*Layout, error) {
	n := t.Len() - 1
	if n > WordBits {
		return nil, fmt.Errorf("chart %q has %d states, a snapshot word holds %d", t.Root(), n, WordBits)
	}
	l := &Layout{
		Chart:       string(t.Root()),
		Assignments: make([]Assignment, 0, n),
	}
	bit := 0
	for _, id := range t.States() {
		if id == t.Root() {
			continue
		}
		l.Assignments = append(l.Assignments, Assignment{State: id, Bit: bit})
		bit++
	}
	return l, nil
}

// ExtendLayout returns a copy of l covering every state of t. Existing
// assignments keep their bits, states new to the tree get fresh bits above
// the highest assigned one, and assignments whose state left the tree are
// dropped with their bits retired, never reused. The copy's Version is
// cleared; the caller re-stamps it on save.
func ExtendLayout(l *Layout, t *Tree) (*Layout, error) {
	next := 0
	covered := make(map[StateID]bool, len(l.Assignments))
	out := &Layout{Chart: string(t.Root())}
	for _, a := range l.Assignments {
		if a.Bit >= next {
			next = a.Bit + 1
		}
		if !t.Contains(a.State) {
			continue
		}
		covered[a.State] = true
		out.Assignments = append(out.Assignments, a)
	}
	for _, id := range t.States() {
		if id == t.Root() || covered[id] {
			continue
		}
		if next >= WordBits {
			return nil, fmt.Errorf("no free bit for state %q, word holds %d", id, WordBits)
		}
		out.Assignments = append(out.Assignments, Assignment{State: id, Bit: next})
		next++
	}
	if err := out.Validate(t); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks l against the tree it claims to cover: the chart name
// must match the tree root, every assigned state must exist and not be the
// top, and bits must be unique and inside the word. Full coverage is not
// required; Project reports membership only for assigned states.
func (l *Layout) Validate(t *Tree) error {
	if l.Chart != string(t.Root()) {
		return fmt.Errorf("layout is for chart %q, tree is %q", l.Chart, t.Root())
	}
	byBit := make(map[int]StateID, len(l.Assignments))
	byState := make(map[StateID]bool, len(l.Assignments))
	for _, a := range l.Assignments {
		if a.Bit < 0 || a.Bit >= WordBits {
			return fmt.Errorf("state %q: bit %d outside word range 0..%d", a.State, a.Bit, WordBits-1)
		}
		if !t.Contains(a.State) {
			return fmt.Errorf("state %q: %w", a.State, ErrUnknownState)
		}
		if a.State == t.Root() {
			return fmt.Errorf("state %q: the top state carries no bit", a.State)
		}
		if prev, dup := byBit[a.Bit]; dup {
			return fmt.Errorf("bit %d assigned to both %q and %q", a.Bit, prev, a.State)
		}
		byBit[a.Bit] = a.State
		if byState[a.State] {
			return fmt.Errorf("state %q assigned twice", a.State)
		}
		byState[a.State] = true
	}
	return nil
}

// Projector renders a machine's configuration into a snapshot word
// according to a validated layout. Build one per model and layout pair and
// reuse it; Project is allocation free.
type Projector struct {
	model *Model
	bits  []uint64 // per-ordinal own-bit mask, 0 for unassigned states
}

// NewProjector validates layout against the model's tree and precomputes
// the per-state masks.
func NewProjector(model *Model, layout *Layout) (*Projector, error) {
	if err := layout.Validate(model.Tree()); err != nil {
		return nil, err
	}
	p := &Projector{
		model: model,
		bits:  make([]uint64, model.tree.Len()),
	}
	for _, a := range layout.Assignments {
		ord, _ := model.tree.ordinal(a.State)
		p.bits[ord] = 1 << uint(a.Bit)
	}
	return p, nil
}

// Project folds the machine's active configuration into one word: every
// assigned state the machine is in contributes its bit. The word is read
// under a single lock acquisition, so it is a consistent snapshot even
// while other goroutines dispatch.
func (p *Projector) Project(m *Machine) (uint64, error) {
	if m.model != p.model {
		return 0, ErrModelMismatch
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return 0, ErrNotInitialized
	}
	var word uint64
	for _, leaf := range m.current {
		for ord := leaf; ord != -1; ord = p.model.tree.parent[ord] {
			word |= p.bits[ord]
		}
	}
	return word, nil
}

// FormatWord renders a snapshot word for logs: the word in binary, padded
// to the layout's width, followed by the names of the set bits, lowest
// first. Bits the layout does not name render by position.
func FormatWord(l *Layout, word uint64) string {
	names := make(map[int]StateID, len(l.Assignments))
	width := 1
	for _, a := range l.Assignments {
		names[a.Bit] = a.State
		if a.Bit+1 > width {
			width = a.Bit + 1
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "0b%0*b [", width, word)
	first := true
	for bit := 0; bit < WordBits; bit++ {
		if word&(1<<uint(bit)) == 0 {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		if name, ok := names[bit]; ok {
			b.WriteString(string(name))
		} else {
			fmt.Fprintf(&b, "bit%d", bit)
		}
	}
	b.WriteByte(']')
	return b.String()
}
