package hsmsnap

// Model is the compiled, immutable form of one chart: the ancestry Tree,
// per-state transition tables, and the initial leaf of every region. All
// Machine instances of a chart share its Model; nothing in it changes
// after Compile returns.
type Model struct {
	chart   *Chart
	tree    *Tree
	events  []map[string]int32 // per-ordinal event name to target ordinal
	initial []int32            // per-ordinal initial child, -1 for leaves
	regions []region
}

// region pairs a region root with its resolved initial leaf. A parallel
// chart has one region per top-level state; any other chart has a single
// region rooted at the implicit top.
type region struct {
	root int32
	leaf int32
}

// Compile validates the chart and lowers it into a Model.
func (c *Chart) Compile() (*Model, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	tree, err := NewTree(c.Nodes())
	if err != nil {
		return nil, err
	}
	m := &Model{
		chart:   c,
		tree:    tree,
		events:  make([]map[string]int32, tree.Len()),
		initial: make([]int32, tree.Len()),
	}
	for i := range m.initial {
		m.initial[i] = -1
	}

	var lower func(ds []*StateDef)
	lower = func(ds []*StateDef) {
		for _, d := range ds {
			ord, _ := tree.ordinal(d.ID)
			if len(d.On) > 0 {
				tbl := make(map[string]int32, len(d.On))
				for ev, target := range d.On {
					tOrd, _ := tree.ordinal(target)
					tbl[ev] = tOrd
				}
				m.events[ord] = tbl
			}
			if d.Initial != "" {
				iOrd, _ := tree.ordinal(d.Initial)
				m.initial[ord] = iOrd
			}
			lower(d.Children)
		}
	}
	lower(c.States)

	if c.Parallel {
		m.regions = make([]region, 0, len(c.States))
		for _, d := range c.States {
			ord, _ := tree.ordinal(d.ID)
			m.regions = append(m.regions, region{root: ord, leaf: m.descend(ord)})
		}
	} else {
		iOrd, _ := tree.ordinal(c.Initial)
		m.initial[tree.root] = iOrd
		m.regions = []region{{root: tree.root, leaf: m.descend(tree.root)}}
	}
	return m, nil
}

// Chart returns the source definition. Callers must not mutate it.
func (m *Model) Chart() *Chart { return m.chart }

// Tree returns the shared ancestry index.
func (m *Model) Tree() *Tree { return m.tree }

// Regions returns the region roots in document order. A non-parallel chart
// has exactly one region, rooted at the implicit top.
func (m *Model) Regions() []StateID {
	out := make([]StateID, len(m.regions))
	for i, r := range m.regions {
		out[i] = m.tree.ids[r.root]
	}
	return out
}
