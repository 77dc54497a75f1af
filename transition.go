package hsmsnap

// descend resolves ord to its initial leaf by following initial children.
// A leaf resolves to itself.
func (m *Model) descend(ord int32) int32 {
	for m.initial[ord] != -1 {
		ord = m.initial[ord]
	}
	return ord
}

// findTransition walks leaf's ancestor chain innermost first and returns
// the first state declaring a transition for event, plus its target. A
// deeper state therefore overrides a shallower one for the same event.
func (m *Model) findTransition(leaf int32, event string) (src, target int32, ok bool) {
	for ord := leaf; ord != -1; ord = m.tree.parent[ord] {
		if tbl := m.events[ord]; tbl != nil {
			if t, found := tbl[event]; found {
				return ord, t, true
			}
		}
	}
	return 0, 0, false
}

// exitChain lists the states left when moving from leaf up to stop,
// innermost first. stop itself is not exited; stop must be an ancestor of
// leaf, or -1 to exit the whole chain.
func (m *Model) exitChain(leaf, stop int32) []int32 {
	var chain []int32
	for ord := leaf; ord != stop; ord = m.tree.parent[ord] {
		chain = append(chain, ord)
	}
	return chain
}

// entryChain lists the states entered when moving from above down to leaf,
// outermost first. above itself is not entered; above must be an ancestor
// of leaf, or -1 to enter the whole chain.
func (m *Model) entryChain(above, leaf int32) []int32 {
	var chain []int32
	for ord := leaf; ord != above; ord = m.tree.parent[ord] {
		chain = append(chain, ord)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// transitionPath computes the exit set, resolved leaf, and entry set for a
// transition from the region leaf to target. The pivot is the lowest
// common ancestor of source leaf and target; a transition whose target is
// the leaf itself or one of its ancestors is external, it exits and
// re-enters the target.
func (m *Model) transitionPath(leaf, target int32) (exits []int32, next int32, entries []int32) {
	pivot := m.tree.lca(leaf, target)
	if pivot == target {
		pivot = m.tree.parent[target]
	}
	exits = m.exitChain(leaf, pivot)
	next = m.descend(target)
	entries = m.entryChain(pivot, next)
	return exits, next, entries
}
