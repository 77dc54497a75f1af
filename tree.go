package hsmsnap

import "fmt"

// StateID names a state within a chart. IDs are unique across the whole
// chart, composite and leaf alike.
type StateID string

// Node is one row of the parent-pointer table a Tree is built from. A Node
// with an empty Parent is the root.
type Node struct {
	ID     StateID
	Parent StateID
}

// Tree is the immutable ancestry index of one machine type. The parent
// relation is stored as an ordinal table, so membership walks chase small
// integers instead of pointers or map keys. All machine instances of a
// type share one Tree; it is never mutated after NewTree returns.
type Tree struct {
	ids    []StateID
	index  map[StateID]int32
	parent []int32 // parent ordinal, -1 for the root
	root   int32
}

// NewTree builds a Tree from a parent-pointer table. It rejects empty and
// duplicate IDs, parents that name no node, chains that loop, and any root
// count other than one. Ordinals follow the order of nodes.
func NewTree(nodes []Node) (*Tree, error) {
	if len(nodes) == 0 {
		return nil, &StructuralError{Reason: "no states"}
	}
	t := &Tree{
		ids:    make([]StateID, len(nodes)),
		index:  make(map[StateID]int32, len(nodes)),
		parent: make([]int32, len(nodes)),
		root:   -1,
	}
	for i, n := range nodes {
		if n.ID == "" {
			return nil, &StructuralError{Reason: "state with empty ID"}
		}
		if _, dup := t.index[n.ID]; dup {
			return nil, structErr(n.ID, "duplicate state ID")
		}
		t.ids[i] = n.ID
		t.index[n.ID] = int32(i)
	}
	for i, n := range nodes {
		if n.Parent == "" {
			if t.root >= 0 {
				return nil, structErr(n.ID, "second root, root is already %q", t.ids[t.root])
			}
			t.root = int32(i)
			t.parent[i] = -1
			continue
		}
		if n.Parent == n.ID {
			return nil, structErr(n.ID, "state is its own parent")
		}
		p, ok := t.index[n.Parent]
		if !ok {
			return nil, structErr(n.ID, "unknown parent %q", n.Parent)
		}
		t.parent[i] = p
	}
	if t.root < 0 {
		return nil, &StructuralError{Reason: "no root state"}
	}
	// Every chain must reach the root within len(nodes) hops; a longer
	// walk means the chain loops.
	for i := range t.parent {
		ord := int32(i)
		for hops := 0; ord != -1; hops++ {
			if hops == len(nodes) {
				return nil, structErr(t.ids[i], "ancestor chain loops, never reaches the root")
			}
			ord = t.parent[ord]
		}
	}
	return t, nil
}

// Len returns the number of states, the root included.
func (t *Tree) Len() int { return len(t.ids) }

// Root returns the ID of the single root state.
func (t *Tree) Root() StateID { return t.ids[t.root] }

// Contains reports whether id names a state of the tree.
func (t *Tree) Contains(id StateID) bool {
	_, ok := t.index[id]
	return ok
}

// Parent returns the parent of id. ok is false when id is the root or
// names no state.
func (t *Tree) Parent(id StateID) (StateID, bool) {
	ord, ok := t.index[id]
	if !ok || t.parent[ord] == -1 {
		return "", false
	}
	return t.ids[t.parent[ord]], true
}

// States returns all state IDs in ordinal order, the root first. The slice
// is a copy.
func (t *Tree) States() []StateID {
	out := make([]StateID, len(t.ids))
	copy(out, t.ids)
	return out
}

// Ancestors returns the chain from id up to the root, id itself first. The
// slice is freshly allocated on every call.
func (t *Tree) Ancestors(id StateID) ([]StateID, error) {
	ord, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("ancestors of %q: %w", id, ErrUnknownState)
	}
	chain := make([]StateID, 0, 4)
	for ; ord != -1; ord = t.parent[ord] {
		chain = append(chain, t.ids[ord])
	}
	return chain, nil
}

// ordinal returns the dense index of id.
func (t *Tree) ordinal(id StateID) (int32, bool) {
	ord, ok := t.index[id]
	return ord, ok
}

// isAncestor reports whether anc lies on leaf's chain, leaf itself
// included.
func (t *Tree) isAncestor(anc, leaf int32) bool {
	for ord := leaf; ord != -1; ord = t.parent[ord] {
		if ord == anc {
			return true
		}
	}
	return false
}

// depth returns the number of hops from ord to the root.
func (t *Tree) depth(ord int32) int {
	d := 0
	for ; t.parent[ord] != -1; ord = t.parent[ord] {
		d++
	}
	return d
}

// lca returns the lowest common ancestor of a and b. Both must be valid
// ordinals of the tree.
func (t *Tree) lca(a, b int32) int32 {
	da, db := t.depth(a), t.depth(b)
	for da > db {
		a = t.parent[a]
		da--
	}
	for db > da {
		b = t.parent[b]
		db--
	}
	for a != b {
		a = t.parent[a]
		b = t.parent[b]
	}
	return a
}
