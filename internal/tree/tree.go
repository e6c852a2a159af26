// Package tree turns the flat block collection into nested views.
//
// All functions are pure: they never mutate the input slice and always terminate,
// even when the input contains cycles or duplicated ids (possible after a permissive import).
package tree

import (
	"sort"

	"app-planner/internal/model"
)

// Node is a block with its ordered children attached.
type Node struct {
	model.Block
	Children []*Node `json:"children" yaml:"children"`
}

// index groups block positions by parent id. Root blocks live under rootKey.
type index struct {
	blocks   []model.Block
	children map[string][]int
	roots    []int
}

func newIndex(blocks []model.Block) index {
	idx := index{blocks: blocks, children: map[string][]int{}}
	for i := range blocks {
		if blocks[i].IsRoot() {
			idx.roots = append(idx.roots, i)
			continue
		}
		pid := *blocks[i].ParentID
		idx.children[pid] = append(idx.children[pid], i)
	}
	return idx
}

func (idx index) under(parentID *string) []int {
	if parentID == nil {
		return idx.roots
	}
	return idx.children[*parentID]
}

// sortedUnder returns child positions ordered by Order; ties keep input order.
func (idx index) sortedUnder(parentID *string) []int {
	pos := append([]int(nil), idx.under(parentID)...)
	sort.SliceStable(pos, func(i, j int) bool {
		return idx.blocks[pos[i]].Order < idx.blocks[pos[j]].Order
	})
	return pos
}

// Build nests every block reachable from parentID (nil = roots). Each input block
// appears at most once in the result.
func Build(blocks []model.Block, parentID *string) []*Node {
	idx := newIndex(blocks)
	seen := make([]bool, len(blocks))
	return idx.build(parentID, seen)
}

func (idx index) build(parentID *string, seen []bool) []*Node {
	pos := idx.sortedUnder(parentID)
	out := make([]*Node, 0, len(pos))
	for _, p := range pos {
		if seen[p] {
			continue
		}
		seen[p] = true
		b := idx.blocks[p]
		id := b.ID
		out = append(out, &Node{
			Block:    b,
			Children: idx.build(&id, seen),
		})
	}
	return out
}

// Descendants returns every block transitively parented under parentID, parents before
// their children. Sibling order follows the input, not Order.
func Descendants(blocks []model.Block, parentID string) []model.Block {
	idx := newIndex(blocks)
	seen := make([]bool, len(blocks))
	var out []model.Block
	var walk func(pid string)
	walk = func(pid string) {
		for _, p := range idx.children[pid] {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, blocks[p])
			walk(blocks[p].ID)
		}
	}
	walk(parentID)
	return out
}

// DescendantIDs is Descendants reduced to a membership set.
func DescendantIDs(blocks []model.Block, parentID string) map[string]bool {
	out := map[string]bool{}
	for _, b := range Descendants(blocks, parentID) {
		out[b.ID] = true
	}
	return out
}

// Siblings returns the blocks of appID directly under parentID, sorted by Order.
func Siblings(blocks []model.Block, appID string, parentID *string) []model.Block {
	var out []model.Block
	for _, b := range blocks {
		if b.AppID == appID && b.HasParent(parentID) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// NextOrder returns the order that places a new block after all current siblings.
// For a dense group this is simply the number of siblings.
func NextOrder(blocks []model.Block, appID string, parentID *string) int {
	sibs := Siblings(blocks, appID, parentID)
	next := len(sibs)
	if n := len(sibs); n > 0 && sibs[n-1].Order >= next {
		next = sibs[n-1].Order + 1
	}
	return next
}

// Walk visits nodes depth-first, pre-order. depth starts at 0 for the given nodes.
func Walk(nodes []*Node, fn func(n *Node, depth int)) {
	var walk func(ns []*Node, depth int)
	walk = func(ns []*Node, depth int) {
		for _, n := range ns {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(nodes, 0)
}

// Count returns the number of nodes in the forest.
func Count(nodes []*Node) int {
	n := 0
	Walk(nodes, func(*Node, int) { n++ })
	return n
}
