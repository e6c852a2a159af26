package store

import (
	"app-planner/internal/model"
	"app-planner/internal/tree"
)

// ReorderBlocks applies an already-resolved move. ids is the final order of one sibling
// group; each listed block gets Order = its index. When parent is set, every listed block
// is also re-parented (ToRoot included). Unknown ids are skipped.
//
// Parent changes are validated for every listed block before anything is written, so a
// rejected move leaves the store untouched. Returns the updated blocks in ids order.
func (r *Repository) ReorderBlocks(ids []string, parent ParentTarget) ([]model.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reorderLocked(r.loadBlocks(), ids, parent)
}

func (r *Repository) reorderLocked(blocks []model.Block, ids []string, parent ParentTarget) ([]model.Block, error) {
	pos := make(map[string]int, len(blocks))
	for i := range blocks {
		if _, dup := pos[blocks[i].ID]; !dup {
			pos[blocks[i].ID] = i
		}
	}

	if parent.set && parent.id != nil {
		for _, id := range ids {
			i, ok := pos[id]
			if !ok {
				continue
			}
			if err := checkParent(blocks, blocks[i].AppID, id, *parent.id); err != nil {
				return nil, err
			}
		}
	}

	now := r.stamp()
	touched := make([]int, 0, len(ids))
	for order, id := range ids {
		i, ok := pos[id]
		if !ok {
			continue
		}
		blocks[i].Order = order
		if parent.set {
			blocks[i].ParentID = parent.ID()
		}
		blocks[i].UpdatedAt = now
		touched = append(touched, i)
	}
	if len(touched) == 0 {
		return []model.Block{}, nil
	}

	if err := r.write("block.reorder", map[string]any{KeyBlocks: blocks}); err != nil {
		return nil, err
	}

	out := make([]model.Block, 0, len(touched))
	for _, i := range touched {
		out = append(out, blocks[i])
	}
	ev := r.log.Debug().Int("blocks", len(out)).Bool("reparent", parent.set)
	if parent.set && parent.id != nil {
		ev = ev.Str("parent", *parent.id)
	}
	ev.Msg("blocks reordered")
	return out, nil
}

// MoveBlock resolves a single-block move into a ReorderBlocks call: the block is removed
// from its current group and inserted at index among the target group's siblings.
// index is clamped to the group bounds.
func (r *Repository) MoveBlock(id string, parent ParentTarget, index int) ([]model.Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blocks := r.loadBlocks()
	i := findBlock(blocks, id)
	if i < 0 {
		return nil, NotFoundError{Kind: "block", ID: id}
	}
	moved := blocks[i]
	dest := moved.ParentID
	if parent.set {
		dest = parent.id
	}

	var sibs []string
	for _, b := range tree.Siblings(blocks, moved.AppID, dest) {
		if b.ID != id {
			sibs = append(sibs, b.ID)
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(sibs) {
		index = len(sibs)
	}
	ordered := make([]string, 0, len(sibs)+1)
	ordered = append(ordered, sibs[:index]...)
	ordered = append(ordered, id)
	ordered = append(ordered, sibs[index:]...)

	return r.reorderLocked(blocks, ordered, parent)
}
