package store

import (
	"fmt"
	"strings"

	"app-planner/internal/model"
	"app-planner/internal/tree"
)

// HardDeletePolicy decides what happens to the children of a permanently removed block.
type HardDeletePolicy string

const (
	// HardDeleteOrphan removes only the block; children keep a dangling parent_id.
	HardDeleteOrphan HardDeletePolicy = "orphan"
	// HardDeleteForbid refuses to remove a block that still has children.
	HardDeleteForbid HardDeletePolicy = "forbid"
	// HardDeleteCascade removes the block and its whole subtree.
	HardDeleteCascade HardDeletePolicy = "cascade"
	// HardDeleteReparent moves the children up to the removed block's parent.
	HardDeleteReparent HardDeletePolicy = "reparent"
)

func ParseHardDeletePolicy(s string) (HardDeletePolicy, error) {
	switch p := HardDeletePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case HardDeleteOrphan, HardDeleteForbid, HardDeleteCascade, HardDeleteReparent:
		return p, nil
	case "":
		return HardDeleteOrphan, nil
	default:
		return "", fmt.Errorf("invalid hard delete policy: %q (want orphan|forbid|cascade|reparent)", s)
	}
}

type HardDeleteResult struct {
	Removed    []string `json:"removed" yaml:"removed"`
	Reparented []string `json:"reparented,omitempty" yaml:"reparented,omitempty"`
	Orphaned   []string `json:"orphaned,omitempty" yaml:"orphaned,omitempty"`
}

// HardDeleteBlock permanently removes a block using the repository's policy.
func (r *Repository) HardDeleteBlock(id string) (HardDeleteResult, error) {
	return r.HardDeleteBlockWith(id, r.hardDelete)
}

func (r *Repository) HardDeleteBlockWith(id string, policy HardDeletePolicy) (HardDeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blocks := r.loadBlocks()
	i := findBlock(blocks, id)
	if i < 0 {
		return HardDeleteResult{}, NotFoundError{Kind: "block", ID: id}
	}
	target := blocks[i]

	var childIDs []string
	for _, b := range blocks {
		if b.ParentID != nil && *b.ParentID == id && b.ID != id {
			childIDs = append(childIDs, b.ID)
		}
	}

	res := HardDeleteResult{Removed: []string{id}}
	remove := map[string]bool{id: true}

	switch policy {
	case HardDeleteOrphan, "":
		res.Orphaned = childIDs
	case HardDeleteForbid:
		if len(childIDs) > 0 {
			return HardDeleteResult{}, ValidationError{
				Field:   "children",
				Message: fmt.Sprintf("block %s has %d children; move or delete them first", id, len(childIDs)),
			}
		}
	case HardDeleteCascade:
		for _, d := range tree.Descendants(blocks, id) {
			if !remove[d.ID] {
				remove[d.ID] = true
				res.Removed = append(res.Removed, d.ID)
			}
		}
	case HardDeleteReparent:
		now := r.stamp()
		next := tree.NextOrder(withoutIDs(blocks, remove), target.AppID, target.ParentID)
		for _, child := range tree.Siblings(blocks, target.AppID, model.StrPtr(id)) {
			j := findBlock(blocks, child.ID)
			blocks[j].ParentID = model.CopyID(target.ParentID)
			blocks[j].Order = next
			blocks[j].UpdatedAt = now
			next++
			res.Reparented = append(res.Reparented, child.ID)
		}
	default:
		return HardDeleteResult{}, ValidationError{Field: "policy", Message: fmt.Sprintf("unknown hard delete policy %q", policy)}
	}

	collapsed := r.loadCollapsed()
	for rid := range remove {
		delete(collapsed, rid)
	}
	if err := r.write("block.hard_delete", map[string]any{
		KeyBlocks:    withoutIDs(blocks, remove),
		KeyCollapsed: collapsed,
	}); err != nil {
		return HardDeleteResult{}, err
	}
	r.log.Info().
		Str("block", id).
		Str("policy", string(policy)).
		Int("removed", len(res.Removed)).
		Int("reparented", len(res.Reparented)).
		Int("orphaned", len(res.Orphaned)).
		Msg("block hard-deleted")
	return res, nil
}

func withoutIDs(blocks []model.Block, ids map[string]bool) []model.Block {
	out := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		if !ids[b.ID] {
			out = append(out, b)
		}
	}
	return out
}
