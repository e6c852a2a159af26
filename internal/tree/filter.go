package tree

import (
	"strings"

	"app-planner/internal/model"
)

// Filter narrows a block list before building a tree. Zero fields match everything.
type Filter struct {
	// Search matches title or description, case-insensitively.
	Search string
	Status model.BlockStatus
	Type   model.BlockType
}

func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.Status == "" && f.Type == ""
}

func (f Filter) Match(b model.Block) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(b.Title), q) && !strings.Contains(strings.ToLower(b.Description), q) {
			return false
		}
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Type != "" && b.Type != f.Type {
		return false
	}
	return true
}

// Apply returns the matching blocks in input order. A block whose parent is filtered
// out is unreachable from the roots of a subsequent Build.
func (f Filter) Apply(blocks []model.Block) []model.Block {
	out := make([]model.Block, 0, len(blocks))
	if f.IsZero() {
		return append(out, blocks...)
	}
	for _, b := range blocks {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	return out
}
