package tree

import (
	"fmt"
	"sort"
	"strings"

	"app-planner/internal/model"
)

// Sortable table columns.
const (
	SortTitle     = "title"
	SortType      = "type"
	SortStatus    = "status"
	SortPriority  = "priority"
	SortOrder     = "order"
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
)

// Sort returns a copy of blocks ordered by field, the flat table view of an app.
// Ties keep input order. A block without priority sorts before any priority.
func Sort(blocks []model.Block, field string, desc bool) ([]model.Block, error) {
	less, err := lessFor(strings.ToLower(strings.TrimSpace(field)))
	if err != nil {
		return nil, err
	}
	out := append([]model.Block(nil), blocks...)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

func lessFor(field string) (func(a, b model.Block) bool, error) {
	switch field {
	case SortTitle:
		return func(a, b model.Block) bool { return a.Title < b.Title }, nil
	case SortType:
		return func(a, b model.Block) bool { return a.Type < b.Type }, nil
	case SortStatus:
		return func(a, b model.Block) bool { return a.Status < b.Status }, nil
	case SortPriority:
		return func(a, b model.Block) bool { return priorityKey(a) < priorityKey(b) }, nil
	case SortOrder:
		return func(a, b model.Block) bool { return a.Order < b.Order }, nil
	case SortCreatedAt, "":
		return func(a, b model.Block) bool { return a.CreatedAt.Before(b.CreatedAt) }, nil
	case SortUpdatedAt:
		return func(a, b model.Block) bool { return a.UpdatedAt.Before(b.UpdatedAt) }, nil
	default:
		return nil, fmt.Errorf("invalid sort field: %q", field)
	}
}

func priorityKey(b model.Block) string {
	if b.Priority == nil {
		return ""
	}
	return string(*b.Priority)
}
