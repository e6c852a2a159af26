// Package progress aggregates completion over a set of blocks.
package progress

import (
	"app-planner/internal/model"
	"app-planner/internal/tree"
)

type Stats struct {
	Total      int `json:"total" yaml:"total"`
	Done       int `json:"done" yaml:"done"`
	Percentage int `json:"percentage" yaml:"percentage"`

	// ByStatus counts every block in scope, deprecated included.
	ByStatus map[model.BlockStatus]int `json:"byStatus,omitempty" yaml:"byStatus,omitempty"`
}

// Calculate computes progress for appID's blocks, or for the subtree under parentID
// when it is non-nil. Deprecated blocks are left out of Total and Done.
func Calculate(blocks []model.Block, appID string, parentID *string) Stats {
	var own []model.Block
	for _, b := range blocks {
		if b.AppID == appID {
			own = append(own, b)
		}
	}
	if parentID != nil {
		own = tree.Descendants(own, *parentID)
	}
	return Summarize(own)
}

// Summarize computes Stats over exactly the given blocks.
func Summarize(blocks []model.Block) Stats {
	st := Stats{ByStatus: map[model.BlockStatus]int{}}
	for _, b := range blocks {
		st.ByStatus[b.Status]++
		if b.Deprecated() {
			continue
		}
		st.Total++
		if b.Status == model.StatusDone {
			st.Done++
		}
	}
	st.Percentage = Percent(st.Done, st.Total)
	if len(st.ByStatus) == 0 {
		st.ByStatus = nil
	}
	return st
}

// Percent rounds done/total to the nearest whole percent, halves rounding up.
// A zero total yields 0.
func Percent(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	return (200*done + total) / (2 * total)
}
