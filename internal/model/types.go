package model

import (
	"fmt"
	"strings"
)

type BlockType string

const (
	TypePlannerSection BlockType = "planner_section"
	TypePRDSection     BlockType = "prd_section"
	TypeFeature        BlockType = "feature"
	TypeSubFeature     BlockType = "sub_feature"
	TypeRule           BlockType = "rule"
	TypeUserFlow       BlockType = "user_flow"
	TypeFlowStep       BlockType = "flow_step"
	TypeDataEntity     BlockType = "data_entity"
	TypeField          BlockType = "field"
	TypeNote           BlockType = "note"
)

var blockTypeLabels = map[BlockType]string{
	TypePlannerSection: "Planner Section",
	TypePRDSection:     "PRD Section",
	TypeFeature:        "Feature",
	TypeSubFeature:     "Sub-feature",
	TypeRule:           "Rule",
	TypeUserFlow:       "User Flow",
	TypeFlowStep:       "Flow Step",
	TypeDataEntity:     "Data Entity",
	TypeField:          "Field",
	TypeNote:           "Note",
}

// BlockTypes lists every block type in display order.
func BlockTypes() []BlockType {
	return []BlockType{
		TypePlannerSection,
		TypePRDSection,
		TypeFeature,
		TypeSubFeature,
		TypeRule,
		TypeUserFlow,
		TypeFlowStep,
		TypeDataEntity,
		TypeField,
		TypeNote,
	}
}

func (t BlockType) Valid() bool {
	_, ok := blockTypeLabels[t]
	return ok
}

// Label falls back to "Block" for unknown types.
func (t BlockType) Label() string {
	if l, ok := blockTypeLabels[t]; ok {
		return l
	}
	return "Block"
}

type BlockStatus string

const (
	StatusNotStarted  BlockStatus = "not_started"
	StatusInProgress  BlockStatus = "in_progress"
	StatusBlocked     BlockStatus = "blocked"
	StatusNeedsReview BlockStatus = "needs_review"
	StatusDone        BlockStatus = "done"
	StatusDeprecated  BlockStatus = "deprecated"
)

var blockStatusLabels = map[BlockStatus]string{
	StatusNotStarted:  "Not Started",
	StatusInProgress:  "In Progress",
	StatusBlocked:     "Blocked",
	StatusNeedsReview: "Needs Review",
	StatusDone:        "Done",
	StatusDeprecated:  "Deprecated",
}

func BlockStatuses() []BlockStatus {
	return []BlockStatus{
		StatusNotStarted,
		StatusInProgress,
		StatusBlocked,
		StatusNeedsReview,
		StatusDone,
		StatusDeprecated,
	}
}

func (s BlockStatus) Valid() bool {
	_, ok := blockStatusLabels[s]
	return ok
}

func (s BlockStatus) Label() string {
	if l, ok := blockStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

type BlockPriority string

const (
	PriorityMust     BlockPriority = "must"
	PriorityShould   BlockPriority = "should"
	PriorityNice     BlockPriority = "nice"
	PriorityOptional BlockPriority = "optional"
)

var blockPriorityLabels = map[BlockPriority]string{
	PriorityMust:     "Must Have",
	PriorityShould:   "Should Have",
	PriorityNice:     "Nice to Have",
	PriorityOptional: "Optional",
}

func BlockPriorities() []BlockPriority {
	return []BlockPriority{PriorityMust, PriorityShould, PriorityNice, PriorityOptional}
}

func (p BlockPriority) Valid() bool {
	_, ok := blockPriorityLabels[p]
	return ok
}

func (p BlockPriority) Label() string {
	if l, ok := blockPriorityLabels[p]; ok {
		return l
	}
	return string(p)
}

// ParseBlockType accepts ids ("user_flow") and labels ("User Flow"), case-insensitively.
func ParseBlockType(s string) (BlockType, error) {
	s = strings.TrimSpace(s)
	for _, t := range BlockTypes() {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, t.Label()) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid block type: %q", s)
}

func ParseBlockStatus(s string) (BlockStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range BlockStatuses() {
		if strings.EqualFold(s, string(st)) || strings.EqualFold(s, st.Label()) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status: %q", s)
}

// ParseBlockPriority returns nil for "", "none" and "null".
func ParseBlockPriority(s string) (*BlockPriority, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "null":
		return nil, nil
	}
	for _, p := range BlockPriorities() {
		if strings.EqualFold(s, string(p)) || strings.EqualFold(s, p.Label()) {
			v := p
			return &v, nil
		}
	}
	return nil, fmt.Errorf("invalid priority: %q", s)
}
