// Package integrity checks the referential consistency of apps and blocks.
package integrity

import (
	"fmt"
	"sort"
	"strings"

	"app-planner/internal/model"
)

type Level string

const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
)

const (
	CodeDuplicateID      = "duplicate_id"
	CodeMissingID        = "missing_id"
	CodeEmptyAppName     = "empty_app_name"
	CodeDanglingApp      = "dangling_app"
	CodeDanglingParent   = "dangling_parent"
	CodeCrossAppParent   = "cross_app_parent"
	CodeCycle            = "cycle"
	CodeInvalidType      = "invalid_type"
	CodeInvalidStatus    = "invalid_status"
	CodeInvalidPriority  = "invalid_priority"
	CodeNegativeOrder    = "negative_order"
	CodeCollapsedUnknown = "collapsed_unknown_block"
)

type Issue struct {
	Level      Level  `json:"level" yaml:"level"`
	Code       string `json:"code" yaml:"code"`
	Message    string `json:"message" yaml:"message"`
	EntityKind string `json:"entityKind,omitempty" yaml:"entityKind,omitempty"`
	EntityID   string `json:"entityId,omitempty" yaml:"entityId,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

func (r Report) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == LevelError {
			return true
		}
	}
	return false
}

// Errors returns only error-level issues.
func (r Report) Errors() []Issue {
	var out []Issue
	for _, it := range r.Issues {
		if it.Level == LevelError {
			out = append(out, it)
		}
	}
	return out
}

// Summary renders the first few error codes for one-line messages.
func (r Report) Summary() string {
	errs := r.Errors()
	if len(errs) == 0 {
		return "ok"
	}
	parts := make([]string, 0, 3)
	for i, it := range errs {
		if i == 3 {
			parts = append(parts, fmt.Sprintf("and %d more", len(errs)-3))
			break
		}
		parts = append(parts, it.Message)
	}
	return strings.Join(parts, "; ")
}

// Check inspects a full state. collapsed may be nil.
func Check(apps []model.App, blocks []model.Block, collapsed map[string]bool) Report {
	var issues []Issue
	add := func(level Level, code, kind, id, format string, args ...any) {
		issues = append(issues, Issue{
			Level:      level,
			Code:       code,
			Message:    fmt.Sprintf(format, args...),
			EntityKind: kind,
			EntityID:   id,
		})
	}

	seen := map[string]string{}
	appByID := map[string]bool{}
	for _, a := range apps {
		if strings.TrimSpace(a.ID) == "" {
			add(LevelError, CodeMissingID, "app", "", "app %q has no id", a.Name)
			continue
		}
		if kind, dup := seen[a.ID]; dup {
			add(LevelError, CodeDuplicateID, "app", a.ID, "app id %s already used by a %s", a.ID, kind)
		}
		seen[a.ID] = "app"
		appByID[a.ID] = true
		if strings.TrimSpace(a.Name) == "" {
			add(LevelWarn, CodeEmptyAppName, "app", a.ID, "app %s has an empty name", a.ID)
		}
	}

	blockByID := map[string]model.Block{}
	for _, b := range blocks {
		if strings.TrimSpace(b.ID) == "" {
			add(LevelError, CodeMissingID, "block", "", "block %q has no id", b.Title)
			continue
		}
		if kind, dup := seen[b.ID]; dup {
			add(LevelError, CodeDuplicateID, "block", b.ID, "block id %s already used by a %s", b.ID, kind)
		} else {
			blockByID[b.ID] = b
		}
		seen[b.ID] = "block"

		if !appByID[b.AppID] {
			add(LevelError, CodeDanglingApp, "block", b.ID, "block %s references missing app %s", b.ID, b.AppID)
		}
		if !b.Type.Valid() {
			add(LevelError, CodeInvalidType, "block", b.ID, "block %s has invalid type %q", b.ID, b.Type)
		}
		if !b.Status.Valid() {
			add(LevelError, CodeInvalidStatus, "block", b.ID, "block %s has invalid status %q", b.ID, b.Status)
		}
		if b.Priority != nil && !b.Priority.Valid() {
			add(LevelError, CodeInvalidPriority, "block", b.ID, "block %s has invalid priority %q", b.ID, *b.Priority)
		}
		if b.Order < 0 {
			add(LevelError, CodeNegativeOrder, "block", b.ID, "block %s has negative order %d", b.ID, b.Order)
		}
	}

	for _, b := range blocks {
		if b.ParentID == nil || strings.TrimSpace(b.ID) == "" {
			continue
		}
		p, ok := blockByID[*b.ParentID]
		if !ok {
			add(LevelError, CodeDanglingParent, "block", b.ID, "block %s references missing parent %s", b.ID, *b.ParentID)
			continue
		}
		if p.AppID != b.AppID {
			add(LevelError, CodeCrossAppParent, "block", b.ID, "block %s (app %s) has parent %s in app %s", b.ID, b.AppID, p.ID, p.AppID)
		}
	}

	for _, cyc := range findCycles(blockByID) {
		add(LevelError, CodeCycle, "block", cyc[0], "parent cycle: %s", strings.Join(cyc, " -> "))
	}

	if len(collapsed) > 0 {
		keys := make([]string, 0, len(collapsed))
		for k := range collapsed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := blockByID[k]; !ok {
				add(LevelWarn, CodeCollapsedUnknown, "block", k, "collapsed state for unknown block %s", k)
			}
		}
	}

	if issues == nil {
		issues = []Issue{}
	}
	return Report{Issues: issues}
}

// findCycles follows parent links from every block and returns each cycle once,
// starting at its smallest id.
func findCycles(byID map[string]model.Block) [][]string {
	const (
		unvisited = iota
		onPath
		finished
	)
	state := map[string]int{}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out [][]string
	for _, start := range ids {
		if state[start] != unvisited {
			continue
		}
		var path []string
		cur := start
		for {
			if state[cur] == onPath {
				// cur closes a loop; the cycle is the path suffix starting at cur.
				i := indexOf(path, cur)
				out = append(out, rotateToMin(path[i:]))
				break
			}
			if state[cur] == finished {
				break
			}
			state[cur] = onPath
			path = append(path, cur)
			b := byID[cur]
			if b.ParentID == nil {
				break
			}
			if _, ok := byID[*b.ParentID]; !ok {
				break
			}
			cur = *b.ParentID
		}
		for _, id := range path {
			state[id] = finished
		}
	}
	return out
}

func indexOf(xs []string, x string) int {
	for i := range xs {
		if xs[i] == x {
			return i
		}
	}
	return -1
}

func rotateToMin(cyc []string) []string {
	lo := 0
	for i := range cyc {
		if cyc[i] < cyc[lo] {
			lo = i
		}
	}
	out := make([]string, 0, len(cyc))
	out = append(out, cyc[lo:]...)
	out = append(out, cyc[:lo]...)
	return out
}
