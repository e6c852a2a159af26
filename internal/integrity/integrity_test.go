package integrity

import (
	"testing"

	"app-planner/internal/model"
)

func block(id, app, parent string) model.Block {
	b := model.Block{ID: id, AppID: app, Type: model.TypeNote, Status: model.StatusNotStarted}
	if parent != "" {
		b.ParentID = model.StrPtr(parent)
	}
	return b
}

func codes(r Report) map[string]int {
	out := map[string]int{}
	for _, it := range r.Issues {
		out[it.Code]++
	}
	return out
}

func TestCheck_CleanState(t *testing.T) {
	t.Parallel()

	apps := []model.App{{ID: "app-1", Name: "Planner"}}
	blocks := []model.Block{block("a", "app-1", ""), block("b", "app-1", "a")}
	r := Check(apps, blocks, map[string]bool{"a": true})
	if len(r.Issues) != 0 || r.HasErrors() {
		t.Fatalf("expected no issues, got %+v", r.Issues)
	}
	if r.Summary() != "ok" {
		t.Fatalf("unexpected summary %q", r.Summary())
	}
}

func TestCheck_ReportsDanglingAndCrossApp(t *testing.T) {
	t.Parallel()

	apps := []model.App{{ID: "app-1", Name: "One"}, {ID: "app-2", Name: "Two"}}
	blocks := []model.Block{
		block("a", "app-1", ""),
		block("b", "app-1", "missing"),
		block("c", "app-2", "a"),
		block("d", "app-9", ""),
	}
	got := codes(Check(apps, blocks, map[string]bool{"ghost": true}))
	if got[CodeDanglingParent] != 1 || got[CodeCrossAppParent] != 1 || got[CodeDanglingApp] != 1 {
		t.Fatalf("unexpected codes: %v", got)
	}
	if got[CodeCollapsedUnknown] != 1 {
		t.Fatalf("expected collapsed warning: %v", got)
	}
}

func TestCheck_DetectsCyclesOnce(t *testing.T) {
	t.Parallel()

	apps := []model.App{{ID: "app-1", Name: "One"}}
	blocks := []model.Block{
		block("x", "app-1", "z"),
		block("y", "app-1", "x"),
		block("z", "app-1", "y"),
		block("tail", "app-1", "x"),
		block("self", "app-1", "self"),
	}
	r := Check(apps, blocks, nil)
	var cycles []Issue
	for _, it := range r.Issues {
		if it.Code == CodeCycle {
			cycles = append(cycles, it)
		}
	}
	if len(cycles) != 2 {
		t.Fatalf("expected 2 cycles, got %+v", cycles)
	}
	if cycles[0].EntityID != "self" || cycles[1].EntityID != "x" {
		t.Fatalf("unexpected cycle anchors: %+v", cycles)
	}
	if cycles[1].Message != "parent cycle: x -> z -> y" {
		t.Fatalf("unexpected cycle message: %q", cycles[1].Message)
	}
}

func TestCheck_DuplicatesAndEnums(t *testing.T) {
	t.Parallel()

	bad := block("b2", "app-1", "")
	bad.Type = "epic"
	bad.Status = "archived"
	p := model.BlockPriority("urgent")
	bad.Priority = &p
	bad.Order = -1

	apps := []model.App{{ID: "app-1", Name: ""}, {ID: "app-1", Name: "dup"}}
	blocks := []model.Block{block("app-1", "app-1", ""), bad}

	got := codes(Check(apps, blocks, nil))
	if got[CodeDuplicateID] != 2 {
		t.Fatalf("expected app/app and app/block duplicates: %v", got)
	}
	for _, c := range []string{CodeEmptyAppName, CodeInvalidType, CodeInvalidStatus, CodeInvalidPriority, CodeNegativeOrder} {
		if got[c] != 1 {
			t.Fatalf("expected %s once: %v", c, got)
		}
	}
}
