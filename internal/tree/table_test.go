package tree

import (
	"reflect"
	"testing"
	"time"

	"app-planner/internal/model"
)

func TestSort(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	nice := model.PriorityNice
	must := model.PriorityMust
	blocks := []model.Block{
		{ID: "a", Title: "Beta", Status: model.StatusDone, Priority: &nice, CreatedAt: t0.Add(2 * time.Hour)},
		{ID: "b", Title: "Alpha", Status: model.StatusBlocked, CreatedAt: t0},
		{ID: "c", Title: "Gamma", Status: model.StatusBlocked, Priority: &must, CreatedAt: t0.Add(time.Hour)},
	}

	ids := func(bs []model.Block) []string {
		out := make([]string, 0, len(bs))
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}

	tests := []struct {
		field string
		desc  bool
		want  []string
	}{
		{SortTitle, false, []string{"b", "a", "c"}},
		{SortCreatedAt, true, []string{"a", "c", "b"}},
		{"", false, []string{"b", "c", "a"}},
		{SortStatus, false, []string{"b", "c", "a"}},
		{SortPriority, false, []string{"b", "c", "a"}},
	}
	for _, tc := range tests {
		got, err := Sort(blocks, tc.field, tc.desc)
		if err != nil {
			t.Fatalf("Sort(%q): %v", tc.field, err)
		}
		if !reflect.DeepEqual(ids(got), tc.want) {
			t.Fatalf("Sort(%q, desc=%v): got %v want %v", tc.field, tc.desc, ids(got), tc.want)
		}
	}

	if _, err := Sort(blocks, "colour", false); err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if blocks[0].ID != "a" {
		t.Fatalf("input must not be reordered")
	}
}
