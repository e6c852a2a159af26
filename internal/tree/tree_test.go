package tree

import (
	"reflect"
	"testing"

	"app-planner/internal/model"
)

func blk(id string, parent string, order int) model.Block {
	b := model.Block{ID: id, AppID: "app-1", Order: order, Status: model.StatusNotStarted, Type: model.TypeFeature, Title: id}
	if parent != "" {
		b.ParentID = model.StrPtr(parent)
	}
	return b
}

func ids(nodes []*Node) []string {
	out := []string{}
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestBuild_NestsAndOrders(t *testing.T) {
	t.Parallel()

	blocks := []model.Block{
		blk("b", "", 1),
		blk("a", "", 0),
		blk("a2", "a", 5),
		blk("a1", "a", 2),
		blk("a1x", "a1", 0),
	}
	got := Build(blocks, nil)

	if !reflect.DeepEqual(ids(got), []string{"a", "b"}) {
		t.Fatalf("roots: %v", ids(got))
	}
	if !reflect.DeepEqual(ids(got[0].Children), []string{"a1", "a2"}) {
		t.Fatalf("children of a: %v", ids(got[0].Children))
	}
	if !reflect.DeepEqual(ids(got[0].Children[0].Children), []string{"a1x"}) {
		t.Fatalf("children of a1: %v", ids(got[0].Children[0].Children))
	}
	if len(got[1].Children) != 0 {
		t.Fatalf("expected leaf b, got %v", ids(got[1].Children))
	}
	if Count(got) != len(blocks) {
		t.Fatalf("expected every block exactly once, got %d nodes", Count(got))
	}
}

func TestBuild_TiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	blocks := []model.Block{blk("z", "", 0), blk("y", "", 0), blk("x", "", 0)}
	for i := 0; i < 5; i++ {
		if got := ids(Build(blocks, nil)); !reflect.DeepEqual(got, []string{"z", "y", "x"}) {
			t.Fatalf("unstable tie order: %v", got)
		}
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	blocks := []model.Block{blk("b", "", 1), blk("a", "", 0)}
	before := append([]model.Block(nil), blocks...)
	_ = Build(blocks, nil)
	if !reflect.DeepEqual(before, blocks) {
		t.Fatalf("input mutated")
	}
}

func TestBuild_FromSubtree(t *testing.T) {
	t.Parallel()

	blocks := []model.Block{blk("a", "", 0), blk("a1", "a", 0), blk("a2", "a", 1)}
	got := Build(blocks, model.StrPtr("a"))
	if !reflect.DeepEqual(ids(got), []string{"a1", "a2"}) {
		t.Fatalf("subtree: %v", ids(got))
	}
}

func TestBuild_TerminatesOnMalformedInput(t *testing.T) {
	t.Parallel()

	blocks := []model.Block{
		blk("root", "", 0),
		// Duplicate id parented under itself.
		blk("root", "root", 0),
		// Detached two-node cycle.
		blk("c1", "c2", 0),
		blk("c2", "c1", 0),
	}
	got := Build(blocks, nil)
	if Count(got) != 2 {
		t.Fatalf("expected the two reachable records, got %d", Count(got))
	}
	if d := Descendants(blocks, "c1"); len(d) != 2 {
		t.Fatalf("expected cycle members once each, got %d", len(d))
	}
}

func TestDescendants_PreOrderMembership(t *testing.T) {
	t.Parallel()

	blocks := []model.Block{
		blk("a", "", 0),
		blk("a1", "a", 0),
		blk("a1x", "a1", 0),
		blk("a2", "a", 1),
		blk("b", "", 1),
	}
	got := Descendants(blocks, "a")
	pos := map[string]int{}
	for i, b := range got {
		pos[b.ID] = i
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 descendants, got %d", len(got))
	}
	if pos["a1"] > pos["a1x"] {
		t.Fatalf("parent must precede child: %v", pos)
	}
	if _, ok := pos["b"]; ok {
		t.Fatalf("unrelated block included")
	}
	if !DescendantIDs(blocks, "a")["a1x"] {
		t.Fatalf("expected a1x in descendant set")
	}
}

func TestSiblingsAndNextOrder(t *testing.T) {
	t.Parallel()

	other := blk("o", "", 9)
	other.AppID = "app-2"
	blocks := []model.Block{blk("b", "", 1), blk("a", "", 0), other, blk("c", "a", 0)}

	sibs := Siblings(blocks, "app-1", nil)
	if len(sibs) != 2 || sibs[0].ID != "a" || sibs[1].ID != "b" {
		t.Fatalf("siblings: %+v", sibs)
	}
	if got := NextOrder(blocks, "app-1", nil); got != 2 {
		t.Fatalf("NextOrder dense: %d", got)
	}
	sparse := []model.Block{blk("x", "", 7)}
	if got := NextOrder(sparse, "app-1", nil); got != 8 {
		t.Fatalf("NextOrder sparse: %d", got)
	}
	if got := NextOrder(blocks, "app-1", model.StrPtr("zzz")); got != 0 {
		t.Fatalf("NextOrder empty: %d", got)
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	login := blk("login", "", 0)
	login.Description = "Single sign-on"
	rule := blk("rule", "login", 0)
	rule.Type = model.TypeRule
	rule.Status = model.StatusDone
	blocks := []model.Block{login, rule}

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"zero", Filter{}, []string{"login", "rule"}},
		{"search description", Filter{Search: "SIGN-ON"}, []string{"login"}},
		{"status", Filter{Status: model.StatusDone}, []string{"rule"}},
		{"type", Filter{Type: model.TypeFeature}, []string{"login"}},
		{"no match", Filter{Search: "nope"}, []string{}},
	}
	for _, tc := range tests {
		got := []string{}
		for _, b := range tc.f.Apply(blocks) {
			got = append(got, b.ID)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestFilter_EmptyInputIsNonNil(t *testing.T) {
	t.Parallel()

	for _, f := range []Filter{{}, {Search: "x"}} {
		got := f.Apply(nil)
		if got == nil || len(got) != 0 {
			t.Fatalf("Apply(nil) with %+v: got %#v, want empty non-nil slice", f, got)
		}
	}
}
