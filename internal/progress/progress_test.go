package progress

import (
	"testing"

	"app-planner/internal/model"
)

func b(id, parent string, st model.BlockStatus) model.Block {
	out := model.Block{ID: id, AppID: "app-1", Status: st, Type: model.TypeFeature}
	if parent != "" {
		out.ParentID = model.StrPtr(parent)
	}
	return out
}

func TestCalculate_ExcludesDeprecated(t *testing.T) {
	t.Parallel()

	blocks := []model.Block{
		b("a", "", model.StatusDone),
		b("b", "", model.StatusDone),
		b("c", "", model.StatusDeprecated),
	}
	got := Calculate(blocks, "app-1", nil)
	if got.Total != 2 || got.Done != 2 || got.Percentage != 100 {
		t.Fatalf("unexpected stats: %+v", got)
	}
	if got.ByStatus[model.StatusDeprecated] != 1 {
		t.Fatalf("expected deprecated to be counted in ByStatus: %+v", got.ByStatus)
	}
}

func TestCalculate_Empty(t *testing.T) {
	t.Parallel()

	got := Calculate(nil, "app-1", nil)
	if got.Total != 0 || got.Done != 0 || got.Percentage != 0 {
		t.Fatalf("unexpected stats: %+v", got)
	}

	onlyDeprecated := []model.Block{b("x", "", model.StatusDeprecated)}
	got = Calculate(onlyDeprecated, "app-1", nil)
	if got.Total != 0 || got.Percentage != 0 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestCalculate_SubtreeAndAppScope(t *testing.T) {
	t.Parallel()

	other := b("o", "", model.StatusDone)
	other.AppID = "app-2"
	blocks := []model.Block{
		b("login", "", model.StatusInProgress),
		b("sso", "login", model.StatusDone),
		b("mfa", "login", model.StatusNotStarted),
		b("mfa-sms", "mfa", model.StatusDone),
		b("billing", "", model.StatusDone),
		other,
	}

	whole := Calculate(blocks, "app-1", nil)
	if whole.Total != 5 || whole.Done != 3 || whole.Percentage != 60 {
		t.Fatalf("whole app: %+v", whole)
	}

	// The subtree excludes the parent itself.
	sub := Calculate(blocks, "app-1", model.StrPtr("login"))
	if sub.Total != 3 || sub.Done != 2 || sub.Percentage != 67 {
		t.Fatalf("subtree: %+v", sub)
	}
}

func TestPercent_RoundsHalfUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		done, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},  // 12.5
		{3, 8, 38},  // 37.5
		{1, 200, 1}, // 0.5
		{1, 201, 0},
		{7, 7, 100},
	}
	for _, tc := range tests {
		if got := Percent(tc.done, tc.total); got != tc.want {
			t.Fatalf("Percent(%d, %d) = %d, want %d", tc.done, tc.total, got, tc.want)
		}
	}
}
