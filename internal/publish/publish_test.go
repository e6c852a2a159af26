package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"app-planner/internal/model"
)

func fixture() (model.App, []model.Block) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	must := model.PriorityMust
	app := model.App{ID: "app-1", Name: "Planner", Description: "Plan apps as trees.", CreatedAt: now, UpdatedAt: now}
	blocks := []model.Block{
		{ID: "login", AppID: "app-1", Type: model.TypeFeature, Title: "Login", Status: model.StatusInProgress, Priority: &must, Notes: "ask security", CreatedAt: now},
		{ID: "sso", AppID: "app-1", ParentID: model.StrPtr("login"), Type: model.TypeRule, Title: "Must use SSO", Status: model.StatusDone, CreatedAt: now},
		{ID: "old", AppID: "app-1", ParentID: model.StrPtr("login"), Type: model.TypeRule, Title: "Passwords", Status: model.StatusDeprecated, Order: 1, CreatedAt: now},
		{ID: "other", AppID: "app-2", Type: model.TypeNote, Title: "Elsewhere", Status: model.StatusNotStarted, CreatedAt: now},
	}
	return app, blocks
}

func TestRenderAppMarkdown(t *testing.T) {
	t.Parallel()
	app, blocks := fixture()

	md := RenderAppMarkdown(app, blocks, RenderOptions{})
	for _, want := range []string{
		"# Planner",
		"Plan apps as trees.",
		"- Progress: 50% (1/2 done)",
		"## Login (Feature)",
		"_Status: In Progress · Priority: Must Have_",
		"- [x] **Rule:** Must use SSO",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	for _, unwanted := range []string{"Passwords", "Elsewhere", "ask security"} {
		if strings.Contains(md, unwanted) {
			t.Fatalf("did not expect %q in:\n%s", unwanted, md)
		}
	}

	md = RenderAppMarkdown(app, blocks, RenderOptions{IncludeDeprecated: true, IncludeNotes: true})
	if !strings.Contains(md, "Passwords _(Deprecated)_") || !strings.Contains(md, "> ask security") {
		t.Fatalf("expected deprecated block and notes, got:\n%s", md)
	}
}

func TestRenderAppMarkdown_DeprecatedParentKeepsActiveChildren(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	app := model.App{ID: "app-1", Name: "Planner", CreatedAt: now, UpdatedAt: now}
	blocks := []model.Block{
		{ID: "old", AppID: "app-1", Type: model.TypeFeature, Title: "Old login", Status: model.StatusDeprecated},
		{ID: "sso", AppID: "app-1", ParentID: model.StrPtr("old"), Type: model.TypeRule, Title: "Must use SSO", Status: model.StatusInProgress},
		{ID: "flow", AppID: "app-1", Type: model.TypeUserFlow, Title: "Signup", Status: model.StatusNotStarted},
		{ID: "gone", AppID: "app-1", ParentID: model.StrPtr("flow"), Type: model.TypeFlowStep, Title: "Captcha", Status: model.StatusDeprecated},
		{ID: "step", AppID: "app-1", ParentID: model.StrPtr("gone"), Type: model.TypeFlowStep, Title: "Verify email", Status: model.StatusDone},
	}

	md := RenderAppMarkdown(app, blocks, RenderOptions{})
	for _, want := range []string{
		"- Progress: 33% (1/3 done)",
		"## ~~Old login (Feature)~~",
		"- [ ] **Rule:** Must use SSO _(In Progress)_",
		"## Signup (User Flow)",
		"\n- [x] **Flow Step:** Verify email",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Captcha") {
		t.Fatalf("deprecated block line should be hidden:\n%s", md)
	}

	md = RenderAppMarkdown(app, blocks, RenderOptions{IncludeDeprecated: true})
	for _, want := range []string{"## Old login (Feature)", "- [ ] **Flow Step:** Captcha _(Deprecated)_", "  - [x] **Flow Step:** Verify email"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
}

func TestWriteApp(t *testing.T) {
	t.Parallel()
	app, blocks := fixture()
	dir := t.TempDir()

	res, err := WriteApp(app, blocks, dir, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteApp: %v", err)
	}
	want := filepath.Join(dir, "apps", "app-1.md")
	if len(res.Written) != 1 || res.Written[0] != want {
		t.Fatalf("unexpected result: %+v", res)
	}
	b, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "# Planner\n") {
		t.Fatalf("unexpected content:\n%s", b)
	}

	if _, err := WriteApp(app, blocks, dir, WriteOptions{}); err == nil {
		t.Fatalf("expected error without overwrite")
	}
	if _, err := WriteApp(app, blocks, dir, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := WriteApp(app, blocks, "", WriteOptions{}); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
