package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"app-planner/internal/model"
	"app-planner/internal/progress"
	"app-planner/internal/tree"
)

type RenderOptions struct {
	IncludeDeprecated bool
	IncludeNotes      bool
}

// RenderAppMarkdown renders an app's outline as a Markdown planning document:
// a header with progress, then one section per root block with its subtree as
// nested bullets.
func RenderAppMarkdown(app model.App, blocks []model.Block, opt RenderOptions) string {
	var own []model.Block
	for _, b := range blocks {
		if b.AppID == app.ID {
			own = append(own, b)
		}
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + strings.TrimSpace(app.Name))
	writeLn("")
	if desc := strings.TrimSpace(app.Description); desc != "" {
		writeLn(desc)
		writeLn("")
	}

	stats := progress.Calculate(blocks, app.ID, nil)
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + app.ID)
	writeLn(fmt.Sprintf("- Progress: %d%% (%d/%d done)", stats.Percentage, stats.Done, stats.Total))
	writeLn("- Created: " + app.CreatedAt.UTC().Format(time.RFC3339))
	writeLn("- Updated: " + app.UpdatedAt.UTC().Format(time.RFC3339))

	for _, root := range tree.Build(own, nil) {
		bullets := bulletLines(root.Children, 0, opt)
		hidden := root.Deprecated() && !opt.IncludeDeprecated
		if hidden && len(bullets) == 0 {
			continue
		}

		writeLn("")
		if hidden {
			writeLn("## ~~" + heading(root.Block) + "~~")
		} else {
			writeLn("## " + heading(root.Block))
		}
		writeLn("")
		writeLn(meta(root.Block))
		if desc := strings.TrimSpace(root.Description); desc != "" && !hidden {
			writeLn("")
			writeLn(desc)
		}
		if opt.IncludeNotes && !hidden && strings.TrimSpace(root.Notes) != "" {
			writeLn("")
			writeLn("> " + strings.ReplaceAll(strings.TrimSpace(root.Notes), "\n", "\n> "))
		}
		if len(bullets) > 0 {
			writeLn("")
			for _, l := range bullets {
				writeLn(l)
			}
		}
	}

	return buf.String()
}

// bulletLines renders nodes as nested checklist items. A deprecated block that is
// not included drops its own line; its children take its place.
func bulletLines(nodes []*tree.Node, depth int, opt RenderOptions) []string {
	var out []string
	for _, n := range nodes {
		if n.Deprecated() && !opt.IncludeDeprecated {
			out = append(out, bulletLines(n.Children, depth, opt)...)
			continue
		}
		out = append(out, bullet(n.Block, depth, opt))
		out = append(out, bulletLines(n.Children, depth+1, opt)...)
	}
	return out
}

func heading(b model.Block) string {
	title := strings.TrimSpace(b.Title)
	if title == "" {
		title = "Untitled"
	}
	return title + " (" + b.Type.Label() + ")"
}

func meta(b model.Block) string {
	parts := []string{"Status: " + b.Status.Label()}
	if b.Priority != nil {
		parts = append(parts, "Priority: "+b.Priority.Label())
	}
	return "_" + strings.Join(parts, " · ") + "_"
}

func bullet(b model.Block, depth int, opt RenderOptions) string {
	box := "[ ]"
	if b.Status == model.StatusDone {
		box = "[x]"
	}
	line := strings.Repeat("  ", depth) + "- " + box + " **" + b.Type.Label() + ":** " + strings.TrimSpace(b.Title)
	if b.Status != model.StatusDone && b.Status != model.StatusNotStarted {
		line += " _(" + b.Status.Label() + ")_"
	}
	if b.Priority != nil {
		line += " `" + string(*b.Priority) + "`"
	}
	if desc := strings.TrimSpace(b.Description); desc != "" {
		line += ": " + strings.ReplaceAll(desc, "\n", " ")
	}
	if opt.IncludeNotes && strings.TrimSpace(b.Notes) != "" {
		line += " (notes: " + strings.ReplaceAll(strings.TrimSpace(b.Notes), "\n", " ") + ")"
	}
	return line
}
