package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"app-planner/internal/model"
)

type WriteOptions struct {
	IncludeDeprecated bool
	IncludeNotes      bool
	Overwrite         bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteApp renders app to <toDir>/apps/<app-id>.md.
func WriteApp(app model.App, blocks []model.Block, toDir string, opt WriteOptions) (WriteResult, error) {
	if strings.TrimSpace(app.ID) == "" {
		return WriteResult{}, errors.New("missing app id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md := RenderAppMarkdown(app, blocks, RenderOptions{
		IncludeDeprecated: opt.IncludeDeprecated,
		IncludeNotes:      opt.IncludeNotes,
	})

	outDir := filepath.Join(toDir, "apps")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, app.ID+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
