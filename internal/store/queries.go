package store

import (
	"app-planner/internal/progress"
	"app-planner/internal/tree"
)

// Tree builds appID's outline under parentID (nil = whole app) after applying f.
func (r *Repository) Tree(appID string, parentID *string, f tree.Filter) []*tree.Node {
	r.mu.Lock()
	blocks := blocksOfApp(r.loadBlocks(), appID)
	r.mu.Unlock()
	return tree.Build(f.Apply(blocks), parentID)
}

// CalculateProgress aggregates appID's blocks, or the subtree under parentID.
func (r *Repository) CalculateProgress(appID string, parentID *string) progress.Stats {
	r.mu.Lock()
	blocks := r.loadBlocks()
	r.mu.Unlock()
	return progress.Calculate(blocks, appID, parentID)
}

// AppSummary pairs an app with its progress, for dashboards.
type AppSummary struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Blocks   int            `json:"blocks" yaml:"blocks"`
	Progress progress.Stats `json:"progress" yaml:"progress"`
}

func (r *Repository) Summaries() []AppSummary {
	r.mu.Lock()
	apps := r.loadApps()
	blocks := r.loadBlocks()
	r.mu.Unlock()

	out := make([]AppSummary, 0, len(apps))
	for _, a := range apps {
		out = append(out, AppSummary{
			ID:       a.ID,
			Name:     a.Name,
			Blocks:   len(blocksOfApp(blocks, a.ID)),
			Progress: progress.Calculate(blocks, a.ID, nil),
		})
	}
	return out
}
