package cli

import (
	"github.com/spf13/cobra"

	"app-planner/internal/model"
)

type enumValue struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func newEnumsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "enums",
		Short: "List block types, statuses and priorities",
		RunE: func(cmd *cobra.Command, args []string) error {
			var types, statuses, priorities []enumValue
			for _, t := range model.BlockTypes() {
				types = append(types, enumValue{ID: string(t), Label: t.Label()})
			}
			for _, s := range model.BlockStatuses() {
				statuses = append(statuses, enumValue{ID: string(s), Label: s.Label()})
			}
			for _, p := range model.BlockPriorities() {
				priorities = append(priorities, enumValue{ID: string(p), Label: p.Label()})
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"types":      types,
				"statuses":   statuses,
				"priorities": priorities,
			}})
		},
	}
}
