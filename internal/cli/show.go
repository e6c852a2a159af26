package cli

import (
	"github.com/spf13/cobra"

	"app-planner/internal/store"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an app or a block by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			id := args[0]
			if a, ok := repo.App(id); ok {
				return writeOut(cmd, app, map[string]any{
					"data": a,
					"meta": map[string]any{
						"kind":     "app",
						"progress": repo.CalculateProgress(a.ID, nil),
					},
				})
			}
			if _, ok := repo.Block(id); ok {
				return showBlock(cmd, app, repo, id)
			}
			return writeErr(cmd, store.NotFoundError{Kind: "app or block", ID: id})
		},
	}
}
