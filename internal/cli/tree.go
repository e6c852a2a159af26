package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"app-planner/internal/store"
	"app-planner/internal/tree"
)

func newTreeCmd(app *App) *cobra.Command {
	var parent string
	var visible bool
	var fa filterArgs

	cmd := &cobra.Command{
		Use:   "tree <app-id>",
		Short: "Show an app's blocks as a nested outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fa.build()
			if err != nil {
				return writeErr(cmd, err)
			}
			var parentID *string
			if p := strings.TrimSpace(parent); p != "" {
				parentID = &p
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			appID := args[0]
			if _, ok := repo.App(appID); !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "app", ID: appID})
			}
			nodes := repo.Tree(appID, parentID, f)
			if visible {
				pruneCollapsed(nodes, repo.CollapsedState())
			}
			return writeOut(cmd, app, map[string]any{
				"data": nodes,
				"meta": map[string]any{
					"nodes":    tree.Count(nodes),
					"progress": repo.CalculateProgress(appID, parentID),
				},
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Only the subtree under this block")
	cmd.Flags().BoolVar(&visible, "visible", false, "Hide children of collapsed blocks")
	filterFlags(cmd, &fa)
	return cmd
}

// pruneCollapsed drops the children of collapsed nodes, which is what the outline shows.
func pruneCollapsed(nodes []*tree.Node, collapsed map[string]bool) {
	tree.Walk(nodes, func(n *tree.Node, _ int) {
		if collapsed[n.ID] {
			n.Children = []*tree.Node{}
		}
	})
}

func newProgressCmd(app *App) *cobra.Command {
	var block string

	cmd := &cobra.Command{
		Use:   "progress <app-id>",
		Short: "Completion for an app, or for the subtree under --block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var parentID *string
			if b := strings.TrimSpace(block); b != "" {
				parentID = &b
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			appID := args[0]
			if _, ok := repo.App(appID); !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "app", ID: appID})
			}
			if parentID != nil {
				if _, ok := repo.Block(*parentID); !ok {
					return writeErr(cmd, store.NotFoundError{Kind: "block", ID: *parentID})
				}
			}
			return writeOut(cmd, app, map[string]any{"data": repo.CalculateProgress(appID, parentID)})
		},
	}

	cmd.Flags().StringVar(&block, "block", "", "Limit to the descendants of this block")
	return cmd
}
