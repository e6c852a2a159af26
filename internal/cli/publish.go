package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"app-planner/internal/publish"
	"app-planner/internal/store"
)

func newPublishCmd(app *App) *cobra.Command {
	var to string
	var overwrite bool
	var includeDeprecated bool
	var includeNotes bool

	cmd := &cobra.Command{
		Use:   "publish <app-id>",
		Short: "Render an app's outline as Markdown (stdout, or --to <dir>)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			a, ok := repo.App(args[0])
			if !ok {
				return writeErr(cmd, store.NotFoundError{Kind: "app", ID: args[0]})
			}
			blocks := repo.BlocksByApp(a.ID)

			if strings.TrimSpace(to) == "" {
				md := publish.RenderAppMarkdown(a, blocks, publish.RenderOptions{
					IncludeDeprecated: includeDeprecated,
					IncludeNotes:      includeNotes,
				})
				_, err := cmd.OutOrStdout().Write([]byte(md))
				return err
			}

			res, err := publish.WriteApp(a, blocks, to, publish.WriteOptions{
				IncludeDeprecated: includeDeprecated,
				IncludeNotes:      includeNotes,
				Overwrite:         overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Write <dir>/apps/<app-id>.md instead of printing")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	cmd.Flags().BoolVar(&includeDeprecated, "include-deprecated", false, "Include deprecated blocks")
	cmd.Flags().BoolVar(&includeNotes, "include-notes", false, "Include block notes")
	return cmd
}
