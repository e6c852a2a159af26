package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every app, block, collapsed state and setting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to clear all data without --yes"))
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			if err := repo.ClearAll(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"cleared": true}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm")
	return cmd
}
