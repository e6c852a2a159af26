package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"app-planner/internal/model"
	"app-planner/internal/store"
)

func newAppsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "App commands",
	}
	cmd.AddCommand(newAppsListCmd(app))
	cmd.AddCommand(newAppsShowCmd(app))
	cmd.AddCommand(newAppsCreateCmd(app))
	cmd.AddCommand(newAppsUpdateCmd(app))
	cmd.AddCommand(newAppsDeleteCmd(app))
	return cmd
}

func newAppsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List apps with their progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			return writeOut(cmd, app, map[string]any{"data": repo.Summaries()})
		},
	}
}

func newAppsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <app-id>",
		Short: "Show an app",
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
			return writeOut(cmd, app, map[string]any{
				"data": a,
				"meta": map[string]any{
					"blocks":   len(repo.BlocksByApp(a.ID)),
					"progress": repo.CalculateProgress(a.ID, nil),
				},
				"_hints": []string{
					"planner tree " + a.ID,
					"planner blocks add --app " + a.ID + " --type feature --title <title>",
				},
			})
		},
	}
}

func newAppsCreateCmd(app *App) *cobra.Command {
	var id string
	var name string
	var description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an app",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			a, err := repo.CreateApp(model.App{ID: id, Name: name, Description: description})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "App id (default: generated)")
	cmd.Flags().StringVar(&name, "name", "", "App name")
	cmd.Flags().StringVar(&description, "description", "", "App description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAppsUpdateCmd(app *App) *cobra.Command {
	var name string
	var description string

	cmd := &cobra.Command{
		Use:   "update <app-id>",
		Short: "Update an app's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch store.AppPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if patch.Name == nil && patch.Description == nil {
				return writeErr(cmd, errors.New("nothing to update; pass --name and/or --description"))
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			a, err := repo.UpdateApp(args[0], patch)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": a})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func newAppsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <app-id>",
		Short: "Delete an app and all of its blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			removed := len(repo.BlocksByApp(args[0]))
			if err := repo.DeleteApp(args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"id": args[0], "deleted": true},
				"meta": map[string]any{"blocksRemoved": removed},
			})
		},
	}
}
