package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"app-planner/internal/config"
	"app-planner/internal/format"
	"app-planner/internal/logging"
	"app-planner/internal/store"
)

type App struct {
	Dir        string
	Backend    string
	ConfigPath string
	ImportMode string
	HardDelete string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "planner",
		Short:        "App planner: outline apps as block trees and track progress",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create an app and add a feature
  planner apps create --name Planner
  planner blocks add --app <app-id> --type feature --title Login

  # Show the outline and progress
  planner tree <app-id>
  planner progress <app-id>

  # Direct lookup (shortcut for: planner show <id>)
  planner 3f2c9a4e-0d1b-4a8e-9c43-5b2e7f1d6a90
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.Overrides{
			ConfigPath: app.ConfigPath,
			DataDir:    app.Dir,
			Backend:    app.Backend,
			ImportMode: app.ImportMode,
			HardDelete: app.HardDelete,
			LogLevel:   app.LogLevel,
			Format:     app.Format,
		})
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		app.Format = cfg.Format
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data directory (env PLANNER_DIR; default ~/.app-planner)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend: sqlite|file|memory (env PLANNER_BACKEND)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default <dir>/planner.toml)")
	cmd.PersistentFlags().StringVar(&app.ImportMode, "import-mode", "", "Import mode: permissive|strict (env PLANNER_IMPORT_MODE)")
	cmd.PersistentFlags().StringVar(&app.HardDelete, "hard-delete", "", "Purge policy: orphan|forbid|cascade|reparent (env PLANNER_HARD_DELETE)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level: debug|info|warn|error|off (env PLANNER_LOG_LEVEL)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format: json|yaml (env PLANNER_FORMAT)")

	cmd.AddCommand(newAppsCmd(app))
	cmd.AddCommand(newBlocksCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newProgressCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newEnumsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// openRepo opens the configured store. The returned func releases the backend
// and the log file; call it when the command is done.
func openRepo(cmd *cobra.Command, app *App) (*store.Repository, func(), error) {
	lb := logging.New().Level(app.cfg.LogLevel)
	if app.cfg.LogFile != "" {
		lb = lb.FromPath(app.cfg.LogFile)
	} else {
		lb = lb.FromWriter(cmd.ErrOrStderr()).Console(true)
	}
	l, err := lb.Make()
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	repo, closer, err := config.OpenRepository(ctx, app.cfg, l.Logger)
	if err != nil {
		_ = l.Close()
		return nil, nil, err
	}
	return repo, func() {
		_ = closer.Close()
		_ = l.Close()
	}, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
