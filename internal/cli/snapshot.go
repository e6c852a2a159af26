package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"app-planner/internal/backup"
	"app-planner/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a full snapshot (apps, blocks, collapsed state)",
		Long: strings.TrimSpace(`
Write a full snapshot. Without --out the snapshot document itself is written to
stdout in --format (json|yaml). With --out it is written to that file, in the
format its extension implies, and a summary is printed.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			snap := repo.ExportSnapshot()
			if strings.TrimSpace(out) == "" {
				f, err := backup.ParseFormat(app.Format)
				if err != nil {
					return writeErr(cmd, err)
				}
				return backup.Encode(cmd.OutOrStdout(), snap, f, app.PrettyJSON)
			}

			if err := backup.WriteFile(out, snap, "", true); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"exportedTo": out,
					"format":     backup.FormatFromPath(out),
					"apps":       len(snap.Apps),
					"blocks":     len(snap.Blocks),
					"collapsed":  len(snap.Collapsed),
					"exportedAt": snap.ExportedAt,
				},
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write to this file (.json, .yaml or .yml)")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var strict bool
	var permissive bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the collections present in a snapshot file (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strict && permissive {
				return writeErr(cmd, errors.New("provide at most one of --strict or --permissive"))
			}

			var snap store.Snapshot
			var err error
			if args[0] == "-" {
				f, ferr := backup.ParseFormat(app.Format)
				if ferr != nil {
					return writeErr(cmd, ferr)
				}
				snap, err = backup.Decode(cmd.InOrStdin(), f)
			} else {
				snap, err = backup.ReadFile(args[0], "")
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			mode := repo.ImportMode()
			switch {
			case strict:
				mode = store.ImportStrict
			case permissive:
				mode = store.ImportPermissive
			}
			res, err := repo.ImportSnapshotWith(snap, mode)
			if err != nil {
				var ie store.IntegrityError
				if errors.As(err, &ie) {
					_ = writeOut(cmd, app, map[string]any{
						"data":   ie.Report,
						"meta":   map[string]any{"rejected": true, "mode": mode},
						"_hints": []string{"planner import --permissive " + args[0]},
					})
				}
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Reject snapshots with dangling references")
	cmd.Flags().BoolVar(&permissive, "permissive", false, "Accept the snapshot as given")
	return cmd
}
