package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"app-planner/internal/integrity"
)

var errDoctorIssuesFound = errors.New("doctor found errors")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check stored apps and blocks for dangling references, cycles and bad values",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, done, err := openRepo(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			snap := repo.ExportSnapshot()
			report := integrity.Check(snap.Apps, snap.Blocks, snap.Collapsed)

			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
				"summary":   report.Summary(),
			}
			hints := []string{
				"planner blocks purge <block-id>",
				"planner export --out backup.json",
			}

			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}

			if fail && report.HasErrors() {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
