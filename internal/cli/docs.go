package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"app-planner/internal/docs"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				topics := docs.Topics()
				hints := make([]string, 0, len(topics))
				for _, tp := range topics {
					hints = append(hints, "planner docs "+tp.Name)
				}
				return writeOut(cmd, app, map[string]any{
					"data":   map[string]any{"topics": topics},
					"meta":   map[string]any{"count": len(topics)},
					"_hints": hints,
				})
			}

			body, ok := docs.Get(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `planner docs` to list topics)", args[0]))
			}
			if raw {
				_, err := io.WriteString(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"topic": strings.ToLower(strings.TrimSpace(args[0])), "markdown": body},
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	return cmd
}
