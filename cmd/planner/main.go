package main

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"app-planner/internal/cli"
)

func isEntityID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil
}

// rewriteDirectLookupArgs turns `planner <id>` into `planner show <id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
// parsing. Persistent flags may come first (`planner --dir ... <id>`), so the first
// positional token is located by skipping known value flags.
func rewriteDirectLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":         true,
		"--backend":     true,
		"--config":      true,
		"--format":      true,
		"--import-mode": true,
		"--hard-delete": true,
		"--log-level":   true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		if isEntityID(a) {
			out := make([]string, 0, len(argv)+1)
			out = append(out, argv[:i]...)
			out = append(out, "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
