package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"app-planner/internal/kv"
	"app-planner/internal/model"
	"app-planner/internal/store"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PLANNER_DIR", "PLANNER_BACKEND", "PLANNER_IMPORT_MODE", "PLANNER_HARD_DELETE",
		"PLANNER_LOG_LEVEL", "PLANNER_LOG_FILE", "PLANNER_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(Overrides{DataDir: dir})
	require.NoError(t, err)
	require.Equal(t, dir, cfg.DataDir)
	require.Equal(t, BackendSQLite, cfg.Backend)
	require.Equal(t, string(store.ImportPermissive), cfg.ImportMode)
	require.Equal(t, string(store.HardDeleteOrphan), cfg.HardDelete)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
	require.Equal(t, "json", cfg.Format)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `
backend = "file"
import_mode = "strict"
hard_delete = "cascade"
format = "yml"
log_level = "info"
`)

	cfg, err := Load(Overrides{DataDir: dir})
	require.NoError(t, err)
	require.Equal(t, BackendFile, cfg.Backend)
	require.Equal(t, "strict", cfg.ImportMode)
	require.Equal(t, "cascade", cfg.HardDelete)
	require.Equal(t, "yaml", cfg.Format)
	require.Equal(t, "info", cfg.LogLevel)

	t.Setenv("PLANNER_HARD_DELETE", "reparent")
	t.Setenv("PLANNER_BACKEND", "memory")
	cfg, err = Load(Overrides{DataDir: dir})
	require.NoError(t, err)
	require.Equal(t, "reparent", cfg.HardDelete)
	require.Equal(t, BackendMemory, cfg.Backend)

	cfg, err = Load(Overrides{DataDir: dir, HardDelete: "forbid", Backend: "sqlite"})
	require.NoError(t, err)
	require.Equal(t, "forbid", cfg.HardDelete)
	require.Equal(t, BackendSQLite, cfg.Backend)
}

func TestLoad_DirFromEnvLocatesConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, `import_mode = "strict"`)
	t.Setenv("PLANNER_DIR", dir)

	cfg, err := Load(Overrides{})
	require.NoError(t, err)
	require.Equal(t, dir, cfg.DataDir)
	require.Equal(t, "strict", cfg.ImportMode)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(Overrides{DataDir: dir, ConfigPath: filepath.Join(dir, "missing.toml")})
	require.ErrorIs(t, err, os.ErrNotExist)

	writeConfig(t, dir, `colour = "blue"`)
	_, err = Load(Overrides{DataDir: dir})
	require.ErrorContains(t, err, "unknown keys: colour")

	writeConfig(t, dir, `backend = "postgres"`)
	_, err = Load(Overrides{DataDir: dir})
	require.ErrorContains(t, err, "invalid backend")

	writeConfig(t, dir, `hard_delete = "shred"`)
	_, err = Load(Overrides{DataDir: dir})
	require.ErrorContains(t, err, "hard delete policy")

	writeConfig(t, dir, `format = "edn"`)
	_, err = Load(Overrides{DataDir: dir})
	require.ErrorContains(t, err, "invalid format")
}

func TestOpenKV_Backends(t *testing.T) {
	clearEnv(t)
	ctx := context.Background()

	for _, backend := range []string{BackendMemory, BackendFile, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := Defaults()
			cfg.DataDir = t.TempDir()
			cfg.Backend = backend

			s, closer, err := OpenKV(ctx, cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })

			require.NoError(t, s.Set("probe", []byte(`"ok"`)))
			got, ok, err := s.Get("probe")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, `"ok"`, string(got))

			switch backend {
			case BackendFile:
				require.FileExists(t, filepath.Join(cfg.DataDir, "kv", "probe.json"))
			case BackendSQLite:
				require.FileExists(t, filepath.Join(cfg.DataDir, sqliteFile))
			case BackendMemory:
				_, isMem := s.(*kv.Memory)
				require.True(t, isMem)
			}
		})
	}
}

func TestOpenRepository_UsesPolicies(t *testing.T) {
	clearEnv(t)
	cfg := Defaults()
	cfg.DataDir = t.TempDir()
	cfg.Backend = BackendFile
	cfg.ImportMode = "strict"
	cfg.HardDelete = "forbid"

	repo, closer, err := OpenRepository(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closer.Close()

	require.Equal(t, store.ImportStrict, repo.ImportMode())
	require.Equal(t, store.HardDeleteForbid, repo.HardDeletePolicy())

	app, err := repo.CreateApp(model.App{Name: "Planner"})
	require.NoError(t, err)

	// A second repository over the same dir sees the write.
	again, closer2, err := OpenRepository(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closer2.Close()
	got, ok := again.App(app.ID)
	require.True(t, ok)
	require.Equal(t, "Planner", got.Name)
}
